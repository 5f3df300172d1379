// Package services holds the draft service business logic: loading a
// listing with its open draft, merging saved changes into the draft and
// publishing it onto the listing.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/common"
	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/cryptox"
	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/listing"
	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/logging"
	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/server/models"
	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/server/repositories/repomanager"
)

// seams for tests
var (
	now   = time.Now
	newID = uuid.NewString
)

// Exporter receives every listing right after it was published.
type Exporter interface {
	Export(ctx context.Context, l *models.Listing) error
}

type DraftService struct {
	repomanager repomanager.RepositoryManager
	schema      listing.Schema
	exporter    Exporter
	logger      logging.Logger
}

// NewDraftService builds the service. exporter may be nil.
func NewDraftService(rm repomanager.RepositoryManager, schema listing.Schema, exporter Exporter, logger logging.Logger) *DraftService {
	return &DraftService{
		repomanager: rm,
		schema:      schema,
		exporter:    exporter,
		logger:      logger.With("module", "draft_service"),
	}
}

// Load returns the published listing of entityID and its open draft. An
// entity that was never published yields an empty listing; a missing
// draft yields nil.
func (s *DraftService) Load(ctx context.Context, partnerID, entityID string) (*models.Listing, *models.Draft, error) {
	if entityID == "" {
		return nil, nil, fmt.Errorf("%w: empty entity id", common.ErrorInvalidRequest)
	}
	repos := s.repomanager.Repositories()

	l, err := s.ownedListing(ctx, repos, partnerID, entityID)
	if err != nil {
		return nil, nil, err
	}

	d, err := repos.Drafts.FindOpen(ctx, entityID)
	switch {
	case errors.Is(err, common.ErrorNotFound):
		return l, nil, nil
	case err != nil:
		return nil, nil, err
	case d.PartnerID != partnerID:
		return nil, nil, common.ErrorForbidden
	}
	return l, d, nil
}

// Save merges changes into the draft draftID, or into the entity's open
// draft (created on demand) when draftID is empty. Saving to a draft that
// was already published or rejected continues in a fresh open draft.
func (s *DraftService) Save(ctx context.Context, partnerID, entityID, draftID string, changes listing.Fields) (*models.Draft, error) {
	if entityID == "" {
		return nil, fmt.Errorf("%w: empty entity id", common.ErrorInvalidRequest)
	}
	if err := s.schema.CheckAll(changes, true); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInvalidRequest, err)
	}

	var saved *models.Draft
	err := s.repomanager.WithTx(ctx, func(ctx context.Context, r repomanager.Repositories) error {
		if _, err := s.ownedListing(ctx, r, partnerID, entityID); err != nil {
			return err
		}

		d, created, err := s.draftForSave(ctx, r, partnerID, entityID, draftID)
		if err != nil {
			return err
		}

		for k, v := range changes {
			// a cleared field means "no change against the listing"
			if v.IsUnset() {
				delete(d.Fields, k)
				continue
			}
			d.Fields[k] = v.Clone()
		}
		d.UpdatedAt = now()

		if created {
			err = r.Drafts.Create(ctx, d)
		} else {
			err = r.Drafts.Update(ctx, d)
		}
		if err != nil {
			return err
		}
		saved = d
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug(ctx, "draft saved", "entity_id", entityID, "draft_id", saved.ID, "fields", len(changes))
	return saved, nil
}

// draftForSave resolves the draft a save applies to. created reports
// whether the returned draft still has to be inserted.
func (s *DraftService) draftForSave(ctx context.Context, r repomanager.Repositories, partnerID, entityID, draftID string) (d *models.Draft, created bool, err error) {
	if draftID != "" {
		d, err = s.lockDraft(ctx, r, partnerID, entityID, draftID)
		if err != nil {
			return nil, false, err
		}
		if d.Status == models.DraftStatusDraft {
			return d, false, nil
		}
	}

	open, err := r.Drafts.FindOpen(ctx, entityID)
	switch {
	case err == nil:
		if open.PartnerID != partnerID {
			return nil, false, common.ErrorForbidden
		}
		return open, false, nil
	case !errors.Is(err, common.ErrorNotFound):
		return nil, false, err
	}

	if d != nil {
		s.reopen(d)
		return d, false, nil
	}

	at := now()
	return &models.Draft{
		ID:        newID(),
		EntityID:  entityID,
		PartnerID: partnerID,
		Status:    models.DraftStatusDraft,
		Fields:    listing.Fields{},
		CreatedAt: at,
		UpdatedAt: at,
	}, true, nil
}

func (s *DraftService) reopen(d *models.Draft) {
	d.Status = models.DraftStatusDraft
	d.Fields = listing.Fields{}
	d.ReviewedAt = nil
	d.PublishedAt = nil
	d.PublishedHash = ""
}

// Publish applies the draft onto the entity's listing and marks the draft
// published. The first publish of an entity makes the caller its owner.
func (s *DraftService) Publish(ctx context.Context, partnerID, entityID, draftID string) (*models.Listing, error) {
	if entityID == "" || draftID == "" {
		return nil, fmt.Errorf("%w: entity id and draft id are required", common.ErrorInvalidRequest)
	}

	var published *models.Listing
	err := s.repomanager.WithTx(ctx, func(ctx context.Context, r repomanager.Repositories) error {
		d, err := s.lockDraft(ctx, r, partnerID, entityID, draftID)
		if err != nil {
			return err
		}
		switch d.Status {
		case models.DraftStatusPublished:
			return common.ErrAlreadyPublished
		case models.DraftStatusRejected:
			return common.ErrDraftRejected
		}

		l, err := s.ownedListing(ctx, r, partnerID, entityID)
		if err != nil {
			return err
		}
		if l.PartnerID == "" {
			l.PartnerID = partnerID
		}
		l.Fields.Apply(d.Fields)

		hash, err := cryptox.ContentHash(l.Fields)
		if err != nil {
			return err
		}
		at := now()
		l.ContentHash = hash
		l.PublishedAt = at
		l.UpdatedAt = at
		if err := r.Listings.Upsert(ctx, l); err != nil {
			return err
		}

		d.Status = models.DraftStatusPublished
		d.PublishedAt = &at
		d.PublishedHash = hash
		d.UpdatedAt = at
		if err := r.Drafts.Update(ctx, d); err != nil {
			return err
		}
		published = l
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "draft published", "entity_id", entityID, "draft_id", draftID, "hash", published.ContentHash)
	if s.exporter != nil {
		if err := s.exporter.Export(ctx, published); err != nil {
			s.logger.Error(ctx, "listing export failed", "entity_id", entityID, "error", err)
		}
	}
	return published, nil
}

// Reject marks an open draft as rejected by review. Rejecting a rejected
// draft is a no-op.
func (s *DraftService) Reject(ctx context.Context, draftID string) error {
	if _, err := uuid.Parse(draftID); err != nil {
		return common.ErrorNotFound
	}
	err := s.repomanager.WithTx(ctx, func(ctx context.Context, r repomanager.Repositories) error {
		d, err := r.Drafts.GetForUpdate(ctx, draftID)
		if err != nil {
			return err
		}
		switch d.Status {
		case models.DraftStatusRejected:
			return nil
		case models.DraftStatusPublished:
			return common.ErrAlreadyPublished
		}
		at := now()
		d.Status = models.DraftStatusRejected
		d.ReviewedAt = &at
		d.UpdatedAt = at
		return r.Drafts.Update(ctx, d)
	})
	if err != nil {
		return err
	}
	s.logger.Info(ctx, "draft rejected", "draft_id", draftID)
	return nil
}

// lockDraft loads draftID for update and checks it belongs to entityID
// and partnerID.
func (s *DraftService) lockDraft(ctx context.Context, r repomanager.Repositories, partnerID, entityID, draftID string) (*models.Draft, error) {
	if _, err := uuid.Parse(draftID); err != nil {
		return nil, common.ErrorNotFound
	}
	d, err := r.Drafts.GetForUpdate(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if d.EntityID != entityID {
		return nil, common.ErrorNotFound
	}
	if d.PartnerID != partnerID {
		return nil, common.ErrorForbidden
	}
	return d, nil
}

// ownedListing returns the listing of entityID, or an empty unowned one
// when the entity was never published.
func (s *DraftService) ownedListing(ctx context.Context, r repomanager.Repositories, partnerID, entityID string) (*models.Listing, error) {
	l, err := r.Listings.Get(ctx, entityID)
	if errors.Is(err, common.ErrorNotFound) {
		return &models.Listing{EntityID: entityID, Fields: listing.Fields{}}, nil
	}
	if err != nil {
		return nil, err
	}
	if l.PartnerID != partnerID {
		return nil, common.ErrorForbidden
	}
	return l, nil
}

package drafts

import (
	"context"
	"sync"

	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/common"
	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/server/models"
)

// MemoryRepository keeps drafts in a map. Records are copied on the way in
// and out so callers never share state with the store. GetForUpdate does
// not lock; callers serialize through the repository manager.
type MemoryRepository struct {
	mu     sync.RWMutex
	drafts map[string]*models.Draft
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{drafts: make(map[string]*models.Draft)}
}

func (r *MemoryRepository) Create(ctx context.Context, d *models.Draft) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.drafts[d.ID] = clone(d)
	return nil
}

func (r *MemoryRepository) Get(ctx context.Context, id string) (*models.Draft, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.drafts[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return clone(d), nil
}

func (r *MemoryRepository) GetForUpdate(ctx context.Context, id string) (*models.Draft, error) {
	return r.Get(ctx, id)
}

func (r *MemoryRepository) FindOpen(ctx context.Context, entityID string) (*models.Draft, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var found *models.Draft
	for _, d := range r.drafts {
		if d.EntityID != entityID || d.Status != models.DraftStatusDraft {
			continue
		}
		if found == nil || d.UpdatedAt.After(found.UpdatedAt) {
			found = d
		}
	}
	if found == nil {
		return nil, common.ErrorNotFound
	}
	return clone(found), nil
}

func (r *MemoryRepository) Update(ctx context.Context, d *models.Draft) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.drafts[d.ID]; !ok {
		return common.ErrorNotFound
	}
	r.drafts[d.ID] = clone(d)
	return nil
}

func clone(d *models.Draft) *models.Draft {
	c := *d
	c.Fields = d.Fields.Clone()
	if d.ReviewedAt != nil {
		t := *d.ReviewedAt
		c.ReviewedAt = &t
	}
	if d.PublishedAt != nil {
		t := *d.PublishedAt
		c.PublishedAt = &t
	}
	return &c
}

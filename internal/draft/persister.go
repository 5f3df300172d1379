package draft

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/common"
	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/listing"
	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/logging"
)

// DefaultRequestTimeout bounds a single Save or Publish call.
const DefaultRequestTimeout = 10 * time.Second

// Remote is the draft service as seen by an editing session.
type Remote interface {
	Load(ctx context.Context, entityID string) (*Listing, error)
	Save(ctx context.Context, req SaveRequest) (*SaveResult, error)
	Publish(ctx context.Context, entityID, draftID string) error
}

// Listing seeds a session: the live fields of the entity and its open
// draft, if one exists.
type Listing struct {
	EntityID    string
	Fields      listing.Fields
	DraftID     string
	DraftFields listing.Fields
}

type SaveRequest struct {
	EntityID string
	DraftID  string
	Changes  listing.Fields
}

type SaveResult struct {
	DraftID   string
	UpdatedAt time.Time
}

type EventKind int

const (
	EventSaveStarted EventKind = iota + 1
	EventSaveSucceeded
	EventSaveFailed
	EventPublishStarted
	EventPublishSucceeded
	EventPublishFailed
)

func (k EventKind) String() string {
	switch k {
	case EventSaveStarted:
		return "save started"
	case EventSaveSucceeded:
		return "save succeeded"
	case EventSaveFailed:
		return "save failed"
	case EventPublishStarted:
		return "publish started"
	case EventPublishSucceeded:
		return "publish succeeded"
	case EventPublishFailed:
		return "publish failed"
	default:
		return "unknown"
	}
}

// Event reports Persister activity. Epoch is the persister epoch at the
// time the request was issued.
type Event struct {
	Kind    EventKind
	Epoch   uint64
	DraftID string
	Fields  []string
	At      time.Time
	Err     error
}

// Persister performs remote saves and publishes for one entity. Calls are
// strictly serialized; the draft id assigned by the first successful save
// is reused for every later call.
type Persister struct {
	remote   Remote
	entityID string
	timeout  time.Duration
	now      func() time.Time
	listener func(Event)
	logger   logging.Logger

	callMu sync.Mutex

	mu         sync.Mutex
	draftID    string
	epoch      uint64
	dispatched map[string]struct{}
}

// NewPersister returns a persister for entityID. draftID is the id of an
// already open remote draft, or "". dispatched lists the fields that draft
// already carries.
func NewPersister(remote Remote, entityID, draftID string, dispatched []string, timeout time.Duration, now func() time.Time, listener func(Event), logger logging.Logger) *Persister {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	if now == nil {
		now = time.Now
	}
	p := &Persister{
		remote:     remote,
		entityID:   entityID,
		timeout:    timeout,
		now:        now,
		listener:   listener,
		logger:     logger,
		draftID:    draftID,
		dispatched: make(map[string]struct{}, len(dispatched)),
	}
	for _, k := range dispatched {
		p.dispatched[k] = struct{}{}
	}
	return p
}

// DraftID returns the cached remote draft id, or "" before the first save.
func (p *Persister) DraftID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.draftID
}

// Epoch returns the current epoch. Reset advances it.
func (p *Persister) Epoch() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.epoch
}

// Reset marks every request issued so far as stale.
func (p *Persister) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.epoch++
}

// Save writes changes to the remote draft. An empty change set is a no-op.
func (p *Persister) Save(ctx context.Context, changes listing.Fields) error {
	if len(changes) == 0 {
		return nil
	}
	p.callMu.Lock()
	defer p.callMu.Unlock()
	return p.save(ctx, changes)
}

// save must be called with callMu held.
func (p *Persister) save(ctx context.Context, changes listing.Fields) error {
	p.mu.Lock()
	epoch := p.epoch
	req := SaveRequest{EntityID: p.entityID, DraftID: p.draftID, Changes: changes}
	for k := range changes {
		p.dispatched[k] = struct{}{}
	}
	p.mu.Unlock()

	keys := changes.Keys()
	p.emit(Event{Kind: EventSaveStarted, Epoch: epoch, DraftID: req.DraftID, Fields: keys, At: p.now()})

	var res *SaveResult
	err := p.call(ctx, func(ctx context.Context) error {
		var err error
		res, err = p.remote.Save(ctx, req)
		return err
	})
	if err == nil && (res == nil || res.DraftID == "") {
		err = fmt.Errorf("save: %w: response without draft id", common.ErrorInternal)
	}
	if err != nil {
		p.logger.Warn(ctx, "draft save failed", "entity", p.entityID, "fields", keys, "error", err)
		p.emit(Event{Kind: EventSaveFailed, Epoch: epoch, DraftID: req.DraftID, Fields: keys, At: p.now(), Err: err})
		return err
	}

	p.mu.Lock()
	// The id is cached even for stale requests: the remote record exists.
	if p.draftID == "" {
		p.draftID = res.DraftID
	}
	p.mu.Unlock()

	at := res.UpdatedAt
	if at.IsZero() {
		at = p.now()
	}
	p.logger.Debug(ctx, "draft saved", "entity", p.entityID, "draft_id", res.DraftID, "fields", keys)
	p.emit(Event{Kind: EventSaveSucceeded, Epoch: epoch, DraftID: res.DraftID, Fields: keys, At: at})
	return nil
}

// Publish flushes f, then promotes the remote draft to published. If the
// flush fails its error is returned and the publish endpoint is not
// contacted. A draft that is already published counts as success.
func (p *Persister) Publish(ctx context.Context, f Flusher) error {
	if err := f.Flush(ctx); err != nil {
		return err
	}

	p.callMu.Lock()
	defer p.callMu.Unlock()

	p.mu.Lock()
	epoch := p.epoch
	draftID := p.draftID
	p.mu.Unlock()

	if draftID == "" {
		// Nothing was ever saved, so there is nothing to promote.
		return nil
	}

	p.emit(Event{Kind: EventPublishStarted, Epoch: epoch, DraftID: draftID, At: p.now()})
	err := p.call(ctx, func(ctx context.Context) error {
		return p.remote.Publish(ctx, p.entityID, draftID)
	})
	if errors.Is(err, common.ErrAlreadyPublished) {
		p.logger.Info(ctx, "draft was already published", "entity", p.entityID, "draft_id", draftID)
		err = nil
	}
	if err != nil {
		p.logger.Warn(ctx, "draft publish failed", "entity", p.entityID, "draft_id", draftID, "error", err)
		p.emit(Event{Kind: EventPublishFailed, Epoch: epoch, DraftID: draftID, At: p.now(), Err: err})
		return err
	}

	p.mu.Lock()
	p.dispatched = make(map[string]struct{})
	p.mu.Unlock()

	p.logger.Info(ctx, "draft published", "entity", p.entityID, "draft_id", draftID)
	p.emit(Event{Kind: EventPublishSucceeded, Epoch: epoch, DraftID: draftID, At: p.now()})
	return nil
}

// Revert restores every field dispatched to the unpublished remote draft
// to its value in snapshot. The draft itself is kept so its id stays valid.
// It returns the change set it sent; after a failure that set still has to
// reach the remote.
func (p *Persister) Revert(ctx context.Context, snapshot listing.Fields) (listing.Fields, error) {
	p.callMu.Lock()
	defer p.callMu.Unlock()

	p.mu.Lock()
	if p.draftID == "" {
		// No save ever succeeded, so no remote record holds these fields.
		p.dispatched = make(map[string]struct{})
		p.mu.Unlock()
		return nil, nil
	}
	changes := make(listing.Fields, len(p.dispatched))
	for k := range p.dispatched {
		if v, ok := snapshot[k]; ok {
			changes[k] = v.Clone()
		} else {
			changes[k] = listing.Unset()
		}
	}
	p.mu.Unlock()

	if len(changes) == 0 {
		return nil, nil
	}
	if err := p.save(ctx, changes); err != nil {
		return changes, fmt.Errorf("revert draft: %w", err)
	}

	p.mu.Lock()
	for k := range changes {
		delete(p.dispatched, k)
	}
	p.mu.Unlock()
	return changes, nil
}

func (p *Persister) call(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	err := fn(ctx)
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w after %s", ErrTimeout, p.timeout)
	}
	return err
}

func (p *Persister) emit(ev Event) {
	if p.listener != nil {
		p.listener(ev)
	}
}

package draft

import (
	"context"
	"sync"
	"time"

	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/listing"
)

var savedAt = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

// fakeScheduler never fires on its own; tests call Fire to end the quiet
// period.
type fakeScheduler struct {
	mu    sync.Mutex
	fn    func()
	delay time.Duration
	arms  int
}

func (s *fakeScheduler) Arm(delay time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fn = fn
	s.delay = delay
	s.arms++
}

func (s *fakeScheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fn = nil
}

func (s *fakeScheduler) Armed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fn != nil
}

func (s *fakeScheduler) Delay() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.delay
}

// Fire runs the armed callback, if any, and reports whether it did.
func (s *fakeScheduler) Fire() bool {
	s.mu.Lock()
	fn := s.fn
	s.fn = nil
	s.mu.Unlock()
	if fn == nil {
		return false
	}
	fn()
	return true
}

type fakeRemote struct {
	mu sync.Mutex

	listing    *Listing
	loadErr    error
	saveErrs   []error
	publishErr error

	// block, when set, holds every Save until it is closed or the request
	// context ends. started receives one value per Save that reached it.
	block   chan struct{}
	started chan struct{}

	onPublish func()

	saves     []SaveRequest
	publishes []string
	calls     []string
}

func (r *fakeRemote) Load(_ context.Context, entityID string) (*Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	if r.listing == nil {
		return &Listing{EntityID: entityID, Fields: listing.Fields{}}, nil
	}
	l := *r.listing
	l.Fields = l.Fields.Clone()
	l.DraftFields = l.DraftFields.Clone()
	return &l, nil
}

func (r *fakeRemote) Save(ctx context.Context, req SaveRequest) (*SaveResult, error) {
	r.mu.Lock()
	req.Changes = req.Changes.Clone()
	r.saves = append(r.saves, req)
	r.calls = append(r.calls, "save")
	var err error
	if len(r.saveErrs) > 0 {
		err = r.saveErrs[0]
		r.saveErrs = r.saveErrs[1:]
	}
	block, started := r.block, r.started
	r.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	id := req.DraftID
	if id == "" {
		id = "draft-1"
	}
	return &SaveResult{DraftID: id, UpdatedAt: savedAt}, nil
}

func (r *fakeRemote) Publish(_ context.Context, _ string, draftID string) error {
	r.mu.Lock()
	r.publishes = append(r.publishes, draftID)
	r.calls = append(r.calls, "publish")
	hook, err := r.onPublish, r.publishErr
	r.mu.Unlock()

	if hook != nil {
		hook()
	}
	return err
}

func (r *fakeRemote) Saves() []SaveRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]SaveRequest(nil), r.saves...)
}

func (r *fakeRemote) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func (r *fakeRemote) Publishes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.publishes...)
}

// memJournal holds the last written field set. gate, when set, holds every
// Replace until it is closed.
type memJournal struct {
	mu      sync.Mutex
	fields  listing.Fields
	writes  int
	loadErr error
	gate    chan struct{}
}

func (j *memJournal) Replace(_ context.Context, fields listing.Fields) error {
	if j.gate != nil {
		<-j.gate
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	j.fields = fields.Clone()
	j.writes++
	return nil
}

func (j *memJournal) Load(context.Context) (listing.Fields, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.loadErr != nil {
		return nil, j.loadErr
	}
	return j.fields.Clone(), nil
}

func (j *memJournal) Writes() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.writes
}

func (j *memJournal) Fields() listing.Fields {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fields.Clone()
}

type recordingSaver struct {
	mu    sync.Mutex
	errs  []error
	saved []listing.Fields
}

func (s *recordingSaver) Save(_ context.Context, changes listing.Fields) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = append(s.saved, changes.Clone())
	if len(s.errs) > 0 {
		err := s.errs[0]
		s.errs = s.errs[1:]
		return err
	}
	return nil
}

func partnerFields() listing.Fields {
	return listing.Fields{
		"name":     listing.Text("Taxi Bratislava"),
		"phone":    listing.Text("+421 900 000 000"),
		"title":    listing.Text("Fast rides"),
		"rating":   listing.Number(4.5),
		"services": listing.List("airport", "night"),
	}
}

package draft

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/listing"
	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/logging"
)

type options struct {
	schema     listing.Schema
	quiet      time.Duration
	timeout    time.Duration
	sched      Scheduler
	journal    Journal
	logger     logging.Logger
	now        func() time.Time
	retryBase  time.Duration
	retryMax   time.Duration
	retryLimit uint64
}

type Option func(*options)

func WithSchema(s listing.Schema) Option { return func(o *options) { o.schema = s } }

func WithQuietPeriod(d time.Duration) Option { return func(o *options) { o.quiet = d } }

func WithRequestTimeout(d time.Duration) Option { return func(o *options) { o.timeout = d } }

// WithScheduler replaces the timer, e.g. with a fake clock in tests.
func WithScheduler(s Scheduler) Option { return func(o *options) { o.sched = s } }

func WithJournal(j Journal) Option { return func(o *options) { o.journal = j } }

func WithLogger(l logging.Logger) Option { return func(o *options) { o.logger = l } }

func WithClock(now func() time.Time) Option { return func(o *options) { o.now = now } }

// WithRetry sets the exponential backoff used after transient save
// failures. limit 0 retries until a save succeeds.
func WithRetry(base, max time.Duration, limit uint64) Option {
	return func(o *options) {
		o.retryBase = base
		o.retryMax = max
		o.retryLimit = limit
	}
}

// Session is the lifecycle controller of one editing session. It routes
// edits into the Store and the Accumulator, runs discard and publish, and
// derives the Status from Persister events.
type Session struct {
	entityID  string
	opts      options
	logger    logging.Logger
	store     *Store
	acc       *Accumulator
	persister *Persister

	// opMu keeps Discard from running while a Publish is in flight.
	opMu sync.Mutex

	mu              sync.Mutex
	mode            Mode
	saving          bool
	publishing      bool
	lastErr         error
	lastSavedAt     time.Time
	lastPublishedAt time.Time
	backoff         retry.Backoff
	subs            map[chan Status]struct{}
	closed          bool
}

// Open loads entityID from remote and starts a session on it.
func Open(ctx context.Context, remote Remote, entityID string, opts ...Option) (*Session, error) {
	l, err := remote.Load(ctx, entityID)
	if err != nil {
		return nil, fmt.Errorf("load listing %s: %w", entityID, err)
	}
	if l.EntityID == "" {
		l.EntityID = entityID
	}
	return New(ctx, remote, l, opts...)
}

// New starts a session on an already loaded listing. The snapshot is the
// live field set; an open draft is laid over it as already saved, and
// journaled edits from a previous run are replayed as pending.
func New(ctx context.Context, remote Remote, l *Listing, opts ...Option) (*Session, error) {
	o := options{
		schema:    listing.PartnerSchema,
		quiet:     DefaultQuietPeriod,
		timeout:   DefaultRequestTimeout,
		now:       time.Now,
		retryBase: time.Second,
		retryMax:  30 * time.Second,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.sched == nil {
		o.sched = NewTimerScheduler()
	}
	if o.logger == nil {
		o.logger = logging.Discard()
	}

	s := &Session{
		entityID: l.EntityID,
		opts:     o,
		logger:   o.logger.With("module", "draft_session", "entity", l.EntityID),
		subs:     make(map[chan Status]struct{}),
	}
	s.backoff = s.newBackoff()
	s.store = NewStore(o.schema, l.Fields)

	var onDraft []string
	for _, k := range l.DraftFields.Keys() {
		if err := s.store.SetField(k, l.DraftFields[k]); err != nil {
			s.logger.Warn(ctx, "skipping draft field", "field", k, "error", err)
			continue
		}
		onDraft = append(onDraft, k)
	}

	s.persister = NewPersister(remote, l.EntityID, l.DraftID, onDraft, o.timeout, o.now, s.onEvent, s.logger)
	s.acc = NewAccumulator(s.persister, o.sched, o.quiet, o.journal, s.logger, s.onAutoFlush)

	if o.journal != nil {
		if err := s.restore(ctx); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Session) restore(ctx context.Context) error {
	journaled, err := s.opts.journal.Load(ctx)
	if err != nil {
		return fmt.Errorf("load journal: %w", err)
	}
	for _, k := range journaled.Keys() {
		v := journaled[k]
		if v.IsUnset() {
			// A revert that never reached the remote; the store already
			// shows the snapshot.
			if err := s.opts.schema.Check(k, v, true); err != nil {
				s.logger.Warn(ctx, "dropping journaled edit", "field", k, "error", err)
				continue
			}
			s.acc.Record(k, v)
			continue
		}
		if err := s.store.SetField(k, v); err != nil {
			s.logger.Warn(ctx, "dropping journaled edit", "field", k, "error", err)
			continue
		}
		s.acc.Record(k, v)
	}
	if len(journaled) > 0 {
		s.logger.Info(ctx, "restored unsaved edits", "fields", journaled.Keys())
	}
	return nil
}

func (s *Session) EntityID() string {
	return s.entityID
}

// ToggleEditMode flips between viewing and editing. Pending work is kept.
func (s *Session) ToggleEditMode() Mode {
	s.mu.Lock()
	if s.mode == ModeEditing {
		s.mode = ModeViewing
	} else {
		s.mode = ModeEditing
	}
	mode := s.mode
	s.mu.Unlock()

	s.notify()
	return mode
}

// EditField shows value at once and queues it for the next flush.
func (s *Session) EditField(key string, value listing.Value) error {
	s.mu.Lock()
	switch {
	case s.closed:
		s.mu.Unlock()
		return ErrSessionClosed
	case s.mode != ModeEditing:
		s.mu.Unlock()
		return ErrNotEditing
	}
	s.mu.Unlock()

	if err := s.store.SetField(key, value); err != nil {
		return err
	}
	s.acc.Record(key, value)
	s.notify()
	return nil
}

// GetField returns the value the editor shows for key, or def.
func (s *Session) GetField(key string, def listing.Value) listing.Value {
	return s.store.GetField(key, def)
}

// Fields returns a copy of the current state.
func (s *Session) Fields() listing.Fields {
	return s.store.Current()
}

// Snapshot returns a copy of the last published state.
func (s *Session) Snapshot() listing.Fields {
	return s.store.Snapshot()
}

// DirtyFields returns the sorted names of fields that differ from the last
// published state.
func (s *Session) DirtyFields() []string {
	return s.store.DirtyFields()
}

// Flush saves pending changes now instead of waiting for the quiet period.
func (s *Session) Flush(ctx context.Context) error {
	err := s.acc.Flush(ctx)
	s.retryLater(err)
	s.notify()
	return err
}

// Discard drops unsaved edits, restores the snapshot and leaves edit mode.
// Fields that already reached the unpublished remote draft are set back to
// their snapshot values. If that request fails it stays pending and is
// retried like any other save. A publish in flight completes first.
func (s *Session) Discard(ctx context.Context) error {
	s.mu.Lock()
	s.mode = ModeViewing
	s.mu.Unlock()
	s.notify()

	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.acc.Clear()
	s.persister.Reset()
	s.store.Reset()

	s.mu.Lock()
	s.mode = ModeViewing
	s.saving = false
	s.publishing = false
	s.lastErr = nil
	s.backoff = s.newBackoff()
	s.mu.Unlock()
	s.notify()

	changes, err := s.persister.Revert(ctx, s.store.Snapshot())
	if err != nil {
		s.acc.Requeue(changes)
		s.retryLater(err)
		s.notify()
		return err
	}
	s.logger.Info(ctx, "edits discarded")
	return nil
}

// Publish flushes pending changes and promotes the remote draft. On
// success the published state becomes the new snapshot; on failure every
// pending change is kept for a retry.
func (s *Session) Publish(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	s.mu.Unlock()

	s.opMu.Lock()
	defer s.opMu.Unlock()

	if err := s.persister.Publish(ctx, s.acc); err != nil {
		s.retryLater(err)
		s.notify()
		return err
	}
	// Edits made after the flush are not part of what was published.
	s.store.Commit(s.acc.Unsettled()...)
	s.notify()
	return nil
}

// Close flushes pending changes and stops the timer. Subscriptions end.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	err := s.acc.Flush(ctx)
	s.opts.sched.Cancel()
	s.acc.Close()

	s.mu.Lock()
	for ch := range s.subs {
		close(ch)
		delete(s.subs, ch)
	}
	s.mu.Unlock()

	if err != nil {
		return fmt.Errorf("final flush: %w", err)
	}
	return nil
}

// Status returns the current projection.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statusLocked()
}

// Subscribe returns a channel that receives the latest Status after every
// change. Slow readers only miss intermediate values. The returned func
// ends the subscription.
func (s *Session) Subscribe() (<-chan Status, func()) {
	ch := make(chan Status, 1)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		close(ch)
		return ch, func() {}
	}
	s.subs[ch] = struct{}{}
	ch <- s.statusLocked()

	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.subs[ch]; ok {
			delete(s.subs, ch)
			close(ch)
		}
	}
}

func (s *Session) statusLocked() Status {
	st := Status{
		Mode:              s.mode,
		HasPendingChanges: s.acc.HasPending(),
		Unpublished:       s.store.Dirty(),
		DraftID:           s.persister.DraftID(),
		LastSavedAt:       s.lastSavedAt,
		LastPublishedAt:   s.lastPublishedAt,
		LastError:         s.lastErr,
	}
	switch {
	case s.publishing:
		st.Activity = ActivityPublishing
	case s.saving:
		st.Activity = ActivitySaving
	case s.lastErr != nil:
		st.Activity = ActivityError
	default:
		st.Activity = ActivityIdle
	}
	return st
}

func (s *Session) notify() {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.statusLocked()
	for ch := range s.subs {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- st:
		default:
		}
	}
}

func (s *Session) onEvent(ev Event) {
	s.mu.Lock()
	if ev.Epoch != s.persister.Epoch() {
		s.mu.Unlock()
		s.logger.Debug(context.Background(), "ignoring response issued before discard", "event", ev.Kind.String())
		return
	}
	switch ev.Kind {
	case EventSaveStarted:
		s.saving = true
	case EventSaveSucceeded:
		s.saving = false
		s.lastSavedAt = ev.At
		s.lastErr = nil
	case EventSaveFailed:
		s.saving = false
		s.lastErr = ev.Err
	case EventPublishStarted:
		s.publishing = true
	case EventPublishSucceeded:
		s.publishing = false
		s.lastPublishedAt = ev.At
		s.lastErr = nil
	case EventPublishFailed:
		s.publishing = false
		s.lastErr = ev.Err
	}
	s.mu.Unlock()
	s.notify()
}

// onAutoFlush handles the outcome of timer-driven flushes.
func (s *Session) onAutoFlush(err error) {
	s.notify()
	s.retryLater(err)
}

// retryLater reacts to the outcome of a flush: transient failures rearm the
// timer with backoff, others wait for the next edit or an explicit flush.
func (s *Session) retryLater(err error) {
	ctx := context.Background()

	s.mu.Lock()
	if err == nil {
		s.backoff = s.newBackoff()
		s.mu.Unlock()
		return
	}
	if s.closed || !IsTransient(err) {
		s.mu.Unlock()
		return
	}
	delay, stop := s.backoff.Next()
	s.mu.Unlock()

	if stop {
		s.logger.Warn(ctx, "giving up automatic save retries", "error", err)
		return
	}
	s.logger.Debug(ctx, "retrying save", "delay", delay, "error", err)
	s.acc.Rearm(delay)
}

func (s *Session) newBackoff() retry.Backoff {
	b := retry.NewExponential(s.opts.retryBase)
	b = retry.WithCappedDuration(s.opts.retryMax, b)
	if s.opts.retryLimit > 0 {
		b = retry.WithMaxRetries(s.opts.retryLimit, b)
	}
	return b
}

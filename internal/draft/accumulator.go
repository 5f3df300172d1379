package draft

import (
	"context"
	"sync"
	"time"

	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/listing"
	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/logging"
)

// DefaultQuietPeriod is how long the accumulator waits after the last edit
// before it flushes.
const DefaultQuietPeriod = time.Second

// Saver receives flushed change sets.
type Saver interface {
	Save(ctx context.Context, changes listing.Fields) error
}

// Flusher pushes every pending change to the remote and waits for it.
type Flusher interface {
	Flush(ctx context.Context) error
}

// Journal mirrors changes that are not durable yet, so they survive a crash
// of the editor. Replace receives pending and in-flight changes together.
type Journal interface {
	Replace(ctx context.Context, fields listing.Fields) error
	Load(ctx context.Context) (listing.Fields, error)
}

// Accumulator buffers field edits and hands them to a Saver once no edit
// arrived for a quiet period. Values recorded for the same key before a
// flush overwrite each other, so only the last one is sent.
//
// Journal writes happen on a background goroutine; Record never waits for
// the disk. Close waits for the last write.
type Accumulator struct {
	saver   Saver
	sched   Scheduler
	quiet   time.Duration
	journal Journal
	logger  logging.Logger
	onFlush func(error)

	// flushMu serializes flushes: a flush never starts while another is
	// in flight.
	flushMu sync.Mutex

	mu       sync.Mutex
	pending  listing.Fields
	inflight listing.Fields
	epoch    uint64

	// jmu guards the journal versions; it is never held while taking mu.
	jmu     sync.Mutex
	jcond   *sync.Cond
	jwant   uint64
	jdone   uint64
	jclosed bool
}

// NewAccumulator returns an accumulator flushing into saver. onFlush, if
// not nil, receives the outcome of every timer-driven flush.
func NewAccumulator(saver Saver, sched Scheduler, quiet time.Duration, journal Journal, logger logging.Logger, onFlush func(error)) *Accumulator {
	if quiet <= 0 {
		quiet = DefaultQuietPeriod
	}
	a := &Accumulator{
		saver:   saver,
		sched:   sched,
		quiet:   quiet,
		journal: journal,
		logger:  logger,
		onFlush: onFlush,
		pending: make(listing.Fields),
	}
	a.jcond = sync.NewCond(&a.jmu)
	if journal != nil {
		go a.runJournal()
	}
	return a
}

// Record stores value as the pending value of key and restarts the quiet
// period.
func (a *Accumulator) Record(key string, value listing.Value) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.pending[key] = value.Clone()
	a.sched.Arm(a.quiet, a.fire)
	a.syncJournal()
}

// Requeue makes changes pending again without overwriting values recorded
// since, and restarts the quiet period.
func (a *Accumulator) Requeue(changes listing.Fields) {
	if len(changes) == 0 {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	for k, v := range changes {
		if _, newer := a.pending[k]; !newer {
			a.pending[k] = v.Clone()
		}
	}
	a.sched.Arm(a.quiet, a.fire)
	a.syncJournal()
}

// Rearm schedules a flush after delay if anything is pending. The next
// Record replaces it with the regular quiet period.
func (a *Accumulator) Rearm(delay time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(a.pending) == 0 {
		return
	}
	a.sched.Arm(delay, a.fire)
}

func (a *Accumulator) fire() {
	err := a.Flush(context.Background())
	if a.onFlush != nil {
		a.onFlush(err)
	}
}

// Flush sends every pending change at once, bypassing the timer. An empty
// pending set makes no call. If the save fails, its changes become pending
// again unless a newer value was recorded for the same key in the meantime.
func (a *Accumulator) Flush(ctx context.Context) error {
	a.flushMu.Lock()
	defer a.flushMu.Unlock()

	a.mu.Lock()
	if len(a.pending) == 0 {
		a.mu.Unlock()
		return nil
	}
	batch := a.pending
	a.pending = make(listing.Fields)
	a.inflight = batch
	epoch := a.epoch
	a.sched.Cancel()
	a.mu.Unlock()

	err := a.saver.Save(ctx, batch.Clone())

	a.mu.Lock()
	defer a.mu.Unlock()

	if epoch != a.epoch {
		// Cleared while in flight: the batch belongs to a discarded edit.
		return err
	}
	a.inflight = nil
	if err != nil {
		for k, v := range batch {
			if _, newer := a.pending[k]; !newer {
				a.pending[k] = v
			}
		}
	}
	a.syncJournal()
	return err
}

// Clear cancels the timer and drops pending changes without sending them.
// A flush already in flight will not re-queue its changes.
func (a *Accumulator) Clear() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.sched.Cancel()
	a.pending = make(listing.Fields)
	a.inflight = nil
	a.epoch++
	a.syncJournal()
}

// Unsettled returns the sorted keys that are pending or in flight, i.e.
// not known to be durable.
func (a *Accumulator) Unsettled() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.unsettled().Keys()
}

// HasPending reports whether any change is pending or in flight.
func (a *Accumulator) HasPending() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.pending) > 0 || len(a.inflight) > 0
}

func (a *Accumulator) unsettled() listing.Fields {
	all := a.inflight.Clone()
	for k, v := range a.pending {
		all[k] = v
	}
	return all
}

// Close waits until the journal holds the latest unsettled changes, then
// stops the journal writer.
func (a *Accumulator) Close() {
	a.waitJournal()

	a.jmu.Lock()
	a.jclosed = true
	a.jcond.Broadcast()
	a.jmu.Unlock()
}

// syncJournal asks the writer for a new journal version. It must be called
// with a.mu held.
func (a *Accumulator) syncJournal() {
	if a.journal == nil {
		return
	}
	a.jmu.Lock()
	if !a.jclosed {
		a.jwant++
		a.jcond.Broadcast()
	}
	a.jmu.Unlock()
}

// waitJournal blocks until every requested journal version is written.
func (a *Accumulator) waitJournal() {
	a.jmu.Lock()
	defer a.jmu.Unlock()
	want := a.jwant
	for a.jdone < want && !a.jclosed {
		a.jcond.Wait()
	}
}

// runJournal writes the unsettled changes whenever a newer version was
// requested. Requests that pile up during a write collapse into one.
func (a *Accumulator) runJournal() {
	ctx := context.Background()
	for {
		a.jmu.Lock()
		for a.jdone == a.jwant && !a.jclosed {
			a.jcond.Wait()
		}
		if a.jdone == a.jwant {
			a.jmu.Unlock()
			return
		}
		target := a.jwant
		a.jmu.Unlock()

		a.mu.Lock()
		fields := a.unsettled()
		a.mu.Unlock()

		if err := a.journal.Replace(ctx, fields); err != nil {
			a.logger.Warn(ctx, "journal write failed", "error", err)
		}

		a.jmu.Lock()
		a.jdone = target
		a.jcond.Broadcast()
		a.jmu.Unlock()
	}
}

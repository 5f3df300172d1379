package draft

import (
	"sync"

	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/listing"
)

// Store holds the field values of one editing session: the Snapshot taken
// when the session began (or at the last publish) and the current state
// the editor displays.
type Store struct {
	mu       sync.RWMutex
	schema   listing.Schema
	snapshot listing.Fields
	current  listing.Fields
}

// NewStore returns a store whose snapshot and current state are copies of
// snapshot.
func NewStore(schema listing.Schema, snapshot listing.Fields) *Store {
	return &Store{
		schema:   schema,
		snapshot: snapshot.Clone(),
		current:  snapshot.Clone(),
	}
}

// SetField overwrites the current value of key. Only the shape of value is
// checked against the schema.
func (s *Store) SetField(key string, value listing.Value) error {
	if err := s.schema.Check(key, value, false); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current[key] = value.Clone()
	return nil
}

// GetField returns the current value of key, or def when it has none.
func (s *Store) GetField(key string, def listing.Value) listing.Value {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.current[key]; ok {
		return v.Clone()
	}
	return def
}

// Reset replaces the current state with a copy of the snapshot.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = s.snapshot.Clone()
}

// Commit makes the current state the new snapshot, except for the keys in
// keep, which retain their old snapshot value.
func (s *Store) Commit(keep ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.current.Clone()
	for _, k := range keep {
		if v, ok := s.snapshot[k]; ok {
			next[k] = v
		} else {
			delete(next, k)
		}
	}
	s.snapshot = next
}

func (s *Store) Snapshot() listing.Fields {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.Clone()
}

func (s *Store) Current() listing.Fields {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Clone()
}

// Dirty reports whether the current state differs from the snapshot in at
// least one field, whether or not the difference reached the remote.
func (s *Store) Dirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.current.Equal(s.snapshot)
}

// DirtyFields returns the sorted names of fields that differ from the
// snapshot.
func (s *Store) DirtyFields() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	diff := make(listing.Fields)
	for k, v := range s.current {
		if old, ok := s.snapshot[k]; !ok || !old.Equal(v) {
			diff[k] = v
		}
	}
	for k := range s.snapshot {
		if _, ok := s.current[k]; !ok {
			diff[k] = listing.Unset()
		}
	}
	return diff.Keys()
}

package draft

import (
	"fmt"
	"strings"
	"time"
)

// Mode is toggled by the editor.
type Mode int

const (
	ModeViewing Mode = iota
	ModeEditing
)

func (m Mode) String() string {
	if m == ModeEditing {
		return "editing"
	}
	return "viewing"
}

// Activity is derived from Persister activity.
type Activity int

const (
	ActivityIdle Activity = iota
	ActivitySaving
	ActivityPublishing
	ActivityError
)

func (a Activity) String() string {
	switch a {
	case ActivitySaving:
		return "saving"
	case ActivityPublishing:
		return "publishing"
	case ActivityError:
		return "error"
	default:
		return "idle"
	}
}

// Status is the read-only projection a status bar renders.
type Status struct {
	Mode     Mode
	Activity Activity

	// HasPendingChanges is true while some edit is not durably saved.
	HasPendingChanges bool
	// Unpublished is true while the current state differs from the last
	// published snapshot.
	Unpublished bool

	DraftID         string
	LastSavedAt     time.Time
	LastPublishedAt time.Time
	LastError       error
}

// IsSaving reports whether a save request is in flight.
func (s Status) IsSaving() bool {
	return s.Activity == ActivitySaving
}

// String renders a one-line summary, e.g.
// "editing | saving | pending | saved 14:03:11".
func (s Status) String() string {
	parts := []string{s.Mode.String(), s.Activity.String()}
	switch {
	case s.HasPendingChanges:
		parts = append(parts, "pending")
	case s.Unpublished:
		parts = append(parts, "unpublished")
	default:
		parts = append(parts, "published")
	}
	if !s.LastSavedAt.IsZero() {
		parts = append(parts, "saved "+s.LastSavedAt.Local().Format(time.TimeOnly))
	}
	if s.LastError != nil {
		parts = append(parts, fmt.Sprintf("error: %v", s.LastError))
	}
	return strings.Join(parts, " | ")
}

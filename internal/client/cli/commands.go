package cli

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/draft"
	"github.com/fabianmarian8/taxi-vision-studio2-sub001/internal/listing"
)

// Fields prints every schema field with its current value, marking the
// ones that differ from the published listing.
func (a *App) Fields(ctx context.Context) error {
	current := a.session.Fields()
	dirty := make(map[string]bool)
	for _, k := range a.session.DirtyFields() {
		dirty[k] = true
	}

	for _, key := range schemaKeys(a.schema) {
		v, ok := current[key]
		marker := " "
		if dirty[key] {
			marker = "*"
		}
		if !ok {
			printlnFn(fmt.Sprintf("%s %-13s -", marker, key))
			continue
		}
		printlnFn(fmt.Sprintf("%s %-13s %s", marker, key, v))
	}
	return nil
}

func (a *App) Get(ctx context.Context, args []string) error {
	if len(args) != 1 {
		printlnFn("Usage: get <field>")
		return errUsage
	}
	key := args[0]
	v := a.session.GetField(key, listing.Unset())
	published, ok := a.session.Snapshot()[key]
	if !ok {
		published = listing.Unset()
	}
	if v.IsUnset() {
		printlnFn(key, "is not set")
	} else {
		printlnFn(key, "=", v)
	}
	if !v.Equal(published) {
		if published.IsUnset() {
			printlnFn("  published: not set")
		} else {
			printlnFn("  published:", published)
		}
	}
	return nil
}

// Edit toggles between viewing and editing. Leaving edit mode keeps the
// draft; pending edits still save after the quiet period.
func (a *App) Edit(ctx context.Context) error {
	m := a.session.ToggleEditMode()
	printlnFn("Mode:", m)
	return nil
}

func (a *App) Set(ctx context.Context, args []string) error {
	if len(args) < 1 {
		printlnFn("Usage: set <field> [value...]")
		return errUsage
	}
	key := args[0]
	kind, ok := a.schema[key]
	if !ok {
		printlnFn("Unknown field:", key)
		return listing.ErrUnknownField
	}

	var raw string
	if len(args) > 1 {
		raw = strings.Join(args[1:], " ")
	} else {
		s, err := GetSimpleText(a.reader, fmt.Sprintf("Value for %s (%s)", key, kind), stdout)
		if err != nil {
			return err
		}
		raw = s
	}

	v, err := ParseValue(kind, raw)
	if err != nil {
		printlnFn("Invalid value:", err)
		return err
	}

	if err := a.session.EditField(key, v); err != nil {
		if errors.Is(err, draft.ErrNotEditing) {
			printlnFn("Not in edit mode, type 'edit' first")
		} else {
			printlnFn("Error:", err)
		}
		return err
	}
	return nil
}

func (a *App) Status(ctx context.Context) error {
	st := a.session.Status()
	printlnFn("Mode:       ", st.Mode)
	printlnFn("Activity:   ", st.Activity)
	printlnFn("Pending:    ", st.HasPendingChanges)
	printlnFn("Unpublished:", st.Unpublished)
	if st.DraftID != "" {
		printlnFn("Draft:      ", st.DraftID)
	}
	if !st.LastSavedAt.IsZero() {
		printlnFn("Saved at:   ", st.LastSavedAt.Local().Format("2006-01-02 15:04:05"))
	}
	if !st.LastPublishedAt.IsZero() {
		printlnFn("Published:  ", st.LastPublishedAt.Local().Format("2006-01-02 15:04:05"))
	}
	if st.LastError != nil {
		printlnFn("Last error: ", st.LastError)
	}
	return nil
}

// Sync saves pending edits now instead of waiting for the quiet period.
func (a *App) Sync(ctx context.Context) error {
	if err := a.session.Flush(ctx); err != nil {
		printlnFn("Save failed:", err)
		return err
	}
	printlnFn("Saved")
	return nil
}

func (a *App) Discard(ctx context.Context) error {
	if err := a.session.Discard(ctx); err != nil {
		printlnFn("Changes discarded, but the saved draft is not reverted yet:", err)
		return err
	}
	printlnFn("Changes discarded")
	return nil
}

func (a *App) Publish(ctx context.Context) error {
	if err := a.session.Publish(ctx); err != nil {
		printlnFn("Publish failed:", err)
		return err
	}
	printlnFn("Published")
	return nil
}

func schemaKeys(s listing.Schema) []string {
	return slices.Sorted(maps.Keys(s))
}

// Package journal persists the editor's unsaved field edits in the local
// SQLite database, so that edits typed before a crash are replayed into the
// next session of the same entity.
package journal

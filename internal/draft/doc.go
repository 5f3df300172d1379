// Package draft implements inline draft synchronization for a single
// editing session.
//
// # Components
//
//   - Store holds the immutable Snapshot and the mutable current state.
//   - Accumulator coalesces edits and flushes them after a quiet period.
//   - Persister serializes Save/Publish calls against a Remote.
//   - Session is the lifecycle controller: edit mode, discard, publish and
//     the Status projection rendered by a status bar.
//
// # Consistency model
//
// Eventually consistent with rollback on discard only. An edit is visible
// locally at once and reaches the remote draft after the quiet period. A
// failed save never rolls the editor back: the changes stay pending and
// are retried. Only Discard reverts local state.
//
// # Ordering
//
// Within one quiet period the last value of a field wins. Saves never
// overlap. Publish flushes and awaits pending changes before asking the
// remote to publish, and aborts if that flush fails.
//
// Responses to requests issued before the most recent Discard do not
// change local state.
package draft

// Package cli provides the interactive listing editor.
//
// It wires configuration, the local edit journal, the gRPC draft client and
// an editing session, then runs a REPL over them. Typical flow: open the
// partner's listing, toggle edit mode, change fields (saved in the
// background after a quiet period), then publish or discard.
//
// A background watcher pings the server and flips the prompt between
// online and offline; a second one prints save failures as they happen.
// On exit the session performs a final save; edits that could not be saved
// stay in the journal and are restored on the next start.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli

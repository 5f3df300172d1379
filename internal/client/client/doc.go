// Package client contains the editor's connection to the draft service.
//
// # Overview
//
// The package provides:
//  1. The Client contract: the draft.Remote operations (Load, Save,
//     Publish) an editing session needs, plus Ping and Close.
//  2. A gRPC implementation (see GRPCClient) that manages a connection,
//     attaches the partner access token to every call via an interceptor
//     and maps gRPC status codes to sentinel errors.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) wiring the
//     editor's SQLite journal and applying embedded goose migrations.
//
// # Error Handling
//
// Status codes are mapped so the editing engine can classify failures with
// errors.Is: Unavailable, DeadlineExceeded and ResourceExhausted (the
// server's save limit) become ErrUnavailable and are retried.
// Unauthenticated and PermissionDenied become ErrUnauthorized, AlreadyExists
// becomes common.ErrAlreadyPublished, FailedPrecondition becomes
// common.ErrDraftRejected and NotFound becomes common.ErrorNotFound.
//
// Concurrency & Contexts
//
// GRPCClient is safe for concurrent use. All operations accept
// context.Context and honor cancellation and deadlines.
package client

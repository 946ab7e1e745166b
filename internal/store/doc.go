// Package store persists conversation messages in PostgreSQL.
//
// The backing table is a single append-only log, message_store, keyed by an
// opaque session id. There is no sessions table: a session exists exactly
// when at least one of its messages does, and [Store.DistinctSessions]
// derives the listing from the log with one indexed query.
//
// # Consistency
//
// [Store.Append] and [Store.Delete] take a per-session advisory lock inside
// a transaction, so writes to one session are serialized while sessions
// never block each other. A delete racing an append resolves to whichever
// committed first; readers observe either the pre- or post-state, never a
// torn one.
//
// # Error handling
//
// Connectivity failures surface as [ErrUnavailable]; payloads that cannot
// be serialized surface as [ErrInvalidMessage]. On read, a malformed row is
// logged and skipped rather than aborting the whole load.
package store

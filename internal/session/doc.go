// Package session manages conversation session identity and lifecycle.
//
// A session is identified by an opaque string id and exists exactly when the
// message log holds at least one of its messages. The package provides:
//
//   - Registry: resolves user selections (including the "new" sentinel) to
//     concrete session ids and produces picker listings backed by a cached
//     view of the store.
//   - Manager: deletes sessions and keeps local state consistent.
//   - StateStore: persists the active session id across CLI invocations in
//     ~/.idiary/current_session, guarded by a file lock.
package session

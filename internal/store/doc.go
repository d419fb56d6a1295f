// Package store holds analyzed records keyed by fingerprint.
//
// Two backends implement Store:
//   - Memory: a map guarded by one sync.RWMutex (the default)
//   - SQLite: mattn/go-sqlite3 over an in-memory database by default
//
// # Guarantees
//
// Content addressing:
//   - At most one record per fingerprint
//   - InsertIfAbsent never overwrites; a duplicate returns false and leaves
//     the stored record (including created_at) untouched
//
// Ordering:
//   - Scan returns records in insertion order (seq ASC), never map order
//
// Snapshots:
//   - Scan copies the collection before returning, so inserts and deletes
//     issued afterwards are invisible to the caller's slice
//   - Records are cloned on the way in and out; no caller can mutate a
//     stored record
package store

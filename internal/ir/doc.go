// Package ir defines the records and predicate sets shared by every sift package.
//
// This package contains type definitions and the fingerprint function only.
// All other internal packages import ir; ir imports nothing internal.
//
// Key constraints:
//   - A Record is immutable once stored; callers receive clones
//   - Fingerprints are computed over the raw UTF-8 bytes, never a normalized form
//   - All JSON tags use snake_case
//   - CreatedAt is always UTC
package ir

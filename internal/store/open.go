package store

import (
	"context"
	"fmt"

	"github.com/roach88/sift/internal/ir"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// Store is the record collection consumed by the service layer.
type Store interface {
	// InsertIfAbsent stores rec unless a record with the same ID exists.
	// Returns whether the insert happened.
	InsertIfAbsent(ctx context.Context, rec ir.Record) (bool, error)

	// Get returns the record with the given fingerprint.
	Get(ctx context.Context, id string) (ir.Record, bool, error)

	// Delete removes the record with the given fingerprint.
	// Returns whether a record was removed.
	Delete(ctx context.Context, id string) (bool, error)

	// Scan returns a point-in-time snapshot in insertion order.
	Scan(ctx context.Context) ([]ir.Record, error)

	// Len returns the number of stored records.
	Len(ctx context.Context) (int, error)

	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Backend string
	// DSN is the SQLite data source name. Ignored by the memory backend.
	DSN string
}

// Open creates the backend named by opts.Backend.
// An empty backend name selects memory.
func Open(opts Options) (Store, error) {
	switch opts.Backend {
	case "", BackendMemory:
		return NewMemory(), nil
	case BackendSQLite:
		dsn := opts.DSN
		if dsn == "" {
			dsn = DefaultSQLiteDSN
		}
		return OpenSQLite(dsn)
	default:
		return nil, fmt.Errorf("unknown store backend %q", opts.Backend)
	}
}

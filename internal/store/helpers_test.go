package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/roach88/sift/internal/analysis"
	"github.com/roach88/sift/internal/ir"
)

// backends lists every Store implementation the contract tests run against.
var backends = []struct {
	name string
	open func(t *testing.T) Store
}{
	{"memory", func(t *testing.T) Store { return NewMemory() }},
	{"sqlite", func(t *testing.T) Store {
		s, err := OpenSQLite(DefaultSQLiteDSN)
		require.NoError(t, err)
		return s
	}},
}

// forEachBackend runs fn as a subtest per backend with a fresh store.
func forEachBackend(t *testing.T, fn func(t *testing.T, s Store)) {
	t.Helper()
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			s := b.open(t)
			t.Cleanup(func() { s.Close() })
			fn(t, s)
		})
	}
}

// createTestRecord analyzes value and stamps it with a fixed time.
func createTestRecord(t *testing.T, value string) ir.Record {
	t.Helper()
	id, props, err := analysis.Analyze(value)
	require.NoError(t, err)
	return ir.Record{
		ID:         id,
		Value:      value,
		Properties: props,
		CreatedAt:  time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC),
	}
}

func recordValues(records []ir.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Value
	}
	return out
}

package scenario

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/sift/internal/service"
	"github.com/roach88/sift/internal/store"
	"github.com/roach88/sift/internal/testutil"
)

var backends = []string{store.BackendMemory, store.BackendSQLite}

func newService(t *testing.T, backend string) *service.Service {
	t.Helper()
	st, err := store.Open(store.Options{Backend: backend})
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return service.New(st, service.WithClock(testutil.NewDeterministicClock().Now))
}

func mustParse(t *testing.T, doc string) *Scenario {
	t.Helper()
	sc, err := Parse([]byte(doc))
	require.NoError(t, err)
	return sc
}

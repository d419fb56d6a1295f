package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sift/internal/ir"
	"github.com/roach88/sift/internal/nlquery"
	"github.com/roach88/sift/internal/store"
	"github.com/roach88/sift/internal/testutil"
)

// backends runs each test against both store implementations.
var backends = []string{store.BackendMemory, store.BackendSQLite}

func newTestService(t *testing.T, backend string) (*Service, *testutil.DeterministicClock) {
	t.Helper()
	st, err := store.Open(store.Options{Backend: backend})
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	clock := testutil.NewDeterministicClock()
	return New(st, WithClock(clock.Now)), clock
}

func forEachBackend(t *testing.T, fn func(t *testing.T, svc *Service, clock *testutil.DeterministicClock)) {
	for _, b := range backends {
		t.Run(b, func(t *testing.T) {
			svc, clock := newTestService(t, b)
			fn(t, svc, clock)
		})
	}
}

func seed(t *testing.T, svc *Service, values ...string) {
	t.Helper()
	for _, v := range values {
		_, err := svc.Create(context.Background(), v)
		require.NoError(t, err, "seed %q", v)
	}
}

func values(records []ir.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Value
	}
	return out
}

func TestCreate(t *testing.T) {
	forEachBackend(t, func(t *testing.T, svc *Service, clock *testutil.DeterministicClock) {
		rec, err := svc.Create(context.Background(), "A man, a plan, a canal: Panama")
		require.NoError(t, err)

		assert.Equal(t, ir.Fingerprint("A man, a plan, a canal: Panama"), rec.ID)
		assert.Equal(t, "A man, a plan, a canal: Panama", rec.Value)
		assert.True(t, rec.Properties.IsPalindrome)
		assert.Equal(t, 30, rec.Properties.Length)
		assert.Equal(t, 7, rec.Properties.WordCount)
		assert.Equal(t, rec.Properties.Length, rec.Properties.CharacterFrequency.Total())
		assert.True(t, testutil.Epoch.Equal(rec.CreatedAt))
	})
}

func TestCreate_InvalidInput(t *testing.T) {
	forEachBackend(t, func(t *testing.T, svc *Service, _ *testutil.DeterministicClock) {
		for _, v := range []string{"", "   ", "\n\t"} {
			_, err := svc.Create(context.Background(), v)
			require.Error(t, err)
			assert.True(t, IsInvalidInput(err), "value %q: %v", v, err)
			assert.False(t, IsAlreadyExists(err))
		}
	})
}

func TestCreate_AlreadyExistsKeepsCreatedAt(t *testing.T) {
	forEachBackend(t, func(t *testing.T, svc *Service, _ *testutil.DeterministicClock) {
		ctx := context.Background()
		first, err := svc.Create(ctx, "hello")
		require.NoError(t, err)

		_, err = svc.Create(ctx, "hello")
		require.Error(t, err)
		assert.True(t, IsAlreadyExists(err))
		assert.False(t, IsInvalidInput(err))

		got, ok, err := svc.GetByValue(ctx, "hello")
		require.NoError(t, err)
		require.True(t, ok)
		assert.True(t, first.CreatedAt.Equal(got.CreatedAt))
	})
}

func TestCreate_DistinctValuesBothStored(t *testing.T) {
	forEachBackend(t, func(t *testing.T, svc *Service, _ *testutil.DeterministicClock) {
		seed(t, svc, "hello", "Hello", "hello ")
		n, err := svc.Count(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 3, n)
	})
}

func TestGetByValue_Missing(t *testing.T) {
	forEachBackend(t, func(t *testing.T, svc *Service, _ *testutil.DeterministicClock) {
		_, ok, err := svc.GetByValue(context.Background(), "missing")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestDeleteByValue(t *testing.T) {
	forEachBackend(t, func(t *testing.T, svc *Service, _ *testutil.DeterministicClock) {
		ctx := context.Background()

		removed, err := svc.DeleteByValue(ctx, "ghost")
		require.NoError(t, err)
		assert.False(t, removed)

		seed(t, svc, "ghost")
		removed, err = svc.DeleteByValue(ctx, "ghost")
		require.NoError(t, err)
		assert.True(t, removed)

		_, ok, err := svc.GetByValue(ctx, "ghost")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestList_Conjunction(t *testing.T) {
	forEachBackend(t, func(t *testing.T, svc *Service, _ *testutil.DeterministicClock) {
		seed(t, svc, "wow", "hello", "racecar")

		got, err := svc.List(context.Background(), ir.Filters{MinLength: ir.Int(4), IsPalindrome: ir.Bool(true)})
		require.NoError(t, err)
		assert.Equal(t, []string{"racecar"}, values(got))
	})
}

func TestList_NoFiltersInsertionOrder(t *testing.T) {
	forEachBackend(t, func(t *testing.T, svc *Service, _ *testutil.DeterministicClock) {
		seed(t, svc, "c", "a", "b")

		got, err := svc.List(context.Background(), ir.Filters{})
		require.NoError(t, err)
		assert.Equal(t, []string{"c", "a", "b"}, values(got))
	})
}

func TestList_ContainsCharacterCaseInsensitive(t *testing.T) {
	forEachBackend(t, func(t *testing.T, svc *Service, _ *testutil.DeterministicClock) {
		seed(t, svc, "Zebra", "apple", "pizza")

		got, err := svc.List(context.Background(), ir.Filters{ContainsCharacter: ir.String("z")})
		require.NoError(t, err)
		assert.Equal(t, []string{"Zebra", "pizza"}, values(got))
	})
}

func TestList_InvalidFilters(t *testing.T) {
	forEachBackend(t, func(t *testing.T, svc *Service, _ *testutil.DeterministicClock) {
		_, err := svc.List(context.Background(), ir.Filters{MinLength: ir.Int(9), MaxLength: ir.Int(2)})
		require.Error(t, err)
		assert.True(t, IsInvalidInput(err))

		_, err = svc.List(context.Background(), ir.Filters{ContainsCharacter: ir.String("xy")})
		require.Error(t, err)
		assert.True(t, IsInvalidInput(err))
	})
}

func TestListByQuery(t *testing.T) {
	forEachBackend(t, func(t *testing.T, svc *Service, _ *testutil.DeterministicClock) {
		seed(t, svc, "racecar", "level", "never odd or even", "hello", "zigzag")
		ctx := context.Background()

		tests := []struct {
			query       string
			wantValues  []string
			wantFilters ir.Filters
		}{
			{
				query:       "Find palindromic strings with a single word",
				wantValues:  []string{"racecar", "level"},
				wantFilters: ir.Filters{IsPalindrome: ir.Bool(true), WordCount: ir.Int(1)},
			},
			{
				query:       "strings longer than 10",
				wantValues:  []string{"never odd or even"},
				wantFilters: ir.Filters{MinLength: ir.Int(11)},
			},
			{
				query:       "containing the letter z",
				wantValues:  []string{"zigzag"},
				wantFilters: ir.Filters{ContainsCharacter: ir.String("z")},
			},
			{
				query:       "show me things",
				wantValues:  []string{"racecar", "level", "never odd or even", "hello", "zigzag"},
				wantFilters: ir.Filters{},
			},
		}

		for _, tt := range tests {
			t.Run(tt.query, func(t *testing.T) {
				got, interp, err := svc.ListByQuery(ctx, tt.query)
				require.NoError(t, err)
				assert.Equal(t, tt.wantValues, values(got))
				assert.Equal(t, tt.wantFilters, interp.Filters)
				assert.Equal(t, tt.query, interp.Original)
			})
		}
	})
}

func TestListByQuery_EmptyResultIsValid(t *testing.T) {
	forEachBackend(t, func(t *testing.T, svc *Service, _ *testutil.DeterministicClock) {
		seed(t, svc, "hello")

		got, interp, err := svc.ListByQuery(context.Background(), "palindromic strings")
		require.NoError(t, err)
		assert.Empty(t, got)
		assert.Equal(t, ir.Bool(true), interp.Filters.IsPalindrome)
	})
}

func TestListByQuery_BlankQuery(t *testing.T) {
	forEachBackend(t, func(t *testing.T, svc *Service, _ *testutil.DeterministicClock) {
		_, _, err := svc.ListByQuery(context.Background(), "  ")
		require.Error(t, err)
		assert.True(t, IsInvalidInput(err))
	})
}

func TestWithTranslator(t *testing.T) {
	st := store.NewMemory()
	tr := nlquery.New(nlquery.Keyword("short", ir.Filters{MaxLength: ir.Int(3)}))
	svc := New(st, WithTranslator(tr))
	seed(t, svc, "abc", "abcdef")

	got, interp, err := svc.ListByQuery(context.Background(), "short ones")
	require.NoError(t, err)
	assert.Equal(t, []string{"abc"}, values(got))
	assert.Equal(t, []string{"short"}, interp.Matched)
	assert.Equal(t, interp, svc.Translate("short ones"))
}

func TestCreate_ConcurrentDuplicates(t *testing.T) {
	forEachBackend(t, func(t *testing.T, svc *Service, _ *testutil.DeterministicClock) {
		var (
			wg       sync.WaitGroup
			mu       sync.Mutex
			created  int
			conflict int
		)
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := svc.Create(context.Background(), "same")
				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					created++
				case IsAlreadyExists(err):
					conflict++
				default:
					t.Errorf("unexpected error: %v", err)
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 1, created)
		assert.Equal(t, 15, conflict)
	})
}

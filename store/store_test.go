package store_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stevemurr/bookstore-inventory/store"
)

type foo struct {
	StringVariable  string `json:"stringVariable"`
	NumberVariable  int    `json:"numberVariable"`
	BooleanVariable bool   `json:"booleanVariable"`
}

var (
	fooData     = foo{"stringVariable", 12345, true}
	updatedData = foo{"updatedString", 54321, false}
)

func readFoos(t *testing.T, s store.Store, name string) []foo {
	t.Helper()
	got, err := store.ReadAll[foo](s, name)
	require.NoError(t, err)
	return got
}

// runStoreTests runs a common test suite against any Store implementation.
func runStoreTests(t *testing.T, s store.Store) {
	t.Helper()

	t.Run("Read missing", func(t *testing.T) {
		_, err := s.Read("nonExistent")
		require.ErrorIs(t, err, store.ErrCollectionNotFound)
	})

	t.Run("Create then Read empty", func(t *testing.T) {
		require.NoError(t, s.Create("empty"))
		raw, err := s.Read("empty")
		require.NoError(t, err)
		assert.JSONEq(t, "[]", raw)
	})

	t.Run("Insert and Read", func(t *testing.T) {
		require.NoError(t, s.Create("fooExample"))
		require.NoError(t, s.Insert(fooData, "fooExample"))
		assert.Equal(t, []foo{fooData}, readFoos(t, s, "fooExample"))
	})

	t.Run("Create keeps existing content", func(t *testing.T) {
		require.NoError(t, s.Create("fooExample"))
		assert.Equal(t, []foo{fooData}, readFoos(t, s, "fooExample"))
	})

	t.Run("Insert preserves order", func(t *testing.T) {
		require.NoError(t, s.Insert(updatedData, "fooExample"))
		assert.Equal(t, []foo{fooData, updatedData}, readFoos(t, s, "fooExample"))
	})

	t.Run("Update replaces everything", func(t *testing.T) {
		require.NoError(t, s.Update([]foo{updatedData}, "fooExample"))
		assert.Equal(t, []foo{updatedData}, readFoos(t, s, "fooExample"))
	})

	t.Run("Update with nil slice empties", func(t *testing.T) {
		require.NoError(t, s.Update([]foo(nil), "fooExample"))
		raw, err := s.Read("fooExample")
		require.NoError(t, err)
		assert.JSONEq(t, "[]", raw)
	})

	t.Run("Update rejects non-array", func(t *testing.T) {
		require.Error(t, s.Update(fooData, "fooExample"))
	})

	t.Run("Delete removes structural matches", func(t *testing.T) {
		require.NoError(t, s.Update([]foo{fooData, updatedData, fooData}, "fooExample"))

		// Same fields, different key order and Go type.
		match := map[string]any{
			"booleanVariable": true,
			"numberVariable":  12345,
			"stringVariable":  "stringVariable",
		}
		require.NoError(t, s.Delete(match, "fooExample"))
		assert.Equal(t, []foo{updatedData}, readFoos(t, s, "fooExample"))
	})

	t.Run("Delete without match leaves content", func(t *testing.T) {
		require.NoError(t, s.Delete(fooData, "fooExample"))
		assert.Equal(t, []foo{updatedData}, readFoos(t, s, "fooExample"))
	})

	t.Run("Delete ignores number spelling", func(t *testing.T) {
		require.NoError(t, s.Create("prices"))
		require.NoError(t, s.Insert(json.RawMessage(`{"id":1.0,"price":10.50}`), "prices"))
		require.NoError(t, s.Insert(json.RawMessage(`{"id":2,"price":3}`), "prices"))

		require.NoError(t, s.Delete(map[string]any{"id": 1, "price": 10.5}, "prices"))
		raw, err := s.Read("prices")
		require.NoError(t, err)
		assert.JSONEq(t, `[{"id":2,"price":3}]`, raw)
	})

	t.Run("Missing collection errors", func(t *testing.T) {
		assert.ErrorIs(t, s.Insert(fooData, "nonExistent"), store.ErrCollectionNotFound)
		assert.ErrorIs(t, s.Update([]foo{fooData}, "nonExistent"), store.ErrCollectionNotFound)
		assert.ErrorIs(t, s.Delete(fooData, "nonExistent"), store.ErrCollectionNotFound)
	})

	t.Run("Drop", func(t *testing.T) {
		require.NoError(t, s.Drop("fooExample"))
		_, err := s.Read("fooExample")
		require.ErrorIs(t, err, store.ErrCollectionNotFound)

		// Dropping again is a no-op.
		require.NoError(t, s.Drop("fooExample"))
	})

	t.Run("Create after Drop starts empty", func(t *testing.T) {
		require.NoError(t, s.Create("fooExample"))
		assert.Empty(t, readFoos(t, s, "fooExample"))
	})

	t.Run("Collections are isolated", func(t *testing.T) {
		require.NoError(t, s.Create("a"))
		require.NoError(t, s.Create("b"))
		require.NoError(t, s.Insert(map[string]any{"x": 1}, "a"))
		require.NoError(t, s.Insert(map[string]any{"x": 2}, "b"))

		rawA, err := s.Read("a")
		require.NoError(t, err)
		rawB, err := s.Read("b")
		require.NoError(t, err)
		assert.JSONEq(t, `[{"x":1}]`, rawA)
		assert.JSONEq(t, `[{"x":2}]`, rawB)
	})

	t.Run("Invalid name", func(t *testing.T) {
		assert.ErrorIs(t, s.Create(""), store.ErrInvalidCollection)
		assert.ErrorIs(t, s.Create("../escape"), store.ErrInvalidCollection)

		_, err := s.Read("../escape")
		assert.ErrorIs(t, err, store.ErrInvalidCollection)
		assert.ErrorIs(t, s.Insert(fooData, "../escape"), store.ErrInvalidCollection)
		assert.ErrorIs(t, s.Update([]foo{fooData}, "../escape"), store.ErrInvalidCollection)
		assert.ErrorIs(t, s.Delete(fooData, "../escape"), store.ErrInvalidCollection)
		assert.ErrorIs(t, s.Drop("../escape"), store.ErrInvalidCollection)
	})
}

func TestMemoryStore(t *testing.T) {
	runStoreTests(t, store.NewMemoryStore())
}

func TestFlatFileStore(t *testing.T) {
	s, err := store.NewFlatFileStore(t.TempDir())
	require.NoError(t, err)
	runStoreTests(t, s)
}

func TestSqliteStore(t *testing.T) {
	s, err := store.NewSqliteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer s.Close()
	runStoreTests(t, s)
}

func TestBoltStore(t *testing.T) {
	s, err := store.NewBoltStore(filepath.Join(t.TempDir(), "test.bolt"))
	require.NoError(t, err)
	defer s.Close()
	runStoreTests(t, s)
}

func TestInstrumentedStore(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := store.NewMetrics(reg)
	s := store.NewInstrumented(store.NewMemoryStore(), "memory", m)
	runStoreTests(t, s)

	// "Read missing" plus the read after Drop.
	assert.Equal(t, float64(2),
		testutil.ToFloat64(m.OperationsTotal.WithLabelValues("memory", "read", "not_found")))
	assert.Greater(t,
		testutil.ToFloat64(m.OperationsTotal.WithLabelValues("memory", "insert", "ok")), float64(0))
}

func TestFlatFileLayout(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "flatfileDb")
	s, err := store.NewFlatFileStore(dir)
	require.NoError(t, err)

	t.Run("root directory is created", func(t *testing.T) {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("create writes an empty array once", func(t *testing.T) {
		require.NoError(t, s.Create("fooExample"))
		require.NoError(t, s.Create("fooExample"))
		b, err := os.ReadFile(filepath.Join(dir, "fooExample.json"))
		require.NoError(t, err)
		assert.Equal(t, "[]", string(b))
	})

	t.Run("insert rewrites the file as a JSON array", func(t *testing.T) {
		require.NoError(t, s.Insert(fooData, "fooExample"))
		b, err := os.ReadFile(filepath.Join(dir, "fooExample.json"))
		require.NoError(t, err)
		var got []foo
		require.NoError(t, json.Unmarshal(b, &got))
		assert.Equal(t, []foo{fooData}, got)
	})

	t.Run("no temp files are left behind", func(t *testing.T) {
		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "fooExample.json", entries[0].Name())
	})

	t.Run("drop removes the file", func(t *testing.T) {
		require.NoError(t, s.Drop("fooExample"))
		_, err := os.Stat(filepath.Join(dir, "fooExample.json"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("corrupt content reads as empty on insert", func(t *testing.T) {
		path := filepath.Join(dir, "broken.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
		require.NoError(t, s.Insert(fooData, "broken"))
		assert.Equal(t, []foo{fooData}, readFoos(t, s, "broken"))
	})
}

func TestReadAllDecodeError(t *testing.T) {
	dir := t.TempDir()
	s, err := store.NewFlatFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{"), 0o644))

	_, err = store.ReadAll[foo](s, "bad")
	require.Error(t, err)
	assert.NotErrorIs(t, err, store.ErrCollectionNotFound)
}

func TestFactory(t *testing.T) {
	dir := t.TempDir()

	for _, backend := range []string{"json", "flatfile", "sqlite", "bolt", "memory", ""} {
		t.Run(backend, func(t *testing.T) {
			s, err := store.New(backend, filepath.Join(dir, backend))
			require.NoError(t, err)
			require.NoError(t, s.Create("smoke"))
			if c, ok := s.(interface{ Close() error }); ok {
				require.NoError(t, c.Close())
			}
		})
	}

	t.Run("unknown", func(t *testing.T) {
		_, err := store.New("redis", dir)
		require.Error(t, err)
	})
}

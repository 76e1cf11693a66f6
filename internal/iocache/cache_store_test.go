package iocache

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/docgap/docgap/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteStore(t *testing.T) *CacheStoreImpl {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test-cache.db")
	store, err := NewCacheStore("mining_cache", schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store.(*CacheStoreImpl)
}

func TestCacheStoreSQLite(t *testing.T) {
	t.Run("set and get roundtrip", func(t *testing.T) {
		store := newSQLiteStore(t)
		ts := time.Now().Unix()

		err := store.Set("mine:abc123:CVE-:0", []byte(`{"records":[]}`), 1, ts)
		require.NoError(t, err)

		value, version, gotTs, err := store.Get("mine:abc123:CVE-:0")
		require.NoError(t, err)
		assert.Equal(t, []byte(`{"records":[]}`), value)
		assert.Equal(t, 1, version)
		assert.Equal(t, ts, gotTs)
	})

	t.Run("missing key returns ErrNoRows", func(t *testing.T) {
		store := newSQLiteStore(t)
		_, _, _, err := store.Get("no-such-key")
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})

	t.Run("set overwrites existing key", func(t *testing.T) {
		store := newSQLiteStore(t)
		require.NoError(t, store.Set("key", []byte("old"), 1, 100))
		require.NoError(t, store.Set("key", []byte("new"), 2, 200))

		value, version, ts, err := store.Get("key")
		require.NoError(t, err)
		assert.Equal(t, []byte("new"), value)
		assert.Equal(t, 2, version)
		assert.Equal(t, int64(200), ts)
	})

	t.Run("clear removes all entries", func(t *testing.T) {
		store := newSQLiteStore(t)
		require.NoError(t, store.Set("a", []byte("1"), 1, 100))
		require.NoError(t, store.Set("b", []byte("2"), 1, 200))

		require.NoError(t, store.Clear())

		_, _, _, err := store.Get("a")
		assert.ErrorIs(t, err, sql.ErrNoRows)

		status, err := store.GetStatus()
		require.NoError(t, err)
		assert.Equal(t, 0, status.EntryCount)
	})

	t.Run("status reports counts and oldest entry", func(t *testing.T) {
		store := newSQLiteStore(t)
		require.NoError(t, store.Set("a", []byte("1"), 1, 100))
		require.NoError(t, store.Set("b", []byte("2"), 1, 200))

		status, err := store.GetStatus()
		require.NoError(t, err)
		assert.Equal(t, schema.SQLiteBackend, status.Backend)
		assert.Equal(t, 2, status.EntryCount)
		assert.Equal(t, time.Unix(100, 0).UTC(), status.OldestAt)
		assert.Positive(t, status.SizeBytes)
	})

	t.Run("invalid table name rejected", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "test-cache.db")
		_, err := NewCacheStore("bad; DROP TABLE", schema.SQLiteBackend, dbPath)
		assert.Error(t, err)
	})
}

func TestCacheStoreNone(t *testing.T) {
	store, err := NewCacheStore("mining_cache", schema.NoneBackend, "")
	require.NoError(t, err)

	t.Run("get always misses", func(t *testing.T) {
		_, _, _, err := store.Get("anything")
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})

	t.Run("set and clear are no-ops", func(t *testing.T) {
		assert.NoError(t, store.Set("key", []byte("value"), 1, 100))
		assert.NoError(t, store.Clear())
	})

	t.Run("status has backend only", func(t *testing.T) {
		status, err := store.GetStatus()
		require.NoError(t, err)
		assert.Equal(t, schema.NoneBackend, status.Backend)
		assert.Zero(t, status.EntryCount)
	})

	t.Run("close is safe", func(t *testing.T) {
		assert.NoError(t, store.Close())
	})
}

func TestNewCacheStoreUnsupportedBackend(t *testing.T) {
	_, err := NewCacheStore("mining_cache", schema.DatabaseBackend("oracle"), "")
	assert.ErrorContains(t, err, "unsupported cache backend")
}

func TestClearCacheSQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "clear-me.db")
	require.NoError(t, os.WriteFile(dbPath, []byte("stub"), 0o644))

	require.NoError(t, ClearCache(schema.SQLiteBackend, dbPath, ""))
	_, err := os.Stat(dbPath)
	assert.True(t, os.IsNotExist(err))

	// Clearing again with the file already gone is not an error.
	assert.NoError(t, ClearCache(schema.SQLiteBackend, dbPath, ""))

	assert.Error(t, ClearCache(schema.SQLiteBackend, "", ""))
	assert.NoError(t, ClearCache(schema.NoneBackend, "", ""))
}

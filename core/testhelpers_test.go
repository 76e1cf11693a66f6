package core

import (
	"database/sql"
	"encoding/json"
	"strconv"
	"testing"
	"time"

	"github.com/docgap/docgap/internal/contract"
	"github.com/docgap/docgap/schema"
)

// fakeEntry is one stored cache record.
type fakeEntry struct {
	blob    []byte
	version int
}

// fakeStore is an in-memory CacheStore for exercising the mining cache paths.
type fakeStore struct {
	data           map[string]fakeEntry
	lastSetVersion int
}

var _ contract.CacheStore = &fakeStore{} // Compile-time check

func (s *fakeStore) Get(key string) ([]byte, int, int64, error) {
	e, ok := s.data[key]
	if !ok {
		return nil, 0, 0, sql.ErrNoRows
	}
	return e.blob, e.version, 0, nil
}

func (s *fakeStore) Set(key string, value []byte, version int, _ int64) error {
	if s.data == nil {
		s.data = make(map[string]fakeEntry)
	}
	s.data[key] = fakeEntry{blob: value, version: version}
	s.lastSetVersion = version
	return nil
}

func (s *fakeStore) Clear() error {
	s.data = make(map[string]fakeEntry)
	return nil
}

func (s *fakeStore) GetStatus() (schema.CacheStatus, error) {
	return schema.CacheStatus{Backend: schema.NoneBackend, EntryCount: len(s.data)}, nil
}

func (s *fakeStore) Close() error { return nil }

// fakeManager hands out the fake store.
type fakeManager struct {
	store contract.CacheStore
}

var _ contract.CacheManager = &fakeManager{} // Compile-time check

func (m *fakeManager) GetMiningStore() contract.CacheStore { return m.store }

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	blob, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return blob
}

func unixKey(ts time.Time) string {
	return strconv.FormatInt(ts.Unix(), 10)
}

package schema

import "time"

// CacheStatus summarizes the state of the mining cache store.
type CacheStatus struct {
	Backend    DatabaseBackend `json:"backend"`
	Location   string          `json:"location,omitempty"`
	EntryCount int             `json:"entry_count"`
	SizeBytes  int64           `json:"size_bytes,omitempty"`
	OldestAt   time.Time       `json:"oldest_at,omitempty"`
}

// Package iocache caches history-mining I/O against a SQL backend.
package iocache

import (
	"sync"

	"github.com/docgap/docgap/internal/contract"
)

// CacheStoreManager manages the mining CacheStore instance.
type CacheStoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	mining       contract.CacheStore
}

var _ contract.CacheManager = &CacheStoreManager{} // Compile-time check

// GetMiningStore returns the mining CacheStore.
func (mgr *CacheStoreManager) GetMiningStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.mining
}

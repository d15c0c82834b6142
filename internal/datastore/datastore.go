// Package datastore is the relational store for reports, images, groups and profiles.
package datastore

import (
	"sync"

	"github.com/huangsam/douremember/internal/contract"
)

// StoreManager holds the process-wide DataStore.
type StoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	data         contract.DataStore
}

var _ contract.StoreManager = &StoreManager{} // Compile-time check

// GetDataStore returns the configured DataStore.
func (mgr *StoreManager) GetDataStore() contract.DataStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.data
}

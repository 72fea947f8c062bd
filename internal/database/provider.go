package database

import (
	"fmt"
	"sort"
	"sync"

	"github.com/kunnaall04/Criminal-Face-Identification-System/internal/config"
)

// Opener connects to a record store backend.
type Opener func(cfg *config.DatabaseConfig) (RecordStore, error)

var (
	backends   = map[string]Opener{}
	backendsMu sync.RWMutex
)

// RegisterBackend registers a record store constructor under a driver name.
// This is called by the backend packages to avoid import cycles.
func RegisterBackend(driver string, open Opener) {
	backendsMu.Lock()
	defer backendsMu.Unlock()
	backends[driver] = open
}

// Drivers returns the registered driver names.
func Drivers() []string {
	backendsMu.RLock()
	defer backendsMu.RUnlock()
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open connects to the configured backend. Lookups are cached when
// cfg.CacheTTL is positive.
func Open(cfg *config.DatabaseConfig) (RecordStore, error) {
	if cfg == nil || !cfg.Enabled() {
		return nil, fmt.Errorf("record store not configured: RECORDS_DATABASE_URL is required")
	}

	backendsMu.RLock()
	open, ok := backends[cfg.Driver]
	backendsMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown record store driver %q (available: %v)", cfg.Driver, Drivers())
	}

	store, err := open(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.CacheTTL > 0 {
		return NewCachedStore(store, cfg.CacheTTL), nil
	}
	return store, nil
}

package store

import (
	"fmt"
	"path/filepath"
)

// New creates a Store based on the backend name.
//
// Supported backends:
//
//	"json"   - one JSON file per collection in dataDir/flatfileDb (default)
//	"sqlite" - SQLite database at dataDir/bookstore.db
//	"bolt"   - bbolt database at dataDir/bookstore.bolt
//	"memory" - In-memory (ephemeral, for testing)
//
// Backends holding open handles also implement io.Closer.
func New(backend, dataDir string) (Store, error) {
	switch backend {
	case "json", "flatfile", "":
		return NewFlatFileStore(filepath.Join(dataDir, "flatfileDb"))
	case "sqlite":
		return NewSqliteStore(filepath.Join(dataDir, "bookstore.db"))
	case "bolt":
		return NewBoltStore(filepath.Join(dataDir, "bookstore.bolt"))
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store backend: %q (supported: json, sqlite, bolt, memory)", backend)
	}
}

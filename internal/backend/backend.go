// Package backend selects and constructs the document store implementation.
package backend

import (
	"fmt"

	"caja/internal/config"
	"caja/internal/docstore"
	"caja/internal/docstore/memory"
	"caja/internal/storage"
)

type Type string

const (
	Memory Type = "memory"
	SQLite Type = "sqlite"
)

func (t Type) IsValid() bool {
	return t == Memory || t == SQLite
}

// Open builds the document store named by the config. The returned close
// function is a no-op for the memory backend.
func Open(cfg *config.Config) (docstore.Store, func() error, error) {
	switch Type(cfg.DataBackend) {
	case Memory:
		return memory.New(), func() error { return nil }, nil
	case SQLite:
		store, err := storage.NewSQLiteStore(cfg.SQLiteDBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown data backend %q", cfg.DataBackend)
	}
}

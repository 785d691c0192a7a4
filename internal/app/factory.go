package app

import (
	"fmt"
	"path/filepath"

	"studytrack/internal/config"
	"studytrack/internal/database"
	"studytrack/internal/store"
)

// NewStoreFromConfig creates a Store implementation based on the store
// config type.
func NewStoreFromConfig(cfg config.StoreConfig) (store.Store, error) {
	switch cfg.Type {
	case "memory":
		return store.NewMemoryStore(nil), nil
	case "file":
		if cfg.FileRoot == "" {
			return nil, fmt.Errorf("file store requires file_root to be set")
		}
		return store.NewFileStore(cfg.FileRoot, nil)
	case "sqlite":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("sqlite store requires data_dir to be set")
		}
		return database.NewSQLiteStore(filepath.Join(cfg.DataDir, "studytrack.db"), nil)
	default:
		return nil, fmt.Errorf("unknown store type: %s", cfg.Type)
	}
}

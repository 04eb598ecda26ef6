package storage

import (
	"fmt"
	"log/slog"

	"github.com/OCAP2/fleet/internal/config"
	"github.com/OCAP2/fleet/internal/database"
	"github.com/OCAP2/fleet/internal/storage/gormstore"
	"github.com/OCAP2/fleet/internal/storage/memory"
	"gorm.io/gorm"
)

// NewBackend creates a storage backend based on configuration. Database
// connections are opened lazily by Init.
func NewBackend(cfg config.StorageConfig, log *slog.Logger) (Backend, error) {
	switch cfg.Type {
	case "memory", "":
		return memory.New(cfg.Memory, log), nil
	case "sqlite":
		return gormstore.New(func() (*gorm.DB, error) {
			return database.OpenSQLite(cfg.SQLite.Path, log)
		}, gormstore.Config{DumpPath: cfg.SQLite.DumpPath}, log), nil
	case "postgres":
		return gormstore.New(func() (*gorm.DB, error) {
			return database.OpenPostgres(cfg.DB, log)
		}, gormstore.Config{}, log), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, cfg.Type)
	}
}

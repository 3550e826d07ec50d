// Package persistence opens the configured database
package persistence

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/alchemorsel/recipebox/internal/infrastructure/config"
	gormModels "github.com/alchemorsel/recipebox/internal/infrastructure/persistence/gorm"
	"github.com/alchemorsel/recipebox/internal/infrastructure/persistence/postgres"
	"github.com/alchemorsel/recipebox/internal/infrastructure/persistence/sqlite"
)

// Open connects to sqlite or postgres, migrates the schema and seeds the
// ingredient catalog when configured
func Open(ctx context.Context, cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)
	switch cfg.Database.Driver {
	case "sqlite":
		db, err = sqlite.SetupDatabase(cfg.Database.Path, cfg.Database.LogLevel, log)
	case "postgres":
		db, err = postgres.Connect(ctx, cfg, log)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
	if err != nil {
		return nil, err
	}

	if cfg.Database.SeedCatalog {
		if err := gormModels.SeedCatalog(ctx, db, log); err != nil {
			return nil, err
		}
	}
	return db, nil
}

// Close releases the underlying connection pool
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

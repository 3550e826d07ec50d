// Package sqlite provides SQLite database setup and configuration
package sqlite

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	gormModels "github.com/alchemorsel/recipebox/internal/infrastructure/persistence/gorm"
)

// MemoryPath opens a private in-memory database
const MemoryPath = ":memory:"

// SetupDatabase creates and migrates the SQLite database
func SetupDatabase(dbPath, logLevel string, log *zap.Logger) (*gorm.DB, error) {
	// Use in-memory database if no path provided
	if dbPath == "" {
		dbPath = MemoryPath
	}

	db, err := gorm.Open(sqlite.Open(dbPath+"?_foreign_keys=on"), &gorm.Config{
		Logger:         gormModels.NewLogger(log, logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	// every connection to :memory: is a separate database
	if dbPath == MemoryPath {
		sqlDB.SetMaxOpenConns(1)
	}

	if err := gormModels.AutoMigrate(db); err != nil {
		return nil, err
	}

	log.Info("SQLite database ready", zap.String("path", dbPath))
	return db, nil
}

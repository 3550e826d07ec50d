// Package postgres provides PostgreSQL database connection and management
package postgres

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"

	"github.com/alchemorsel/recipebox/internal/infrastructure/config"
	gormModels "github.com/alchemorsel/recipebox/internal/infrastructure/persistence/gorm"
)

const pingTimeout = 10 * time.Second

// Connect opens the primary connection, registers read replicas and migrates
// the schema
func Connect(ctx context.Context, cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.GetDSN()), &gorm.Config{
		Logger:                 gormModels.NewLogger(log, cfg.Database.LogLevel),
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
		TranslateError:         true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := registerReplicas(db, cfg); err != nil {
		log.Warn("Failed to register read replicas", zap.Error(err))
	}

	if err := gormModels.AutoMigrate(db); err != nil {
		return nil, err
	}

	log.Info("PostgreSQL database ready",
		zap.String("host", cfg.Database.Host),
		zap.Int("replicas", len(cfg.Database.Replicas)),
		zap.Int("max_open_conns", cfg.Database.MaxOpenConns),
	)
	return db, nil
}

// registerReplicas routes reads to the configured replica hosts
func registerReplicas(db *gorm.DB, cfg *config.Config) error {
	if len(cfg.Database.Replicas) == 0 {
		return nil
	}

	replicas := make([]gorm.Dialector, len(cfg.Database.Replicas))
	for i, host := range cfg.Database.Replicas {
		replicas[i] = postgres.Open(ReplicaDSN(cfg.Database, host))
	}

	return db.Use(dbresolver.Register(dbresolver.Config{
		Replicas: replicas,
		Policy:   dbresolver.RandomPolicy{},
	}).
		SetMaxOpenConns(cfg.Database.MaxOpenConns).
		SetMaxIdleConns(cfg.Database.MaxIdleConns).
		SetConnMaxLifetime(cfg.Database.ConnMaxLifetime))
}

// ReplicaDSN builds the connection string of one replica host, reusing the
// primary's credentials
func ReplicaDSN(db config.DatabaseConfig, host string) string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		host,
		db.Port,
		db.Username,
		db.Password,
		db.Database,
		db.SSLMode,
	)
}

//go:build integration

package testutils

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/alchemorsel/recipebox/internal/infrastructure/config"
	"github.com/alchemorsel/recipebox/internal/infrastructure/persistence/postgres"
)

// TestDatabase is a migrated Postgres running in a container
type TestDatabase struct {
	Container testcontainers.Container
	DB        *gorm.DB
	Config    *config.Config
}

// DatabaseConfig holds test database configuration
type DatabaseConfig struct {
	Image    string
	Database string
	Username string
	Password string
}

// DefaultDatabaseConfig returns the default test database configuration
func DefaultDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Image:    "postgres:15-alpine",
		Database: "recipebox_test",
		Username: "test_user",
		Password: "test_password",
	}
}

// SetupTestDatabase starts Postgres and connects through the production
// connection code. The container is removed when the test ends.
func SetupTestDatabase(t *testing.T) *TestDatabase {
	t.Helper()
	cfg := DefaultDatabaseConfig()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        cfg.Image,
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_DB":       cfg.Database,
				"POSTGRES_USER":     cfg.Username,
				"POSTGRES_PASSWORD": cfg.Password,
			},
			WaitingFor: wait.ForAll(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(60*time.Second),
				wait.ForListeningPort(nat.Port("5432/tcp")),
			),
			Tmpfs: map[string]string{
				"/var/lib/postgresql/data": "rw",
			},
		},
		Started: true,
	})
	require.NoError(t, err, "Failed to start postgres container")
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)
	portNum, err := strconv.Atoi(port.Port())
	require.NoError(t, err)

	appCfg := &config.Config{
		App: config.AppConfig{Name: "recipebox", Environment: "test"},
		Database: config.DatabaseConfig{
			Driver:          "postgres",
			Host:            host,
			Port:            portNum,
			Database:        cfg.Database,
			Username:        cfg.Username,
			Password:        cfg.Password,
			SSLMode:         "disable",
			MaxOpenConns:    5,
			MaxIdleConns:    2,
			ConnMaxLifetime: time.Hour,
			LogLevel:        "silent",
		},
	}

	db, err := postgres.Connect(ctx, appCfg, zap.NewNop())
	require.NoError(t, err, "Failed to connect to test database")
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return &TestDatabase{Container: container, DB: db, Config: appCfg}
}

// TruncateAllTables removes all rows while keeping the schema
func (td *TestDatabase) TruncateAllTables(t *testing.T) {
	t.Helper()
	err := td.DB.Exec(`TRUNCATE TABLE collection_recipes, collections, pantry_items,
		recipe_ingredients, recipes, ingredients, users RESTART IDENTITY CASCADE`).Error
	require.NoError(t, err)
}

package testutils

import (
	"context"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/alchemorsel/mealplanner/internal/infrastructure/config"
	"github.com/docker/go-connections/nat"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver for wait.ForSQL
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDatabase is a disposable PostgreSQL container
type TestDatabase struct {
	Container testcontainers.Container
	Pool      *pgxpool.Pool
	Config    config.DatabaseConfig
	URL       string
}

// DatabaseConfig holds test database configuration
type DatabaseConfig struct {
	Image    string
	Database string
	Username string
	Password string
	Port     string
}

// DefaultDatabaseConfig returns the default test database configuration
func DefaultDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Image:    "postgres:15-alpine",
		Database: "mealplanner_test",
		Username: "test_user",
		Password: "test_password",
		Port:     "5432",
	}
}

// SetupTestDatabase starts a PostgreSQL container and returns its connection
// settings. The container is terminated when the test finishes.
func SetupTestDatabase(t *testing.T) *TestDatabase {
	t.Helper()
	cfg := DefaultDatabaseConfig()
	ctx := context.Background()

	urlFor := func(host string, port nat.Port) string {
		return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
			cfg.Username, cfg.Password, host, port.Port(), cfg.Database)
	}

	pg, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        cfg.Image,
			ExposedPorts: []string{cfg.Port + "/tcp"},
			Env: map[string]string{
				"POSTGRES_DB":       cfg.Database,
				"POSTGRES_USER":     cfg.Username,
				"POSTGRES_PASSWORD": cfg.Password,
			},
			WaitingFor: wait.ForAll(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(60*time.Second),
				wait.ForSQL(nat.Port(cfg.Port+"/tcp"), "pgx", urlFor),
			),
			Tmpfs: map[string]string{
				"/var/lib/postgresql/data": "rw,noexec,nosuid,size=512m",
			},
		},
		Started: true,
	})
	require.NoError(t, err, "Failed to start postgres container")
	t.Cleanup(func() {
		_ = pg.Terminate(context.Background())
	})

	host, err := pg.Host(ctx)
	require.NoError(t, err)
	port, err := pg.MappedPort(ctx, nat.Port(cfg.Port+"/tcp"))
	require.NoError(t, err)

	url := urlFor(host, port)
	poolCfg, err := pgxpool.ParseConfig(url)
	require.NoError(t, err, "Failed to parse pgx config")
	poolCfg.MaxConns = 4

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	require.NoError(t, err, "Failed to create pgx pool")
	t.Cleanup(pool.Close)

	portNum, err := strconv.Atoi(port.Port())
	require.NoError(t, err)

	return &TestDatabase{
		Container: pg,
		Pool:      pool,
		URL:       url,
		Config: config.DatabaseConfig{
			Driver:   "postgres",
			Host:     host,
			Port:     portNum,
			Name:     cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
			SSLMode:  "disable",
		},
	}
}

// TableCount returns the number of rows in table
func (td *TestDatabase) TableCount(t *testing.T, table string) int {
	t.Helper()
	var n int
	err := td.Pool.QueryRow(context.Background(), "SELECT COUNT(*) FROM "+table).Scan(&n)
	require.NoError(t, err)
	return n
}

// TableExists reports whether the public schema has table
func (td *TestDatabase) TableExists(t *testing.T, table string) bool {
	t.Helper()
	var exists bool
	err := td.Pool.QueryRow(context.Background(),
		"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_schema = 'public' AND table_name = $1)",
		table).Scan(&exists)
	require.NoError(t, err)
	return exists
}

// SetupTestRedis starts a Redis container and returns its connection settings
func SetupTestRedis(t *testing.T) config.RedisConfig {
	t.Helper()
	ctx := context.Background()

	rc, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err, "Failed to start redis container")
	t.Cleanup(func() {
		_ = rc.Terminate(context.Background())
	})

	host, err := rc.Host(ctx)
	require.NoError(t, err)
	port, err := rc.MappedPort(ctx, "6379/tcp")
	require.NoError(t, err)

	return config.RedisConfig{
		Enabled:     true,
		Host:        host,
		Port:        port.Int(),
		DialTimeout: 5 * time.Second,
		ReadTimeout: 3 * time.Second,
	}
}

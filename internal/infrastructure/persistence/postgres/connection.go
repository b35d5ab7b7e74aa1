// Package postgres provides PostgreSQL connection and pool management
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alchemorsel/mealplanner/internal/infrastructure/config"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"
)

// Pool defaults applied when the configuration leaves a setting at zero
const (
	defaultMaxOpenConns    = 25
	defaultMaxIdleConns    = 5
	defaultConnMaxLifetime = 30 * time.Minute
	defaultConnMaxIdleTime = 5 * time.Minute
	pingTimeout            = 10 * time.Second
)

// ConnectionManager owns the primary PostgreSQL pool and any read replicas
type ConnectionManager struct {
	config   config.DatabaseConfig
	logger   *zap.Logger
	db       *gorm.DB
	writeDB  *sql.DB
	replicas int
}

// poolSettings resolves pool limits from configuration
type poolSettings struct {
	maxOpen     int
	maxIdle     int
	maxLifetime time.Duration
	maxIdleTime time.Duration
}

func poolFrom(cfg config.DatabaseConfig) poolSettings {
	p := poolSettings{
		maxOpen:     defaultMaxOpenConns,
		maxIdle:     defaultMaxIdleConns,
		maxLifetime: defaultConnMaxLifetime,
		maxIdleTime: defaultConnMaxIdleTime,
	}
	if cfg.MaxOpenConns > 0 {
		p.maxOpen = cfg.MaxOpenConns
	}
	if cfg.MaxIdleConns > 0 {
		p.maxIdle = cfg.MaxIdleConns
	}
	if cfg.ConnMaxLifetime > 0 {
		p.maxLifetime = cfg.ConnMaxLifetime
	}
	if cfg.ConnMaxIdleTime > 0 {
		p.maxIdleTime = cfg.ConnMaxIdleTime
	}
	return p
}

// NewConnectionManager opens the primary connection, verifies it and
// registers read replicas
func NewConnectionManager(ctx context.Context, cfg config.DatabaseConfig, gormLogger logger.Interface, log *zap.Logger) (*ConnectionManager, error) {
	cm := &ConnectionManager{
		config: cfg,
		logger: log.Named("postgres"),
	}
	pool := poolFrom(cfg)

	if err := cm.initializePrimaryConnection(ctx, pool, gormLogger); err != nil {
		return nil, fmt.Errorf("failed to initialize primary connection: %w", err)
	}

	if err := cm.initializeReadReplicas(pool); err != nil {
		log.Warn("Failed to initialize read replicas", zap.Error(err))
	}

	cm.logger.Info("Database connection manager initialized",
		zap.Int("max_open_conns", pool.maxOpen),
		zap.Int("max_idle_conns", pool.maxIdle),
		zap.Duration("conn_max_lifetime", pool.maxLifetime),
		zap.Int("replicas", cm.replicas),
	)

	return cm, nil
}

func (cm *ConnectionManager) initializePrimaryConnection(ctx context.Context, pool poolSettings, gormLogger logger.Interface) error {
	db, err := gorm.Open(postgres.Open(cm.config.DSN(cm.config.Host, cm.config.Port)), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(pool.maxOpen)
	sqlDB.SetMaxIdleConns(pool.maxIdle)
	sqlDB.SetConnMaxLifetime(pool.maxLifetime)
	sqlDB.SetConnMaxIdleTime(pool.maxIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := sqlDB.PingContext(pingCtx); err != nil {
		sqlDB.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	cm.db = db
	cm.writeDB = sqlDB
	return nil
}

// initializeReadReplicas routes reads to the configured replicas. Writes and
// transactions stay on the primary.
func (cm *ConnectionManager) initializeReadReplicas(pool poolSettings) error {
	dsns := cm.config.ReplicaDSNs()
	if len(dsns) == 0 {
		return nil
	}

	replicas := make([]gorm.Dialector, len(dsns))
	for i, dsn := range dsns {
		replicas[i] = postgres.Open(dsn)
	}

	resolver := dbresolver.Register(dbresolver.Config{
		Replicas: replicas,
		Policy:   dbresolver.RandomPolicy{},
	}).
		SetMaxOpenConns(pool.maxOpen).
		SetMaxIdleConns(pool.maxIdle).
		SetConnMaxLifetime(pool.maxLifetime).
		SetConnMaxIdleTime(pool.maxIdleTime)

	if err := cm.db.Use(resolver); err != nil {
		return fmt.Errorf("failed to register read replicas: %w", err)
	}
	cm.replicas = len(dsns)

	cm.logger.Info("Read replicas configured", zap.Int("replica_count", cm.replicas))
	return nil
}

// DB returns the GORM handle; reads go to replicas when any are registered
func (cm *ConnectionManager) DB() *gorm.DB {
	return cm.db
}

// SQLDB returns the primary pool
func (cm *ConnectionManager) SQLDB() *sql.DB {
	return cm.writeDB
}

// HealthCheck pings the primary and probes the read path
func (cm *ConnectionManager) HealthCheck(ctx context.Context) error {
	if err := cm.writeDB.PingContext(ctx); err != nil {
		return fmt.Errorf("primary database ping failed: %w", err)
	}

	if cm.replicas > 0 {
		var one int
		if err := cm.db.WithContext(ctx).Clauses(dbresolver.Read).Raw("SELECT 1").Scan(&one).Error; err != nil {
			cm.logger.Warn("Read replica probe failed", zap.Error(err))
		}
	}

	return nil
}

// Close closes the primary pool
func (cm *ConnectionManager) Close() error {
	if cm.writeDB == nil {
		return nil
	}
	if err := cm.writeDB.Close(); err != nil {
		cm.logger.Error("Failed to close primary database", zap.Error(err))
		return err
	}
	return nil
}

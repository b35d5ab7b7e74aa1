package container

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alchemorsel/mealplanner/internal/infrastructure/config"
	"github.com/alchemorsel/mealplanner/internal/infrastructure/persistence/gormlog"
	"github.com/alchemorsel/mealplanner/internal/infrastructure/persistence/migrations"
	"github.com/alchemorsel/mealplanner/internal/infrastructure/persistence/postgres"
	"github.com/alchemorsel/mealplanner/internal/infrastructure/persistence/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Database is an open gorm handle with its primary pool
type Database struct {
	DB    *gorm.DB
	SQL   *sql.DB
	close func() error
}

// Close releases the connections
func (d *Database) Close() error {
	return d.close()
}

// OpenDatabase opens the configured driver. Postgres schemas are migrated
// when auto_migrate is set; sqlite schemas always are. The demo catalog is
// seeded when seed_demo_data is set.
func OpenDatabase(ctx context.Context, cfg config.DatabaseConfig, logLevel string, log *zap.Logger) (*Database, error) {
	gormLogger := gormlog.New(log.Named("gorm"), cfg.SlowQueryThreshold, gormlog.LevelFor(logLevel))

	var db *Database
	switch cfg.Driver {
	case "sqlite":
		gdb, err := sqlite.SetupDatabase(cfg.Path, gormLogger)
		if err != nil {
			return nil, fmt.Errorf("failed to setup SQLite database: %w", err)
		}
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, err
		}
		db = &Database{DB: gdb, SQL: sqlDB, close: sqlDB.Close}
		log.Info("Connected to SQLite database",
			zap.String("path", cfg.Path),
			zap.Bool("in_memory", cfg.Path == sqlite.InMemory),
		)

	case "postgres":
		if cfg.AutoMigrate {
			if err := Migrate(cfg, log); err != nil {
				return nil, err
			}
		}
		cm, err := postgres.NewConnectionManager(ctx, cfg, gormLogger, log)
		if err != nil {
			return nil, err
		}
		db = &Database{DB: cm.DB(), SQL: cm.SQLDB(), close: cm.Close}

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	if cfg.SeedDemoData {
		if err := sqlite.SeedDatabase(ctx, db.DB); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to seed demo data: %w", err)
		}
	}
	return db, nil
}

// Migrate applies every pending postgres migration
func Migrate(cfg config.DatabaseConfig, log *zap.Logger) error {
	m, err := migrations.Open(cfg.DSN(cfg.Host, cfg.Port), log)
	if err != nil {
		return err
	}
	defer m.Close()

	return m.Up()
}

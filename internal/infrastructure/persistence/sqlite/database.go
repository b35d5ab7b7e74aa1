// Package sqlite provides SQLite database setup and the demo catalog seed
package sqlite

import (
	"fmt"

	gormModels "github.com/alchemorsel/mealplanner/internal/infrastructure/persistence/gorm"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InMemory is the path that selects a private in-memory database
const InMemory = ":memory:"

// SetupDatabase opens the SQLite database at dbPath and migrates the schema.
// An empty path or InMemory opens a fresh in-memory database.
func SetupDatabase(dbPath string, log logger.Interface) (*gorm.DB, error) {
	dsn := dbPath
	if dsn == "" || dsn == InMemory {
		// Named shared-cache memory databases survive across pooled
		// connections while staying private to this handle.
		dsn = fmt.Sprintf("file:mem-%s?mode=memory&cache=shared", uuid.NewString())
	}

	if log == nil {
		log = logger.Default.LogMode(logger.Silent)
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: log,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(gormModels.AllModels()...); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

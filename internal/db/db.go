package db

import (
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/i474232898/dailyweather/internal/store"
)

// Init opens the preference database for driver ("sqlite" or "postgres") and
// runs migrations.
func Init(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported store driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Println("db: running migrations")
	if err := db.AutoMigrate(&store.Preference{}); err != nil {
		return nil, fmt.Errorf("automigrate failed: %w", err)
	}

	log.Printf("db: %s store ready", driver)
	return db, nil
}

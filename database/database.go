package database

import (
	"fmt"
	"strings"

	"floure-storefront/config"
	"floure-storefront/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the durable client-state database. Postgres DSNs
// ("postgres://…" or "host=… ") go to the postgres driver; anything else is
// treated as a sqlite path, ":memory:" included.
func Connect(dsn string) (*gorm.DB, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		dsn = config.DefaultStateDSN
	}

	gormCfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}

	if IsPostgresDSN(dsn) {
		db, err := gorm.Open(postgres.Open(dsn), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres client state: %w", err)
		}
		return db, nil
	}

	db, err := gorm.Open(sqlite.Open(dsn), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite client state: %w", err)
	}
	// SQLite has a single writer; one connection also keeps ":memory:"
	// databases from splitting across connections.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.ClientState{}); err != nil {
		return fmt.Errorf("failed to migrate client state: %w", err)
	}
	return nil
}

func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func IsPostgresDSN(dsn string) bool {
	lower := strings.ToLower(strings.TrimSpace(dsn))
	return strings.HasPrefix(lower, "postgres://") ||
		strings.HasPrefix(lower, "postgresql://") ||
		strings.HasPrefix(lower, "host=")
}

// Package storage holds the GORM repositories behind every durable record.
package storage

import (
	"errors"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kirtanupdate/server/internal/domain"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// Open connects to the SQLite database at path and migrates the schema.
// Use ":memory:" for tests. WAL keeps reads from blocking the writer.
func Open(path string) (*gorm.DB, error) {
	dsn := path
	if path != ":memory:" {
		dsn = path + "?_journal_mode=WAL"
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if path == ":memory:" {
		// Each pool connection to :memory: gets its own empty database.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Samagam{},
		&domain.RecordedSamagam{},
		&domain.Location{},
		&domain.FcmToken{},
		&domain.LiveBroadcast{},
		&domain.CampRegistration{},
	); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	return db, nil
}

package client

import (
	"fmt"

	"commerce-console/internal/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitSqliteClient opens the console's embedded store and migrates the
// locally owned tables (session, catalog snapshot).
func InitSqliteClient(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %s: %w", path, err)
	}

	if err := db.AutoMigrate(
		&model.Session{},
		&model.CatalogEntry{},
	); err != nil {
		return nil, fmt.Errorf("migrate console tables: %w", err)
	}

	return db, nil
}

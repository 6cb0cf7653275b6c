package db

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/glebarez/sqlite"
	"github.com/terraincognita07/tandem/internal/logger"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// OpenSQLite opens the database and brings its schema up to date.
func OpenSQLite(dbPath string) (*gorm.DB, error) {
	database, err := Open(dbPath)
	if err != nil {
		return nil, err
	}
	if _, err := ApplyMigrations(database); err != nil {
		if sqlDB, dbErr := database.DB(); dbErr == nil {
			_ = sqlDB.Close()
		}
		return nil, fmt.Errorf("apply embedded migrations: %w", err)
	}
	return database, nil
}

// Open opens the database without touching its schema.
func Open(dbPath string) (*gorm.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	dsn := fmt.Sprintf("%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", dbPath)
	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.New(
			logger.Get().StandardLog(charmlog.StandardLogOptions{ForceLevel: charmlog.WarnLevel}),
			gormlogger.Config{
				SlowThreshold:             time.Second,
				LogLevel:                  gormlogger.Warn,
				IgnoreRecordNotFoundError: true,
				Colorful:                  false,
			},
		),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	sqlDB, err := database.DB()
	if err != nil {
		return nil, fmt.Errorf("open sql db: %w", err)
	}
	// One writer keeps SQLITE_BUSY away from the generator job and request handlers.
	sqlDB.SetMaxOpenConns(1)

	return database, nil
}

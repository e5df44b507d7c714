package sqlite

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/sifan077/slugurl/config"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewGorm opens a pure-Go SQLite database through GORM.
//
// SQLite allows one writer at a time, so the pool is pinned to a single
// connection. This also keeps shared in-memory databases alive for the
// lifetime of the returned handle.
func NewGorm(cfg config.SQLiteConfig) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(cfg.DSN), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("sqlite: open gorm connection: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite: retrieve sql db: %w", err)
	}

	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	return db, nil
}

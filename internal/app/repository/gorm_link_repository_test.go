package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/sifan077/slugurl/config"
	"github.com/sifan077/slugurl/internal/infra/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := sqlite.NewGorm(config.SQLiteConfig{DSN: dsn})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	require.NoError(t, AutoMigrate(context.Background(), db))
	return db
}

func TestGormLinkRepository_SQLite(t *testing.T) {
	testLinkRepository(t, NewGormLinkRepository(newSQLiteDB(t)))
}

func TestAutoMigrate_Idempotent(t *testing.T) {
	db := newSQLiteDB(t)
	require.NoError(t, AutoMigrate(context.Background(), db))
	require.True(t, db.Migrator().HasIndex("short_links", "idx_short_links_slug"))
}

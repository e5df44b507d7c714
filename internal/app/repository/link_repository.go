package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sifan077/slugurl/internal/app/model"
	"gorm.io/gorm"
)

var (
	// ErrLinkNotFound signals that the requested short link does not exist.
	ErrLinkNotFound = errors.New("link not found")

	// ErrSlugConflict signals that the slug is already taken by another row.
	// Callers may retry with a different slug.
	ErrSlugConflict = errors.New("slug already exists")
)

// pgUniqueViolation is the SQLSTATE Postgres reports for unique index conflicts.
const pgUniqueViolation = "23505"

// LinkRepository defines the data access contract for short links.
//
// Insert must detect slug conflicts atomically through the store's unique
// index, and IncrementVisit must be a single read-modify-write at the store.
type LinkRepository interface {
	Insert(ctx context.Context, slug, target string) (*model.ShortLink, error)
	IncrementVisit(ctx context.Context, slug string) (*model.ShortLink, error)
	GetBySlug(ctx context.Context, slug string) (*model.ShortLink, error)
	Ping(ctx context.Context) error
}

// isUniqueViolation reports whether err is the store rejecting a duplicate key.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	// SQLite drivers surface constraint failures only through the message.
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sifan077/slugurl/internal/app/model"
)

const linkColumns = "id, slug, target, visit_count, created_at, updated_at"

const (
	insertLinkSQL = `INSERT INTO short_links (slug, target, visit_count, created_at, updated_at)
VALUES ($1, $2, 0, NOW(), NOW())
RETURNING ` + linkColumns

	incrementVisitSQL = `UPDATE short_links
SET visit_count = visit_count + 1, updated_at = NOW()
WHERE slug = $1
RETURNING ` + linkColumns

	selectLinkSQL = `SELECT ` + linkColumns + ` FROM short_links WHERE slug = $1`
)

type pgxLinkRepository struct {
	pool *pgxpool.Pool
}

// NewPgxLinkRepository returns a LinkRepository that talks to Postgres through pgx.
// The pool's MaxConns bounds concurrent store calls; callers wait for a free connection.
func NewPgxLinkRepository(pool *pgxpool.Pool) LinkRepository {
	return &pgxLinkRepository{pool: pool}
}

func (r *pgxLinkRepository) Insert(ctx context.Context, slug, target string) (*model.ShortLink, error) {
	link, err := r.queryOne(ctx, insertLinkSQL, slug, target)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrSlugConflict
		}
		return nil, fmt.Errorf("insert link: %w", err)
	}
	return link, nil
}

func (r *pgxLinkRepository) IncrementVisit(ctx context.Context, slug string) (*model.ShortLink, error) {
	link, err := r.queryOne(ctx, incrementVisitSQL, slug)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLinkNotFound
		}
		return nil, fmt.Errorf("increment visit: %w", err)
	}
	return link, nil
}

func (r *pgxLinkRepository) GetBySlug(ctx context.Context, slug string) (*model.ShortLink, error) {
	link, err := r.queryOne(ctx, selectLinkSQL, slug)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLinkNotFound
		}
		return nil, fmt.Errorf("get link: %w", err)
	}
	return link, nil
}

func (r *pgxLinkRepository) Ping(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, "SELECT 1")
	return err
}

func (r *pgxLinkRepository) queryOne(ctx context.Context, sql string, args ...any) (*model.ShortLink, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[model.ShortLink])
}

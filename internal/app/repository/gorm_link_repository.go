package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sifan077/slugurl/internal/app/model"
	"gorm.io/gorm"
)

type gormLinkRepository struct {
	db *gorm.DB
}

// NewGormLinkRepository returns a GORM-backed LinkRepository.
func NewGormLinkRepository(db *gorm.DB) LinkRepository {
	return &gormLinkRepository{db: db}
}

func (r *gormLinkRepository) Insert(ctx context.Context, slug, target string) (*model.ShortLink, error) {
	link := &model.ShortLink{
		Slug:   slug,
		Target: target,
	}
	if err := r.db.WithContext(ctx).Create(link).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrSlugConflict
		}
		return nil, fmt.Errorf("insert link: %w", err)
	}
	return link, nil
}

// IncrementVisit bumps the counter in place and reads the row back inside the
// same transaction, so the returned count is the one this call produced.
func (r *gormLinkRepository) IncrementVisit(ctx context.Context, slug string) (*model.ShortLink, error) {
	var link model.ShortLink
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.ShortLink{}).
			Where("slug = ?", slug).
			Updates(map[string]interface{}{
				"visit_count": gorm.Expr("visit_count + ?", 1),
				"updated_at":  time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrLinkNotFound
		}
		return tx.Where("slug = ?", slug).First(&link).Error
	})
	if err != nil {
		if errors.Is(err, ErrLinkNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("increment visit: %w", err)
	}
	return &link, nil
}

func (r *gormLinkRepository) GetBySlug(ctx context.Context, slug string) (*model.ShortLink, error) {
	var link model.ShortLink
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLinkNotFound
		}
		return nil, fmt.Errorf("get link: %w", err)
	}
	return &link, nil
}

func (r *gormLinkRepository) Ping(ctx context.Context) error {
	return r.db.WithContext(ctx).Exec("SELECT 1").Error
}

// AutoMigrate creates or updates the short_links table, including the unique slug index.
func AutoMigrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(&model.ShortLink{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

package model

import "time"

// ShortLink describes the core short-link entity stored in the short_links table.
type ShortLink struct {
	ID         int64     `db:"id" json:"id" gorm:"primaryKey;autoIncrement"`
	// Column size must equal slug.MaxLength.
	Slug       string    `db:"slug" json:"slug" gorm:"size:32;not null;uniqueIndex"`
	Target     string    `db:"target" json:"target" gorm:"type:text;not null"`
	VisitCount int64     `db:"visit_count" json:"visitCount" gorm:"not null;default:0"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt" gorm:"autoUpdateTime"`
}

// TableName pins the table name used by gorm and the raw SQL repository.
func (ShortLink) TableName() string {
	return "short_links"
}

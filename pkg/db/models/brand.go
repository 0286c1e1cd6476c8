package models

import "time"

// Brand is a partner boutique surfaced on the storefront. IDs are slugs
// (typically the brand's Instagram handle) rather than UUIDs.
type Brand struct {
	ID           string    `gorm:"column:id;primaryKey"`
	Name         string    `gorm:"column:name;not null"`
	InstagramURL *string   `gorm:"column:instagram_url"`
	LogoURL      *string   `gorm:"column:logo_url"`
	Description  *string   `gorm:"column:description"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

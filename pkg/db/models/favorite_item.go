package models

import (
	"time"

	"github.com/google/uuid"
)

// FavoriteItem marks a product a shopper saved. Favorites share the
// cart token so anonymous shoppers keep one list per browser.
type FavoriteItem struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Token     string    `gorm:"column:token;not null;uniqueIndex:idx_favorites_token_product"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_favorites_token_product"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

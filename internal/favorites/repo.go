package favorites

import (
	"context"

	"github.com/dreamboutique/boutique-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository wires favorite persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Add inserts the favorite. Duplicate adds surface the unique violation.
func (r *Repository) Add(ctx context.Context, fav *models.FavoriteItem) (*models.FavoriteItem, error) {
	if fav.ID == uuid.Nil {
		fav.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(fav).Error; err != nil {
		return nil, err
	}
	return fav, nil
}

// Remove deletes the favorite for the token/product pair. Returns the
// affected count so callers can distinguish a no-op.
func (r *Repository) Remove(ctx context.Context, token string, productID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Delete(&models.FavoriteItem{}, "token = ? AND product_id = ?", token, productID)
	return result.RowsAffected, result.Error
}

// Exists reports whether the token already favors the product.
func (r *Repository) Exists(ctx context.Context, token string, productID uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.FavoriteItem{}).
		Where("token = ? AND product_id = ?", token, productID).
		Count(&n).Error
	return n > 0, err
}

// ListProducts returns the token's favorite products, most recently
// favored first.
func (r *Repository) ListProducts(ctx context.Context, token string) ([]models.Product, error) {
	var list []models.Product
	err := r.db.WithContext(ctx).
		Joins("JOIN favorite_items ON favorite_items.product_id = products.id").
		Where("favorite_items.token = ?", token).
		Order("favorite_items.created_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

package products

import (
	"time"

	"github.com/dreamboutique/boutique-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductDTO is the API shape of a catalog product.
type ProductDTO struct {
	ID          uuid.UUID       `json:"id"`
	BrandID     string          `json:"brand_id"`
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Images      []string        `json:"images"`
	Colors      []string        `json:"colors"`
	Sizes       []string        `json:"sizes"`
	InStock     bool            `json:"in_stock"`
	IsFeatured  bool            `json:"is_featured"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// NewProductDTO maps the model to its API shape.
func NewProductDTO(product *models.Product) *ProductDTO {
	if product == nil {
		return nil
	}
	return &ProductDTO{
		ID:          product.ID,
		BrandID:     product.BrandID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Images:      product.Images,
		Colors:      product.Colors,
		Sizes:       product.Sizes,
		InStock:     product.InStock,
		IsFeatured:  product.IsFeatured,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
}

// BrandDTO is the API shape of a brand.
type BrandDTO struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	InstagramURL *string `json:"instagram_url,omitempty"`
	LogoURL      *string `json:"logo_url,omitempty"`
	Description  *string `json:"description,omitempty"`
}

// NewBrandDTO maps the model to its API shape.
func NewBrandDTO(brand *models.Brand) *BrandDTO {
	if brand == nil {
		return nil
	}
	return &BrandDTO{
		ID:           brand.ID,
		Name:         brand.Name,
		InstagramURL: brand.InstagramURL,
		LogoURL:      brand.LogoURL,
		Description:  brand.Description,
	}
}

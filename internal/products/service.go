package products

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/dreamboutique/boutique-backend/pkg/db/models"
	pkgerrors "github.com/dreamboutique/boutique-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service exposes catalog management and public browsing.
type Service interface {
	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, productID uuid.UUID) error
	GetProduct(ctx context.Context, productID uuid.UUID) (*ProductDTO, error)
	ListProducts(ctx context.Context, filter ListFilter) ([]ProductDTO, error)
	ListBrands(ctx context.Context) ([]BrandDTO, error)
	GetBrand(ctx context.Context, brandID string) (*BrandDTO, error)
	SaveBrand(ctx context.Context, input BrandInput) (*BrandDTO, error)
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	BrandID     string
	Name        string
	Description *string
	Price       decimal.Decimal
	Images      []string
	Colors      []string
	Sizes       []string
	InStock     bool
	IsFeatured  bool
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	BrandID     *string
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Images      *[]string
	Colors      *[]string
	Sizes       *[]string
	InStock     *bool
	IsFeatured  *bool
}

// BrandInput holds the payload to create or update a brand. An empty ID
// derives the slug from the name.
type BrandInput struct {
	ID           string
	Name         string
	InstagramURL *string
	LogoURL      *string
	Description  *string
}

type catalogStore interface {
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) (*models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context, filter ListFilter) ([]models.Product, error)
	ListBrands(ctx context.Context) ([]models.Brand, error)
	FindBrand(ctx context.Context, id string) (*models.Brand, error)
	SaveBrand(ctx context.Context, brand *models.Brand) (*models.Brand, error)
}

// service implements the catalog service.
type service struct {
	repo catalogStore
}

// NewService constructs a catalog service instance.
func NewService(repo catalogStore) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

// CreateProduct validates and inserts a new product under an existing brand.
func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if err := s.ensureBrand(ctx, input.BrandID); err != nil {
		return nil, err
	}

	product := &models.Product{
		BrandID:     input.BrandID,
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Price:       input.Price,
		Images:      pq.StringArray(input.Images),
		Colors:      pq.StringArray(input.Colors),
		Sizes:       pq.StringArray(input.Sizes),
		InStock:     input.InStock,
		IsFeatured:  input.IsFeatured,
	}
	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
	}
	return NewProductDTO(created), nil
}

// UpdateProduct applies the provided mutations to an existing product.
func (s *service) UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	if input.BrandID != nil {
		if err := s.ensureBrand(ctx, *input.BrandID); err != nil {
			return nil, err
		}
		product.BrandID = *input.BrandID
	}
	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
		}
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
		}
		product.Price = *input.Price
	}
	if input.Images != nil {
		product.Images = pq.StringArray(*input.Images)
	}
	if input.Colors != nil {
		product.Colors = pq.StringArray(*input.Colors)
	}
	if input.Sizes != nil {
		product.Sizes = pq.StringArray(*input.Sizes)
	}
	if input.InStock != nil {
		product.InStock = *input.InStock
	}
	if input.IsFeatured != nil {
		product.IsFeatured = *input.IsFeatured
	}

	updated, err := s.repo.Update(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
	}
	return NewProductDTO(updated), nil
}

// DeleteProduct removes the product.
func (s *service) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	if _, err := s.loadProduct(ctx, productID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete product")
	}
	return nil
}

// GetProduct loads a single product.
func (s *service) GetProduct(ctx context.Context, productID uuid.UUID) (*ProductDTO, error) {
	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return NewProductDTO(product), nil
}

// ListProducts returns products matching the filter, newest first.
func (s *service) ListProducts(ctx context.Context, filter ListFilter) ([]ProductDTO, error) {
	list, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list products")
	}
	out := make([]ProductDTO, 0, len(list))
	for i := range list {
		out = append(out, *NewProductDTO(&list[i]))
	}
	return out, nil
}

// ListBrands returns all brands.
func (s *service) ListBrands(ctx context.Context) ([]BrandDTO, error) {
	brands, err := s.repo.ListBrands(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list brands")
	}
	out := make([]BrandDTO, 0, len(brands))
	for i := range brands {
		out = append(out, *NewBrandDTO(&brands[i]))
	}
	return out, nil
}

// GetBrand loads a brand by slug.
func (s *service) GetBrand(ctx context.Context, brandID string) (*BrandDTO, error) {
	brand, err := s.repo.FindBrand(ctx, brandID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "brand not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load brand")
	}
	return NewBrandDTO(brand), nil
}

// SaveBrand creates or updates a brand.
func (s *service) SaveBrand(ctx context.Context, input BrandInput) (*BrandDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	id := strings.TrimSpace(input.ID)
	if id == "" {
		id = Slugify(name)
	}
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "brand id cannot be derived from name")
	}

	brand := &models.Brand{
		ID:           id,
		Name:         name,
		InstagramURL: input.InstagramURL,
		LogoURL:      input.LogoURL,
		Description:  input.Description,
	}
	saved, err := s.repo.SaveBrand(ctx, brand)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: save brand")
	}
	return NewBrandDTO(saved), nil
}

func (s *service) loadProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}
	return product, nil
}

func (s *service) ensureBrand(ctx context.Context, brandID string) error {
	if strings.TrimSpace(brandID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "brand_id is required")
	}
	if _, err := s.repo.FindBrand(ctx, brandID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeValidation, "unknown brand")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load brand")
	}
	return nil
}

var slugRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases the name and collapses everything else to hyphens.
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugRe.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

package favorites

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dreamboutique/boutique-backend/internal/products"
	"github.com/dreamboutique/boutique-backend/pkg/db/models"
	pkgerrors "github.com/dreamboutique/boutique-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service exposes per-token product favorites.
type Service interface {
	Add(ctx context.Context, token string, productID uuid.UUID) error
	Remove(ctx context.Context, token string, productID uuid.UUID) error
	Toggle(ctx context.Context, token string, productID uuid.UUID) (favored bool, err error)
	List(ctx context.Context, token string) ([]products.ProductDTO, error)
}

type favoriteStore interface {
	Add(ctx context.Context, fav *models.FavoriteItem) (*models.FavoriteItem, error)
	Remove(ctx context.Context, token string, productID uuid.UUID) (int64, error)
	Exists(ctx context.Context, token string, productID uuid.UUID) (bool, error)
	ListProducts(ctx context.Context, token string) ([]models.Product, error)
}

type productReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type service struct {
	repo    favoriteStore
	catalog productReader
}

// NewService constructs a favorites service instance.
func NewService(repo favoriteStore, catalog productReader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("favorites repository required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("product reader required")
	}
	return &service{repo: repo, catalog: catalog}, nil
}

// Add favors the product for the token. Favoring twice is a no-op.
func (s *service) Add(ctx context.Context, token string, productID uuid.UUID) error {
	if err := validateToken(token); err != nil {
		return err
	}
	if _, err := s.catalog.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}

	exists, err := s.repo.Exists(ctx, token, productID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: check favorite")
	}
	if exists {
		return nil
	}
	if _, err := s.repo.Add(ctx, &models.FavoriteItem{Token: token, ProductID: productID}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert favorite")
	}
	return nil
}

// Remove unfavors the product. Removing an absent favorite is a no-op.
func (s *service) Remove(ctx context.Context, token string, productID uuid.UUID) error {
	if err := validateToken(token); err != nil {
		return err
	}
	if _, err := s.repo.Remove(ctx, token, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete favorite")
	}
	return nil
}

// Toggle flips the favorite state and reports the new state.
func (s *service) Toggle(ctx context.Context, token string, productID uuid.UUID) (bool, error) {
	if err := validateToken(token); err != nil {
		return false, err
	}
	exists, err := s.repo.Exists(ctx, token, productID)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: check favorite")
	}
	if exists {
		return false, s.Remove(ctx, token, productID)
	}
	return true, s.Add(ctx, token, productID)
}

// List returns the token's favorite products.
func (s *service) List(ctx context.Context, token string) ([]products.ProductDTO, error) {
	if err := validateToken(token); err != nil {
		return nil, err
	}
	list, err := s.repo.ListProducts(ctx, token)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list favorites")
	}
	out := make([]products.ProductDTO, 0, len(list))
	for i := range list {
		out = append(out, *products.NewProductDTO(&list[i]))
	}
	return out, nil
}

func validateToken(token string) error {
	if strings.TrimSpace(token) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "favorites token required")
	}
	return nil
}

package favorites

import (
	"context"
	"testing"

	"github.com/dreamboutique/boutique-backend/pkg/db/models"
	pkgerrors "github.com/dreamboutique/boutique-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type favKey struct {
	token     string
	productID uuid.UUID
}

type stubFavoriteStore struct {
	favs     map[favKey]bool
	products map[uuid.UUID]*models.Product
}

func newStubFavoriteStore() *stubFavoriteStore {
	return &stubFavoriteStore{
		favs:     map[favKey]bool{},
		products: map[uuid.UUID]*models.Product{},
	}
}

func (s *stubFavoriteStore) Add(_ context.Context, fav *models.FavoriteItem) (*models.FavoriteItem, error) {
	s.favs[favKey{fav.Token, fav.ProductID}] = true
	return fav, nil
}

func (s *stubFavoriteStore) Remove(_ context.Context, token string, productID uuid.UUID) (int64, error) {
	key := favKey{token, productID}
	if s.favs[key] {
		delete(s.favs, key)
		return 1, nil
	}
	return 0, nil
}

func (s *stubFavoriteStore) Exists(_ context.Context, token string, productID uuid.UUID) (bool, error) {
	return s.favs[favKey{token, productID}], nil
}

func (s *stubFavoriteStore) ListProducts(_ context.Context, token string) ([]models.Product, error) {
	var out []models.Product
	for key := range s.favs {
		if key.token != token {
			continue
		}
		if p, ok := s.products[key.productID]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (s *stubFavoriteStore) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func seedProduct(store *stubFavoriteStore) *models.Product {
	p := &models.Product{ID: uuid.New(), BrandID: "aura", Name: "Scarf", Price: decimal.NewFromInt(10)}
	store.products[p.ID] = p
	return p
}

func newFavoritesTestService(t *testing.T, store *stubFavoriteStore) Service {
	t.Helper()
	svc, err := NewService(store, store)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestAddListRemove(t *testing.T) {
	t.Parallel()

	store := newStubFavoriteStore()
	product := seedProduct(store)
	svc := newFavoritesTestService(t, store)
	ctx := context.Background()

	if err := svc.Add(ctx, "tok-1", product.ID); err != nil {
		t.Fatalf("add: %v", err)
	}
	// Favoring twice is a no-op, not an error.
	if err := svc.Add(ctx, "tok-1", product.ID); err != nil {
		t.Fatalf("re-add: %v", err)
	}

	list, err := svc.List(ctx, "tok-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].ID != product.ID {
		t.Fatalf("unexpected favorites %+v", list)
	}

	if err := svc.Remove(ctx, "tok-1", product.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	list, err = svc.List(ctx, "tok-1")
	if err != nil {
		t.Fatalf("list after remove: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected empty favorites, got %d", len(list))
	}
}

func TestAddUnknownProduct(t *testing.T) {
	t.Parallel()

	svc := newFavoritesTestService(t, newStubFavoriteStore())

	err := svc.Add(context.Background(), "tok-1", uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestToggle(t *testing.T) {
	t.Parallel()

	store := newStubFavoriteStore()
	product := seedProduct(store)
	svc := newFavoritesTestService(t, store)
	ctx := context.Background()

	favored, err := svc.Toggle(ctx, "tok-1", product.ID)
	if err != nil {
		t.Fatalf("toggle on: %v", err)
	}
	if !favored {
		t.Fatalf("expected favored after first toggle")
	}

	favored, err = svc.Toggle(ctx, "tok-1", product.ID)
	if err != nil {
		t.Fatalf("toggle off: %v", err)
	}
	if favored {
		t.Fatalf("expected unfavored after second toggle")
	}
}

func TestTokenRequired(t *testing.T) {
	t.Parallel()

	svc := newFavoritesTestService(t, newStubFavoriteStore())

	err := svc.Add(context.Background(), " ", uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

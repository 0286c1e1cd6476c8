package products

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dreamboutique/boutique-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	schema := `
CREATE TABLE brands (
    id            TEXT PRIMARY KEY,
    name          TEXT NOT NULL,
    instagram_url TEXT,
    logo_url      TEXT,
    description   TEXT,
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE products (
    id          TEXT PRIMARY KEY,
    brand_id    TEXT NOT NULL REFERENCES brands(id),
    name        TEXT NOT NULL,
    description TEXT,
    price       NUMERIC NOT NULL,
    images      TEXT,
    colors      TEXT,
    sizes       TEXT,
    in_stock    BOOLEAN NOT NULL DEFAULT TRUE,
    is_featured BOOLEAN NOT NULL DEFAULT FALSE,
    created_at  DATETIME NOT NULL,
    updated_at  DATETIME NOT NULL
);
`
	require.NoError(t, conn.Exec(schema).Error)
	return conn
}

func mustCreateTestBrand(t *testing.T, repo *Repository, id string) *models.Brand {
	t.Helper()
	brand, err := repo.SaveBrand(context.Background(), &models.Brand{ID: id, Name: id})
	require.NoError(t, err)
	return brand
}

func mustCreateTestProduct(t *testing.T, repo *Repository, brandID, name string, featured, inStock bool, createdAt time.Time) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:         uuid.New(),
		BrandID:    brandID,
		Name:       name,
		Price:      decimal.RequireFromString("19.99"),
		Images:     pq.StringArray{"a.jpg", "b.jpg"},
		Colors:     pq.StringArray{"black"},
		Sizes:      pq.StringArray{"M"},
		InStock:    inStock,
		IsFeatured: featured,
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}
	created, err := repo.Create(context.Background(), product)
	require.NoError(t, err)
	return created
}

func TestRepositoryListFilters(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	mustCreateTestBrand(t, repo, "aura")
	mustCreateTestBrand(t, repo, "velvet")

	base := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	older := mustCreateTestProduct(t, repo, "aura", "Linen Dress", true, true, base)
	newer := mustCreateTestProduct(t, repo, "aura", "Silk Scarf", false, true, base.Add(time.Hour))
	mustCreateTestProduct(t, repo, "velvet", "Velvet Coat", false, false, base.Add(2*time.Hour))

	all, err := repo.List(ctx, ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)

	byBrand, err := repo.List(ctx, ListFilter{BrandID: "aura"})
	require.NoError(t, err)
	require.Len(t, byBrand, 2)
	// Newest first.
	assert.Equal(t, newer.ID, byBrand[0].ID)
	assert.Equal(t, older.ID, byBrand[1].ID)

	featured, err := repo.List(ctx, ListFilter{FeaturedOnly: true})
	require.NoError(t, err)
	require.Len(t, featured, 1)
	assert.Equal(t, older.ID, featured[0].ID)

	inStock, err := repo.List(ctx, ListFilter{InStockOnly: true})
	require.NoError(t, err)
	assert.Len(t, inStock, 2)

	search, err := repo.List(ctx, ListFilter{Search: "silk"})
	require.NoError(t, err)
	require.Len(t, search, 1)
	assert.Equal(t, newer.ID, search[0].ID)
}

func TestRepositoryArrayRoundtrip(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	mustCreateTestBrand(t, repo, "aura")
	created := mustCreateTestProduct(t, repo, "aura", "Linen Dress", false, true, time.Now().UTC())

	loaded, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, pq.StringArray{"a.jpg", "b.jpg"}, loaded.Images)
	assert.Equal(t, pq.StringArray{"black"}, loaded.Colors)
}

func TestRepositoryCounts(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	mustCreateTestBrand(t, repo, "aura")
	mustCreateTestProduct(t, repo, "aura", "One", true, true, time.Now().UTC())
	mustCreateTestProduct(t, repo, "aura", "Two", false, true, time.Now().UTC())

	total, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	featured, err := repo.CountFeatured(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, featured)
}

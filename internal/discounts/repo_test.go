package discounts

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dreamboutique/boutique-backend/pkg/db/models"
	"github.com/dreamboutique/boutique-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// Unique name per test so pooled connections share one database
	// without leaking state across tests.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	schema := `
CREATE TABLE discounts (
    id         TEXT PRIMARY KEY,
    type       TEXT NOT NULL,
    value      NUMERIC NOT NULL,
    code       TEXT,
    is_active  BOOLEAN NOT NULL DEFAULT TRUE,
    created_at DATETIME NOT NULL,
    updated_at DATETIME NOT NULL
);
CREATE UNIQUE INDEX idx_discounts_code_lower ON discounts (lower(code)) WHERE code IS NOT NULL;
`
	require.NoError(t, conn.Exec(schema).Error)
	return conn
}

func mustCreateRule(t *testing.T, repo *Repository, ruleType enums.DiscountType, value string, code *string, active bool, createdAt time.Time) *models.Discount {
	t.Helper()
	rule := &models.Discount{
		ID:        uuid.New(),
		Type:      ruleType,
		Value:     decimal.RequireFromString(value),
		Code:      code,
		IsActive:  active,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	created, err := repo.Create(context.Background(), rule)
	require.NoError(t, err)
	return created
}

func TestRepositoryListActiveInsertionOrder(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	oldest := mustCreateRule(t, repo, enums.DiscountTypePercentage, "5", nil, true, base)
	mustCreateRule(t, repo, enums.DiscountTypePercentage, "50", nil, false, base.Add(time.Minute))
	newest := mustCreateRule(t, repo, enums.DiscountTypeFixed, "3", nil, true, base.Add(2*time.Minute))

	active, err := repo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, oldest.ID, active[0].ID)
	assert.Equal(t, newest.ID, active[1].ID)
}

func TestRepositoryFindByCodeCaseInsensitive(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	code := "Summer10"
	created := mustCreateRule(t, repo, enums.DiscountTypePercentage, "10", &code, true, time.Now().UTC())

	found, err := repo.FindByCode(ctx, "SUMMER10")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = repo.FindByCode(ctx, "missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryCodeUniqueAcrossCase(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	code := "VIP"
	mustCreateRule(t, repo, enums.DiscountTypePercentage, "10", &code, true, time.Now().UTC())

	dup := "vip"
	_, err := repo.Create(ctx, &models.Discount{
		ID:        uuid.New(),
		Type:      enums.DiscountTypeFixed,
		Value:     decimal.NewFromInt(5),
		Code:      &dup,
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	})
	require.Error(t, err)
}

func TestRepositoryUpdateAndDelete(t *testing.T) {
	conn := openTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	created := mustCreateRule(t, repo, enums.DiscountTypePercentage, "10", nil, true, time.Now().UTC())

	created.IsActive = false
	created.Value = decimal.NewFromInt(15)
	updated, err := repo.Update(ctx, created)
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	loaded, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, loaded.Value.Equal(decimal.NewFromInt(15)))

	require.NoError(t, repo.Delete(ctx, created.ID))
	_, err = repo.FindByID(ctx, created.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

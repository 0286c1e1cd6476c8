package checkout

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/dreamboutique/boutique-backend/internal/cart"
	"github.com/dreamboutique/boutique-backend/internal/discounts"
	"github.com/dreamboutique/boutique-backend/internal/orders"
	"github.com/dreamboutique/boutique-backend/pkg/db"
	"github.com/dreamboutique/boutique-backend/pkg/db/models"
	"github.com/dreamboutique/boutique-backend/pkg/enums"
	pkgerrors "github.com/dreamboutique/boutique-backend/pkg/errors"
	"github.com/dreamboutique/boutique-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
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
CREATE TABLE carts (
    id          TEXT PRIMARY KEY,
    token       TEXT NOT NULL UNIQUE,
    coupon_code TEXT,
    created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE cart_items (
    id         TEXT PRIMARY KEY,
    cart_id    TEXT NOT NULL REFERENCES carts(id) ON DELETE CASCADE,
    product_id TEXT NOT NULL,
    name       TEXT NOT NULL,
    unit_price NUMERIC NOT NULL,
    image      TEXT,
    quantity   INTEGER NOT NULL,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE orders (
    id              TEXT PRIMARY KEY,
    tracking_number TEXT NOT NULL UNIQUE,
    customer_name   TEXT NOT NULL,
    phone           TEXT NOT NULL,
    address         TEXT NOT NULL,
    notes           TEXT,
    guest_checkout  BOOLEAN NOT NULL DEFAULT FALSE,
    status          TEXT NOT NULL DEFAULT 'pending',
    subtotal        NUMERIC NOT NULL,
    discount_amount NUMERIC NOT NULL DEFAULT 0,
    total           NUMERIC NOT NULL,
    discount_id     TEXT,
    discount_code   TEXT,
    delivered_at    DATETIME,
    created_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE order_items (
    id         TEXT PRIMARY KEY,
    order_id   TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
    product_id TEXT NOT NULL,
    name       TEXT NOT NULL,
    unit_price NUMERIC NOT NULL,
    quantity   INTEGER NOT NULL,
    line_total NUMERIC NOT NULL,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`
	require.NoError(t, conn.Exec(schema).Error)
	return conn
}

type fixedResolver struct {
	rules []models.Discount
}

func (r *fixedResolver) Resolve(_ context.Context, subtotal decimal.Decimal, couponCode string) (discounts.Outcome, error) {
	return discounts.ResolveRules(r.rules, subtotal, couponCode), nil
}

type recordingNotifier struct {
	placed []uuid.UUID
	err    error
}

func (n *recordingNotifier) OrderPlaced(_ context.Context, orderID uuid.UUID, _, _ string) error {
	if n.err != nil {
		return n.err
	}
	n.placed = append(n.placed, orderID)
	return nil
}

func seedCart(t *testing.T, conn *gorm.DB, token string, coupon *string, quantities map[string]int) *models.Cart {
	t.Helper()
	record := &models.Cart{ID: uuid.New(), Token: token, CouponCode: coupon}
	require.NoError(t, conn.Create(record).Error)
	for name, qty := range quantities {
		item := &models.CartItem{
			ID:        uuid.New(),
			CartID:    record.ID,
			ProductID: uuid.New(),
			Name:      name,
			UnitPrice: decimal.NewFromInt(10),
			Quantity:  qty,
		}
		require.NoError(t, conn.Create(item).Error)
	}
	return record
}

func newCheckoutService(t *testing.T, conn *gorm.DB, resolver *fixedResolver, notifier *recordingNotifier) Service {
	t.Helper()

	client, err := db.NewFromGorm(conn)
	require.NoError(t, err)

	logg := logger.New(logger.Options{ServiceName: "checkout-test", Output: io.Discard})

	cartRepo := cart.NewRepository(conn)
	orderRepo := orders.NewRepository(conn)

	svc, err := NewService(
		client,
		func(tx *gorm.DB) CartLedger { return cartRepo.WithTx(tx) },
		func(tx *gorm.DB) OrderWriter { return orderRepo.WithTx(tx) },
		resolver,
		notifier,
		logg,
	)
	require.NoError(t, err)
	return svc
}

func TestRepositoryFactoriesFallBackToBaseConnection(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()

	seedCart(t, conn, "tok-1", nil, map[string]int{"Belt": 1})

	// The cart read before the transaction opens goes through the factory
	// with a nil tx; the repository must fall back to its base connection.
	ledger := cart.NewRepository(conn).WithTx(nil)
	loaded, err := ledger.FindByToken(ctx, "tok-1")
	require.NoError(t, err)
	require.Len(t, loaded.Items, 1)

	writer := orders.NewRepository(conn).WithTx(nil)
	require.NotNil(t, writer)
}

func TestCheckoutHappyPath(t *testing.T) {
	conn := openTestDB(t)
	notifier := &recordingNotifier{}
	svc := newCheckoutService(t, conn, &fixedResolver{}, notifier)
	ctx := context.Background()

	seedCart(t, conn, "tok-1", nil, map[string]int{"Silk Scarf": 2, "Belt": 1})

	dto, err := svc.Checkout(ctx, "tok-1", CheckoutInput{
		CustomerName: "Lina",
		Phone:        "0790000000",
		Address:      "Amman, Jordan",
	})
	require.NoError(t, err)
	require.Len(t, dto.Lines, 2)
	require.True(t, dto.Subtotal.Equal(decimal.NewFromInt(30)), "subtotal %s", dto.Subtotal)
	require.True(t, dto.Total.Equal(decimal.NewFromInt(30)))
	require.Equal(t, "pending", dto.Status)
	require.NotEmpty(t, dto.TrackingNumber)
	require.Len(t, notifier.placed, 1)

	// Cart is emptied after checkout.
	reloaded, err := cart.NewRepository(conn).FindByToken(ctx, "tok-1")
	require.NoError(t, err)
	require.Empty(t, reloaded.Items)
	require.Nil(t, reloaded.CouponCode)
}

func TestCheckoutSnapshotsCouponDiscount(t *testing.T) {
	conn := openTestDB(t)

	code := "TEN"
	resolver := &fixedResolver{rules: []models.Discount{{
		ID:       uuid.New(),
		Type:     enums.DiscountTypePercentage,
		Value:    decimal.NewFromInt(10),
		Code:     &code,
		IsActive: true,
	}}}
	svc := newCheckoutService(t, conn, resolver, &recordingNotifier{})
	ctx := context.Background()

	coupon := "ten"
	seedCart(t, conn, "tok-1", &coupon, map[string]int{"Coat": 10})

	dto, err := svc.Checkout(ctx, "tok-1", CheckoutInput{
		CustomerName: "Lina",
		Phone:        "0790000000",
		Address:      "Amman",
	})
	require.NoError(t, err)
	require.True(t, dto.Subtotal.Equal(decimal.NewFromInt(100)))
	require.True(t, dto.DiscountAmount.Equal(decimal.NewFromInt(10)))
	require.True(t, dto.Total.Equal(decimal.NewFromInt(90)))
	require.NotNil(t, dto.DiscountCode)
	require.Equal(t, "TEN", *dto.DiscountCode)
}

func TestCheckoutEmptyCart(t *testing.T) {
	conn := openTestDB(t)
	svc := newCheckoutService(t, conn, &fixedResolver{}, &recordingNotifier{})

	seedCart(t, conn, "tok-1", nil, nil)

	_, err := svc.Checkout(context.Background(), "tok-1", CheckoutInput{
		CustomerName: "Lina",
		Phone:        "0790000000",
		Address:      "Amman",
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestCheckoutMissingCart(t *testing.T) {
	conn := openTestDB(t)
	svc := newCheckoutService(t, conn, &fixedResolver{}, &recordingNotifier{})

	_, err := svc.Checkout(context.Background(), "tok-unknown", CheckoutInput{
		CustomerName: "Lina",
		Phone:        "0790000000",
		Address:      "Amman",
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestCheckoutValidatesCustomerDetails(t *testing.T) {
	conn := openTestDB(t)
	svc := newCheckoutService(t, conn, &fixedResolver{}, &recordingNotifier{})
	ctx := context.Background()

	for _, input := range []CheckoutInput{
		{Phone: "0790000000", Address: "Amman"},
		{CustomerName: "Lina", Address: "Amman"},
		{CustomerName: "Lina", Phone: "0790000000"},
	} {
		_, err := svc.Checkout(ctx, "tok-1", input)
		typed := pkgerrors.As(err)
		require.NotNil(t, typed)
		require.Equal(t, pkgerrors.CodeValidation, typed.Code())
	}
}

func TestCheckoutSurvivesNotifierFailure(t *testing.T) {
	conn := openTestDB(t)
	notifier := &recordingNotifier{err: fmt.Errorf("redis down")}
	svc := newCheckoutService(t, conn, &fixedResolver{}, notifier)

	seedCart(t, conn, "tok-1", nil, map[string]int{"Belt": 1})

	dto, err := svc.Checkout(context.Background(), "tok-1", CheckoutInput{
		CustomerName: "Lina",
		Phone:        "0790000000",
		Address:      "Amman",
	})
	require.NoError(t, err)
	require.NotNil(t, dto)
}

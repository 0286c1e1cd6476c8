package cart

import (
	"context"
	"testing"

	"github.com/dreamboutique/boutique-backend/internal/discounts"
	"github.com/dreamboutique/boutique-backend/pkg/db/models"
	"github.com/dreamboutique/boutique-backend/pkg/enums"
	pkgerrors "github.com/dreamboutique/boutique-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type stubCartStore struct {
	carts map[string]*models.Cart
	items map[uuid.UUID][]*models.CartItem
}

func newStubCartStore() *stubCartStore {
	return &stubCartStore{
		carts: map[string]*models.Cart{},
		items: map[uuid.UUID][]*models.CartItem{},
	}
}

func (s *stubCartStore) FindByToken(_ context.Context, token string) (*models.Cart, error) {
	cart, ok := s.carts[token]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *cart
	copied.Items = nil
	for _, item := range s.items[cart.ID] {
		copied.Items = append(copied.Items, *item)
	}
	return &copied, nil
}

func (s *stubCartStore) Create(_ context.Context, cart *models.Cart) (*models.Cart, error) {
	if cart.ID == uuid.Nil {
		cart.ID = uuid.New()
	}
	s.carts[cart.Token] = cart
	return cart, nil
}

func (s *stubCartStore) SaveCoupon(_ context.Context, cartID uuid.UUID, code *string) error {
	for _, cart := range s.carts {
		if cart.ID == cartID {
			cart.CouponCode = code
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (s *stubCartStore) FindItem(_ context.Context, cartID, productID uuid.UUID) (*models.CartItem, error) {
	for _, item := range s.items[cartID] {
		if item.ProductID == productID {
			return item, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCartStore) CreateItem(_ context.Context, item *models.CartItem) (*models.CartItem, error) {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	s.items[item.CartID] = append(s.items[item.CartID], item)
	return item, nil
}

func (s *stubCartStore) UpdateItemQuantity(_ context.Context, itemID uuid.UUID, quantity int) error {
	for _, lines := range s.items {
		for _, item := range lines {
			if item.ID == itemID {
				item.Quantity = quantity
				return nil
			}
		}
	}
	return gorm.ErrRecordNotFound
}

func (s *stubCartStore) DeleteItem(_ context.Context, cartID, productID uuid.UUID) error {
	lines := s.items[cartID]
	for i, item := range lines {
		if item.ProductID == productID {
			s.items[cartID] = append(lines[:i], lines[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *stubCartStore) DeleteItems(_ context.Context, cartID uuid.UUID) error {
	s.items[cartID] = nil
	return nil
}

type stubProductReader struct {
	products map[uuid.UUID]*models.Product
}

func (s *stubProductReader) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	product, ok := s.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return product, nil
}

// rulesResolver prices against a fixed rule set, the same walk the discount
// service performs over its active rules.
type rulesResolver struct {
	rules []models.Discount
}

func (r *rulesResolver) Resolve(_ context.Context, subtotal decimal.Decimal, couponCode string) (discounts.Outcome, error) {
	var active []models.Discount
	for _, rule := range r.rules {
		if rule.IsActive {
			active = append(active, rule)
		}
	}
	return discounts.ResolveRules(active, subtotal, couponCode), nil
}

func testProduct(price string) *models.Product {
	return &models.Product{
		ID:      uuid.New(),
		BrandID: "repo-brand",
		Name:    "Silk Scarf",
		Price:   decimal.RequireFromString(price),
		Images:  pq.StringArray{"scarf.jpg"},
		InStock: true,
	}
}

func newCartTestService(t *testing.T, store *stubCartStore, products *stubProductReader, rules []models.Discount) Service {
	t.Helper()
	svc, err := NewService(store, products, &rulesResolver{rules: rules})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestGetCartCreatesEmptyCart(t *testing.T) {
	t.Parallel()

	svc := newCartTestService(t, newStubCartStore(), &stubProductReader{products: map[uuid.UUID]*models.Product{}}, nil)

	dto, err := svc.GetCart(context.Background(), "tok-1")
	if err != nil {
		t.Fatalf("get cart: %v", err)
	}
	if len(dto.Lines) != 0 || dto.ItemCount != 0 {
		t.Fatalf("expected empty cart, got %+v", dto)
	}
	if !dto.Total.IsZero() {
		t.Fatalf("expected zero total, got %s", dto.Total)
	}
}

func TestGetCartBlankTokenRejected(t *testing.T) {
	t.Parallel()

	svc := newCartTestService(t, newStubCartStore(), &stubProductReader{products: map[uuid.UUID]*models.Product{}}, nil)

	_, err := svc.GetCart(context.Background(), "  ")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAddItemSnapshotsAndIncrements(t *testing.T) {
	t.Parallel()

	product := testProduct("12.50")
	reader := &stubProductReader{products: map[uuid.UUID]*models.Product{product.ID: product}}
	svc := newCartTestService(t, newStubCartStore(), reader, nil)
	ctx := context.Background()

	dto, err := svc.AddItem(ctx, "tok-1", product.ID, 1)
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	if len(dto.Lines) != 1 {
		t.Fatalf("expected one line, got %d", len(dto.Lines))
	}
	line := dto.Lines[0]
	if line.Name != "Silk Scarf" || !line.UnitPrice.Equal(decimal.RequireFromString("12.50")) {
		t.Fatalf("snapshot mismatch: %+v", line)
	}
	if line.Image == nil || *line.Image != "scarf.jpg" {
		t.Fatalf("expected first image snapshotted, got %+v", line.Image)
	}

	// Price changes after add must not touch the snapshot.
	product.Price = decimal.RequireFromString("99.00")

	dto, err = svc.AddItem(ctx, "tok-1", product.ID, 2)
	if err != nil {
		t.Fatalf("second add: %v", err)
	}
	if len(dto.Lines) != 1 {
		t.Fatalf("expected single line after repeat add, got %d", len(dto.Lines))
	}
	if dto.Lines[0].Quantity != 3 {
		t.Fatalf("expected quantity 3, got %d", dto.Lines[0].Quantity)
	}
	if !dto.Lines[0].UnitPrice.Equal(decimal.RequireFromString("12.50")) {
		t.Fatalf("snapshot price must survive product updates, got %s", dto.Lines[0].UnitPrice)
	}
	if !dto.Subtotal.Equal(decimal.RequireFromString("37.50")) {
		t.Fatalf("expected subtotal 37.50, got %s", dto.Subtotal)
	}
}

func TestAddItemOutOfStock(t *testing.T) {
	t.Parallel()

	product := testProduct("10")
	product.InStock = false
	reader := &stubProductReader{products: map[uuid.UUID]*models.Product{product.ID: product}}
	svc := newCartTestService(t, newStubCartStore(), reader, nil)

	_, err := svc.AddItem(context.Background(), "tok-1", product.ID, 1)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestAddItemUnknownProduct(t *testing.T) {
	t.Parallel()

	reader := &stubProductReader{products: map[uuid.UUID]*models.Product{}}
	svc := newCartTestService(t, newStubCartStore(), reader, nil)

	_, err := svc.AddItem(context.Background(), "tok-1", uuid.New(), 1)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSetQuantityZeroRemovesLine(t *testing.T) {
	t.Parallel()

	product := testProduct("10")
	reader := &stubProductReader{products: map[uuid.UUID]*models.Product{product.ID: product}}
	svc := newCartTestService(t, newStubCartStore(), reader, nil)
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "tok-1", product.ID, 2); err != nil {
		t.Fatalf("add: %v", err)
	}

	dto, err := svc.SetQuantity(ctx, "tok-1", product.ID, 0)
	if err != nil {
		t.Fatalf("set quantity: %v", err)
	}
	if len(dto.Lines) != 0 {
		t.Fatalf("expected line removed, got %d", len(dto.Lines))
	}
}

func TestSetQuantityReplacesValue(t *testing.T) {
	t.Parallel()

	product := testProduct("10")
	reader := &stubProductReader{products: map[uuid.UUID]*models.Product{product.ID: product}}
	svc := newCartTestService(t, newStubCartStore(), reader, nil)
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "tok-1", product.ID, 2); err != nil {
		t.Fatalf("add: %v", err)
	}

	dto, err := svc.SetQuantity(ctx, "tok-1", product.ID, 5)
	if err != nil {
		t.Fatalf("set quantity: %v", err)
	}
	if dto.Lines[0].Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", dto.Lines[0].Quantity)
	}
	if !dto.Subtotal.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("expected subtotal 50, got %s", dto.Subtotal)
	}
}

func TestClearDropsLinesAndCoupon(t *testing.T) {
	t.Parallel()

	product := testProduct("10")
	reader := &stubProductReader{products: map[uuid.UUID]*models.Product{product.ID: product}}
	svc := newCartTestService(t, newStubCartStore(), reader, nil)
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "tok-1", product.ID, 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := svc.ApplyCoupon(ctx, "tok-1", "SAVE"); err != nil {
		t.Fatalf("apply coupon: %v", err)
	}

	dto, err := svc.Clear(ctx, "tok-1")
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if len(dto.Lines) != 0 {
		t.Fatalf("expected no lines, got %d", len(dto.Lines))
	}
	if dto.CouponCode != nil {
		t.Fatalf("expected coupon cleared, got %q", *dto.CouponCode)
	}
}

func TestApplyCouponStoresCandidateUnvalidated(t *testing.T) {
	t.Parallel()

	product := testProduct("100")
	reader := &stubProductReader{products: map[uuid.UUID]*models.Product{product.ID: product}}

	code := "LATER10"
	rules := []models.Discount{{
		ID:       uuid.New(),
		Type:     enums.DiscountTypePercentage,
		Value:    decimal.NewFromInt(10),
		Code:     &code,
		IsActive: false,
	}}
	svc := newCartTestService(t, newStubCartStore(), reader, rules)
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "tok-1", product.ID, 1); err != nil {
		t.Fatalf("add: %v", err)
	}

	// The code matches nothing active yet: stored, but not applied.
	dto, err := svc.ApplyCoupon(ctx, "tok-1", "later10")
	if err != nil {
		t.Fatalf("apply coupon: %v", err)
	}
	if dto.CouponCode == nil || *dto.CouponCode != "later10" {
		t.Fatalf("expected candidate stored, got %+v", dto.CouponCode)
	}
	if dto.CouponApplied {
		t.Fatalf("coupon must not apply while its rule is inactive")
	}
	if !dto.Total.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected undiscounted total, got %s", dto.Total)
	}
}

func TestCouponAppliesOnceRuleActive(t *testing.T) {
	t.Parallel()

	product := testProduct("100")
	reader := &stubProductReader{products: map[uuid.UUID]*models.Product{product.ID: product}}

	code := "TEN"
	rules := []models.Discount{{
		ID:       uuid.New(),
		Type:     enums.DiscountTypePercentage,
		Value:    decimal.NewFromInt(10),
		Code:     &code,
		IsActive: true,
	}}
	svc := newCartTestService(t, newStubCartStore(), reader, rules)
	ctx := context.Background()

	if _, err := svc.AddItem(ctx, "tok-1", product.ID, 1); err != nil {
		t.Fatalf("add: %v", err)
	}

	dto, err := svc.ApplyCoupon(ctx, "tok-1", "ten")
	if err != nil {
		t.Fatalf("apply coupon: %v", err)
	}
	if !dto.CouponApplied {
		t.Fatalf("expected coupon applied")
	}
	if !dto.DiscountAmount.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("expected 10 off, got %s", dto.DiscountAmount)
	}
	if !dto.Total.Equal(decimal.NewFromInt(90)) {
		t.Fatalf("expected total 90, got %s", dto.Total)
	}

	dto, err = svc.RemoveCoupon(ctx, "tok-1")
	if err != nil {
		t.Fatalf("remove coupon: %v", err)
	}
	if dto.CouponCode != nil || dto.CouponApplied {
		t.Fatalf("expected coupon removed, got %+v", dto)
	}
	if !dto.Total.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected full total, got %s", dto.Total)
	}
}

func TestAutomaticRulePricesCart(t *testing.T) {
	t.Parallel()

	product := testProduct("40")
	reader := &stubProductReader{products: map[uuid.UUID]*models.Product{product.ID: product}}

	rules := []models.Discount{{
		ID:       uuid.New(),
		Type:     enums.DiscountTypeFixed,
		Value:    decimal.NewFromInt(15),
		IsActive: true,
	}}
	svc := newCartTestService(t, newStubCartStore(), reader, rules)

	dto, err := svc.AddItem(context.Background(), "tok-1", product.ID, 1)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if dto.CouponApplied {
		t.Fatalf("automatic rule is not a coupon")
	}
	if !dto.Total.Equal(decimal.NewFromInt(25)) {
		t.Fatalf("expected total 25, got %s", dto.Total)
	}
}

package orders

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/dreamboutique/boutique-backend/pkg/db/models"
	"github.com/dreamboutique/boutique-backend/pkg/enums"
	pkgerrors "github.com/dreamboutique/boutique-backend/pkg/errors"
	"github.com/dreamboutique/boutique-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type stubOrderStore struct {
	orders map[uuid.UUID]*models.Order
}

func newStubOrderStore() *stubOrderStore {
	return &stubOrderStore{orders: map[uuid.UUID]*models.Order{}}
}

func (s *stubOrderStore) FindByID(_ context.Context, id uuid.UUID) (*models.Order, error) {
	order, ok := s.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return order, nil
}

func (s *stubOrderStore) FindByTracking(_ context.Context, trackingNumber string) (*models.Order, error) {
	needle := strings.ToLower(strings.TrimSpace(trackingNumber))
	for _, order := range s.orders {
		if strings.ToLower(order.TrackingNumber) == needle {
			return order, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubOrderStore) List(_ context.Context, status *enums.OrderStatus, cursor *pagination.Cursor, limit int) ([]models.Order, error) {
	var all []models.Order
	for _, order := range s.orders {
		if status != nil && order.Status != *status {
			continue
		}
		if cursor != nil && !order.CreatedAt.Before(cursor.CreatedAt) {
			continue
		}
		all = append(all, *order)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (s *stubOrderStore) Update(_ context.Context, order *models.Order) (*models.Order, error) {
	s.orders[order.ID] = order
	return order, nil
}

func (s *stubOrderStore) Count(_ context.Context) (int64, error) {
	return int64(len(s.orders)), nil
}

func (s *stubOrderStore) CountByStatus(_ context.Context, status enums.OrderStatus) (int64, error) {
	var n int64
	for _, order := range s.orders {
		if order.Status == status {
			n++
		}
	}
	return n, nil
}

func (s *stubOrderStore) SumDeliveredRevenue(_ context.Context) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, order := range s.orders {
		if order.Status == enums.OrderStatusDelivered {
			sum = sum.Add(order.Total)
		}
	}
	return sum, nil
}

func seedOrder(store *stubOrderStore, status enums.OrderStatus, createdAt time.Time) *models.Order {
	order := &models.Order{
		ID:             uuid.New(),
		TrackingNumber: "DB-" + uuid.NewString()[:8],
		CustomerName:   "Lina",
		Phone:          "0790000000",
		Address:        "Amman",
		Status:         status,
		Subtotal:       decimal.NewFromInt(50),
		DiscountAmount: decimal.Zero,
		Total:          decimal.NewFromInt(50),
		CreatedAt:      createdAt,
	}
	store.orders[order.ID] = order
	return order
}

func newOrderTestService(t *testing.T, store *stubOrderStore) Service {
	t.Helper()
	svc, err := NewService(store)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestUpdateStatusHappyPath(t *testing.T) {
	t.Parallel()

	store := newStubOrderStore()
	order := seedOrder(store, enums.OrderStatusPending, time.Now())
	svc := newOrderTestService(t, store)
	ctx := context.Background()

	dto, err := svc.UpdateStatus(ctx, order.ID, enums.OrderStatusShipped)
	if err != nil {
		t.Fatalf("ship: %v", err)
	}
	if dto.Status != "shipped" {
		t.Fatalf("expected shipped, got %s", dto.Status)
	}

	dto, err = svc.UpdateStatus(ctx, order.ID, enums.OrderStatusDelivered)
	if err != nil {
		t.Fatalf("deliver: %v", err)
	}
	if dto.Status != "delivered" {
		t.Fatalf("expected delivered, got %s", dto.Status)
	}
	if dto.DeliveredAt == nil {
		t.Fatalf("expected delivered_at stamped")
	}
}

func TestUpdateStatusIllegalTransition(t *testing.T) {
	t.Parallel()

	store := newStubOrderStore()
	order := seedOrder(store, enums.OrderStatusDelivered, time.Now())
	svc := newOrderTestService(t, store)

	_, err := svc.UpdateStatus(context.Background(), order.ID, enums.OrderStatusPending)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestUpdateStatusSameStatusIsNoop(t *testing.T) {
	t.Parallel()

	store := newStubOrderStore()
	order := seedOrder(store, enums.OrderStatusPending, time.Now())
	svc := newOrderTestService(t, store)

	dto, err := svc.UpdateStatus(context.Background(), order.ID, enums.OrderStatusPending)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dto.Status != "pending" {
		t.Fatalf("expected pending, got %s", dto.Status)
	}
}

func TestUpdateStatusInvalidValue(t *testing.T) {
	t.Parallel()

	store := newStubOrderStore()
	order := seedOrder(store, enums.OrderStatusPending, time.Now())
	svc := newOrderTestService(t, store)

	_, err := svc.UpdateStatus(context.Background(), order.ID, "lost")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestTrackCaseInsensitive(t *testing.T) {
	t.Parallel()

	store := newStubOrderStore()
	order := seedOrder(store, enums.OrderStatusShipped, time.Now())
	order.TrackingNumber = "DB-ABCD1234"
	svc := newOrderTestService(t, store)

	dto, err := svc.Track(context.Background(), "db-abcd1234")
	if err != nil {
		t.Fatalf("track: %v", err)
	}
	if dto.TrackingNumber != "DB-ABCD1234" || dto.Status != "shipped" {
		t.Fatalf("unexpected tracking result: %+v", dto)
	}
}

func TestTrackUnknownNumber(t *testing.T) {
	t.Parallel()

	svc := newOrderTestService(t, newStubOrderStore())

	_, err := svc.Track(context.Background(), "DB-MISSING1")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListOrdersPaginates(t *testing.T) {
	t.Parallel()

	store := newStubOrderStore()
	base := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		seedOrder(store, enums.OrderStatusPending, base.Add(time.Duration(i)*time.Minute))
	}
	svc := newOrderTestService(t, store)
	ctx := context.Background()

	page, err := svc.ListOrders(ctx, ListOrdersInput{Limit: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(page.Orders))
	}
	if page.NextCursor == nil {
		t.Fatalf("expected next cursor")
	}

	rest, err := svc.ListOrders(ctx, ListOrdersInput{Limit: 10, Cursor: *page.NextCursor})
	if err != nil {
		t.Fatalf("list rest: %v", err)
	}
	if len(rest.Orders) != 3 {
		t.Fatalf("expected 3 remaining orders, got %d", len(rest.Orders))
	}
	if rest.NextCursor != nil {
		t.Fatalf("expected no cursor on last page")
	}
}

func TestListOrdersInvalidCursor(t *testing.T) {
	t.Parallel()

	svc := newOrderTestService(t, newStubOrderStore())

	_, err := svc.ListOrders(context.Background(), ListOrdersInput{Cursor: "not-base64!!"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestNewTrackingNumberShape(t *testing.T) {
	t.Parallel()

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code, err := NewTrackingNumber()
		if err != nil {
			t.Fatalf("mint: %v", err)
		}
		if !strings.HasPrefix(code, "DB-") || len(code) != 11 {
			t.Fatalf("unexpected shape %q", code)
		}
		for _, r := range code[3:] {
			if !strings.ContainsRune(trackingAlphabet, r) {
				t.Fatalf("character %q outside alphabet", r)
			}
		}
		if seen[code] {
			t.Fatalf("duplicate code %q in 50 draws", code)
		}
		seen[code] = true
	}
}

package orders

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dreamboutique/boutique-backend/pkg/db/models"
	"github.com/dreamboutique/boutique-backend/pkg/enums"
	pkgerrors "github.com/dreamboutique/boutique-backend/pkg/errors"
	"github.com/dreamboutique/boutique-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service exposes back-office order management and public tracking.
type Service interface {
	GetOrder(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error)
	ListOrders(ctx context.Context, input ListOrdersInput) (*OrderListResult, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, next enums.OrderStatus) (*OrderDTO, error)
	Track(ctx context.Context, trackingNumber string) (*TrackingDTO, error)
}

// ListOrdersInput narrows and pages the admin order listing.
type ListOrdersInput struct {
	Status *enums.OrderStatus
	Limit  int
	Cursor string
}

type orderStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindByTracking(ctx context.Context, trackingNumber string) (*models.Order, error)
	List(ctx context.Context, status *enums.OrderStatus, cursor *pagination.Cursor, limit int) ([]models.Order, error)
	Update(ctx context.Context, order *models.Order) (*models.Order, error)
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status enums.OrderStatus) (int64, error)
	SumDeliveredRevenue(ctx context.Context) (decimal.Decimal, error)
}

// service implements the order service.
type service struct {
	repo orderStore
}

// NewService constructs an order service instance.
func NewService(repo orderStore) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	return &service{repo: repo}, nil
}

// GetOrder loads a single order with its lines.
func (s *service) GetOrder(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return NewOrderDTO(order), nil
}

// ListOrders pages through orders newest first.
func (s *service) ListOrders(ctx context.Context, input ListOrdersInput) (*OrderListResult, error) {
	cursor, err := pagination.ParseCursor(input.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(input.Limit)
	list, err := s.repo.List(ctx, input.Status, cursor, pagination.LimitWithBuffer(input.Limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list orders")
	}

	result := &OrderListResult{Orders: make([]OrderDTO, 0, len(list))}
	hasMore := len(list) > limit
	if hasMore {
		list = list[:limit]
	}
	for i := range list {
		result.Orders = append(result.Orders, *NewOrderDTO(&list[i]))
	}
	if hasMore {
		last := list[len(list)-1]
		next := pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		result.NextCursor = &next
	}
	return result, nil
}

// UpdateStatus advances the order through its lifecycle. Illegal moves
// surface as state conflicts; delivery stamps DeliveredAt.
func (s *service) UpdateStatus(ctx context.Context, orderID uuid.UUID, next enums.OrderStatus) (*OrderDTO, error) {
	if !next.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status == next {
		return NewOrderDTO(order), nil
	}
	if !order.Status.CanTransitionTo(next) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot move order from %s to %s", order.Status, next)).
			WithDetails(map[string]string{"from": order.Status.String(), "to": next.String()})
	}

	order.Status = next
	if next == enums.OrderStatusDelivered {
		now := time.Now().UTC()
		order.DeliveredAt = &now
	}

	updated, err := s.repo.Update(ctx, order)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update order status")
	}
	return NewOrderDTO(updated), nil
}

// Track is the public lookup by tracking number, case-insensitive.
func (s *service) Track(ctx context.Context, trackingNumber string) (*TrackingDTO, error) {
	if strings.TrimSpace(trackingNumber) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tracking number required")
	}
	order, err := s.repo.FindByTracking(ctx, trackingNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load order by tracking")
	}
	return NewTrackingDTO(order), nil
}

func (s *service) loadOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load order")
	}
	return order, nil
}

const trackingAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// NewTrackingNumber mints a DB-prefixed human-readable tracking code.
// The alphabet drops the lookalike characters 0/O, 1/I, and L.
func NewTrackingNumber() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	code := make([]byte, len(buf))
	for i, b := range buf {
		code[i] = trackingAlphabet[int(b)%len(trackingAlphabet)]
	}
	return fmt.Sprintf("DB-%s", code), nil
}

package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dreamboutique/boutique-backend/internal/discounts"
	"github.com/dreamboutique/boutique-backend/internal/orders"
	"github.com/dreamboutique/boutique-backend/pkg/db"
	"github.com/dreamboutique/boutique-backend/pkg/db/models"
	pkgerrors "github.com/dreamboutique/boutique-backend/pkg/errors"
	"github.com/dreamboutique/boutique-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service converts a shopper's cart into an order.
type Service interface {
	Checkout(ctx context.Context, token string, input CheckoutInput) (*orders.OrderDTO, error)
}

// CheckoutInput holds the validated customer details for an order.
type CheckoutInput struct {
	CustomerName  string
	Phone         string
	Address       string
	Notes         *string
	GuestCheckout bool
}

type CartLedger interface {
	FindByToken(ctx context.Context, token string) (*models.Cart, error)
	DeleteItems(ctx context.Context, cartID uuid.UUID) error
	SaveCoupon(ctx context.Context, cartID uuid.UUID, code *string) error
}

type OrderWriter interface {
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
}

type pricingResolver interface {
	Resolve(ctx context.Context, subtotal decimal.Decimal, couponCode string) (discounts.Outcome, error)
}

type orderNotifier interface {
	OrderPlaced(ctx context.Context, orderID uuid.UUID, trackingNumber, customerName string) error
}

// service implements the checkout service.
type service struct {
	dbClient *db.Client
	carts    func(tx *gorm.DB) CartLedger
	orders   func(tx *gorm.DB) OrderWriter
	pricing  pricingResolver
	notifier orderNotifier
	logg     *logger.Logger
}

// NewService constructs a checkout service. The cart and order factories
// return tx-bound repositories so the whole conversion commits atomically.
func NewService(
	dbClient *db.Client,
	carts func(tx *gorm.DB) CartLedger,
	orderRepos func(tx *gorm.DB) OrderWriter,
	pricing pricingResolver,
	notifier orderNotifier,
	logg *logger.Logger,
) (Service, error) {
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart repository factory required")
	}
	if orderRepos == nil {
		return nil, fmt.Errorf("order repository factory required")
	}
	if pricing == nil {
		return nil, fmt.Errorf("pricing resolver required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("order notifier required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		dbClient: dbClient,
		carts:    carts,
		orders:   orderRepos,
		pricing:  pricing,
		notifier: notifier,
		logg:     logg,
	}, nil
}

// Checkout freezes the cart's priced lines and resolved discount into an
// order, mints a tracking number, and empties the cart. Later registry
// edits never reprice the order.
func (s *service) Checkout(ctx context.Context, token string, input CheckoutInput) (*orders.OrderDTO, error) {
	if strings.TrimSpace(input.CustomerName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer name is required")
	}
	if strings.TrimSpace(input.Phone) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "phone is required")
	}
	if strings.TrimSpace(input.Address) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "address is required")
	}

	liveCarts := s.carts(nil)
	cart, err := liveCarts.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load cart")
	}
	if len(cart.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	subtotal := decimal.Zero
	for i := range cart.Items {
		item := &cart.Items[i]
		subtotal = subtotal.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	code := ""
	if cart.CouponCode != nil {
		code = *cart.CouponCode
	}
	priced, err := s.pricing.Resolve(ctx, subtotal, code)
	if err != nil {
		return nil, err
	}

	tracking, err := orders.NewTrackingNumber()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint tracking number")
	}

	order := &models.Order{
		TrackingNumber: tracking,
		CustomerName:   strings.TrimSpace(input.CustomerName),
		Phone:          strings.TrimSpace(input.Phone),
		Address:        strings.TrimSpace(input.Address),
		Notes:          input.Notes,
		GuestCheckout:  input.GuestCheckout,
		Subtotal:       priced.Subtotal,
		DiscountAmount: priced.DiscountAmount,
		Total:          priced.Total,
	}
	if priced.Rule != nil {
		ruleID := priced.Rule.ID
		order.DiscountID = &ruleID
		if priced.CouponApplied {
			order.DiscountCode = priced.Rule.Code
		}
	}
	for i := range cart.Items {
		item := &cart.Items[i]
		order.Items = append(order.Items, models.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			LineTotal: item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))),
		})
	}

	var createdID uuid.UUID
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		created, err := s.orders(tx).Create(ctx, order)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert order")
		}
		createdID = created.ID

		txCarts := s.carts(tx)
		if err := txCarts.DeleteItems(ctx, cart.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: clear cart lines")
		}
		if err := txCarts.SaveCoupon(ctx, cart.ID, nil); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: clear coupon")
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "checkout")
	}

	// Notification failure must not fail a committed order.
	if err := s.notifier.OrderPlaced(ctx, createdID, tracking, order.CustomerName); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "order_id", createdID.String()), "order notification failed")
	}

	placed, err := s.orders(nil).FindByID(ctx, createdID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load placed order")
	}
	return orders.NewOrderDTO(placed), nil
}

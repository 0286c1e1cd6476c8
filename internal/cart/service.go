package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dreamboutique/boutique-backend/internal/discounts"
	"github.com/dreamboutique/boutique-backend/pkg/db/models"
	pkgerrors "github.com/dreamboutique/boutique-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service exposes the shopper-facing cart ledger. Carts are keyed by an
// anonymous token the storefront holds; every read resolves pricing against
// the active discount rules.
type Service interface {
	GetCart(ctx context.Context, token string) (*CartDTO, error)
	AddItem(ctx context.Context, token string, productID uuid.UUID, quantity int) (*CartDTO, error)
	SetQuantity(ctx context.Context, token string, productID uuid.UUID, quantity int) (*CartDTO, error)
	RemoveItem(ctx context.Context, token string, productID uuid.UUID) (*CartDTO, error)
	Clear(ctx context.Context, token string) (*CartDTO, error)
	ApplyCoupon(ctx context.Context, token, code string) (*CartDTO, error)
	RemoveCoupon(ctx context.Context, token string) (*CartDTO, error)
}

type cartStore interface {
	FindByToken(ctx context.Context, token string) (*models.Cart, error)
	Create(ctx context.Context, cart *models.Cart) (*models.Cart, error)
	SaveCoupon(ctx context.Context, cartID uuid.UUID, code *string) error
	FindItem(ctx context.Context, cartID, productID uuid.UUID) (*models.CartItem, error)
	CreateItem(ctx context.Context, item *models.CartItem) (*models.CartItem, error)
	UpdateItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error
	DeleteItem(ctx context.Context, cartID, productID uuid.UUID) error
	DeleteItems(ctx context.Context, cartID uuid.UUID) error
}

type productReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type pricingResolver interface {
	Resolve(ctx context.Context, subtotal decimal.Decimal, couponCode string) (discounts.Outcome, error)
}

// service implements the cart service.
type service struct {
	repo     cartStore
	products productReader
	pricing  pricingResolver
}

// NewService constructs a cart service instance.
func NewService(repo cartStore, products productReader, pricing pricingResolver) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product reader required")
	}
	if pricing == nil {
		return nil, fmt.Errorf("pricing resolver required")
	}
	return &service{repo: repo, products: products, pricing: pricing}, nil
}

// GetCart loads the cart for the token, creating an empty one on first use.
func (s *service) GetCart(ctx context.Context, token string) (*CartDTO, error) {
	cart, err := s.loadOrCreate(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.priced(ctx, cart)
}

// AddItem appends the product to the ledger, snapshotting name, price, and
// image at add-time. Adding a product already in the cart bumps its quantity.
func (s *service) AddItem(ctx context.Context, token string, productID uuid.UUID, quantity int) (*CartDTO, error) {
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}
	if !product.InStock {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "product is out of stock")
	}

	cart, err := s.loadOrCreate(ctx, token)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindItem(ctx, cart.ID, productID)
	switch {
	case err == nil:
		if err := s.repo.UpdateItemQuantity(ctx, existing.ID, existing.Quantity+quantity); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update cart line")
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		var image *string
		if len(product.Images) > 0 {
			image = &product.Images[0]
		}
		item := &models.CartItem{
			CartID:    cart.ID,
			ProductID: product.ID,
			Name:      product.Name,
			UnitPrice: product.Price,
			Image:     image,
			Quantity:  quantity,
		}
		if _, err := s.repo.CreateItem(ctx, item); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert cart line")
		}
	default:
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load cart line")
	}

	return s.reload(ctx, token)
}

// SetQuantity replaces the line quantity. Zero or less removes the line,
// matching how the storefront steppers behave.
func (s *service) SetQuantity(ctx context.Context, token string, productID uuid.UUID, quantity int) (*CartDTO, error) {
	cart, err := s.loadCart(ctx, token)
	if err != nil {
		return nil, err
	}

	if quantity <= 0 {
		if err := s.repo.DeleteItem(ctx, cart.ID, productID); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete cart line")
		}
		return s.reload(ctx, token)
	}

	item, err := s.repo.FindItem(ctx, cart.ID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not in cart")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load cart line")
	}
	if err := s.repo.UpdateItemQuantity(ctx, item.ID, quantity); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update cart line")
	}
	return s.reload(ctx, token)
}

// RemoveItem drops the product's line. Removing an absent line is a no-op.
func (s *service) RemoveItem(ctx context.Context, token string, productID uuid.UUID) (*CartDTO, error) {
	cart, err := s.loadCart(ctx, token)
	if err != nil {
		return nil, err
	}
	if err := s.repo.DeleteItem(ctx, cart.ID, productID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete cart line")
	}
	return s.reload(ctx, token)
}

// Clear drops every line and the coupon in one sweep.
func (s *service) Clear(ctx context.Context, token string) (*CartDTO, error) {
	cart, err := s.loadCart(ctx, token)
	if err != nil {
		return nil, err
	}
	if err := s.repo.DeleteItems(ctx, cart.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: clear cart lines")
	}
	if err := s.repo.SaveCoupon(ctx, cart.ID, nil); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: clear coupon")
	}
	return s.reload(ctx, token)
}

// ApplyCoupon stores the candidate code as submitted. The code is not
// validated here: totals simply fall back to automatic rules while the code
// matches nothing, and start applying the moment a matching rule appears.
func (s *service) ApplyCoupon(ctx context.Context, token, code string) (*CartDTO, error) {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon code cannot be blank")
	}

	cart, err := s.loadOrCreate(ctx, token)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SaveCoupon(ctx, cart.ID, &trimmed); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: save coupon")
	}
	return s.reload(ctx, token)
}

// RemoveCoupon clears the candidate code.
func (s *service) RemoveCoupon(ctx context.Context, token string) (*CartDTO, error) {
	cart, err := s.loadCart(ctx, token)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SaveCoupon(ctx, cart.ID, nil); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: clear coupon")
	}
	return s.reload(ctx, token)
}

func (s *service) loadCart(ctx context.Context, token string) (*models.Cart, error) {
	if strings.TrimSpace(token) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart token required")
	}
	cart, err := s.repo.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load cart")
	}
	return cart, nil
}

func (s *service) loadOrCreate(ctx context.Context, token string) (*models.Cart, error) {
	if strings.TrimSpace(token) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart token required")
	}
	cart, err := s.repo.FindByToken(ctx, token)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load cart")
	}

	created, err := s.repo.Create(ctx, &models.Cart{Token: token})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: create cart")
	}
	return created, nil
}

func (s *service) reload(ctx context.Context, token string) (*CartDTO, error) {
	cart, err := s.loadCart(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.priced(ctx, cart)
}

func (s *service) priced(ctx context.Context, cart *models.Cart) (*CartDTO, error) {
	subtotal := decimal.Zero
	for i := range cart.Items {
		item := &cart.Items[i]
		subtotal = subtotal.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	code := ""
	if cart.CouponCode != nil {
		code = *cart.CouponCode
	}
	out, err := s.pricing.Resolve(ctx, subtotal, code)
	if err != nil {
		return nil, err
	}
	return NewCartDTO(cart, out), nil
}

package cart

import (
	"github.com/dreamboutique/boutique-backend/internal/discounts"
	"github.com/dreamboutique/boutique-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineDTO is one cart line with its snapshot fields and line total.
type LineDTO struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Image     *string         `json:"image,omitempty"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// CartDTO is the cart with pricing already resolved against the active
// discount rules.
type CartDTO struct {
	Token          string          `json:"token"`
	Lines          []LineDTO       `json:"lines"`
	ItemCount      int             `json:"item_count"`
	CouponCode     *string         `json:"coupon_code,omitempty"`
	CouponApplied  bool            `json:"coupon_applied"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	Total          decimal.Decimal `json:"total"`
}

// NewCartDTO maps the cart and its resolved pricing to the API shape.
func NewCartDTO(cart *models.Cart, out discounts.Outcome) *CartDTO {
	if cart == nil {
		return nil
	}

	lines := make([]LineDTO, 0, len(cart.Items))
	count := 0
	for i := range cart.Items {
		item := &cart.Items[i]
		count += item.Quantity
		lines = append(lines, LineDTO{
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Image:     item.Image,
			Quantity:  item.Quantity,
			LineTotal: item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))),
		})
	}

	return &CartDTO{
		Token:          cart.Token,
		Lines:          lines,
		ItemCount:      count,
		CouponCode:     cart.CouponCode,
		CouponApplied:  out.CouponApplied,
		Subtotal:       out.Subtotal,
		DiscountAmount: out.DiscountAmount,
		Total:          out.Total,
	}
}

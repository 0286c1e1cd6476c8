package orders

import (
	"time"

	"github.com/dreamboutique/boutique-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderLineDTO is one priced line frozen at checkout.
type OrderLineDTO struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// OrderDTO is the API shape of an order.
type OrderDTO struct {
	ID             uuid.UUID       `json:"id"`
	TrackingNumber string          `json:"tracking_number"`
	CustomerName   string          `json:"customer_name"`
	Phone          string          `json:"phone"`
	Address        string          `json:"address"`
	Notes          *string         `json:"notes,omitempty"`
	GuestCheckout  bool            `json:"guest_checkout"`
	Status         string          `json:"status"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	Total          decimal.Decimal `json:"total"`
	DiscountCode   *string         `json:"discount_code,omitempty"`
	Lines          []OrderLineDTO  `json:"lines"`
	DeliveredAt    *time.Time      `json:"delivered_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// NewOrderDTO maps the model to its API shape.
func NewOrderDTO(order *models.Order) *OrderDTO {
	if order == nil {
		return nil
	}

	lines := make([]OrderLineDTO, 0, len(order.Items))
	for i := range order.Items {
		item := &order.Items[i]
		lines = append(lines, OrderLineDTO{
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			LineTotal: item.LineTotal,
		})
	}

	return &OrderDTO{
		ID:             order.ID,
		TrackingNumber: order.TrackingNumber,
		CustomerName:   order.CustomerName,
		Phone:          order.Phone,
		Address:        order.Address,
		Notes:          order.Notes,
		GuestCheckout:  order.GuestCheckout,
		Status:         order.Status.String(),
		Subtotal:       order.Subtotal,
		DiscountAmount: order.DiscountAmount,
		Total:          order.Total,
		DiscountCode:   order.DiscountCode,
		Lines:          lines,
		DeliveredAt:    order.DeliveredAt,
		CreatedAt:      order.CreatedAt,
	}
}

// OrderListResult is one page of orders plus the cursor for the next page.
type OrderListResult struct {
	Orders     []OrderDTO `json:"orders"`
	NextCursor *string    `json:"next_cursor,omitempty"`
}

// TrackingDTO is the public view of an order's fulfillment state. It leaks
// no customer details beyond the shopper-chosen display name.
type TrackingDTO struct {
	TrackingNumber string          `json:"tracking_number"`
	Status         string          `json:"status"`
	CustomerName   string          `json:"customer_name"`
	ItemCount      int             `json:"item_count"`
	Total          decimal.Decimal `json:"total"`
	DeliveredAt    *time.Time      `json:"delivered_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// NewTrackingDTO maps the order to its public tracking shape.
func NewTrackingDTO(order *models.Order) *TrackingDTO {
	if order == nil {
		return nil
	}
	count := 0
	for i := range order.Items {
		count += order.Items[i].Quantity
	}
	return &TrackingDTO{
		TrackingNumber: order.TrackingNumber,
		Status:         order.Status.String(),
		CustomerName:   order.CustomerName,
		ItemCount:      count,
		Total:          order.Total,
		DeliveredAt:    order.DeliveredAt,
		CreatedAt:      order.CreatedAt,
	}
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dreamboutique/boutique-backend/pkg/enums"
)

// Order captures a completed checkout. Totals and the resolved discount
// are frozen at checkout time; later registry edits never reprice an order.
type Order struct {
	ID             uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TrackingNumber string            `gorm:"column:tracking_number;not null;uniqueIndex"`
	CustomerName   string            `gorm:"column:customer_name;not null"`
	Phone          string            `gorm:"column:phone;not null"`
	Address        string            `gorm:"column:address;not null"`
	Notes          *string           `gorm:"column:notes"`
	GuestCheckout  bool              `gorm:"column:guest_checkout;not null;default:false"`
	Status         enums.OrderStatus `gorm:"column:status;not null;default:'pending'"`
	Subtotal       decimal.Decimal   `gorm:"column:subtotal;type:numeric(12,2);not null"`
	DiscountAmount decimal.Decimal   `gorm:"column:discount_amount;type:numeric(12,2);not null"`
	Total          decimal.Decimal   `gorm:"column:total;type:numeric(12,2);not null"`
	DiscountID     *uuid.UUID        `gorm:"column:discount_id;type:uuid"`
	DiscountCode   *string           `gorm:"column:discount_code"`
	Items          []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	DeliveredAt    *time.Time        `gorm:"column:delivered_at"`
	CreatedAt      time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

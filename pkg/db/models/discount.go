package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dreamboutique/boutique-backend/pkg/enums"
)

// Discount is a pricing rule. A nil Code marks the rule as automatic;
// coded rules only apply when a shopper submits the matching coupon.
// Resolution order follows insertion order (created_at, id).
type Discount struct {
	ID        uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Type      enums.DiscountType `gorm:"column:type;not null"`
	Value     decimal.Decimal    `gorm:"column:value;type:numeric(12,2);not null"`
	Code      *string            `gorm:"column:code"`
	IsActive  bool               `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

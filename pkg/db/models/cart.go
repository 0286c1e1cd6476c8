package models

import (
	"time"

	"github.com/google/uuid"
)

// Cart is the per-shopper ledger of pending lines. CouponCode stores the
// candidate code the shopper last submitted; whether it resolves to an
// actual discount is decided at total-computation time.
type Cart struct {
	ID         uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Token      string     `gorm:"column:token;not null;uniqueIndex"`
	CouponCode *string    `gorm:"column:coupon_code"`
	Items      []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

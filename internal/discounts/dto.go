package discounts

import (
	"time"

	"github.com/dreamboutique/boutique-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RuleDTO is the API shape of a discount rule.
type RuleDTO struct {
	ID        uuid.UUID       `json:"id"`
	Type      string          `json:"type"`
	Value     decimal.Decimal `json:"value"`
	Code      *string         `json:"code,omitempty"`
	IsActive  bool            `json:"is_active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// NewRuleDTO maps the model to its API shape.
func NewRuleDTO(rule *models.Discount) *RuleDTO {
	if rule == nil {
		return nil
	}
	return &RuleDTO{
		ID:        rule.ID,
		Type:      rule.Type.String(),
		Value:     rule.Value,
		Code:      rule.Code,
		IsActive:  rule.IsActive,
		CreatedAt: rule.CreatedAt,
		UpdatedAt: rule.UpdatedAt,
	}
}

// ResolutionDTO is the API shape of a pricing resolution.
type ResolutionDTO struct {
	Rule           *RuleDTO        `json:"rule,omitempty"`
	CouponApplied  bool            `json:"coupon_applied"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	Total          decimal.Decimal `json:"total"`
}

// NewResolutionDTO maps a resolution outcome to its API shape.
func NewResolutionDTO(out Outcome) *ResolutionDTO {
	return &ResolutionDTO{
		Rule:           NewRuleDTO(out.Rule),
		CouponApplied:  out.CouponApplied,
		Subtotal:       out.Subtotal,
		DiscountAmount: out.DiscountAmount,
		Total:          out.Total,
	}
}

package discounts

import (
	"strings"

	"github.com/dreamboutique/boutique-backend/pkg/db/models"
	"github.com/dreamboutique/boutique-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// Outcome is the result of resolving the active rules against a subtotal.
// Total is never negative and Rule is nil when no rule applied.
type Outcome struct {
	Rule           *models.Discount
	CouponApplied  bool
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	Total          decimal.Decimal
}

// ResolveRules picks at most one rule and prices the subtotal with it.
//
// rules must already be filtered to active rules and sorted in insertion
// order. A coupon code is matched case-insensitively against coded rules and
// wins outright; when the code matches nothing (or is empty) the first
// codeless rule applies instead. An unmatched code never yields an error
// here: the caller decides whether to surface it.
func ResolveRules(rules []models.Discount, subtotal decimal.Decimal, couponCode string) Outcome {
	out := Outcome{
		Subtotal:       subtotal,
		DiscountAmount: decimal.Zero,
		Total:          subtotal,
	}
	if subtotal.IsNegative() {
		out.Subtotal = decimal.Zero
		out.Total = decimal.Zero
		return out
	}

	code := strings.TrimSpace(couponCode)
	if code != "" {
		for i := range rules {
			if rules[i].Code == nil {
				continue
			}
			if strings.EqualFold(*rules[i].Code, code) {
				out.Rule = &rules[i]
				out.CouponApplied = true
				return priceWith(out)
			}
		}
	}

	// First codeless rule in insertion order, not the best one.
	for i := range rules {
		if rules[i].Code == nil {
			out.Rule = &rules[i]
			return priceWith(out)
		}
	}

	return out
}

func priceWith(out Outcome) Outcome {
	rule := out.Rule

	var amount decimal.Decimal
	switch rule.Type {
	case enums.DiscountTypePercentage:
		amount = out.Subtotal.Mul(rule.Value).Div(decimal.NewFromInt(100))
	case enums.DiscountTypeFixed:
		amount = rule.Value
	default:
		out.Rule = nil
		out.CouponApplied = false
		return out
	}

	if amount.GreaterThan(out.Subtotal) {
		amount = out.Subtotal
	}
	if amount.IsNegative() {
		amount = decimal.Zero
	}

	out.DiscountAmount = amount.Round(2)
	out.Total = out.Subtotal.Sub(out.DiscountAmount)
	return out
}

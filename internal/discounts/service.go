package discounts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dreamboutique/boutique-backend/pkg/db"
	"github.com/dreamboutique/boutique-backend/pkg/db/models"
	"github.com/dreamboutique/boutique-backend/pkg/enums"
	pkgerrors "github.com/dreamboutique/boutique-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service exposes discount rule management and pricing resolution.
type Service interface {
	AddRule(ctx context.Context, input AddRuleInput) (*RuleDTO, error)
	UpdateRule(ctx context.Context, ruleID uuid.UUID, input UpdateRuleInput) (*RuleDTO, error)
	DeleteRule(ctx context.Context, ruleID uuid.UUID) error
	SetActive(ctx context.Context, ruleID uuid.UUID, active bool) (*RuleDTO, error)
	ToggleActive(ctx context.Context, ruleID uuid.UUID) (*RuleDTO, error)
	GetRule(ctx context.Context, ruleID uuid.UUID) (*RuleDTO, error)
	ListRules(ctx context.Context) ([]RuleDTO, error)
	Resolve(ctx context.Context, subtotal decimal.Decimal, couponCode string) (Outcome, error)
}

// AddRuleInput holds the validated payload to create a rule.
type AddRuleInput struct {
	Type     enums.DiscountType
	Value    decimal.Decimal
	Code     *string
	IsActive bool
}

// UpdateRuleInput holds optional mutation values for a rule. ClearCode turns
// a coded rule into an automatic one.
type UpdateRuleInput struct {
	Type      *enums.DiscountType
	Value     *decimal.Decimal
	Code      *string
	ClearCode bool
	IsActive  *bool
}

type ruleStore interface {
	Create(ctx context.Context, rule *models.Discount) (*models.Discount, error)
	Update(ctx context.Context, rule *models.Discount) (*models.Discount, error)
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Discount, error)
	FindByCode(ctx context.Context, code string) (*models.Discount, error)
	ListAll(ctx context.Context) ([]models.Discount, error)
	ListActive(ctx context.Context) ([]models.Discount, error)
}

// service implements the discount service.
type service struct {
	repo ruleStore
}

// NewService constructs a discount service instance.
func NewService(repo ruleStore) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("discount repository required")
	}
	return &service{repo: repo}, nil
}

// AddRule validates and inserts a new rule. Coupon codes are unique
// case-insensitively across all rules, active or not.
func (s *service) AddRule(ctx context.Context, input AddRuleInput) (*RuleDTO, error) {
	if !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "type must be percentage or fixed")
	}
	if !input.Value.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "value must be positive")
	}

	code, err := s.normalizeCode(ctx, input.Code, uuid.Nil)
	if err != nil {
		return nil, err
	}

	rule := &models.Discount{
		Type:     input.Type,
		Value:    input.Value,
		Code:     code,
		IsActive: input.IsActive,
	}
	created, err := s.repo.Create(ctx, rule)
	if err != nil {
		if db.IsUniqueViolation(err, "idx_discounts_code_lower") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "coupon code already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert discount rule")
	}
	return NewRuleDTO(created), nil
}

// UpdateRule applies the provided mutations to an existing rule.
func (s *service) UpdateRule(ctx context.Context, ruleID uuid.UUID, input UpdateRuleInput) (*RuleDTO, error) {
	rule, err := s.loadRule(ctx, ruleID)
	if err != nil {
		return nil, err
	}

	if input.Type != nil {
		if !input.Type.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "type must be percentage or fixed")
		}
		rule.Type = *input.Type
	}
	if input.Value != nil {
		if !input.Value.IsPositive() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "value must be positive")
		}
		rule.Value = *input.Value
	}
	if input.ClearCode {
		rule.Code = nil
	} else if input.Code != nil {
		code, err := s.normalizeCode(ctx, input.Code, ruleID)
		if err != nil {
			return nil, err
		}
		rule.Code = code
	}
	if input.IsActive != nil {
		rule.IsActive = *input.IsActive
	}

	updated, err := s.repo.Update(ctx, rule)
	if err != nil {
		if db.IsUniqueViolation(err, "idx_discounts_code_lower") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "coupon code already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update discount rule")
	}
	return NewRuleDTO(updated), nil
}

// DeleteRule removes the rule. Deleting an unknown id is a no-op.
func (s *service) DeleteRule(ctx context.Context, ruleID uuid.UUID) error {
	if err := s.repo.Delete(ctx, ruleID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete discount rule")
	}
	return nil
}

// SetActive sets the rule's active flag to an explicit state.
func (s *service) SetActive(ctx context.Context, ruleID uuid.UUID, active bool) (*RuleDTO, error) {
	rule, err := s.loadRule(ctx, ruleID)
	if err != nil {
		return nil, err
	}
	rule.IsActive = active
	updated, err := s.repo.Update(ctx, rule)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update discount rule")
	}
	return NewRuleDTO(updated), nil
}

// ToggleActive flips the rule's active flag.
func (s *service) ToggleActive(ctx context.Context, ruleID uuid.UUID) (*RuleDTO, error) {
	rule, err := s.loadRule(ctx, ruleID)
	if err != nil {
		return nil, err
	}
	rule.IsActive = !rule.IsActive
	updated, err := s.repo.Update(ctx, rule)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update discount rule")
	}
	return NewRuleDTO(updated), nil
}

// GetRule loads a single rule.
func (s *service) GetRule(ctx context.Context, ruleID uuid.UUID) (*RuleDTO, error) {
	rule, err := s.loadRule(ctx, ruleID)
	if err != nil {
		return nil, err
	}
	return NewRuleDTO(rule), nil
}

// ListRules returns every rule in insertion order.
func (s *service) ListRules(ctx context.Context) ([]RuleDTO, error) {
	rules, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list discount rules")
	}
	out := make([]RuleDTO, 0, len(rules))
	for i := range rules {
		out = append(out, *NewRuleDTO(&rules[i]))
	}
	return out, nil
}

// Resolve prices the subtotal against the active rules. The resolution
// itself is pure; this loads the active rules and delegates.
func (s *service) Resolve(ctx context.Context, subtotal decimal.Decimal, couponCode string) (Outcome, error) {
	rules, err := s.repo.ListActive(ctx)
	if err != nil {
		return Outcome{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list active discount rules")
	}
	return ResolveRules(rules, subtotal, couponCode), nil
}

func (s *service) loadRule(ctx context.Context, ruleID uuid.UUID) (*models.Discount, error) {
	rule, err := s.repo.FindByID(ctx, ruleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "discount rule not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load discount rule")
	}
	return rule, nil
}

// normalizeCode trims the candidate code and enforces case-insensitive
// uniqueness, ignoring the rule being updated. Returns nil for absent codes.
func (s *service) normalizeCode(ctx context.Context, code *string, selfID uuid.UUID) (*string, error) {
	if code == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*code)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon code cannot be blank")
	}

	existing, err := s.repo.FindByCode(ctx, trimmed)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: lookup coupon code")
	}
	if existing != nil && existing.ID != selfID {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "coupon code already in use")
	}
	return &trimmed, nil
}

package discounts

import (
	"context"
	"strings"

	"github.com/dreamboutique/boutique-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository wires discount rule persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts the rule and returns it with generated fields populated.
func (r *Repository) Create(ctx context.Context, rule *models.Discount) (*models.Discount, error) {
	if rule.ID == uuid.Nil {
		rule.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(rule).Error; err != nil {
		return nil, err
	}
	return rule, nil
}

// Update saves all mutable fields of the rule.
func (r *Repository) Update(ctx context.Context, rule *models.Discount) (*models.Discount, error) {
	if err := r.db.WithContext(ctx).Save(rule).Error; err != nil {
		return nil, err
	}
	return rule, nil
}

// Delete removes the rule by id.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Discount{}, "id = ?", id).Error
}

// FindByID loads a single rule.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Discount, error) {
	var rule models.Discount
	if err := r.db.WithContext(ctx).First(&rule, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rule, nil
}

// FindByCode loads a coded rule matching the code case-insensitively,
// regardless of active state. Returns gorm.ErrRecordNotFound when absent.
func (r *Repository) FindByCode(ctx context.Context, code string) (*models.Discount, error) {
	var rule models.Discount
	err := r.db.WithContext(ctx).
		Where("code IS NOT NULL AND lower(code) = ?", strings.ToLower(code)).
		First(&rule).Error
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

// ListAll returns every rule in insertion order.
func (r *Repository) ListAll(ctx context.Context) ([]models.Discount, error) {
	var rules []models.Discount
	if err := r.db.WithContext(ctx).
		Order("created_at ASC, id ASC").
		Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

// ListActive returns active rules in insertion order, the order the
// resolution walk depends on.
func (r *Repository) ListActive(ctx context.Context) ([]models.Discount, error) {
	var rules []models.Discount
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at ASC, id ASC").
		Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

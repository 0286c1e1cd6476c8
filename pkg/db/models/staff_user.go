package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dreamboutique/boutique-backend/pkg/enums"
)

// StaffUser is a back-office account. Shoppers are anonymous; only staff
// authenticate.
type StaffUser struct {
	ID           uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string           `gorm:"column:name;not null"`
	Email        string           `gorm:"column:email;not null;uniqueIndex"`
	Phone        string           `gorm:"column:phone;not null"`
	PasswordHash string           `gorm:"column:password_hash;not null"`
	Role         enums.StaffRole  `gorm:"column:role;not null"`
	Salary       *decimal.Decimal `gorm:"column:salary;type:numeric(12,2)"`
	IsActive     bool             `gorm:"column:is_active;not null;default:true"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

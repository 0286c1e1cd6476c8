package users

import (
	"time"

	"github.com/dreamboutique/boutique-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StaffDTO is the API shape of a staff account. The password hash never
// leaves the service layer.
type StaffDTO struct {
	ID        uuid.UUID        `json:"id"`
	Name      string           `json:"name"`
	Email     string           `json:"email"`
	Phone     string           `json:"phone"`
	Role      string           `json:"role"`
	Salary    *decimal.Decimal `json:"salary,omitempty"`
	IsActive  bool             `json:"is_active"`
	CreatedAt time.Time        `json:"created_at"`
}

// FromModel maps the staff model to its API shape.
func FromModel(user *models.StaffUser) *StaffDTO {
	if user == nil {
		return nil
	}
	return &StaffDTO{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Phone:     user.Phone,
		Role:      user.Role.String(),
		Salary:    user.Salary,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
	}
}

// AttendanceDTO is one work session.
type AttendanceDTO struct {
	ID       uuid.UUID  `json:"id"`
	UserID   uuid.UUID  `json:"user_id"`
	CheckIn  time.Time  `json:"check_in"`
	CheckOut *time.Time `json:"check_out,omitempty"`
}

// NewAttendanceDTO maps the record to its API shape.
func NewAttendanceDTO(record *models.AttendanceRecord) *AttendanceDTO {
	if record == nil {
		return nil
	}
	return &AttendanceDTO{
		ID:       record.ID,
		UserID:   record.UserID,
		CheckIn:  record.CheckIn,
		CheckOut: record.CheckOut,
	}
}

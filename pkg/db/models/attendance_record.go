package models

import (
	"time"

	"github.com/google/uuid"
)

// AttendanceRecord tracks one staff work session.
type AttendanceRecord struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID  `gorm:"column:user_id;type:uuid;not null"`
	CheckIn   time.Time  `gorm:"column:check_in;not null"`
	CheckOut  *time.Time `gorm:"column:check_out"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
}

package users

import (
	"context"
	"strings"
	"time"

	"github.com/dreamboutique/boutique-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository wires staff account and attendance persistence.
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

// Create inserts the staff account.
func (r *Repository) Create(ctx context.Context, user *models.StaffUser) (*models.StaffUser, error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// Update saves all mutable fields of the account.
func (r *Repository) Update(ctx context.Context, user *models.StaffUser) (*models.StaffUser, error) {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes the account.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.StaffUser{}, "id = ?", id).Error
}

// FindByID loads a single account.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.StaffUser, error) {
	var user models.StaffUser
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail loads the account matching the email case-insensitively.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.StaffUser, error) {
	var user models.StaffUser
	err := r.db.WithContext(ctx).
		Where("lower(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByPhone loads the account matching the phone number.
func (r *Repository) FindByPhone(ctx context.Context, phone string) (*models.StaffUser, error) {
	var user models.StaffUser
	err := r.db.WithContext(ctx).
		Where("phone = ?", strings.TrimSpace(phone)).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns every staff account ordered by name.
func (r *Repository) List(ctx context.Context) ([]models.StaffUser, error) {
	var list []models.StaffUser
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// CreateAttendance inserts a work session record.
func (r *Repository) CreateAttendance(ctx context.Context, record *models.AttendanceRecord) (*models.AttendanceRecord, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

// FindOpenAttendance loads the user's unfinished work session, if any.
func (r *Repository) FindOpenAttendance(ctx context.Context, userID uuid.UUID) (*models.AttendanceRecord, error) {
	var record models.AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND check_out IS NULL", userID).
		Order("check_in DESC").
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// CloseAttendance stamps the session's check-out time.
func (r *Repository) CloseAttendance(ctx context.Context, recordID uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.AttendanceRecord{}).
		Where("id = ?", recordID).
		Update("check_out", at).Error
}

// ListAttendance returns the user's sessions newest first.
func (r *Repository) ListAttendance(ctx context.Context, userID uuid.UUID, limit int) ([]models.AttendanceRecord, error) {
	var list []models.AttendanceRecord
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("check_in DESC").
		Limit(limit).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

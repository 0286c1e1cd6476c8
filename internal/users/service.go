package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dreamboutique/boutique-backend/pkg/config"
	"github.com/dreamboutique/boutique-backend/pkg/db"
	"github.com/dreamboutique/boutique-backend/pkg/db/models"
	"github.com/dreamboutique/boutique-backend/pkg/enums"
	pkgerrors "github.com/dreamboutique/boutique-backend/pkg/errors"
	"github.com/dreamboutique/boutique-backend/pkg/pagination"
	"github.com/dreamboutique/boutique-backend/pkg/security"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service exposes staff account management and attendance tracking.
type Service interface {
	CreateStaff(ctx context.Context, input CreateStaffInput) (*StaffDTO, error)
	UpdateStaff(ctx context.Context, userID uuid.UUID, input UpdateStaffInput) (*StaffDTO, error)
	DeleteStaff(ctx context.Context, userID uuid.UUID) error
	GetStaff(ctx context.Context, userID uuid.UUID) (*StaffDTO, error)
	ListStaff(ctx context.Context) ([]StaffDTO, error)
	CheckIn(ctx context.Context, userID uuid.UUID) (*AttendanceDTO, error)
	CheckOut(ctx context.Context, userID uuid.UUID) (*AttendanceDTO, error)
	ListAttendance(ctx context.Context, userID uuid.UUID, limit int) ([]AttendanceDTO, error)
}

// CreateStaffInput holds the validated payload to create a staff account.
type CreateStaffInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
	Role     enums.StaffRole
	Salary   *decimal.Decimal
}

// UpdateStaffInput holds optional mutation values for a staff account.
type UpdateStaffInput struct {
	Name     *string
	Email    *string
	Phone    *string
	Password *string
	Role     *enums.StaffRole
	Salary   *decimal.Decimal
	IsActive *bool
}

type staffStore interface {
	Create(ctx context.Context, user *models.StaffUser) (*models.StaffUser, error)
	Update(ctx context.Context, user *models.StaffUser) (*models.StaffUser, error)
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.StaffUser, error)
	FindByEmail(ctx context.Context, email string) (*models.StaffUser, error)
	List(ctx context.Context) ([]models.StaffUser, error)
	CreateAttendance(ctx context.Context, record *models.AttendanceRecord) (*models.AttendanceRecord, error)
	FindOpenAttendance(ctx context.Context, userID uuid.UUID) (*models.AttendanceRecord, error)
	CloseAttendance(ctx context.Context, recordID uuid.UUID, at time.Time) error
	ListAttendance(ctx context.Context, userID uuid.UUID, limit int) ([]models.AttendanceRecord, error)
}

// service implements the staff service.
type service struct {
	repo        staffStore
	passwordCfg config.PasswordConfig
}

// NewService constructs a staff service instance.
func NewService(repo staffStore, passwordCfg config.PasswordConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("staff repository required")
	}
	return &service{repo: repo, passwordCfg: passwordCfg}, nil
}

// CreateStaff validates and inserts a staff account with a hashed password.
func (s *service) CreateStaff(ctx context.Context, input CreateStaffInput) (*StaffDTO, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if len(input.Password) < 8 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
	}
	if !input.Role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "role must be admin or employee")
	}
	if input.Salary != nil && input.Salary.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "salary cannot be negative")
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already in use")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: lookup staff email")
	}

	hash, err := security.HashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user := &models.StaffUser{
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		Phone:        strings.TrimSpace(input.Phone),
		PasswordHash: hash,
		Role:         input.Role,
		Salary:       input.Salary,
		IsActive:     true,
	}
	created, err := s.repo.Create(ctx, user)
	if err != nil {
		if db.IsUniqueViolation(err, "idx_staff_users_email_lower") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert staff user")
	}
	return FromModel(created), nil
}

// UpdateStaff applies the provided mutations to an account.
func (s *service) UpdateStaff(ctx context.Context, userID uuid.UUID, input UpdateStaffInput) (*StaffDTO, error) {
	user, err := s.loadStaff(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
		}
		user.Name = strings.TrimSpace(*input.Name)
	}
	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		if email == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
		}
		if existing, err := s.repo.FindByEmail(ctx, email); err == nil && existing.ID != userID {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already in use")
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: lookup staff email")
		}
		user.Email = email
	}
	if input.Phone != nil {
		user.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Password != nil {
		if len(*input.Password) < 8 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
		}
		hash, err := security.HashPassword(*input.Password, s.passwordCfg)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
		}
		user.PasswordHash = hash
	}
	if input.Role != nil {
		if !input.Role.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "role must be admin or employee")
		}
		user.Role = *input.Role
	}
	if input.Salary != nil {
		if input.Salary.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "salary cannot be negative")
		}
		user.Salary = input.Salary
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}

	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update staff user")
	}
	return FromModel(updated), nil
}

// DeleteStaff removes the account and its attendance (FK cascade).
func (s *service) DeleteStaff(ctx context.Context, userID uuid.UUID) error {
	if _, err := s.loadStaff(ctx, userID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete staff user")
	}
	return nil
}

// GetStaff loads a single account.
func (s *service) GetStaff(ctx context.Context, userID uuid.UUID) (*StaffDTO, error) {
	user, err := s.loadStaff(ctx, userID)
	if err != nil {
		return nil, err
	}
	return FromModel(user), nil
}

// ListStaff returns every account.
func (s *service) ListStaff(ctx context.Context) ([]StaffDTO, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list staff users")
	}
	out := make([]StaffDTO, 0, len(list))
	for i := range list {
		out = append(out, *FromModel(&list[i]))
	}
	return out, nil
}

// CheckIn opens a work session. A user can hold only one open session.
func (s *service) CheckIn(ctx context.Context, userID uuid.UUID) (*AttendanceDTO, error) {
	if _, err := s.loadStaff(ctx, userID); err != nil {
		return nil, err
	}

	if _, err := s.repo.FindOpenAttendance(ctx, userID); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "already checked in")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: lookup open attendance")
	}

	record, err := s.repo.CreateAttendance(ctx, &models.AttendanceRecord{
		UserID:  userID,
		CheckIn: time.Now().UTC(),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert attendance")
	}
	return NewAttendanceDTO(record), nil
}

// CheckOut closes the open work session.
func (s *service) CheckOut(ctx context.Context, userID uuid.UUID) (*AttendanceDTO, error) {
	record, err := s.repo.FindOpenAttendance(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "not checked in")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: lookup open attendance")
	}

	now := time.Now().UTC()
	if err := s.repo.CloseAttendance(ctx, record.ID, now); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: close attendance")
	}
	record.CheckOut = &now
	return NewAttendanceDTO(record), nil
}

// ListAttendance returns the user's sessions newest first.
func (s *service) ListAttendance(ctx context.Context, userID uuid.UUID, limit int) ([]AttendanceDTO, error) {
	list, err := s.repo.ListAttendance(ctx, userID, pagination.NormalizeLimit(limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list attendance")
	}
	out := make([]AttendanceDTO, 0, len(list))
	for i := range list {
		out = append(out, *NewAttendanceDTO(&list[i]))
	}
	return out, nil
}

func (s *service) loadStaff(ctx context.Context, userID uuid.UUID) (*models.StaffUser, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "staff user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load staff user")
	}
	return user, nil
}

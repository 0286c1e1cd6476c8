package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dreamboutique/boutique-backend/internal/users"
	pkgauth "github.com/dreamboutique/boutique-backend/pkg/auth"
	"github.com/dreamboutique/boutique-backend/pkg/auth/session"
	"github.com/dreamboutique/boutique-backend/pkg/config"
	"github.com/dreamboutique/boutique-backend/pkg/db/models"
	pkgerrors "github.com/dreamboutique/boutique-backend/pkg/errors"
	"github.com/dreamboutique/boutique-backend/pkg/logger"
	"github.com/dreamboutique/boutique-backend/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Same message for unknown account and wrong password so a caller
// cannot probe which staff emails exist.
const invalidCredentialsMessage = "invalid credentials"

// Service authenticates staff and manages their sessions.
type Service interface {
	Login(ctx context.Context, input LoginInput) (*LoginResponse, error)
	Refresh(ctx context.Context, accessToken, refreshToken string) (*RefreshResponse, error)
	Logout(ctx context.Context, accessToken string) error
}

// LoginInput identifies the account by email or phone.
type LoginInput struct {
	Identifier string
	Password   string
}

type staffReader interface {
	FindByEmail(ctx context.Context, email string) (*models.StaffUser, error)
	FindByPhone(ctx context.Context, phone string) (*models.StaffUser, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.StaffUser, error)
}

type sessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

// ServiceParams bundles the dependencies of the auth service.
type ServiceParams struct {
	Staff    staffReader
	Sessions sessionManager
	JWT      config.JWTConfig
	Logger   *logger.Logger
}

type service struct {
	staff    staffReader
	sessions sessionManager
	jwtCfg   config.JWTConfig
	logger   *logger.Logger
	now      func() time.Time
}

// NewService constructs the auth service.
func NewService(params ServiceParams) (Service, error) {
	if params.Staff == nil {
		return nil, fmt.Errorf("staff reader required")
	}
	if params.Sessions == nil {
		return nil, fmt.Errorf("session manager required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		staff:    params.Staff,
		sessions: params.Sessions,
		jwtCfg:   params.JWT,
		logger:   params.Logger,
		now:      time.Now,
	}, nil
}

// Login verifies the credentials and opens a session.
func (s *service) Login(ctx context.Context, input LoginInput) (*LoginResponse, error) {
	identifier := strings.TrimSpace(input.Identifier)
	if identifier == "" || input.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "identifier and password are required")
	}

	user, err := s.findAccount(ctx, identifier)
	if err != nil {
		return nil, err
	}

	ok, err := security.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	if !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "account is disabled")
	}

	accessID := session.NewAccessID()
	accessToken, err := pkgauth.MintAccessToken(s.jwtCfg, s.now(), pkgauth.AccessTokenPayload{
		UserID: user.ID,
		Role:   user.Role,
		JTI:    accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	refreshToken, err := s.sessions.Generate(ctx, accessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "open session")
	}

	s.logger.Info(s.logger.WithUserID(ctx, user.ID.String()), "staff login")
	return &LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         users.FromModel(user),
	}, nil
}

// Refresh rotates the refresh token and mints a fresh access token.
// The access token may already be expired; the refresh token is what
// proves possession of the session.
func (s *service) Refresh(ctx context.Context, accessToken, refreshToken string) (*RefreshResponse, error) {
	if accessToken == "" || refreshToken == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "access and refresh tokens are required")
	}

	claims, err := pkgauth.ParseAccessTokenAllowExpired(s.jwtCfg, accessToken)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	user, err := s.staff.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load staff user")
	}
	if !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "account is disabled")
	}

	newAccessID, newRefreshToken, err := s.sessions.Rotate(ctx, claims.ID, refreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rotate session")
	}

	newAccessToken, err := pkgauth.MintAccessToken(s.jwtCfg, s.now(), pkgauth.AccessTokenPayload{
		UserID: user.ID,
		Role:   user.Role,
		JTI:    newAccessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	return &RefreshResponse{AccessToken: newAccessToken, RefreshToken: newRefreshToken}, nil
}

// Logout revokes the session behind the access token. A token that no
// longer parses has nothing left to revoke.
func (s *service) Logout(ctx context.Context, accessToken string) error {
	claims, err := pkgauth.ParseAccessTokenAllowExpired(s.jwtCfg, accessToken)
	if err != nil {
		return nil
	}
	if err := s.sessions.Revoke(ctx, claims.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

func (s *service) findAccount(ctx context.Context, identifier string) (*models.StaffUser, error) {
	var (
		user *models.StaffUser
		err  error
	)
	if strings.Contains(identifier, "@") {
		user, err = s.staff.FindByEmail(ctx, strings.ToLower(identifier))
	} else {
		user, err = s.staff.FindByPhone(ctx, identifier)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find staff account")
	}
	return user, nil
}

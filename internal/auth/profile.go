package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/closetly/closetly-backend/internal/users"
	"github.com/closetly/closetly-backend/pkg/config"
	"github.com/closetly/closetly-backend/pkg/db"
	pkgerrors "github.com/closetly/closetly-backend/pkg/errors"
	"github.com/closetly/closetly-backend/pkg/logger"
	"github.com/closetly/closetly-backend/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProfileService covers the authenticated account surface plus the
// password-reset stubs.
type ProfileService interface {
	Fetch(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error)
	Update(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*users.UserDTO, error)
	DeleteAccount(ctx context.Context, userID uuid.UUID, password string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, req ResetPasswordRequest) error
}

// ProfileServiceParams packages the dependencies for the profile flows.
type ProfileServiceParams struct {
	UserRepo       userRepository
	PasswordConfig config.PasswordConfig
	Logger         *logger.Logger
}

type profileService struct {
	users       userRepository
	passwordCfg config.PasswordConfig
	logg        *logger.Logger
}

// NewProfileService builds the profile service with the provided dependencies.
func NewProfileService(params ProfileServiceParams) (ProfileService, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	return &profileService{
		users:       params.UserRepo,
		passwordCfg: params.PasswordConfig,
		logg:        params.Logger,
	}, nil
}

func (s *profileService) Fetch(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}
	return users.FromModel(user), nil
}

func (s *profileService) Update(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*users.UserDTO, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		user.Name = name
	}

	if email := normalizeEmail(req.Email); email != "" && email != user.Email {
		if _, err := s.users.FindByEmail(ctx, email); err == nil {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already in use")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check email")
		}
		user.Email = email
	}

	if req.NewPassword != "" {
		if req.CurrentPassword == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "current password required")
		}
		valid, err := security.VerifyPassword(req.CurrentPassword, user.PasswordHash)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
		}
		if !valid {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "current password is incorrect")
		}
		if err := validatePassword(req.NewPassword, s.passwordCfg); err != nil {
			return nil, err
		}
		hash, err := security.HashPassword(req.NewPassword, s.passwordCfg)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
		}
		user.PasswordHash = hash
	}

	if err := s.users.Update(ctx, user); err != nil {
		// The email pre-check above can race a concurrent signup or
		// profile change; the unique index reports the loser.
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already in use")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update user")
	}
	return users.FromModel(user), nil
}

func (s *profileService) DeleteAccount(ctx context.Context, userID uuid.UUID, password string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	valid, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "password is incorrect")
	}

	if err := s.users.Delete(ctx, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete user")
	}
	return nil
}

// ForgotPassword always reports success so responses cannot be used to probe
// which emails have accounts. When the account exists the request is logged;
// a mail integration would hook in here.
func (s *profileService) ForgotPassword(ctx context.Context, email string) error {
	normalized := normalizeEmail(email)
	if normalized == "" {
		return nil
	}
	if _, err := s.users.FindByEmail(ctx, normalized); err == nil {
		if s.logg != nil {
			s.logg.Info(s.logg.WithField(ctx, "email", normalized), "password reset requested")
		}
	}
	return nil
}

// ResetPassword is a demo placeholder: any non-empty token is accepted and the
// password is rehashed for the matching account.
func (s *profileService) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	if strings.TrimSpace(req.Token) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "token is required")
	}
	if err := validatePassword(req.NewPassword, s.passwordCfg); err != nil {
		return err
	}

	user, err := s.users.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	hash, err := security.HashPassword(req.NewPassword, s.passwordCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	user.PasswordHash = hash

	if err := s.users.Update(ctx, user); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update user")
	}

	return nil
}

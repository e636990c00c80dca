package lite

import (
	"context"
	"errors"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/closetly/closetly-backend/internal/analysis"
	pkgauth "github.com/closetly/closetly-backend/pkg/auth"
	"github.com/closetly/closetly-backend/pkg/config"
	pkgerrors "github.com/closetly/closetly-backend/pkg/errors"
	"github.com/closetly/closetly-backend/pkg/logger"
	"github.com/closetly/closetly-backend/pkg/security"
)

// SignupRequest is the /api/signup payload.
type SignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest is the /api/login payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AccountDTO is the sanitized user shape returned by signup and profile.
type AccountDTO struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

// Service implements the file-backed account and history operations.
type Service struct {
	users    *UserStore
	history  *HistoryStore
	password config.PasswordConfig
	jwt      config.JWTConfig
	tokenTTL time.Duration
	logg     *logger.Logger
}

type ServiceParams struct {
	Users    *UserStore
	History  *HistoryStore
	Password config.PasswordConfig
	JWT      config.JWTConfig
	TokenTTL time.Duration
	Logger   *logger.Logger
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Users == nil || params.History == nil {
		return nil, errors.New("lite service requires user and history stores")
	}
	if params.JWT.Secret == "" {
		return nil, errors.New("lite service requires a JWT secret")
	}
	ttl := params.TokenTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Service{
		users:    params.Users,
		history:  params.History,
		password: params.Password,
		jwt:      params.JWT,
		tokenTTL: ttl,
		logg:     params.Logger,
	}, nil
}

// Signup registers the account and returns a fresh token.
func (s *Service) Signup(ctx context.Context, req SignupRequest) (string, *AccountDTO, error) {
	email := normalizeEmail(req.Email)

	hash, err := security.HashPassword(req.Password, s.password)
	if err != nil {
		return "", nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing password")
	}

	user := User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Create(user); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return "", nil, pkgerrors.New(pkgerrors.CodeConflict, "an account with that email already exists")
		}
		return "", nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "saving account")
	}

	token, err := s.mintToken(user)
	if err != nil {
		return "", nil, err
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithUserID(ctx, user.ID.String()), "lite account created")
	}
	return token, &AccountDTO{ID: user.ID, Email: user.Email}, nil
}

// Login verifies credentials and returns a fresh token.
func (s *Service) Login(ctx context.Context, req LoginRequest) (string, *AccountDTO, error) {
	user, found, err := s.users.FindByEmail(normalizeEmail(req.Email))
	if err != nil {
		return "", nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading accounts")
	}
	if !found {
		return "", nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")
	}

	ok, err := security.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		return "", nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verifying password")
	}
	if !ok {
		return "", nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")
	}

	token, err := s.mintToken(*user)
	if err != nil {
		return "", nil, err
	}
	return token, &AccountDTO{ID: user.ID, Email: user.Email}, nil
}

// RecordUpload appends a plain upload entry to the history log.
func (s *Service) RecordUpload(ctx context.Context, imageURL, originalName string) error {
	entry := HistoryEntry{
		Type:         historyTypeUpload,
		ImageURL:     imageURL,
		Filename:     path.Base(imageURL),
		OriginalName: originalName,
		Timestamp:    time.Now().UTC(),
	}
	if err := s.history.Append(entry); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recording upload")
	}
	return nil
}

// RecordAnalysis appends an analyze entry carrying the verdict.
func (s *Service) RecordAnalysis(ctx context.Context, imageURL string, verdict *analysis.Result) error {
	entry := HistoryEntry{
		Type:      historyTypeAnalyze,
		ImageURL:  imageURL,
		Analysis:  verdict,
		Timestamp: time.Now().UTC(),
	}
	if err := s.history.Append(entry); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "recording analysis")
	}
	return nil
}

// History returns analyze entries newest first.
func (s *Service) History(ctx context.Context) ([]HistoryEntry, error) {
	entries, err := s.history.Analyses()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading history")
	}
	return entries, nil
}

func (s *Service) mintToken(user User) (string, error) {
	token, err := pkgauth.MintAccessToken(s.jwt, time.Now().UTC(), s.tokenTTL, pkgauth.AccessTokenPayload{
		UserID: user.ID,
		Email:  user.Email,
	})
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting token")
	}
	return token, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

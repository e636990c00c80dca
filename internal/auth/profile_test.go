package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/closetly/closetly-backend/pkg/db/models"
	pkgerrors "github.com/closetly/closetly-backend/pkg/errors"
	"github.com/closetly/closetly-backend/pkg/security"
)

func newProfileService(t *testing.T, repo *fakeUserRepo) ProfileService {
	t.Helper()
	svc, err := NewProfileService(ProfileServiceParams{
		UserRepo:       repo,
		PasswordConfig: testPasswordConfig(),
	})
	if err != nil {
		t.Fatalf("NewProfileService: %v", err)
	}
	return svc
}

func TestProfileFetch_OmitsCredentials(t *testing.T) {
	userID := uuid.New()
	repo := &fakeUserRepo{
		findByIDFunc: func(_ context.Context, id uuid.UUID) (*models.User, error) {
			return &models.User{ID: id, Name: "Jane", Email: "jane@example.com", PasswordHash: mustHash("secret123")}, nil
		},
	}
	svc := newProfileService(t, repo)

	dto, err := svc.Fetch(context.Background(), userID)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if dto.ID != userID || dto.Email != "jane@example.com" {
		t.Fatalf("unexpected dto: %+v", dto)
	}
}

func TestProfileFetch_NotFound(t *testing.T) {
	svc := newProfileService(t, &fakeUserRepo{})
	_, err := svc.Fetch(context.Background(), uuid.New())
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestProfileUpdate_NameAndEmail(t *testing.T) {
	userID := uuid.New()
	var saved *models.User
	repo := &fakeUserRepo{
		findByIDFunc: func(_ context.Context, id uuid.UUID) (*models.User, error) {
			return &models.User{ID: id, Name: "Old", Email: "old@example.com", PasswordHash: mustHash("secret123")}, nil
		},
		updateFunc: func(_ context.Context, user *models.User) error {
			saved = user
			return nil
		},
	}
	svc := newProfileService(t, repo)

	dto, err := svc.Update(context.Background(), userID, UpdateProfileRequest{
		Name:  " New Name ",
		Email: "NEW@Example.com",
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if saved == nil {
		t.Fatal("expected repo update to be called")
	}
	if dto.Name != "New Name" || dto.Email != "new@example.com" {
		t.Fatalf("unexpected dto after update: %+v", dto)
	}
}

func TestProfileUpdate_EmailTaken(t *testing.T) {
	repo := &fakeUserRepo{
		findByIDFunc: func(_ context.Context, id uuid.UUID) (*models.User, error) {
			return &models.User{ID: id, Email: "old@example.com"}, nil
		},
		findByEmailFunc: func(_ context.Context, email string) (*models.User, error) {
			return &models.User{ID: uuid.New(), Email: email}, nil
		},
	}
	svc := newProfileService(t, repo)
	_, err := svc.Update(context.Background(), uuid.New(), UpdateProfileRequest{Email: "taken@example.com"})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestProfileUpdate_PasswordChange(t *testing.T) {
	oldHash := mustHash("old-secret")
	var saved *models.User
	repo := &fakeUserRepo{
		findByIDFunc: func(_ context.Context, id uuid.UUID) (*models.User, error) {
			return &models.User{ID: id, Email: "jane@example.com", PasswordHash: oldHash}, nil
		},
		updateFunc: func(_ context.Context, user *models.User) error {
			saved = user
			return nil
		},
	}
	svc := newProfileService(t, repo)

	_, err := svc.Update(context.Background(), uuid.New(), UpdateProfileRequest{
		CurrentPassword: "old-secret",
		NewPassword:     "new-secret",
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if saved == nil || saved.PasswordHash == oldHash {
		t.Fatal("expected password hash to change")
	}
	ok, err := security.VerifyPassword("new-secret", saved.PasswordHash)
	if err != nil || !ok {
		t.Fatalf("new hash does not verify: ok=%v err=%v", ok, err)
	}
}

func TestProfileUpdate_PasswordChangeRequiresCurrent(t *testing.T) {
	repo := &fakeUserRepo{
		findByIDFunc: func(_ context.Context, id uuid.UUID) (*models.User, error) {
			return &models.User{ID: id, PasswordHash: mustHash("old-secret")}, nil
		},
	}
	svc := newProfileService(t, repo)

	_, err := svc.Update(context.Background(), uuid.New(), UpdateProfileRequest{NewPassword: "new-secret"})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	_, err = svc.Update(context.Background(), uuid.New(), UpdateProfileRequest{
		CurrentPassword: "wrong",
		NewPassword:     "new-secret",
	})
	appErr = pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestDeleteAccount(t *testing.T) {
	userID := uuid.New()
	deleted := false
	repo := &fakeUserRepo{
		findByIDFunc: func(_ context.Context, id uuid.UUID) (*models.User, error) {
			return &models.User{ID: id, PasswordHash: mustHash("secret123")}, nil
		},
		deleteFunc: func(_ context.Context, id uuid.UUID) error {
			if id != userID {
				t.Fatalf("unexpected id %s", id)
			}
			deleted = true
			return nil
		},
	}
	svc := newProfileService(t, repo)

	if err := svc.DeleteAccount(context.Background(), userID, "wrong"); err == nil {
		t.Fatal("expected wrong password to be rejected")
	}
	if deleted {
		t.Fatal("delete must not run on bad password")
	}

	if err := svc.DeleteAccount(context.Background(), userID, "secret123"); err != nil {
		t.Fatalf("DeleteAccount: %v", err)
	}
	if !deleted {
		t.Fatal("expected delete to run")
	}
}

func TestForgotPassword_AlwaysSucceeds(t *testing.T) {
	repo := &fakeUserRepo{
		findByEmailFunc: func(_ context.Context, _ string) (*models.User, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc := newProfileService(t, repo)

	if err := svc.ForgotPassword(context.Background(), "nobody@example.com"); err != nil {
		t.Fatalf("ForgotPassword for unknown account: %v", err)
	}
	if err := svc.ForgotPassword(context.Background(), ""); err != nil {
		t.Fatalf("ForgotPassword with blank email: %v", err)
	}
}

func TestResetPassword(t *testing.T) {
	var saved *models.User
	repo := &fakeUserRepo{
		findByEmailFunc: func(_ context.Context, email string) (*models.User, error) {
			return &models.User{ID: uuid.New(), Email: email, PasswordHash: mustHash("old-secret")}, nil
		},
		updateFunc: func(_ context.Context, user *models.User) error {
			saved = user
			return nil
		},
	}
	svc := newProfileService(t, repo)

	err := svc.ResetPassword(context.Background(), ResetPasswordRequest{
		Token:       "any-token",
		Email:       "jane@example.com",
		NewPassword: "brand-new",
	})
	if err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}
	ok, err := security.VerifyPassword("brand-new", saved.PasswordHash)
	if err != nil || !ok {
		t.Fatalf("reset hash does not verify: ok=%v err=%v", ok, err)
	}

	err = svc.ResetPassword(context.Background(), ResetPasswordRequest{
		Token:       "  ",
		Email:       "jane@example.com",
		NewPassword: "brand-new",
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for blank token, got %v", err)
	}
}

func TestProfileUpdate_EmailRaceMapsToConflict(t *testing.T) {
	// The availability pre-check passed but a concurrent write claimed the
	// email before our update landed.
	repo := &fakeUserRepo{
		findByIDFunc: func(_ context.Context, id uuid.UUID) (*models.User, error) {
			return &models.User{ID: id, Email: "old@example.com"}, nil
		},
		updateFunc: func(_ context.Context, _ *models.User) error {
			return errors.New(`ERROR: duplicate key value violates unique constraint "idx_users_email" (SQLSTATE 23505)`)
		},
	}
	svc := newProfileService(t, repo)
	_, err := svc.Update(context.Background(), uuid.New(), UpdateProfileRequest{Email: "claimed@example.com"})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/closetly/closetly-backend/internal/auth"
	"github.com/closetly/closetly-backend/internal/users"
	pkgerrors "github.com/closetly/closetly-backend/pkg/errors"
)

type stubAuthService struct {
	resp *auth.AuthResponse
	err  error
}

func (s stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.AuthResponse, error) {
	return s.resp, s.err
}

type stubProfileService struct {
	user      *users.UserDTO
	err       error
	forgotErr error
	resetErr  error
}

func (s stubProfileService) Fetch(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error) {
	return s.user, s.err
}

func (s stubProfileService) Update(ctx context.Context, userID uuid.UUID, req auth.UpdateProfileRequest) (*users.UserDTO, error) {
	return s.user, s.err
}

func (s stubProfileService) DeleteAccount(ctx context.Context, userID uuid.UUID, password string) error {
	return s.err
}

func (s stubProfileService) ForgotPassword(ctx context.Context, email string) error {
	return s.forgotErr
}

func (s stubProfileService) ResetPassword(ctx context.Context, req auth.ResetPasswordRequest) error {
	return s.resetErr
}

func TestAuthLoginSuccess(t *testing.T) {
	user := &users.UserDTO{ID: uuid.New(), Email: "jane@example.com"}
	handler := AuthLogin(stubAuthService{resp: &auth.AuthResponse{Token: "jwt-token", User: user}}, nil)

	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		bytes.NewReader([]byte(`{"email":"jane@example.com","password":"secret123"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data struct {
			Token string         `json:"token"`
			User  *users.UserDTO `json:"user"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Data.Token != "jwt-token" {
		t.Fatalf("token = %q", envelope.Data.Token)
	}
	if envelope.Data.User == nil || envelope.Data.User.ID != user.ID {
		t.Fatalf("unexpected user payload: %+v", envelope.Data.User)
	}
}

func TestAuthLoginRejectsBadBody(t *testing.T) {
	handler := AuthLogin(stubAuthService{}, nil)

	cases := []string{
		`{"email":"not-an-email","password":"x"}`,
		`{"password":"x"}`,
		`{"email":"jane@example.com"}`,
		`{"email":"jane@example.com","password":"x","bogus":true}`,
		`{`,
	}
	for _, body := range cases {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader([]byte(body)))
		req.Header.Set("Content-Type", "application/json")
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("body %s: expected 400 got %d", body, resp.Code)
		}
	}
}

func TestAuthLoginInvalidCredentials(t *testing.T) {
	handler := AuthLogin(stubAuthService{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")}, nil)

	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		bytes.NewReader([]byte(`{"email":"jane@example.com","password":"wrong"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Error.Message != "invalid email or password" {
		t.Fatalf("message = %q", envelope.Error.Message)
	}
}

func TestForgotPasswordAlwaysGeneric(t *testing.T) {
	handler := ForgotPassword(stubProfileService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/auth/forgot-password",
		bytes.NewReader([]byte(`{"email":"nobody@example.com"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var envelope struct {
		Data struct {
			Message string `json:"message"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Data.Message == "" {
		t.Fatal("expected a generic confirmation message")
	}
}

func TestResetPasswordValidatesBody(t *testing.T) {
	handler := ResetPassword(stubProfileService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/auth/reset-password",
		bytes.NewReader([]byte(`{"email":"jane@example.com","newPassword":"secret123"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("missing token: expected 400 got %d", resp.Code)
	}
}

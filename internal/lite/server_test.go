package lite

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/closetly/closetly-backend/pkg/config"
	"github.com/closetly/closetly-backend/pkg/logger"
)

var pngHeader = []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	root := t.TempDir()
	cfg := &config.LiteConfig{
		Port:        "0",
		DataDir:     filepath.Join(root, "data"),
		UploadsDir:  filepath.Join(root, "uploads"),
		JWTSecret:   "lite-test-secret",
		JWTIssuer:   "closetly-test",
		TokenTTL:    time.Hour,
		MaxUploadMB: 5,
	}
	logg := logger.New(logger.Options{ServiceName: "lite-test", Level: zerolog.ErrorLevel})

	srv, err := NewServer(cfg, logg)
	require.NoError(t, err)
	return srv
}

func doJSON(t *testing.T, srv *Server, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var envelope struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope.Data
}

func signup(t *testing.T, srv *Server, email, password string) string {
	t.Helper()

	rec := doJSON(t, srv, http.MethodPost, "/api/signup", map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	data := decodeData(t, rec)
	token, _ := data["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func analyzeForm(t *testing.T, occasion string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if occasion != "" {
		require.NoError(t, mw.WriteField("occasion", occasion))
	}
	part, err := mw.CreateFormFile("image", "outfit.png")
	require.NoError(t, err)
	_, err = part.Write(pngHeader)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestSignupAndLogin(t *testing.T) {
	srv := newTestServer(t)

	token := signup(t, srv, "lite@example.com", "sekrit99")
	require.NotEmpty(t, token)

	// duplicate email, any case
	rec := doJSON(t, srv, http.MethodPost, "/api/signup", map[string]string{
		"email":    "LITE@example.com",
		"password": "sekrit99",
	})
	require.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())

	rec = doJSON(t, srv, http.MethodPost, "/api/login", map[string]string{
		"email":    "lite@example.com",
		"password": "sekrit99",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	data := decodeData(t, rec)
	require.NotEmpty(t, data["token"])

	rec = doJSON(t, srv, http.MethodPost, "/api/login", map[string]string{
		"email":    "lite@example.com",
		"password": "wrong-pass",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSignupSurvivesRestart(t *testing.T) {
	root := t.TempDir()
	cfg := &config.LiteConfig{
		DataDir:     filepath.Join(root, "data"),
		UploadsDir:  filepath.Join(root, "uploads"),
		JWTSecret:   "lite-test-secret",
		JWTIssuer:   "closetly-test",
		TokenTTL:    time.Hour,
		MaxUploadMB: 5,
	}
	logg := logger.New(logger.Options{ServiceName: "lite-test", Level: zerolog.ErrorLevel})

	first, err := NewServer(cfg, logg)
	require.NoError(t, err)
	signup(t, first, "persist@example.com", "sekrit99")

	second, err := NewServer(cfg, logg)
	require.NoError(t, err)
	rec := doJSON(t, second, http.MethodPost, "/api/login", map[string]string{
		"email":    "persist@example.com",
		"password": "sekrit99",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestProfileRequiresToken(t *testing.T) {
	srv := newTestServer(t)
	token := signup(t, srv, "profile@example.com", "sekrit99")

	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	data := decodeData(t, rec)
	user, ok := data["user"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "profile@example.com", user["email"])
}

func TestUploadStoresImage(t *testing.T) {
	srv := newTestServer(t)

	body, contentType := analyzeForm(t, "")
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	data := decodeData(t, rec)
	imageURL, _ := data["imageUrl"].(string)
	require.True(t, strings.HasPrefix(imageURL, "/uploads/"), imageURL)
	require.NotContains(t, imageURL, "outfit.png")

	// uploads never show up in the analyze history
	rec = doJSON(t, srv, http.MethodGet, "/api/history", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	history, ok := decodeData(t, rec)["history"].([]any)
	require.True(t, ok)
	require.Empty(t, history)

	// but the journal keeps the stored name and the name the client sent
	store, err := NewHistoryStore(filepath.Join(srv.cfg.DataDir, historyFile))
	require.NoError(t, err)
	entries, err := store.docs.Load()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, historyTypeUpload, entries[0].Type)
	require.Equal(t, imageURL, entries[0].ImageURL)
	require.Equal(t, "outfit.png", entries[0].OriginalName)
	require.Equal(t, strings.TrimPrefix(imageURL, "/uploads/"), entries[0].Filename)
}

func TestUploadRequiresFile(t *testing.T) {
	srv := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("occasion", "casual"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "no file uploaded")
}

func TestAnalyzeReturnsVerdictAndHistory(t *testing.T) {
	srv := newTestServer(t)

	for i, occasion := range []string{"work", "party"} {
		body, contentType := analyzeForm(t, occasion)
		req := httptest.NewRequest(http.MethodPost, "/analyze", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, fmt.Sprintf("call %d: %s", i, rec.Body.String()))

		data := decodeData(t, rec)
		verdict, ok := data["analysis"].(map[string]any)
		require.True(t, ok)
		require.Equal(t, float64(85), verdict["confidence"])
		require.Equal(t, "good", verdict["rating"])
		require.Equal(t, occasion, verdict["occasion"])
		require.Equal(t, "mild", verdict["weather"])

		time.Sleep(5 * time.Millisecond)
	}

	rec := doJSON(t, srv, http.MethodGet, "/api/history", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	history, ok := decodeData(t, rec)["history"].([]any)
	require.True(t, ok)
	require.Len(t, history, 2)

	newest, ok := history[0].(map[string]any)
	require.True(t, ok)
	verdict, ok := newest["analysis"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "party", verdict["occasion"])
}

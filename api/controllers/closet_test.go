package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/closetly/closetly-backend/api/middleware"
	"github.com/closetly/closetly-backend/internal/closet"
	pkgerrors "github.com/closetly/closetly-backend/pkg/errors"
)

type stubClosetService struct {
	item  *closet.ClothingItemDTO
	items []closet.ClothingItemDTO
	err   error

	gotInput  closet.AddItemInput
	gotUserID uuid.UUID
}

func (s *stubClosetService) AddItem(ctx context.Context, userID uuid.UUID, input closet.AddItemInput) (*closet.ClothingItemDTO, error) {
	s.gotUserID = userID
	s.gotInput = input
	return s.item, s.err
}

func (s *stubClosetService) ListItems(ctx context.Context, userID uuid.UUID) ([]closet.ClothingItemDTO, error) {
	s.gotUserID = userID
	return s.items, s.err
}

func (s *stubClosetService) GetItem(ctx context.Context, userID, itemID uuid.UUID) (*closet.ClothingItemDTO, error) {
	return s.item, s.err
}

func (s *stubClosetService) DeleteItem(ctx context.Context, userID, itemID uuid.UUID) error {
	return s.err
}

type stubUploader struct {
	url string
	err error
}

func (s stubUploader) Save(ctx context.Context, file *multipart.FileHeader) (string, error) {
	return s.url, s.err
}

func closetForm(t *testing.T, fields map[string]string, withImage bool) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("WriteField: %v", err)
		}
	}
	if withImage {
		part, err := writer.CreateFormFile("image", "shirt.png")
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		part.Write([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'})
	}
	writer.Close()
	return &buf, writer.FormDataContentType()
}

func authed(req *http.Request, userID uuid.UUID) *http.Request {
	return req.WithContext(middleware.WithUserID(req.Context(), userID))
}

func TestClosetAddSuccess(t *testing.T) {
	userID := uuid.New()
	svc := &stubClosetService{item: &closet.ClothingItemDTO{ID: uuid.New(), Category: "top"}}
	handler := ClosetAdd(svc, stubUploader{url: "/uploads/abc.png"}, 5<<20, nil)

	body, contentType := closetForm(t, map[string]string{
		"category": "top",
		"color":    "blue",
		"tags":     "casual,linen",
	}, true)
	req := authed(httptest.NewRequest(http.MethodPost, "/closet/items", body), userID)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.gotUserID != userID {
		t.Fatalf("service called with user %s", svc.gotUserID)
	}
	if svc.gotInput.ImageURL != "/uploads/abc.png" {
		t.Fatalf("image url = %q", svc.gotInput.ImageURL)
	}
	if svc.gotInput.Tags != "casual,linen" {
		t.Fatalf("tags = %q", svc.gotInput.Tags)
	}
}

func TestClosetAddWithoutImage(t *testing.T) {
	svc := &stubClosetService{item: &closet.ClothingItemDTO{ID: uuid.New(), Category: "top"}}
	handler := ClosetAdd(svc, stubUploader{}, 5<<20, nil)

	body, contentType := closetForm(t, map[string]string{"category": "top"}, false)
	req := authed(httptest.NewRequest(http.MethodPost, "/closet/items", body), uuid.New())
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
	if svc.gotInput.ImageURL != "" {
		t.Fatalf("unexpected image url %q", svc.gotInput.ImageURL)
	}
}

func TestClosetAddRejectedUpload(t *testing.T) {
	svc := &stubClosetService{}
	handler := ClosetAdd(svc, stubUploader{err: pkgerrors.New(pkgerrors.CodeValidation, "Only image files allowed (jpeg, jpg, png, gif, webp)")}, 5<<20, nil)

	body, contentType := closetForm(t, map[string]string{"category": "top"}, true)
	req := authed(httptest.NewRequest(http.MethodPost, "/closet/items", body), uuid.New())
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if svc.gotUserID != uuid.Nil {
		t.Fatal("item must not be created when the upload is rejected")
	}
}

func TestClosetAddRequiresAuthContext(t *testing.T) {
	handler := ClosetAdd(&stubClosetService{}, stubUploader{}, 5<<20, nil)

	body, contentType := closetForm(t, map[string]string{"category": "top"}, false)
	req := httptest.NewRequest(http.MethodPost, "/closet/items", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestClosetList(t *testing.T) {
	svc := &stubClosetService{items: []closet.ClothingItemDTO{
		{ID: uuid.New(), Category: "top"},
		{ID: uuid.New(), Category: "shoes"},
	}}
	handler := ClosetList(svc, nil)

	req := authed(httptest.NewRequest(http.MethodGet, "/closet/items", nil), uuid.New())
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var envelope struct {
		Data []closet.ClothingItemDTO `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(envelope.Data) != 2 {
		t.Fatalf("got %d items", len(envelope.Data))
	}
}

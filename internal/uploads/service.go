package uploads

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/closetly/closetly-backend/pkg/config"
	pkgerrors "github.com/closetly/closetly-backend/pkg/errors"
	"github.com/closetly/closetly-backend/pkg/logger"
)

// Rejection message kept stable for API clients.
const invalidTypeMessage = "Only image files allowed (jpeg, jpg, png, gif, webp)"

var allowedExtensions = map[string]struct{}{
	".jpeg": {},
	".jpg":  {},
	".png":  {},
	".gif":  {},
	".webp": {},
}

// Service stores uploaded images and hands back the public URL for them.
type Service interface {
	Save(ctx context.Context, file *multipart.FileHeader) (string, error)
}

// ServiceParams packages the dependencies for the upload service.
type ServiceParams struct {
	Config config.UploadsConfig
	Logger *logger.Logger
}

type service struct {
	cfg  config.UploadsConfig
	logg *logger.Logger
}

// NewService builds an upload service and makes sure the target directory
// exists.
func NewService(params ServiceParams) (Service, error) {
	if params.Config.Dir == "" {
		return nil, fmt.Errorf("uploads directory is required")
	}
	if err := os.MkdirAll(params.Config.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &service{cfg: params.Config, logg: params.Logger}, nil
}

// Save validates the file against the image allow-list and size cap, writes
// it under a uuid-based name, and returns the relative URL to serve it from.
func (s *service) Save(ctx context.Context, file *multipart.FileHeader) (string, error) {
	if file == nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "image file is required")
	}
	if max := s.cfg.MaxUploadBytes(); file.Size > max {
		return "", pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("file too large: limit is %d MB", max/(1024*1024)))
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if _, ok := allowedExtensions[ext]; !ok {
		return "", pkgerrors.New(pkgerrors.CodeValidation, invalidTypeMessage)
	}

	src, err := file.Open()
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "open upload")
	}
	defer src.Close()

	// Sniff the real content, the extension alone is attacker-controlled.
	head := make([]byte, 512)
	n, err := io.ReadFull(src, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "read upload")
	}
	if !strings.HasPrefix(http.DetectContentType(head[:n]), "image/") {
		return "", pkgerrors.New(pkgerrors.CodeValidation, invalidTypeMessage)
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "rewind upload")
	}

	name := uuid.New().String() + ext
	destPath := filepath.Join(s.cfg.Dir, name)

	dest, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create upload file")
	}
	defer dest.Close()

	if _, err := io.Copy(dest, io.LimitReader(src, s.cfg.MaxUploadBytes()+1)); err != nil {
		os.Remove(destPath)
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write upload file")
	}

	url := path.Join(s.cfg.URLPrefix, name)
	if s.logg != nil {
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{
			"file": name,
			"size": file.Size,
		}), "image stored")
	}
	return url, nil
}

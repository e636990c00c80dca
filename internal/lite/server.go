package lite

import (
	"errors"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/closetly/closetly-backend/api/middleware"
	"github.com/closetly/closetly-backend/api/responses"
	"github.com/closetly/closetly-backend/api/validators"
	"github.com/closetly/closetly-backend/internal/analysis"
	"github.com/closetly/closetly-backend/internal/uploads"
	"github.com/closetly/closetly-backend/pkg/config"
	pkgerrors "github.com/closetly/closetly-backend/pkg/errors"
	"github.com/closetly/closetly-backend/pkg/logger"
)

const (
	usersFile   = "users.json"
	historyFile = "history.json"

	uploadFormField = "image"
)

// Server is the file-backed companion API. It shares the response envelope,
// upload rules, and analysis stub with the main server but persists to JSON
// documents instead of a database.
type Server struct {
	cfg      *config.LiteConfig
	svc      *Service
	uploader uploads.Service
	analyzer analysis.Analyzer
	logg     *logger.Logger
	handler  http.Handler
}

func NewServer(cfg *config.LiteConfig, logg *logger.Logger) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("lite server requires config")
	}

	users, err := NewUserStore(filepath.Join(cfg.DataDir, usersFile))
	if err != nil {
		return nil, err
	}
	history, err := NewHistoryStore(filepath.Join(cfg.DataDir, historyFile))
	if err != nil {
		return nil, err
	}

	jwtCfg := config.JWTConfig{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer}

	svc, err := NewService(ServiceParams{
		Users:    users,
		History:  history,
		Password: config.DefaultPasswordConfig(),
		JWT:      jwtCfg,
		TokenTTL: cfg.TokenTTL,
		Logger:   logg,
	})
	if err != nil {
		return nil, err
	}

	uploader, err := uploads.NewService(uploads.ServiceParams{
		Config: config.UploadsConfig{
			Dir:         cfg.UploadsDir,
			URLPrefix:   "/uploads",
			MaxUploadMB: cfg.MaxUploadMB,
		},
		Logger: logg,
	})
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:      cfg,
		svc:      svc,
		uploader: uploader,
		analyzer: analysis.NewStubAnalyzer(),
		logg:     logg,
	}
	s.handler = s.routes(jwtCfg)
	return s, nil
}

// Handler returns the assembled route tree.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes(jwtCfg config.JWTConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(s.logg),
		middleware.RequestID(s.logg),
		middleware.Logging(s.logg),
		middleware.CORS(),
	)

	r.Post("/api/signup", s.handleSignup)
	r.Post("/api/login", s.handleLogin)
	r.With(middleware.Auth(jwtCfg, s.logg)).Get("/api/profile", s.handleProfile)

	r.Post("/upload", s.handleUpload)
	r.Post("/analyze", s.handleAnalyze)
	r.Get("/api/history", s.handleHistory)

	fileServer := http.StripPrefix("/uploads", http.FileServer(http.Dir(s.cfg.UploadsDir)))
	r.Get("/uploads/*", func(w http.ResponseWriter, req *http.Request) {
		fileServer.ServeHTTP(w, req)
	})

	return r
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.WriteError(r.Context(), s.logg, w, err)
		return
	}

	token, account, err := s.svc.Signup(r.Context(), req)
	if err != nil {
		responses.WriteError(r.Context(), s.logg, w, err)
		return
	}
	responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{
		"message": "Signup successful",
		"token":   token,
		"user":    account,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.WriteError(r.Context(), s.logg, w, err)
		return
	}

	token, account, err := s.svc.Login(r.Context(), req)
	if err != nil {
		responses.WriteError(r.Context(), s.logg, w, err)
		return
	}
	responses.WriteSuccess(w, map[string]any{
		"message": "Login successful",
		"token":   token,
		"user":    account,
	})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	email := middleware.EmailFromContext(r.Context())
	responses.WriteSuccess(w, map[string]any{
		"user": AccountDTO{ID: userID, Email: email},
	})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	imageURL, originalName, err := s.storeImage(w, r)
	if err != nil {
		responses.WriteError(r.Context(), s.logg, w, err)
		return
	}

	if err := s.svc.RecordUpload(r.Context(), imageURL, originalName); err != nil {
		responses.WriteError(r.Context(), s.logg, w, err)
		return
	}
	responses.WriteSuccess(w, map[string]any{"imageUrl": imageURL})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	imageURL, _, err := s.storeImage(w, r)
	if err != nil {
		responses.WriteError(r.Context(), s.logg, w, err)
		return
	}

	verdict, err := s.analyzer.Analyze(r.Context(), analysis.Request{
		Occasion: r.FormValue("occasion"),
		Weather:  r.FormValue("weather"),
	})
	if err != nil {
		responses.WriteError(r.Context(), s.logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "analyzing outfit"))
		return
	}

	if err := s.svc.RecordAnalysis(r.Context(), imageURL, verdict); err != nil {
		responses.WriteError(r.Context(), s.logg, w, err)
		return
	}
	responses.WriteSuccess(w, map[string]any{
		"imageUrl": imageURL,
		"analysis": verdict,
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := s.svc.History(r.Context())
	if err != nil {
		responses.WriteError(r.Context(), s.logg, w, err)
		return
	}
	responses.WriteSuccess(w, map[string]any{"history": entries})
}

// storeImage parses the multipart form and saves the required image field.
// It returns the public URL alongside the filename the client sent.
func (s *Server) storeImage(w http.ResponseWriter, r *http.Request) (string, string, error) {
	maxBytes := config.UploadsConfig{MaxUploadMB: s.cfg.MaxUploadMB}.MaxUploadBytes()

	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+1<<20)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", "", pkgerrors.New(pkgerrors.CodeValidation, "request body too large")
		}
		return "", "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "expected multipart form data")
	}

	files := r.MultipartForm.File[uploadFormField]
	if len(files) == 0 {
		return "", "", pkgerrors.New(pkgerrors.CodeValidation, "no file uploaded")
	}
	imageURL, err := s.uploader.Save(r.Context(), files[0])
	if err != nil {
		return "", "", err
	}
	return imageURL, files[0].Filename, nil
}

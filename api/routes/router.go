package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/closetly/closetly-backend/api/controllers"
	"github.com/closetly/closetly-backend/api/middleware"
	"github.com/closetly/closetly-backend/internal/analysis"
	"github.com/closetly/closetly-backend/internal/auth"
	"github.com/closetly/closetly-backend/internal/billing"
	"github.com/closetly/closetly-backend/internal/closet"
	"github.com/closetly/closetly-backend/internal/outfits"
	"github.com/closetly/closetly-backend/internal/uploads"
	"github.com/closetly/closetly-backend/pkg/config"
	"github.com/closetly/closetly-backend/pkg/logger"
	"github.com/closetly/closetly-backend/pkg/metrics"
	"github.com/closetly/closetly-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	redisClient *redis.Client,
	httpMetrics *metrics.HTTPMetrics,
	authService auth.Service,
	registerService auth.RegisterService,
	profileService auth.ProfileService,
	closetService closet.Service,
	outfitService outfits.Service,
	billingService billing.Service,
	uploadService uploads.Service,
	outfitAnalyzer analysis.Analyzer,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS.ExtraOrigins...),
	)
	if httpMetrics != nil {
		r.Use(middleware.Metrics(httpMetrics))
	}

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)
	resetPolicy := middleware.NewAuthRateLimitPolicy(
		"reset",
		cfg.AuthRateLimit.ResetWindow,
		cfg.AuthRateLimit.ResetIPLimit,
		cfg.AuthRateLimit.ResetEmailLimit,
	)

	rateLimit := func(policy middleware.AuthRateLimitPolicy) func(http.Handler) http.Handler {
		if redisClient == nil {
			return middleware.AuthRateLimit(policy, nil, logg)
		}
		return middleware.AuthRateLimit(policy, redisClient, logg)
	}

	maxUpload := cfg.Uploads.MaxUploadBytes()

	var cachePinger controllers.Pinger
	if redisClient != nil {
		cachePinger = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, dbP, cachePinger, logg))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/auth", func(r chi.Router) {
		r.With(rateLimit(registerPolicy)).Post("/register", controllers.Register(registerService, logg))
		r.With(rateLimit(loginPolicy)).Post("/login", controllers.AuthLogin(authService, logg))
		r.With(rateLimit(resetPolicy)).Post("/forgot-password", controllers.ForgotPassword(profileService, logg))
		r.With(rateLimit(resetPolicy)).Post("/reset-password", controllers.ResetPassword(profileService, logg))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/users/me", func(r chi.Router) {
			r.Get("/", controllers.ProfileFetch(profileService, logg))
			r.Put("/", controllers.ProfileUpdate(profileService, logg))
			r.Delete("/", controllers.ProfileDelete(profileService, logg))
		})

		r.Route("/closet/items", func(r chi.Router) {
			r.Post("/", controllers.ClosetAdd(closetService, uploadService, maxUpload, logg))
			r.Get("/", controllers.ClosetList(closetService, logg))
			r.Get("/{itemID}", controllers.ClosetGet(closetService, logg))
			r.Delete("/{itemID}", controllers.ClosetDelete(closetService, logg))
		})

		r.Route("/outfits", func(r chi.Router) {
			// GET kept for clients that treat suggest as a fetch
			r.Get("/suggest", controllers.OutfitSuggest(outfitService, logg))
			r.Post("/suggest", controllers.OutfitSuggest(outfitService, logg))
			r.Get("/", controllers.OutfitList(outfitService, logg))
		})

		r.Route("/premium", func(r chi.Router) {
			r.Get("/status", controllers.PremiumStatus(billingService, logg))
			r.Post("/checkout", controllers.PremiumCheckout(billingService, logg))
			r.Post("/confirm", controllers.PremiumConfirm(billingService, logg))
		})

		r.With(middleware.RequirePremium(logg)).Post("/analyze", controllers.AnalyzeOutfit(outfitAnalyzer, uploadService, maxUpload, logg))
	})

	uploadsPrefix := cfg.Uploads.URLPrefix
	if uploadsPrefix == "" {
		uploadsPrefix = "/uploads"
	}
	fileServer := http.StripPrefix(uploadsPrefix, http.FileServer(http.Dir(cfg.Uploads.Dir)))
	r.Get(uploadsPrefix+"/*", func(w http.ResponseWriter, req *http.Request) {
		fileServer.ServeHTTP(w, req)
	})

	return r
}

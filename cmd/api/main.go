package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/closetly/closetly-backend/api/routes"
	"github.com/closetly/closetly-backend/internal/analysis"
	"github.com/closetly/closetly-backend/internal/auth"
	"github.com/closetly/closetly-backend/internal/billing"
	"github.com/closetly/closetly-backend/internal/closet"
	"github.com/closetly/closetly-backend/internal/outfits"
	"github.com/closetly/closetly-backend/internal/uploads"
	"github.com/closetly/closetly-backend/internal/users"
	"github.com/closetly/closetly-backend/pkg/config"
	"github.com/closetly/closetly-backend/pkg/db"
	"github.com/closetly/closetly-backend/pkg/logger"
	"github.com/closetly/closetly-backend/pkg/metrics"
	"github.com/closetly/closetly-backend/pkg/migrate"
	"github.com/closetly/closetly-backend/pkg/razorpay"
	"github.com/closetly/closetly-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	var redisClient *redis.Client
	if cfg.Redis.URL != "" || cfg.Redis.Address != "" {
		redisClient, err = redis.New(context.Background(), cfg.Redis)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	} else {
		logg.Warn(context.Background(), "redis not configured, auth rate limiting disabled")
	}

	userRepo := users.NewRepository(dbClient.DB())
	itemRepo := closet.NewRepository(dbClient.DB())
	outfitRepo := outfits.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:  userRepo,
		JWTConfig: cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		UserRepo:       userRepo,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create register service", err)
		os.Exit(1)
	}

	profileService, err := auth.NewProfileService(auth.ProfileServiceParams{
		UserRepo:       userRepo,
		PasswordConfig: cfg.Password,
		Logger:         logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create profile service", err)
		os.Exit(1)
	}

	closetService, err := closet.NewService(closet.ServiceParams{ItemRepo: itemRepo})
	if err != nil {
		logg.Error(context.Background(), "failed to create closet service", err)
		os.Exit(1)
	}

	outfitService, err := outfits.NewService(outfits.ServiceParams{
		ItemRepo:   itemRepo,
		OutfitRepo: outfitRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create outfit service", err)
		os.Exit(1)
	}

	razorpayClient, err := razorpay.NewClient(cfg.Razorpay)
	if err != nil {
		logg.Error(context.Background(), "failed to create razorpay client", err)
		os.Exit(1)
	}

	billingService, err := billing.NewService(billing.ServiceParams{
		UserRepo:       userRepo,
		Checkout:       razorpayClient,
		RazorpayConfig: cfg.Razorpay,
		JWTConfig:      cfg.JWT,
		Logger:         logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create billing service", err)
		os.Exit(1)
	}

	uploadService, err := uploads.NewService(uploads.ServiceParams{
		Config: cfg.Uploads,
		Logger: logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create upload service", err)
		os.Exit(1)
	}

	httpMetrics := metrics.NewHTTPMetrics(prometheus.DefaultRegisterer)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			httpMetrics,
			authService,
			registerService,
			profileService,
			closetService,
			outfitService,
			billingService,
			uploadService,
			analysis.NewStubAnalyzer(),
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-shutdown:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
	}
}

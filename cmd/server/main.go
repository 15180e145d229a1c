package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/hoangminh/cardbox/internal/config"
	"github.com/hoangminh/cardbox/internal/database"
	"github.com/hoangminh/cardbox/internal/handlers"
	"github.com/hoangminh/cardbox/internal/logging"
	"github.com/hoangminh/cardbox/internal/middleware"
	"github.com/hoangminh/cardbox/internal/services"
)

func main() {
	if err := run(); err != nil {
		logging.Error("Application error", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
}

func run() error {
	logger := logging.New()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if cfg.Server.Debug {
		logger.SetLevel(logging.LevelDebug)
		logging.SetDefaultLevel(logging.LevelDebug)
		logger.Debug("Debug logging enabled", map[string]interface{}{
			"env": cfg.Server.Environment,
		})
	}

	logger.Info("Starting Cardbox server...")

	logger.Info("Connecting to PostgreSQL", map[string]interface{}{
		"host": cfg.Database.Host,
		"port": cfg.Database.Port,
	})
	db, err := database.NewPostgresDB(cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connecting to postgres: %w", err)
	}
	defer db.Close()
	logger.Info("Connected to PostgreSQL")

	logger.Info("Running database migrations...")
	migrator, err := database.NewMigrator(cfg.Database.DSN(), "migrations")
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	if err := migrator.Up(); err != nil {
		_ = migrator.Close()
		return fmt.Errorf("running migrations: %w", err)
	}
	_ = migrator.Close()
	logger.Info("Migrations completed")

	logger.Info("Connecting to Redis", map[string]interface{}{
		"addr": cfg.Redis.Addr(),
	})
	redisDB, err := database.NewRedisDB(cfg.Redis.Addr(), cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return fmt.Errorf("connecting to redis: %w", err)
	}
	defer func() { _ = redisDB.Close() }()
	logger.Info("Connected to Redis")

	dbAdapter := services.NewPoolAdapter(db.Pool)
	redisAdapter := services.NewRedisAdapter(redisDB.Client)

	cardService := services.NewCardService(dbAdapter)
	linkService := services.NewLinkService(dbAdapter)
	uploadService := services.NewUploadService(&cfg.Upload)
	emailService := services.NewEmailService(&cfg.Email)
	authService, err := services.NewAuthService(redisAdapter, cfg.Admin.Password,
		time.Duration(cfg.Admin.SessionTTLHours)*time.Hour)
	if err != nil {
		return fmt.Errorf("initializing auth service: %w", err)
	}
	if cfg.Admin.Password == "" {
		logger.Warn("ADMIN_PASSWORD not set; admin login is disabled")
	}

	healthHandler := handlers.NewHealthHandler(map[string]handlers.HealthCheck{
		"postgres": db.Health,
		"redis":    redisDB.Health,
	})
	cardHandler := handlers.NewCardHandler(cardService)
	linkHandler := handlers.NewLinkHandler(linkService, emailService, cfg.Server.BaseURL)
	uploadHandler := handlers.NewUploadHandler(uploadService, cfg.Upload.MaxBytes)
	authHandler := handlers.NewAuthHandler(authService, cfg.Server.Secure)
	qrHandler := handlers.NewQRHandler(cardService, cfg.Server.BaseURL)
	ogImageHandler := handlers.NewOGImageHandler(cardService)

	adminAuth := middleware.NewAdminAuth(authService)
	requestLogger := middleware.NewRequestLogger(logger)

	uploadRateLimit := resolveUploadRateLimit(cfg, logger, os.LookupEnv)
	uploadLimiter := middleware.NewRateLimiter(redisDB.Client, uploadRateLimit, time.Hour, "ratelimit:upload:")

	requireAdmin := adminAuth.Require

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.HandleFunc("GET /ready", healthHandler.Ready)
	mux.HandleFunc("GET /live", healthHandler.Live)

	// Public card flow
	mux.Handle("POST /api/cards", http.HandlerFunc(cardHandler.Create))
	mux.Handle("GET /api/cards/{slug}", http.HandlerFunc(cardHandler.Get))
	mux.Handle("GET /api/links/{token}", http.HandlerFunc(linkHandler.Validate))
	mux.Handle("PUT /api/links/{token}", http.HandlerFunc(linkHandler.Redeem))
	mux.Handle("POST /api/upload", uploadLimiter.Middleware(http.HandlerFunc(uploadHandler.Upload)))

	// Shareable images
	mux.Handle("GET /qr/{slug}", http.HandlerFunc(qrHandler.Serve))
	mux.Handle("GET /og/cards/{slug}", http.HandlerFunc(ogImageHandler.Serve))

	// Admin
	mux.Handle("POST /api/admin/login", http.HandlerFunc(authHandler.Login))
	mux.Handle("POST /api/admin/logout", http.HandlerFunc(authHandler.Logout))
	mux.Handle("GET /api/cards", requireAdmin(http.HandlerFunc(cardHandler.List)))
	mux.Handle("PUT /api/cards/{slug}", requireAdmin(http.HandlerFunc(cardHandler.Update)))
	mux.Handle("DELETE /api/cards/{slug}", requireAdmin(http.HandlerFunc(cardHandler.Delete)))
	mux.Handle("POST /api/links", requireAdmin(http.HandlerFunc(linkHandler.Create)))
	mux.Handle("GET /api/links", requireAdmin(http.HandlerFunc(linkHandler.List)))
	mux.Handle("DELETE /api/links/{token}", requireAdmin(http.HandlerFunc(linkHandler.Delete)))
	mux.Handle("POST /api/links/{token}/send", requireAdmin(http.HandlerFunc(linkHandler.Send)))

	var handler http.Handler = mux
	handler = requestLogger.Apply(handler)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		// Upload relaying waits on the hosting provider; keep the write timeout
		// above the provider client timeout.
		WriteTimeout: 45 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	done := make(chan bool, 1)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		logger.Info("Server is shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		server.SetKeepAlivesEnabled(false)
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("Could not gracefully shutdown the server", map[string]interface{}{
				"error": err.Error(),
			})
		}
		close(done)
	}()

	logger.Info("Server listening", map[string]interface{}{
		"addr": addr,
	})
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	<-done
	logger.Info("Server stopped")
	return nil
}

func resolveUploadRateLimit(cfg *config.Config, logger *logging.Logger, lookupEnv func(string) (string, bool)) int64 {
	uploadRateLimit := int64(30)
	if cfg.Server.Environment == "development" {
		uploadRateLimit = 300
		logger.Info("Using development upload rate limit", map[string]interface{}{"limit": uploadRateLimit})
	}
	if v, ok := lookupEnv("UPLOAD_RATE_LIMIT"); ok && v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil && parsed > 0 {
			uploadRateLimit = parsed
			logger.Info("Using upload rate limit from env", map[string]interface{}{"limit": uploadRateLimit})
		} else {
			logger.Warn("Invalid UPLOAD_RATE_LIMIT; using default", map[string]interface{}{
				"value": v,
				"limit": uploadRateLimit,
			})
		}
	}
	return uploadRateLimit
}

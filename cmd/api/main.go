package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SUGALIRAHUL/adapti-finance-pal/internal/auth"
	"github.com/SUGALIRAHUL/adapti-finance-pal/internal/background"
	"github.com/SUGALIRAHUL/adapti-finance-pal/internal/config"
	"github.com/SUGALIRAHUL/adapti-finance-pal/internal/database"
	"github.com/SUGALIRAHUL/adapti-finance-pal/internal/handlers"
	"github.com/SUGALIRAHUL/adapti-finance-pal/internal/identity"
	middlewareCustom "github.com/SUGALIRAHUL/adapti-finance-pal/internal/middleware"
	"github.com/SUGALIRAHUL/adapti-finance-pal/internal/repositories"
	"github.com/SUGALIRAHUL/adapti-finance-pal/internal/routes"
	"github.com/SUGALIRAHUL/adapti-finance-pal/internal/services"
	pkglogger "github.com/SUGALIRAHUL/adapti-finance-pal/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("configuration loaded", slog.String("env", cfg.Server.Env))

	if cfg.UsingInsecureDefaults() {
		logger.Warn("MFA_ENCRYPTION_SECRET not set, using insecure development default")
	}

	// Initialize database
	db, err := database.NewConnection(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	// Initialize repositories
	mfaSecretRepo := repositories.NewMFASecretRepository(db)
	otpChallengeRepo := repositories.NewOTPChallengeRepository(db)
	profileRepo := repositories.NewProfileRepository(db)

	// Initialize cleanup manager
	cleanupManager := background.NewCleanupManager(otpChallengeRepo, logger, cfg.OTP.CleanupInterval)

	// Token manager verifies bearer tokens minted by the identity provider
	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret)

	// Cipher key is loaded once at process start
	cipher, err := auth.NewSecretCipher(cfg.MFA.EncryptionSecret)
	if err != nil {
		logger.Error("failed to initialize secret cipher", slog.Any("error", err))
		os.Exit(1)
	}

	totpEngine := auth.NewTOTPEngine(cfg.MFA.Issuer)

	// Timing delay evens out OTP verification latency
	timingDelay := auth.NewTimingDelay(auth.TimingConfig{
		BaseDelayMs:   100,
		RandomDelayMs: 100,
	})

	// Identity provider: hosted when configured, local otherwise
	var provider identity.Provider
	if cfg.Auth.ProviderURL != "" {
		logger.Info("using hosted identity provider",
			pkglogger.RedactedAttr("provider_url", cfg.Auth.ProviderURL, cfg.Server.Env))
		provider = identity.NewHTTPProvider(cfg.Auth.ProviderURL, cfg.Auth.ProviderAPIKey, cfg.Auth.ProviderTimeout)
	} else {
		logger.Warn("AUTH_PROVIDER_URL not set, using in-memory identity provider")
		provider = identity.NewLocalProvider(tokenManager, time.Hour)
	}

	// AWS SES email service
	emailService, err := services.NewAWSSESEmailService(cfg.Email.AWSRegion, cfg.Email.FromAddress, logger)
	if err != nil {
		logger.Error("failed to initialize email service", slog.Any("error", err))
		os.Exit(1)
	}

	// Initialize services
	mfaService := services.NewMFAService(mfaSecretRepo, cipher, totpEngine, logger)
	otpService := services.NewOTPService(otpChallengeRepo, emailService, timingDelay, logger, cfg.OTP.Expiry)
	authService := services.NewAuthService(provider, otpService, logger)
	completionClient := services.NewHTTPCompletionClient(cfg.Advisor.CompletionURL, cfg.Advisor.CompletionAPIKey, cfg.Advisor.RequestTimeout)
	advisorService := services.NewAdvisorService(completionClient, profileRepo, logger)

	// Initialize handlers
	mfaHandler := handlers.NewMFAHandler(mfaService, logger)
	otpHandler := handlers.NewOTPHandler(otpService, logger)
	authHandler := handlers.NewAuthHandler(authService, logger)
	advisorHandler := handlers.NewAdvisorHandler(advisorService, logger)

	// Setup CORS middleware
	corsConfig := middlewareCustom.DefaultCORSConfig(cfg.Server.Env)
	corsConfig.AllowedOrigins = cfg.Server.AllowedOrigins

	// Setup router
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middlewareCustom.SecurityHeaders(middlewareCustom.SecurityHeadersConfig{Env: cfg.Server.Env}))
	router.Use(middlewareCustom.CORS(corsConfig))
	router.Use(middlewareCustom.SecureLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	// Register routes
	router.Route("/api", func(r chi.Router) {
		routes.RegisterRoutes(r, mfaHandler, otpHandler, authHandler, advisorHandler, tokenManager, mfaService, logger)
	})

	// Health check with database
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.HealthCheck(ctx); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unhealthy","database":"down"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy","database":"up"}`))
	})

	// Create server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start cleanup task
	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	defer cleanupCancel()

	go cleanupManager.Start(cleanupCtx)

	// Start server
	go func() {
		logger.Info("starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received")

	cleanupCancel()
	cleanupManager.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("server stopped gracefully")
}

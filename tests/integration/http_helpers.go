package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/SUGALIRAHUL/adapti-finance-pal/internal/auth"
	"github.com/SUGALIRAHUL/adapti-finance-pal/internal/handlers"
	"github.com/SUGALIRAHUL/adapti-finance-pal/internal/identity"
	"github.com/SUGALIRAHUL/adapti-finance-pal/internal/models"
	"github.com/SUGALIRAHUL/adapti-finance-pal/internal/repositories"
	"github.com/SUGALIRAHUL/adapti-finance-pal/internal/routes"
	"github.com/SUGALIRAHUL/adapti-finance-pal/internal/services"
)

// SentEmail represents a captured email message
type SentEmail struct {
	To      string
	Code    string
	Purpose models.OTPPurpose
}

// MockEmailService captures sent OTP emails for test assertions
type MockEmailService struct {
	SentEmails []SentEmail
	mu         sync.Mutex
}

// SendOTPEmail records the email
func (m *MockEmailService) SendOTPEmail(ctx context.Context, email, code string, purpose models.OTPPurpose, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SentEmails = append(m.SentEmails, SentEmail{To: email, Code: code, Purpose: purpose})
	return nil
}

// GetLastEmail returns the most recent email sent
func (m *MockEmailService) GetLastEmail() *SentEmail {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.SentEmails) == 0 {
		return nil
	}
	return &m.SentEmails[len(m.SentEmails)-1]
}

// TestServer wraps httptest.Server with database and all dependencies
type TestServer struct {
	Server       *httptest.Server
	DB           *TestDB
	EmailService *MockEmailService
	TokenManager *auth.TokenManager
	Provider     *identity.LocalProvider

	logger *slog.Logger
}

// NewTestServer initializes a complete HTTP server with real database + mocked email
func NewTestServer(ctx context.Context, testDB *TestDB) (*TestServer, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	tokenManager := auth.NewTokenManager("integration-test-jwt-secret")
	provider := identity.NewLocalProvider(tokenManager, time.Hour)

	cipher, err := auth.NewSecretCipher("integration-test-cipher-key-material")
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	totpEngine := auth.NewTOTPEngine("FinancePal")
	timingDelay := auth.NewTimingDelay(auth.TimingConfig{})

	mfaSecretRepo := repositories.NewMFASecretRepository(testDB.DB)
	otpChallengeRepo := repositories.NewOTPChallengeRepository(testDB.DB)
	profileRepo := repositories.NewProfileRepository(testDB.DB)

	emailService := &MockEmailService{}

	mfaService := services.NewMFAService(mfaSecretRepo, cipher, totpEngine, logger)
	otpService := services.NewOTPService(otpChallengeRepo, emailService, timingDelay, logger, 10*time.Minute)
	authService := services.NewAuthService(provider, otpService, logger)

	completions := &services.MockCompletionClient{
		CompleteFunc: func(ctx context.Context, prompt string) (string, error) {
			return "integration advisor answer", nil
		},
	}
	advisorService := services.NewAdvisorService(completions, profileRepo, logger)

	mfaHandler := handlers.NewMFAHandler(mfaService, logger)
	otpHandler := handlers.NewOTPHandler(otpService, logger)
	authHandler := handlers.NewAuthHandler(authService, logger)
	advisorHandler := handlers.NewAdvisorHandler(advisorService, logger)

	router := chi.NewRouter()
	router.Use(chiMiddleware.Recoverer)
	router.Route("/api", func(r chi.Router) {
		routes.RegisterRoutes(r, mfaHandler, otpHandler, authHandler, advisorHandler, tokenManager, mfaService, logger)
	})

	return &TestServer{
		Server:       httptest.NewServer(router),
		DB:           testDB,
		EmailService: emailService,
		TokenManager: tokenManager,
		Provider:     provider,
		logger:       logger,
	}, nil
}

// Close shuts down the test HTTP server
func (ts *TestServer) Close() {
	ts.Server.Close()
}

// PostJSON sends a JSON POST and returns the response
func (ts *TestServer) PostJSON(path string, body any, bearerToken, mfaToken string) (*http.Response, []byte, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, nil, err
		}
	}

	req, err := http.NewRequest(http.MethodPost, ts.Server.URL+path, &buf)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if bearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+bearerToken)
	}
	if mfaToken != "" {
		req.Header.Set(auth.MFATokenHeader, mfaToken)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, err
	}
	return resp, respBody, nil
}

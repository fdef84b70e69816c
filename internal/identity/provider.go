// Package identity wraps the hosted identity provider this service
// delegates credential checks, account creation, and session issuance to.
// The provider owns password hashing and session tokens; this service only
// sequences calls around it.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/SUGALIRAHUL/adapti-finance-pal/internal/models"
)

// NewAccount is the full profile payload collected during signup.
type NewAccount struct {
	Email       string
	Password    string
	FullName    string
	Phone       string
	DateOfBirth string // YYYY-MM-DD
}

// Provider is the external identity collaborator. PasswordGrant both
// pre-checks credentials (login step one, session discarded) and issues the
// real session after the second factor passes.
type Provider interface {
	PasswordGrant(ctx context.Context, email, password string) (*models.Session, error)
	RevokeSession(ctx context.Context, accessToken string) error
	CreateAccount(ctx context.Context, account NewAccount) (string, error)
}

// HTTPProvider speaks the hosted provider's REST API.
type HTTPProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPProvider creates a provider client with a bounded request timeout.
func NewHTTPProvider(baseURL, apiKey string, timeout time.Duration) *HTTPProvider {
	return &HTTPProvider{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

type signupResponse struct {
	ID   string `json:"id"`
	User struct {
		ID string `json:"id"`
	} `json:"user"`
}

// PasswordGrant exchanges credentials for a session. A 4xx from the
// provider maps to ErrInvalidCredentials without detail.
func (p *HTTPProvider) PasswordGrant(ctx context.Context, email, password string) (*models.Session, error) {
	body := map[string]string{"email": email, "password": password}

	var resp tokenResponse
	status, err := p.post(ctx, "/token?grant_type=password", body, &resp)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrProviderUnavailable, err)
	}

	switch {
	case status >= 200 && status < 300:
		return &models.Session{
			AccessToken:  resp.AccessToken,
			RefreshToken: resp.RefreshToken,
			TokenType:    resp.TokenType,
			ExpiresIn:    resp.ExpiresIn,
		}, nil
	case status >= 400 && status < 500:
		return nil, models.ErrInvalidCredentials
	default:
		return nil, fmt.Errorf("%w: status %d", models.ErrProviderUnavailable, status)
	}
}

// RevokeSession discards an interim session issued during the password
// pre-check so no usable session exists before the second factor.
func (p *HTTPProvider) RevokeSession(ctx context.Context, accessToken string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/logout", nil)
	if err != nil {
		return fmt.Errorf("failed to build revoke request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("apikey", p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		return fmt.Errorf("%w: revoke status %d", models.ErrProviderUnavailable, resp.StatusCode)
	}
	return nil
}

// CreateAccount registers the account with its profile metadata and
// returns the provider-assigned user id.
func (p *HTTPProvider) CreateAccount(ctx context.Context, account NewAccount) (string, error) {
	body := map[string]any{
		"email":    account.Email,
		"password": account.Password,
		"data": map[string]string{
			"full_name":     account.FullName,
			"phone":         account.Phone,
			"date_of_birth": account.DateOfBirth,
		},
	}

	var resp signupResponse
	status, err := p.post(ctx, "/signup", body, &resp)
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrProviderUnavailable, err)
	}

	switch {
	case status >= 200 && status < 300:
		if resp.ID != "" {
			return resp.ID, nil
		}
		return resp.User.ID, nil
	case status == http.StatusUnprocessableEntity, status == http.StatusConflict:
		return "", models.ErrConflict
	case status >= 400 && status < 500:
		return "", models.ErrBadRequest
	default:
		return "", fmt.Errorf("%w: status %d", models.ErrProviderUnavailable, status)
	}
}

func (p *HTTPProvider) post(ctx context.Context, path string, body any, out any) (int, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return 0, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
		}
	} else {
		_, _ = io.Copy(io.Discard, resp.Body)
	}

	return resp.StatusCode, nil
}

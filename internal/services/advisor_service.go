package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/SUGALIRAHUL/adapti-finance-pal/internal/models"
	"github.com/SUGALIRAHUL/adapti-finance-pal/internal/repositories"
)

// CompletionClient is the text-completion backend the advisor delegates to.
type CompletionClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// HTTPCompletionClient calls an OpenAI-compatible completion endpoint.
type HTTPCompletionClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewHTTPCompletionClient(baseURL, apiKey string, timeout time.Duration) *HTTPCompletionClient {
	return &HTTPCompletionClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

type completionRequest struct {
	Prompt    string `json:"prompt"`
	MaxTokens int    `json:"max_tokens"`
}

type completionResponse struct {
	Text string `json:"text"`
}

func (c *HTTPCompletionClient) Complete(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(completionRequest{Prompt: prompt, MaxTokens: 1024})
	if err != nil {
		return "", fmt.Errorf("failed to marshal completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("completion backend unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("completion backend returned status %d: %w", resp.StatusCode, models.ErrInternalServer)
	}

	var out completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode completion response: %w", err)
	}
	return out.Text, nil
}

// AdvisorService produces tutoring answers and investment recommendations
// tailored to the caller's profile. Handlers sit behind the MFA gate, so a
// request reaching this service has already passed token validation.
type AdvisorService struct {
	completions CompletionClient
	profileRepo repositories.ProfileRepository
	logger      *slog.Logger
}

func NewAdvisorService(
	completions CompletionClient,
	profileRepo repositories.ProfileRepository,
	logger *slog.Logger,
) *AdvisorService {
	return &AdvisorService{
		completions: completions,
		profileRepo: profileRepo,
		logger:      logger,
	}
}

// knowledgeLevel falls back to "beginner" when the profile is missing so a
// fresh account still gets a usable answer.
func (s *AdvisorService) knowledgeLevel(ctx context.Context, userID string) string {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			s.logger.Warn("failed to load profile for advisor",
				slog.String("user_id", userID),
				slog.Any("error", err))
		}
		return "beginner"
	}
	if profile.KnowledgeLevel == "" {
		return "beginner"
	}
	return profile.KnowledgeLevel
}

// Chat answers a free-form personal finance question.
func (s *AdvisorService) Chat(ctx context.Context, userID, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", models.ErrBadRequest
	}

	level := s.knowledgeLevel(ctx, userID)
	prompt := fmt.Sprintf(
		"You are a personal finance tutor. The user's knowledge level is %q. "+
			"Answer plainly and match the explanation depth to that level.\n\nQuestion: %s",
		level, question)

	answer, err := s.completions.Complete(ctx, prompt)
	if err != nil {
		s.logger.Error("advisor chat completion failed",
			slog.String("user_id", userID),
			slog.Any("error", err))
		return "", fmt.Errorf("advisor chat: %w", err)
	}
	return answer, nil
}

// Recommendations produces an investment suggestion list for the caller.
func (s *AdvisorService) Recommendations(ctx context.Context, userID string) (string, error) {
	level := s.knowledgeLevel(ctx, userID)
	prompt := fmt.Sprintf(
		"You are a personal finance advisor. Produce a short list of investment "+
			"recommendations appropriate for a user with %q knowledge of investing. "+
			"Include a one-line rationale per item and a standard risk disclaimer.",
		level)

	answer, err := s.completions.Complete(ctx, prompt)
	if err != nil {
		s.logger.Error("advisor recommendations completion failed",
			slog.String("user_id", userID),
			slog.Any("error", err))
		return "", fmt.Errorf("advisor recommendations: %w", err)
	}
	return answer, nil
}

package services

import (
	"context"
	"log/slog"
	"testing"

	"github.com/SUGALIRAHUL/adapti-finance-pal/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdvisorService_Chat_UsesProfileKnowledgeLevel(t *testing.T) {
	profiles := &MockProfileRepository{
		GetByUserIDFunc: func(ctx context.Context, userID string) (*models.Profile, error) {
			return &models.Profile{UserID: userID, KnowledgeLevel: "advanced"}, nil
		},
	}

	var seenPrompt string
	completions := &MockCompletionClient{
		CompleteFunc: func(ctx context.Context, prompt string) (string, error) {
			seenPrompt = prompt
			return "an answer", nil
		},
	}

	svc := NewAdvisorService(completions, profiles, slog.Default())

	answer, err := svc.Chat(context.Background(), "user123", "What is an index fund?")
	require.NoError(t, err)
	assert.Equal(t, "an answer", answer)
	assert.Contains(t, seenPrompt, `"advanced"`)
	assert.Contains(t, seenPrompt, "What is an index fund?")
}

func TestAdvisorService_Chat_MissingProfileDefaultsToBeginner(t *testing.T) {
	profiles := &MockProfileRepository{
		GetByUserIDFunc: func(ctx context.Context, userID string) (*models.Profile, error) {
			return nil, models.ErrNotFound
		},
	}

	var seenPrompt string
	completions := &MockCompletionClient{
		CompleteFunc: func(ctx context.Context, prompt string) (string, error) {
			seenPrompt = prompt
			return "an answer", nil
		},
	}

	svc := NewAdvisorService(completions, profiles, slog.Default())

	_, err := svc.Chat(context.Background(), "user123", "How do I budget?")
	require.NoError(t, err)
	assert.Contains(t, seenPrompt, `"beginner"`)
}

func TestAdvisorService_Chat_EmptyQuestion(t *testing.T) {
	called := false
	completions := &MockCompletionClient{
		CompleteFunc: func(ctx context.Context, prompt string) (string, error) {
			called = true
			return "", nil
		},
	}

	svc := NewAdvisorService(completions, &MockProfileRepository{}, slog.Default())

	_, err := svc.Chat(context.Background(), "user123", "   ")
	assert.ErrorIs(t, err, models.ErrBadRequest)
	assert.False(t, called)
}

func TestAdvisorService_Chat_CompletionFailure(t *testing.T) {
	completions := &MockCompletionClient{
		CompleteFunc: func(ctx context.Context, prompt string) (string, error) {
			return "", models.ErrInternalServer
		},
	}

	svc := NewAdvisorService(completions, &MockProfileRepository{}, slog.Default())

	_, err := svc.Chat(context.Background(), "user123", "question")
	assert.ErrorIs(t, err, models.ErrInternalServer)
}

func TestAdvisorService_Recommendations_UsesProfileKnowledgeLevel(t *testing.T) {
	profiles := &MockProfileRepository{
		GetByUserIDFunc: func(ctx context.Context, userID string) (*models.Profile, error) {
			return &models.Profile{UserID: userID, KnowledgeLevel: "intermediate"}, nil
		},
	}

	var seenPrompt string
	completions := &MockCompletionClient{
		CompleteFunc: func(ctx context.Context, prompt string) (string, error) {
			seenPrompt = prompt
			return "1. broad index fund", nil
		},
	}

	svc := NewAdvisorService(completions, profiles, slog.Default())

	recs, err := svc.Recommendations(context.Background(), "user123")
	require.NoError(t, err)
	assert.Equal(t, "1. broad index fund", recs)
	assert.Contains(t, seenPrompt, `"intermediate"`)
}

package auth

import (
	"fmt"
	"time"

	"github.com/SUGALIRAHUL/adapti-finance-pal/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenManager validates bearer tokens minted by the identity provider.
// This service never issues sessions of its own; Generate exists only for
// the bundled local provider used in development and tests.
type TokenManager struct {
	secret string
}

// NewTokenManager creates a TokenManager sharing the provider's HS256 secret.
func NewTokenManager(secret string) *TokenManager {
	return &TokenManager{secret: secret}
}

// ValidateToken parses and verifies a token, returning its claims.
func (tm *TokenManager) ValidateToken(tokenString string) (*models.TokenClaims, error) {
	claims := &models.TokenClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(tm.secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	if claims.UserID == "" {
		claims.UserID = claims.Subject
	}

	return claims, nil
}

// Generate mints an HS256 access token. Local-provider use only.
func (tm *TokenManager) Generate(userID, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &models.TokenClaims{
		UserID: userID,
		Email:  email,
		Role:   "authenticated",
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(tm.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

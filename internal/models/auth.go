package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims are the claims this service reads out of a bearer token
// issued by the external identity provider.
type TokenClaims struct {
	UserID string `json:"sub,omitempty"`
	Email  string `json:"email,omitempty"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Session is an identity-provider session as surfaced to clients. The
// orchestrator never mints these itself; it only relays what the provider
// issued after the second factor passed.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

// Identity is the resolved caller on an authenticated request.
type Identity struct {
	UserID string
	Email  string
}

package middleware

import (
	"net/http"
	"time"

	pkghttp "github.com/SUGALIRAHUL/adapti-finance-pal/pkg/http"
	"github.com/go-chi/httprate"
)

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestsPerMinute int
}

// DefaultAuthRateLimit returns the limit applied to the unauthenticated
// surface: OTP issue/verify and the login and signup endpoints. Kept low
// because each request can trigger an outbound email or a provider call.
func DefaultAuthRateLimit() RateLimitConfig {
	return RateLimitConfig{RequestsPerMinute: 5}
}

// RateLimitByIP limits requests per client IP over a one-minute window.
// Runs behind RealIP so proxied requests are keyed correctly.
func RateLimitByIP(config RateLimitConfig) func(next http.Handler) http.Handler {
	return httprate.Limit(
		config.RequestsPerMinute,
		time.Minute,
		httprate.WithKeyByRealIP(),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			pkghttp.WriteTooManyRequests(w, "Too many requests")
		}),
	)
}

package logger

import (
	"log/slog"
	"strings"
)

// sensitiveParams are substrings that mark a query string as unloggable.
// OTP codes and MFA tokens should never travel in a URL, but if a client
// puts them there anyway they must not end up in the request log.
var sensitiveParams = []string{
	"password",
	"token",
	"secret",
	"otp",
	"code",
	"api_key",
	"apikey",
	"email",
	"auth",
}

// SanitizedEmail masks an email address for logging (e.g., "u***@e***.com")
func SanitizedEmail(email string) string {
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return "[invalid-email]"
	}

	username := parts[0]
	domain := parts[1]

	// Keep the first character of the local part.
	if len(username) > 1 {
		username = string(username[0]) + strings.Repeat("*", len(username)-1)
	}

	// Keep only the TLD of the domain.
	domainParts := strings.Split(domain, ".")
	if len(domainParts) > 1 {
		for i := 0; i < len(domainParts)-1; i++ {
			domainParts[i] = strings.Repeat("*", len(domainParts[i]))
		}
		domain = strings.Join(domainParts, ".")
	}

	return username + "@" + domain
}

// RedactedAttr returns a slog attribute whose value is hidden in
// production and visible elsewhere.
func RedactedAttr(key, value, env string) slog.Attr {
	if env == "production" {
		return slog.String(key, "[REDACTED]")
	}
	return slog.String(key, value)
}

// SanitizeQueryString reports whether a raw query string contains
// sensitive parameters and should be dropped from logs wholesale.
func SanitizeQueryString(rawQuery string) bool {
	query := strings.ToLower(rawQuery)
	for _, param := range sensitiveParams {
		if strings.Contains(query, param) {
			return true
		}
	}
	return false
}

package models

import "errors"

// Sentinel errors for common failure conditions
var (
	ErrNotFound       = errors.New("resource not found")
	ErrConflict       = errors.New("resource already exists")
	ErrBadRequest     = errors.New("bad request")
	ErrInternalServer = errors.New("internal server error")

	// MFA errors
	ErrMFANotConfigured = errors.New("mfa not set up")
	ErrMFAAlreadyActive = errors.New("mfa already enabled")
	ErrDecryptionFailed = errors.New("secret decryption failed")

	// Email OTP errors
	ErrOTPInvalid     = errors.New("invalid or expired code")
	ErrDeliveryFailed = errors.New("email delivery failed")

	// Identity provider errors
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrProviderUnavailable = errors.New("identity provider unavailable")
)

package models

import (
	"time"
)

// OTPPurpose distinguishes the two flows a challenge can prove.
type OTPPurpose string

const (
	OTPPurposeLogin  OTPPurpose = "login"
	OTPPurposeSignup OTPPurpose = "signup"
)

// Valid reports whether p is one of the known purposes.
func (p OTPPurpose) Valid() bool {
	return p == OTPPurposeLogin || p == OTPPurposeSignup
}

// EmailOTPChallenge is an ephemeral emailed proof. At most one active
// (unexpired, unverified) challenge exists per (email, purpose) pair;
// issuing a new one deletes its predecessors.
type EmailOTPChallenge struct {
	ID        string
	Email     string // stored lowercased
	Code      string // six decimal digits
	Purpose   OTPPurpose
	ExpiresAt time.Time
	Verified  bool
	CreatedAt time.Time
}

// IsExpired checks whether the challenge has passed its expiry.
func (c *EmailOTPChallenge) IsExpired() bool {
	return time.Now().After(c.ExpiresAt)
}

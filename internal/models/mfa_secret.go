package models

import (
	"time"
)

// MFAState describes where a user sits in the enrollment lifecycle.
type MFAState string

const (
	// MFAStateAbsent means no secret record exists for the user.
	MFAStateAbsent MFAState = "absent"
	// MFAStatePending means a secret is stored but the user has not yet
	// proven possession of it with a valid code.
	MFAStatePending MFAState = "pending"
	// MFAStateActive means enrollment completed and codes are required
	// for sensitive operations.
	MFAStateActive MFAState = "active"
)

// MFASecret is the per-user enrollment record. At most one row per user.
// Secret holds the encrypted base32 TOTP seed; the plaintext seed is only
// ever returned once, from the setup response.
type MFASecret struct {
	UserID    string
	Secret    string // base64(nonce || AES-256-GCM ciphertext)
	Enabled   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// State maps the stored record onto the enrollment lifecycle. A nil
// receiver stands for "no record", which is equivalent to absent.
func (s *MFASecret) State() MFAState {
	if s == nil {
		return MFAStateAbsent
	}
	if s.Enabled {
		return MFAStateActive
	}
	return MFAStatePending
}

// MFASetup is what the setup action hands back to the caller, exactly once.
type MFASetup struct {
	Secret     string // plaintext base32 seed for manual entry
	OtpauthURL string
	QRCodePNG  string // data URL, rendered server-side
}

package auth

import (
	"crypto/rand"
	"encoding/base32"
	"encoding/base64"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"
)

// TOTP parameters shared between generation and validation. Changing any of
// these invalidates every previously issued secret.
const (
	totpPeriod     = 30
	totpSecretSize = 20 // 160 bits, per RFC 4226 recommendation
)

var totpOpts = totp.ValidateOpts{
	Period:    totpPeriod,
	Digits:    otp.DigitsSix,
	Algorithm: otp.AlgorithmSHA1,
}

// base32 without padding, the encoding authenticator apps expect
var secretEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// TOTPEngine generates shared secrets, derives provisioning URIs, and
// validates time-based codes with a clock-skew tolerance window.
type TOTPEngine struct {
	issuer string
}

// NewTOTPEngine creates an engine stamping QR provisioning URIs with issuer.
func NewTOTPEngine(issuer string) *TOTPEngine {
	return &TOTPEngine{issuer: issuer}
}

// GenerateSecret returns a fresh random seed as an unpadded base32 string.
func (e *TOTPEngine) GenerateSecret() (string, error) {
	raw := make([]byte, totpSecretSize)
	if _, err := io.ReadFull(rand.Reader, raw); err != nil {
		return "", fmt.Errorf("failed to generate TOTP secret: %w", err)
	}
	return secretEncoding.EncodeToString(raw), nil
}

// ProvisioningURI builds the otpauth:// URI an authenticator app consumes,
// carrying issuer, account label, algorithm, digit count, and period.
func (e *TOTPEngine) ProvisioningURI(secret, accountLabel string) string {
	v := url.Values{}
	v.Set("secret", secret)
	v.Set("issuer", e.issuer)
	v.Set("algorithm", totpOpts.Algorithm.String())
	v.Set("digits", totpOpts.Digits.String())
	v.Set("period", fmt.Sprintf("%d", totpOpts.Period))

	u := url.URL{
		Scheme:   "otpauth",
		Host:     "totp",
		Path:     "/" + e.issuer + ":" + accountLabel,
		RawQuery: v.Encode(),
	}
	return u.String()
}

// QRCodePNG renders a provisioning URI as a PNG data URL.
func (e *TOTPEngine) QRCodePNG(provisioningURI string) (string, error) {
	qr, err := qrcode.New(provisioningURI, qrcode.Medium)
	if err != nil {
		return "", fmt.Errorf("failed to create QR code: %w", err)
	}

	png, err := qr.PNG(200)
	if err != nil {
		return "", fmt.Errorf("failed to encode QR code: %w", err)
	}

	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// CurrentCode computes the six-digit code for the given time step.
func (e *TOTPEngine) CurrentCode(secret string, at time.Time) (string, error) {
	code, err := totp.GenerateCodeCustom(secret, at, totpOpts)
	if err != nil {
		return "", fmt.Errorf("failed to generate TOTP code: %w", err)
	}
	return code, nil
}

// Validate accepts the code if it matches any time-step offset within
// [-window, +window] around at, short-circuiting on the first match.
// Anything but exactly six ASCII digits is a non-match, not an error.
func (e *TOTPEngine) Validate(secret, code string, at time.Time, window uint) bool {
	if !isSixDigits(code) {
		return false
	}

	opts := totpOpts
	opts.Skew = window

	valid, err := totp.ValidateCustom(code, strings.TrimSpace(secret), at, opts)
	if err != nil {
		return false
	}
	return valid
}

func isSixDigits(code string) bool {
	if len(code) != 6 {
		return false
	}
	for _, c := range code {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

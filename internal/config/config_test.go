package config

import (
	"os"
	"testing"
	"time"
)

func setRequiredEnv() {
	os.Setenv("AUTH_JWT_SECRET", "test-secret-32-characters-long!!")
	os.Setenv("DB_PASSWORD", "test")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv()
	defer os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}

	if cfg.OTP.Expiry != 10*time.Minute {
		t.Errorf("OTP.Expiry: got %v, want %v", cfg.OTP.Expiry, 10*time.Minute)
	}
	if cfg.MFA.Issuer != "FinancePal" {
		t.Errorf("MFA.Issuer: got %q, want %q", cfg.MFA.Issuer, "FinancePal")
	}
	if cfg.Auth.ProviderTimeout != 10*time.Second {
		t.Errorf("Auth.ProviderTimeout: got %v, want %v", cfg.Auth.ProviderTimeout, 10*time.Second)
	}
}

func TestLoad_MissingJWTSecret(t *testing.T) {
	os.Clearenv()
	os.Setenv("DB_PASSWORD", "test")
	defer os.Clearenv()

	if _, err := Load(); err == nil {
		t.Fatal("Load() = nil, want error for missing AUTH_JWT_SECRET")
	}
}

func TestLoad_MissingDBPassword(t *testing.T) {
	os.Clearenv()
	os.Setenv("AUTH_JWT_SECRET", "test-secret-32-characters-long!!")
	defer os.Clearenv()

	if _, err := Load(); err == nil {
		t.Fatal("Load() = nil, want error for missing DB_PASSWORD")
	}
}

func TestLoad_EncryptionSecret_DevFallback(t *testing.T) {
	setRequiredEnv()
	defer os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}

	if !cfg.UsingInsecureDefaults() {
		t.Error("UsingInsecureDefaults() = false, want true without MFA_ENCRYPTION_SECRET")
	}
}

func TestLoad_EncryptionSecret_RequiredInProduction(t *testing.T) {
	setRequiredEnv()
	os.Setenv("ENV", "production")
	os.Setenv("ALLOWED_ORIGINS", "https://app.example.com")
	defer os.Clearenv()

	if _, err := Load(); err == nil {
		t.Fatal("Load() = nil, want error for missing MFA_ENCRYPTION_SECRET in production")
	}
}

func TestLoad_EncryptionSecret_Explicit(t *testing.T) {
	setRequiredEnv()
	os.Setenv("MFA_ENCRYPTION_SECRET", "an-explicit-32-character-secret!")
	defer os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}

	if cfg.UsingInsecureDefaults() {
		t.Error("UsingInsecureDefaults() = true, want false with explicit secret")
	}
}

func TestLoad_WeakSecretRejected(t *testing.T) {
	os.Clearenv()
	os.Setenv("AUTH_JWT_SECRET", "password")
	os.Setenv("DB_PASSWORD", "test")
	defer os.Clearenv()

	if _, err := Load(); err == nil {
		t.Fatal("Load() = nil, want error for weak AUTH_JWT_SECRET")
	}
}

func TestLoad_InvalidDurationFallsBack(t *testing.T) {
	setRequiredEnv()
	os.Setenv("OTP_EXPIRY", "not-a-duration")
	defer os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}

	if cfg.OTP.Expiry != 10*time.Minute {
		t.Errorf("OTP.Expiry with invalid value: got %v, want %v", cfg.OTP.Expiry, 10*time.Minute)
	}
}

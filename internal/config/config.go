package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Auth     AuthConfig
	MFA      MFAConfig
	OTP      OTPConfig
	Email    EmailConfig
	Advisor  AdvisorConfig
}

type DatabaseConfig struct {
	Host              string
	Port              int
	User              string
	Password          string
	Name              string
	SSLMode           string
	MaxConns          int32
	MinConns          int32
	MaxConnLifetime   time.Duration
	MaxConnIdleTime   time.Duration
	HealthCheckPeriod time.Duration
}

type ServerConfig struct {
	Port           string
	Env            string
	LogLevel       string
	AllowedOrigins []string
}

type AuthConfig struct {
	// JWTSecret verifies bearer tokens minted by the identity provider.
	JWTSecret string
	// ProviderURL is the base URL of the hosted identity provider.
	ProviderURL string
	// ProviderAPIKey authenticates this service to the provider.
	ProviderAPIKey string
	// ProviderTimeout bounds outbound calls to the provider.
	ProviderTimeout time.Duration
}

type MFAConfig struct {
	// EncryptionSecret is the key material for encrypting TOTP seeds at
	// rest. It is padded or truncated to 32 bytes for AES-256.
	EncryptionSecret string
	Issuer           string
}

type OTPConfig struct {
	Expiry          time.Duration
	CleanupInterval time.Duration
}

type EmailConfig struct {
	AWSRegion   string
	FromAddress string
}

type AdvisorConfig struct {
	CompletionURL    string
	CompletionAPIKey string
	RequestTimeout   time.Duration
}

// insecureDevSecret is the non-production fallback for MFA_ENCRYPTION_SECRET.
// Production refuses to start without explicit key material.
const insecureDevSecret = "dev-only-encryption-secret"

func Load() (*Config, error) {
	_ = godotenv.Load()

	env := getEnv("ENV", "development")

	jwtSecret := getEnv("AUTH_JWT_SECRET", "")
	if jwtSecret == "" {
		return nil, fmt.Errorf("AUTH_JWT_SECRET is required")
	}

	encryptionSecret := getEnv("MFA_ENCRYPTION_SECRET", "")
	if encryptionSecret == "" {
		if env == "production" {
			return nil, fmt.Errorf("MFA_ENCRYPTION_SECRET is required in production")
		}
		encryptionSecret = insecureDevSecret
	}

	cfg := &Config{
		Database: DatabaseConfig{
			Host:              getEnv("DB_HOST", "localhost"),
			Port:              getEnvAsInt("DB_PORT", 5432),
			User:              getEnv("DB_USER", "postgres"),
			Password:          getEnv("DB_PASSWORD", ""),
			Name:              getEnv("DB_NAME", "financepal"),
			SSLMode:           getEnv("DB_SSLMODE", "disable"),
			MaxConns:          int32(getEnvAsInt("DB_MAX_CONNS", 25)),
			MinConns:          int32(getEnvAsInt("DB_MIN_CONNS", 5)),
			MaxConnLifetime:   getEnvAsDuration("DB_MAX_CONN_LIFETIME", 5*time.Minute),
			MaxConnIdleTime:   getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 1*time.Minute),
			HealthCheckPeriod: getEnvAsDuration("DB_HEALTH_CHECK_PERIOD", 1*time.Minute),
		},
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			Env:            env,
			LogLevel:       getEnv("LOG_LEVEL", "info"),
			AllowedOrigins: parseAllowedOrigins(env),
		},
		Auth: AuthConfig{
			JWTSecret:       jwtSecret,
			ProviderURL:     getEnv("AUTH_PROVIDER_URL", ""),
			ProviderAPIKey:  getEnv("AUTH_PROVIDER_API_KEY", ""),
			ProviderTimeout: getEnvAsDuration("AUTH_PROVIDER_TIMEOUT", 10*time.Second),
		},
		MFA: MFAConfig{
			EncryptionSecret: encryptionSecret,
			Issuer:           getEnv("MFA_ISSUER", "FinancePal"),
		},
		OTP: OTPConfig{
			Expiry:          getEnvAsDuration("OTP_EXPIRY", 10*time.Minute),
			CleanupInterval: getEnvAsDuration("OTP_CLEANUP_INTERVAL", 1*time.Hour),
		},
		Email: EmailConfig{
			AWSRegion:   getEnv("AWS_REGION", "us-east-1"),
			FromAddress: getEnv("EMAIL_FROM_ADDRESS", ""),
		},
		Advisor: AdvisorConfig{
			CompletionURL:    getEnv("COMPLETION_API_URL", ""),
			CompletionAPIKey: getEnv("COMPLETION_API_KEY", ""),
			RequestTimeout:   getEnvAsDuration("COMPLETION_TIMEOUT", 30*time.Second),
		},
	}

	if cfg.Database.Password == "" {
		return nil, fmt.Errorf("DB_PASSWORD is required")
	}

	if err := validateSecret("AUTH_JWT_SECRET", jwtSecret, env); err != nil {
		return nil, err
	}

	if encryptionSecret != insecureDevSecret {
		if err := validateSecret("MFA_ENCRYPTION_SECRET", encryptionSecret, env); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// UsingInsecureDefaults reports whether the cipher key fell back to the
// development default, so startup can log the hardening gap.
func (c *Config) UsingInsecureDefaults() bool {
	return c.MFA.EncryptionSecret == insecureDevSecret
}

// validateSecret enforces minimum strength for secret material
func validateSecret(name, secret, env string) error {
	minLength := 16
	if env == "production" {
		minLength = 32
	}

	if len(secret) < minLength {
		return fmt.Errorf("%s must be at least %d characters in %s environment (got %d)",
			name, minLength, env, len(secret))
	}

	weakSecrets := []string{
		"secret", "test", "password", "12345", "changeme",
		"admin", "root", "default", "example",
	}

	secretLower := strings.ToLower(secret)
	for _, weak := range weakSecrets {
		if secretLower == weak {
			return fmt.Errorf("%s cannot be a common weak value", name)
		}
	}

	return nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultVal
}

func parseAllowedOrigins(env string) []string {
	if env == "production" {
		originsStr := getEnv("ALLOWED_ORIGINS", "")
		if originsStr == "" {
			return []string{}
		}
		origins := strings.Split(originsStr, ",")
		for i, origin := range origins {
			origins[i] = strings.TrimSpace(origin)
		}
		return origins
	}

	// Development: allow localhost variants
	return []string{
		"http://localhost:3000",
		"http://localhost:8080",
		"http://localhost:5173", // Vite default
		"http://127.0.0.1:3000",
		"http://127.0.0.1:8080",
		"http://127.0.0.1:5173",
	}
}

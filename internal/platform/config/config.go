package config

import (
	"os"
	"time"
)

// SMTP captures outbound mail configuration. An empty Host disables real
// delivery; the recording mailer is used instead.
type SMTP struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// Server captures process-level configuration.
type Server struct {
	Addr          string
	JWTSigningKey string
	JWTIssuer     string
	SessionTTL    time.Duration
	ResetTokenTTL time.Duration
	// ClientURL is the frontend base URL embedded in verification and
	// reset links.
	ClientURL string
	// RedisURL selects the Redis-backed document stores when set.
	RedisURL string
	// PostgresDSN selects the PostgreSQL profile store when set. Redis
	// takes precedence for the pharmacy store.
	PostgresDSN string
	SMTP        SMTP
}

// FromEnv builds a Server config from environment variables so main stays
// lean.
func FromEnv() Server {
	addr := os.Getenv("APOTHECA_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	clientURL := os.Getenv("CLIENT_URL")
	if clientURL == "" {
		clientURL = "http://localhost:3000"
	}

	return Server{
		Addr:          addr,
		JWTSigningKey: jwtSigningKey,
		JWTIssuer:     "apotheca",
		SessionTTL:    durationFromEnv("SESSION_TOKEN_TTL", 24*time.Hour),
		ResetTokenTTL: durationFromEnv("RESET_TOKEN_TTL", time.Hour),
		ClientURL:     clientURL,
		RedisURL:      os.Getenv("REDIS_URL"),
		PostgresDSN:   os.Getenv("POSTGRES_DSN"),
		SMTP: SMTP{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     envOr("SMTP_PORT", "465"),
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     os.Getenv("SMTP_FROM"),
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationFromEnv(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

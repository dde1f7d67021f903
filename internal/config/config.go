package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds runtime configuration sourced from env vars.
type Config struct {
	Port        string
	DatabaseURL string
	CORSOrigins []string

	// SessionTTL is the idle lifetime of a session and its cart.
	SessionTTL time.Duration

	// AuthTimeout bounds each login/registration operation; on expiry
	// the operation is denied rather than allowed through.
	AuthTimeout time.Duration

	// BcryptCost tunes password hashing; 0 means the bcrypt default.
	BcryptCost int
}

// Load reads configuration from the environment and performs minimal
// validation.
func Load() (Config, error) {
	cfg := Config{
		Port:        fallback(os.Getenv("PORT"), "8080"),
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		CORSOrigins: parseCSV(fallback(os.Getenv("CORS_ALLOWED_ORIGINS"), "*")),
		SessionTTL:  minutes(os.Getenv("SESSION_TTL_MINUTES"), 30),
		AuthTimeout: seconds(os.Getenv("AUTH_TIMEOUT_SECONDS"), 10),
		BcryptCost:  intOr(os.Getenv("BCRYPT_COST"), 0),
	}

	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("DATABASE_URL is required")
	}

	return cfg, nil
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}

func intOr(value string, def int) int {
	if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
		return n
	}
	return def
}

func minutes(value string, def int) time.Duration {
	n := intOr(value, def)
	if n <= 0 {
		n = def
	}
	return time.Duration(n) * time.Minute
}

func seconds(value string, def int) time.Duration {
	n := intOr(value, def)
	if n <= 0 {
		n = def
	}
	return time.Duration(n) * time.Second
}

func parseCSV(input string) []string {
	parts := strings.Split(input, ",")
	var out []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

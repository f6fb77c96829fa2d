package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	KeycloakURL       string        // Keycloak base URL, trailing slashes stripped
	AdminUsername     string        // Keycloak administrator username
	AdminPassword     string        // Keycloak administrator password
	Port              string        // Service port
	SessionTTL        time.Duration // Conservative admin session window
	UpstreamTimeout   time.Duration // Per-call timeout against Keycloak
	AdminSharedSecret string        // Optional shared secret guarding the command API
}

// Load reads configuration from environment variables. A .env file in the
// working directory is honored when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	config := &Config{
		KeycloakURL:       getEnv("KEYCLOAK_URL", ""),
		AdminUsername:     getEnv("KEYCLOAK_ADMIN_USERNAME", ""),
		AdminPassword:     getEnv("KEYCLOAK_ADMIN_PASSWORD", ""),
		Port:              getEnv("PORT", "8080"),
		SessionTTL:        5 * time.Minute,
		UpstreamTimeout:   10 * time.Second,
		AdminSharedSecret: getEnv("ADMIN_SHARED_SECRET", ""),
	}

	if ttlStr := os.Getenv("SESSION_TTL"); ttlStr != "" {
		duration, err := time.ParseDuration(ttlStr)
		if err != nil {
			return nil, fmt.Errorf("invalid SESSION_TTL format: %w", err)
		}
		config.SessionTTL = duration
	}

	if timeoutStr := os.Getenv("UPSTREAM_TIMEOUT"); timeoutStr != "" {
		duration, err := time.ParseDuration(timeoutStr)
		if err != nil {
			return nil, fmt.Errorf("invalid UPSTREAM_TIMEOUT format: %w", err)
		}
		config.UpstreamTimeout = duration
	}

	config.KeycloakURL = strings.TrimRight(config.KeycloakURL, "/")

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.KeycloakURL == "" {
		return fmt.Errorf("KEYCLOAK_URL cannot be empty")
	}

	parsed, err := url.Parse(c.KeycloakURL)
	if err != nil {
		return fmt.Errorf("KEYCLOAK_URL is not a valid URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("KEYCLOAK_URL must use http or https, got %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return fmt.Errorf("KEYCLOAK_URL has no host")
	}

	if c.AdminUsername == "" {
		return fmt.Errorf("KEYCLOAK_ADMIN_USERNAME cannot be empty")
	}

	if c.AdminPassword == "" {
		return fmt.Errorf("KEYCLOAK_ADMIN_PASSWORD cannot be empty")
	}

	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}

	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}

	if c.UpstreamTimeout <= 0 {
		return fmt.Errorf("UPSTREAM_TIMEOUT must be positive")
	}

	return nil
}

// getEnv retrieves an environment variable or returns a fallback value
func getEnv(key, fallback string) string {
	// Check for _FILE suffix
	if fileValue := os.Getenv(key + "_FILE"); fileValue != "" {
		content, err := os.ReadFile(fileValue)
		if err == nil {
			return strings.TrimSpace(string(content))
		}
	}

	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

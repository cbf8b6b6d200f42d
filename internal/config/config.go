package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the CMS service.
type Config struct {
	// Server
	Port            string
	Env             string
	ShutdownTimeout time.Duration
	HTTPTimeout     time.Duration

	// Content repository (GitHub)
	RepoOwner  string
	RepoName   string
	RepoBranch string

	// OAuth application
	GitHubClientID     string
	GitHubClientSecret string
	OAuthRedirectURL   string

	// AllowedLogins is the static allow-list of GitHub logins that may use
	// the admin panel.
	AllowedLogins []string

	// Redis listing cache; empty RedisURL falls back to the in-memory cache.
	RedisURL     string
	RedisPrefix  string
	ListCacheTTL time.Duration

	// Cloudflare R2 media storage; empty endpoint disables uploads.
	R2Endpoint   string
	R2AccessKey  string
	R2SecretKey  string
	R2Bucket     string
	MediaBaseURL string

	// Logging
	LogLevel string
}

// Load reads configuration from environment variables (with .env support)
// and validates it. Missing required settings are fatal at startup.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: error loading .env file: %v", err)
	}

	appURL := getEnv("APP_URL", "http://localhost:8080")

	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		Env:             getEnv("APP_ENV", "development"),
		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		HTTPTimeout:     getEnvAsDuration("HTTP_TIMEOUT", 30*time.Second),

		RepoOwner:  getEnv("CONTENT_REPO_OWNER", ""),
		RepoName:   getEnv("CONTENT_REPO_NAME", ""),
		RepoBranch: getEnv("CONTENT_REPO_BRANCH", "main"),

		GitHubClientID:     getEnv("GITHUB_CLIENT_ID", ""),
		GitHubClientSecret: getEnv("GITHUB_CLIENT_SECRET", ""),
		OAuthRedirectURL:   getEnv("GITHUB_REDIRECT_URL", appURL+"/auth/callback"),

		AllowedLogins: getEnvAsList("ADMIN_LOGINS"),

		RedisURL:     getEnv("REDIS_URL", ""),
		RedisPrefix:  getEnv("REDIS_PREFIX", "studio-cms:"),
		ListCacheTTL: getEnvAsDuration("LIST_CACHE_TTL", 5*time.Minute),

		R2Endpoint:   getEnv("R2_ENDPOINT", ""),
		R2AccessKey:  getEnv("R2_ACCESS_KEY", ""),
		R2SecretKey:  getEnv("R2_SECRET_ACCESS_KEY", ""),
		R2Bucket:     getEnv("R2_BUCKET", "studio-media"),
		MediaBaseURL: getEnv("MEDIA_BASE_URL", ""),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	return cfg
}

// Validate checks the settings the service cannot run without.
func (c *Config) Validate() error {
	if c.RepoOwner == "" || c.RepoName == "" {
		return fmt.Errorf("CONTENT_REPO_OWNER and CONTENT_REPO_NAME are required")
	}
	if c.GitHubClientID == "" || c.GitHubClientSecret == "" {
		return fmt.Errorf("GITHUB_CLIENT_ID and GITHUB_CLIENT_SECRET are required")
	}
	if len(c.AllowedLogins) == 0 {
		return fmt.Errorf("ADMIN_LOGINS must list at least one GitHub login")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsList(name string) []string {
	raw := getEnv(name, "")
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getEnvAsDuration(name string, defaultVal time.Duration) time.Duration {
	valueStr := getEnv(name, "")
	if valueStr == "" {
		return defaultVal
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Invalid %s value: %v, using default: %v", name, err, defaultVal)
		return defaultVal
	}
	return value
}

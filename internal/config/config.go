package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort     string
	ConsumerKey    string
	ConsumerSecret string
	RedirectURI    string
	SessionSecret  string
	TemplatesPath  string
	SessionMaxAge  time.Duration
}

// Load reads configuration from a .env file (if present) and environment
// variables with sensible defaults. Components receive values from this
// struct; nothing below this package reads the process environment.
func Load() *Config {
	_ = godotenv.Overload()

	return &Config{
		ServerPort:     getEnv("PORT", "8080"),
		ConsumerKey:    getEnv("TUMBLR_CONSUMER_KEY", ""),
		ConsumerSecret: getEnv("TUMBLR_CONSUMER_SECRET", ""),
		RedirectURI:    getEnv("REDIRECT_URI", "http://localhost:8080/auth"),
		SessionSecret:  getEnv("SESSION_SECRET", ""),
		TemplatesPath:  getEnv("TEMPLATES_PATH", "./internal/templates"),
		SessionMaxAge:  24 * time.Hour,
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

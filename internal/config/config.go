package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           int
	DatabasePath   string
	ImageDirectory string
	ImageURLPrefix string // URL path the image directory is mounted under, without slashes
	StaticDir      string
	AllowedOrigins []string
	LogDirectory   string
	LogLevel       string
	MaxPageSize    int // Largest "limit" accepted by the images endpoint
}

// ClientConfig holds the settings used by the terminal client.
type ClientConfig struct {
	APIBaseURL string
	User       string
	LogLevel   string
}

// Load reads the server configuration from the environment. A .env file in
// the working directory is applied first when present.
func Load() *Config {
	loadDotEnv()

	return &Config{
		Port:           getEnvAsInt("PORT", 8000),
		DatabasePath:   getEnv("DATABASE_PATH", filepath.Join(".", "data", "image_rater.db")),
		ImageDirectory: getEnv("IMAGE_DIR", "sample_images"),
		ImageURLPrefix: strings.Trim(getEnv("IMAGE_URL_PREFIX", "sample_images"), "/"),
		StaticDir:      getEnv("STATIC_DIR", "static"),
		AllowedOrigins: getEnvAsList("ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		LogDirectory:   getEnv("LOG_DIR", filepath.Join(".", "logs")),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		MaxPageSize:    getEnvAsInt("PAGE_SIZE_MAX", 100),
	}
}

// LoadClient reads the client configuration from the environment.
func LoadClient() *ClientConfig {
	loadDotEnv()

	return &ClientConfig{
		APIBaseURL: strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:8000"), "/"),
		User:       strings.TrimSpace(os.Getenv("RATER_USER")),
		LogLevel:   getEnv("LOG_LEVEL", "warn"),
	}
}

func loadDotEnv() {
	// A missing .env is the normal case outside development.
	_ = godotenv.Load()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}

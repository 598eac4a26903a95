package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "DATABASE_PATH", "IMAGE_DIR", "IMAGE_URL_PREFIX", "ALLOWED_ORIGINS", "PAGE_SIZE_MAX", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, "sample_images", cfg.ImageDirectory)
	assert.Equal(t, "sample_images", cfg.ImageURLPrefix)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
	assert.Equal(t, 100, cfg.MaxPageSize)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("IMAGE_URL_PREFIX", "/pics/")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, ,http://b.test")
	t.Setenv("PAGE_SIZE_MAX", "not-a-number")

	cfg := Load()

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "pics", cfg.ImageURLPrefix)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
	assert.Equal(t, 100, cfg.MaxPageSize)
}

func TestLoadClient(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://rater.local:8000/")
	t.Setenv("RATER_USER", "  alice ")

	cfg := LoadClient()

	assert.Equal(t, "http://rater.local:8000", cfg.APIBaseURL)
	assert.Equal(t, "alice", cfg.User)
}

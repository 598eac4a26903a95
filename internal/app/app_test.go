package app

import (
	"os"
	"path/filepath"
	"testing"

	"imagerater/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	dir := t.TempDir()
	return &config.Config{
		DatabasePath:   filepath.Join(dir, "data", "test.db"),
		ImageDirectory: filepath.Join(dir, "images"),
		ImageURLPrefix: "sample_images",
		LogDirectory:   filepath.Join(dir, "logs"),
		LogLevel:       "info",
		MaxPageSize:    100,
	}
}

func openFiles(t *testing.T) int {
	t.Helper()
	entries, err := os.ReadDir("/proc/self/fd")
	if err != nil {
		t.Skip("no /proc/self/fd")
	}
	return len(entries)
}

func TestNewApp(t *testing.T) {
	cfg := testConfig(t)

	a, err := NewApp(cfg)
	require.NoError(t, err)
	defer a.logger.Close()
	defer a.db.Close()

	assert.DirExists(t, cfg.ImageDirectory)
	assert.FileExists(t, filepath.Join(cfg.LogDirectory, "error.log"))
}

func TestNewApp_DatabaseErrorClosesLogs(t *testing.T) {
	cfg := testConfig(t)
	// A directory cannot be opened as a database.
	cfg.DatabasePath = t.TempDir()
	before := openFiles(t)

	_, err := NewApp(cfg)

	require.Error(t, err)
	assert.Equal(t, before, openFiles(t), "log files left open")
}

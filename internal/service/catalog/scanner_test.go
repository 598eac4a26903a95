package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"imagerater/internal/logger"
	"imagerater/internal/model"
	"imagerater/internal/repository/sqlite"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, name := range names {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte("x"), 0644))
	}
}

func TestScanner_Scan(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "a.png", "nested/deep/B.JPG", "c.webp", "notes.txt", "nested/readme")

	db, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer db.Close()
	images := sqlite.NewImageRepository(db)

	scanner := NewScanner(root, "/sample_images/", images, logger.Nop())
	ctx := context.Background()

	result, err := scanner.Scan(ctx)
	require.NoError(t, err)
	assert.Equal(t, ScanResult{Found: 3, Added: 3}, result)

	img, err := images.GetByFilename(ctx, "nested/deep/B.JPG")
	require.NoError(t, err)
	require.NotNil(t, img)
	assert.Equal(t, "sample_images/nested/deep/B.JPG", img.Path)

	writeFiles(t, root, "d.gif")
	result, err = scanner.Scan(ctx)
	require.NoError(t, err)
	assert.Equal(t, ScanResult{Found: 4, Added: 1, Skipped: 3}, result)

	count, err := images.Count(ctx, "anyone", model.FilterAll)
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestScanner_MissingDirectory(t *testing.T) {
	db, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer db.Close()

	scanner := NewScanner(filepath.Join(t.TempDir(), "missing"), "img", sqlite.NewImageRepository(db), logger.Nop())
	_, err = scanner.Scan(context.Background())
	assert.Error(t, err)
}

func TestScanner_URLPath(t *testing.T) {
	assert.Equal(t, "img/a/b.png", NewScanner(".", "img", nil, logger.Nop()).URLPath("a/b.png"))
	assert.Equal(t, "a/b.png", NewScanner(".", "", nil, logger.Nop()).URLPath("a/b.png"))
}

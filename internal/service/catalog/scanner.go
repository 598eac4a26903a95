package catalog

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"imagerater/internal/logger"
	"imagerater/internal/model"
	"imagerater/internal/repository"
)

// SupportedExtensions lists the image file extensions picked up by a scan.
var SupportedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".webp": true,
}

// ScanResult summarizes one catalog scan.
type ScanResult struct {
	Found   int
	Added   int
	Skipped int
}

// Scanner registers the images found under a directory.
type Scanner struct {
	root      string
	urlPrefix string
	images    repository.ImageRepository
	logger    *logger.Logger
}

// NewScanner creates a Scanner for root. Registered images are served
// under urlPrefix.
func NewScanner(root, urlPrefix string, images repository.ImageRepository, logger *logger.Logger) *Scanner {
	return &Scanner{
		root:      root,
		urlPrefix: strings.Trim(urlPrefix, "/"),
		images:    images,
		logger:    logger,
	}
}

// Scan walks the directory recursively and inserts every supported image
// whose relative path is not registered yet.
func (s *Scanner) Scan(ctx context.Context) (ScanResult, error) {
	var result ScanResult

	err := filepath.WalkDir(s.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !SupportedExtensions[strings.ToLower(filepath.Ext(d.Name()))] {
			return nil
		}

		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return err
		}
		filename := filepath.ToSlash(rel)
		result.Found++

		existing, err := s.images.GetByFilename(ctx, filename)
		if err != nil {
			return err
		}
		if existing != nil {
			result.Skipped++
			return nil
		}

		img := &model.Image{Filename: filename, Path: s.URLPath(filename)}
		if _, err := s.images.Insert(ctx, img); err != nil {
			return err
		}
		s.logger.Debug("Registered image %s", filename)
		result.Added++
		return nil
	})
	if err != nil {
		return result, fmt.Errorf("failed to scan %s: %w", s.root, err)
	}

	s.logger.Info("Catalog scan of %s: %d found, %d added", s.root, result.Found, result.Added)
	return result, nil
}

// URLPath returns the path an image with the given relative filename is
// served under.
func (s *Scanner) URLPath(filename string) string {
	if s.urlPrefix == "" {
		return filename
	}
	return path.Join(s.urlPrefix, filename)
}

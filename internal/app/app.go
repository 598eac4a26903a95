package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"imagerater/internal/config"
	"imagerater/internal/logger"
	"imagerater/internal/repository/sqlite"
	"imagerater/internal/route"
	"imagerater/internal/service"
	"imagerater/internal/service/catalog"
	"imagerater/internal/service/websocket"
)

type App struct {
	config     *config.Config
	logger     *logger.Logger
	db         *sqlite.DB
	scanner    *catalog.Scanner
	hubService *websocket.HubService
	manager    *service.Manager
}

func NewApp(cfg *config.Config) (*App, error) {
	log, err := logger.NewLogger(cfg)
	if err != nil {
		return nil, err
	}

	app, err := newApp(cfg, log)
	if err != nil {
		log.Close()
		return nil, err
	}
	return app, nil
}

func newApp(cfg *config.Config, log *logger.Logger) (*App, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	if err := os.MkdirAll(cfg.ImageDirectory, 0755); err != nil {
		return nil, fmt.Errorf("failed to create image directory: %w", err)
	}

	db, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	images := sqlite.NewImageRepository(db)
	ratings := sqlite.NewRatingRepository(db)
	hub := websocket.NewHubService(log.With("hub"))

	return &App{
		config:     cfg,
		logger:     log,
		db:         db,
		scanner:    catalog.NewScanner(cfg.ImageDirectory, cfg.ImageURLPrefix, images, log.With("catalog")),
		hubService: hub,
		manager:    service.NewManager(images, ratings, hub, log.With("manager")),
	}, nil
}

// Run registers the image directory, then serves HTTP until ctx is done.
func (a *App) Run(ctx context.Context) error {
	defer a.logger.Close()
	defer a.db.Close()

	if _, err := a.scanner.Scan(ctx); err != nil {
		return err
	}

	go a.hubService.Run(ctx)

	router := route.SetupRoutes(a.manager, a.hubService, a.config, a.logger)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", a.config.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	a.logger.Info("Image Rater server listening on http://localhost:%d", a.config.Port)
	a.logger.Info("Images: %s (served under /%s/)", a.config.ImageDirectory, a.config.ImageURLPrefix)
	a.logger.Info("Database: %s", a.config.DatabasePath)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		a.logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}

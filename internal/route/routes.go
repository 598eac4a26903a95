package route

import (
	"net/http"

	"imagerater/internal/config"
	"imagerater/internal/handler"
	"imagerater/internal/logger"
	"imagerater/internal/middleware"
	"imagerater/internal/service"
	"imagerater/internal/service/websocket"
)

// SetupRoutes registers the API endpoints, image and UI file serving, and
// wraps the mux with CORS and request logging.
func SetupRoutes(manager *service.Manager, hub *websocket.HubService, cfg *config.Config, log *logger.Logger) http.Handler {
	mux := http.NewServeMux()
	apiLog := log.With("api")

	// Image bytes and UI assets
	imagePrefix := "/" + cfg.ImageURLPrefix + "/"
	mux.Handle("GET "+imagePrefix, http.StripPrefix(imagePrefix, http.FileServer(http.Dir(cfg.ImageDirectory))))
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir))))

	// API endpoints
	mux.HandleFunc("GET /api/images", handler.ListImagesHandler(manager, cfg, apiLog))
	mux.HandleFunc("GET /api/images/count", handler.CountsHandler(manager, apiLog))
	mux.HandleFunc("GET /api/images/find", handler.FindImageHandler(manager, cfg, apiLog))
	mux.HandleFunc("POST /api/images/{id}/rate", handler.RateImageHandler(manager, apiLog))
	mux.HandleFunc("GET /api/ratings/summary", handler.SummaryHandler(manager, apiLog))
	mux.HandleFunc("GET /api/ratings/summary.csv", handler.SummaryCSVHandler(manager, apiLog))
	mux.HandleFunc("GET /api/ws", handler.RatingEventsHandler(hub, log.With("websocket")))

	// Log endpoints
	for name, file := range map[string]string{
		"info":    logger.InfoFile,
		"warning": logger.WarningFile,
		"error":   logger.ErrorFile,
	} {
		mux.HandleFunc("GET /logs/"+name, handler.ShowLogsHandler(log, file))
		mux.HandleFunc("POST /logs/"+name+"/clear", handler.ClearLogsHandler(log, file))
	}

	// Automatic HTML handler mapping for example: /summary -> <static>/summary.html
	mux.HandleFunc("GET /", handler.PageHandler(cfg.StaticDir))

	cors := middleware.CORS(cfg.AllowedOrigins)
	return middleware.RequestLog(log.With("http"))(cors(mux))
}

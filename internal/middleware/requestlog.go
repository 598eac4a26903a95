package middleware

import (
	"net/http"
	"time"

	"imagerater/internal/logger"

	"github.com/gorilla/websocket"
	"github.com/rs/xid"
)

// RequestIDHeader carries the id assigned to every request.
const RequestIDHeader = "X-Request-ID"

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// RequestLog tags every request with an id and logs method, path, status
// and duration at debug level (warning for 5xx).
func RequestLog(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := xid.New().String()
			w.Header().Set(RequestIDHeader, id)

			// The websocket upgrade needs the raw http.Hijacker.
			if websocket.IsWebSocketUpgrade(r) {
				log.Debug("%s %s upgrade (%s)", r.Method, r.URL.Path, id)
				next.ServeHTTP(w, r)
				return
			}

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()
			next.ServeHTTP(rec, r)

			event := log.Zerolog().Debug()
			if rec.status >= 500 {
				event = log.Zerolog().Warn()
			}
			event.Str("request_id", id).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", rec.status).
				Dur("duration", time.Since(start)).
				Msg("request")
		})
	}
}

package handler

import (
	"net/http"
	"time"

	"imagerater/internal/logger"
	"imagerater/internal/service/websocket"

	gorilla "github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

// PongWait is how long a viewer may stay silent before it is dropped. Pings
// are sent at 9/10 of it; clients answer them automatically.
var PongWait = 60 * time.Second

var Upgrader = gorilla.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// RatingEventsHandler upgrades the connection and registers it with the hub
// until the viewer goes away.
func RatingEventsHandler(hub *websocket.HubService, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		connection, err := Upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Warning("WebSocket upgrade error: %v", err)
			return
		}
		pongWait := PongWait
		connection.SetReadLimit(512)
		connection.SetReadDeadline(time.Now().Add(pongWait))
		connection.SetPongHandler(func(appData string) error {
			connection.SetReadDeadline(time.Now().Add(pongWait))
			return nil
		})

		hub.Register(connection)
		defer hub.Unregister(connection)

		done := make(chan struct{})
		defer close(done)
		go ping(connection, pongWait*9/10, done, logger)

		for {
			if _, _, err := connection.ReadMessage(); err != nil {
				logger.Debug("Viewer read ended: %v", err)
				break
			}
		}
	}
}

// ping keeps an idle viewer alive until done is closed or a ping fails.
// WriteControl may run concurrently with the hub's broadcasts.
func ping(connection *gorilla.Conn, period time.Duration, done <-chan struct{}, logger *logger.Logger) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := connection.WriteControl(gorilla.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				logger.Debug("Ping failed: %v", err)
				return
			}
		}
	}
}

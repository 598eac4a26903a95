package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"imagerater/internal/dto"

	"github.com/gorilla/websocket"
)

// WatchRatings subscribes to rating events and calls fn for each until ctx
// is done or the connection fails.
func (c *Client) WatchRatings(ctx context.Context, fn func(dto.RatingEvent)) error {
	wsURL := "ws" + strings.TrimPrefix(c.baseURL, "http") + "/api/ws"

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", wsURL, err)
	}
	defer conn.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("rating event stream ended: %w", err)
		}

		var event dto.RatingEvent
		if err := json.Unmarshal(msg, &event); err != nil {
			c.logger.Warning("Ignoring malformed event: %v", err)
			continue
		}
		if event.Type == dto.RatingEventType {
			fn(event)
		}
	}
}

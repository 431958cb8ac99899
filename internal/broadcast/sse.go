package broadcast

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const heartbeatInterval = 25 * time.Second

// SSEHandler streams registry events to a single HTTP client as Server-Sent
// Events. No handshake payload is required on connect.
type SSEHandler struct {
	registry *Registry
}

func NewSSEHandler(registry *Registry) *SSEHandler {
	return &SSEHandler{registry: registry}
}

// Stream handles GET /events. The connection stays open until the client
// disconnects; each broadcast event is written as an "event:"/"data:" frame.
//
// @Summary      Subscribe to real-time task events
// @Tags         events
// @Produce      text/event-stream
// @Success      200
// @Router       /events [get]
func (h *SSEHandler) Stream(c echo.Context) error {
	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set("Connection", "keep-alive")
	res.WriteHeader(http.StatusOK)
	res.Flush()

	client := NewClient()
	h.registry.Register(client)
	defer h.registry.Unregister(client)

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-heartbeat.C:
			// Comment frame keeps intermediaries from closing idle streams.
			if _, err := fmt.Fprint(res, ": ping\n\n"); err != nil {
				return nil
			}
			res.Flush()
		case ev, ok := <-client.Events():
			if !ok {
				return nil
			}
			data, err := json.Marshal(ev.Payload)
			if err != nil {
				continue
			}
			if _, err := fmt.Fprintf(res, "event: %s\ndata: %s\n\n", ev.Name, data); err != nil {
				return nil
			}
			res.Flush()
		}
	}
}

package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	echo "github.com/labstack/echo/v5"

	"github.com/codeready-toolchain/workflow-fabric/pkg/apierrors"
	"github.com/codeready-toolchain/workflow-fabric/pkg/events"
)

const keepAliveInterval = 30 * time.Second

// eventsHandler handles GET /events: an SSE stream supporting Last-Event-ID
// replay with a keep-alive comment every 30s so
// intermediate proxies don't idle-close the connection.
func (s *Server) eventsHandler(c *echo.Context) error {
	var lastEventID int64
	if raw := c.Request().Header.Get("Last-Event-ID"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			lastEventID = id
		}
	}

	sessionID := fmt.Sprintf("sse-%d", time.Now().UnixNano())
	sub, err := s.bus.Subscribe(c.Request().Context(), sessionID, lastEventID)
	if err != nil {
		return apierrors.New(apierrors.SSECapacityFull, "too many live subscribers")
	}
	defer sub.Close()

	resp := c.Response()
	h := resp.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	resp.WriteHeader(http.StatusOK)
	resp.Flush()

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := fmt.Fprint(resp, ": keep-alive\n\n"); err != nil {
				return nil
			}
			resp.Flush()
		case delivered, ok := <-sub.Events():
			if !ok {
				return nil
			}
			if err := writeSSEEvent(resp, delivered); err != nil {
				return nil
			}
			resp.Flush()
		}
	}
}

func writeSSEEvent(w http.ResponseWriter, d events.Delivered) error {
	payload := d.Data
	if payload == nil {
		payload = json.RawMessage("{}")
	}
	if d.ID > 0 {
		if _, err := fmt.Fprintf(w, "id: %d\n", d.ID); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", d.Type, payload)
	return err
}

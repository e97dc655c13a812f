package api

import (
	"context"
	"net/http"
	"time"

	echo "github.com/labstack/echo/v5"
)

type healthResponse struct {
	Status     string `json:"status"`
	DB         bool   `json:"db"`
	SSEClients int    `json:"sseClients"`
	UptimeMS   int64  `json:"uptimeMs"`
}

// healthHandler handles GET /health: 200 if storage is reachable, 503
// otherwise.
func (s *Server) healthHandler(c *echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	dbOK := s.store.Ping(ctx) == nil
	resp := healthResponse{
		DB:         dbOK,
		SSEClients: s.bus.SubscriberCount(),
		UptimeMS:   time.Since(s.startedAt).Milliseconds(),
	}

	if !dbOK {
		resp.Status = "degraded"
		return c.JSON(http.StatusServiceUnavailable, resp)
	}
	resp.Status = "ok"
	return c.JSON(http.StatusOK, resp)
}

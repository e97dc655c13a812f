// Package api wires the workflow factory's core packages into an HTTP
// surface: generation, simulation, pipeline CRUD/execution, the SSE event
// stream, and health/metrics, behind the closed error-code envelope
// apierrors defines.
package api

import (
	"context"
	"net"
	"net/http"
	"time"

	echo "github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/codeready-toolchain/workflow-fabric/pkg/cache"
	"github.com/codeready-toolchain/workflow-fabric/pkg/config"
	"github.com/codeready-toolchain/workflow-fabric/pkg/events"
	"github.com/codeready-toolchain/workflow-fabric/pkg/generation"
	"github.com/codeready-toolchain/workflow-fabric/pkg/metrics"
	"github.com/codeready-toolchain/workflow-fabric/pkg/pipeline"
	"github.com/codeready-toolchain/workflow-fabric/pkg/sandbox"
	"github.com/codeready-toolchain/workflow-fabric/pkg/store"
)

// Server is the HTTP API server.
type Server struct {
	echo       *echo.Echo
	httpServer *http.Server

	cfg          *config.Config
	store        *store.Store
	orchestrator *generation.Orchestrator
	sandbox      *sandbox.Sandbox
	executor     *pipeline.Executor
	bus          *events.Bus
	metrics      *metrics.Registry
	suggestCache *cache.Cache

	startedAt time.Time
}

// NewServer wires every handler group onto a fresh Echo instance.
func NewServer(
	cfg *config.Config,
	st *store.Store,
	orchestrator *generation.Orchestrator,
	sb *sandbox.Sandbox,
	executor *pipeline.Executor,
	bus *events.Bus,
	reg *metrics.Registry,
) *Server {
	e := echo.New()

	s := &Server{
		echo:         e,
		cfg:          cfg,
		store:        st,
		orchestrator: orchestrator,
		sandbox:      sb,
		executor:     executor,
		bus:          bus,
		metrics:      reg,
		suggestCache: cache.New(1, cfg.Pipeline.SuggestCacheTTL),
		startedAt:    time.Now(),
	}

	e.HTTPErrorHandler = s.errorHandler
	e.Validator = newStructValidator()
	s.setupRoutes()
	return s
}

// setupRoutes registers every route this server handles.
func (s *Server) setupRoutes() {
	s.echo.Use(middleware.BodyLimit(4 * 1024 * 1024))

	s.echo.GET("/health", s.healthHandler)
	s.echo.GET("/events", s.eventsHandler)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	s.echo.POST("/generate", s.generateHandler)
	s.echo.POST("/simulate", s.simulateHandler)

	s.echo.POST("/pipelines", s.createPipelineHandler)
	s.echo.GET("/pipelines", s.listPipelinesHandler)
	s.echo.GET("/pipelines/suggest", s.suggestPipelinesHandler)
	s.echo.GET("/pipelines/metrics", s.pipelineMetricsHandler)
	s.echo.POST("/pipelines/check-compatibility", s.checkCompatibilityHandler)
	s.echo.GET("/pipelines/:id", s.getPipelineHandler)
	s.echo.PUT("/pipelines/:id", s.updatePipelineHandler)
	s.echo.DELETE("/pipelines/:id", s.deletePipelineHandler)
	s.echo.GET("/pipelines/:id/history", s.pipelineHistoryHandler)
	s.echo.POST("/pipelines/:id/execute", s.executePipelineHandler)
}

// Start starts the HTTP server on addr (blocking).
func (s *Server) Start(addr string) error {
	s.httpServer = &http.Server{Addr: addr, Handler: s.echo}
	return s.httpServer.ListenAndServe()
}

// StartWithListener starts the HTTP server on a pre-created listener, used
// by test infrastructure to serve on a random OS-assigned port.
func (s *Server) StartWithListener(ln net.Listener) error {
	s.httpServer = &http.Server{Handler: s.echo}
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

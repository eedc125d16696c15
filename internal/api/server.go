// Package api assembles the Echo HTTP server for market-appraiser.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gearmarket/market-appraiser/api/openapi"
	"github.com/gearmarket/market-appraiser/internal/api/handlers"
	"github.com/gearmarket/market-appraiser/internal/api/middleware"
	"github.com/gearmarket/market-appraiser/internal/config"
	"github.com/gearmarket/market-appraiser/internal/engine"
	"github.com/gearmarket/market-appraiser/internal/store"
)

// Server wraps the Echo instance with its wired routes.
type Server struct {
	echo *echo.Echo
	addr string
	log  *slog.Logger
}

// NewServer builds the HTTP server: middleware, operational endpoints, and
// the /api/v1 route tree.
func NewServer(
	cfg *config.ServerConfig,
	s store.Store,
	eng *engine.Engine,
	log *slog.Logger,
) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.ReadTimeout
	e.Server.WriteTimeout = cfg.WriteTimeout

	e.Use(middleware.Recovery(log))
	e.Use(middleware.RequestLog(log))
	e.Use(middleware.Metrics())

	registerRoutes(e, s, eng)

	return &Server{
		echo: e,
		addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		log:  log,
	}
}

func registerRoutes(e *echo.Echo, s store.Store, eng *engine.Engine) {
	health := handlers.NewHealthHandler(s)
	e.GET("/healthz", health.Healthz)
	e.GET("/readyz", health.Readyz)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	openapi.RegisterRoutes(e)

	listings := handlers.NewListingsHandler(s)
	valuation := handlers.NewValuationHandler(s, eng)
	diagnostics := handlers.NewDiagnosticsHandler(s)
	comparables := handlers.NewComparablesHandler(s)
	alerts := handlers.NewAlertsHandler(s)

	v1 := e.Group("/api/v1")

	v1.POST("/listings", listings.CreateListing)
	v1.GET("/listings", listings.ListListings)
	v1.GET("/listings/:id", listings.GetListing)
	v1.PATCH("/listings/:id/status", listings.SetStatus)

	v1.GET("/listings/:id/value", valuation.GetValue)
	v1.GET("/listings/:id/analysis", valuation.GetAnalysis)
	v1.GET("/listings/:id/trust", valuation.GetTrust)

	v1.POST("/listings/:id/diagnostics", diagnostics.CreateDiagnostic)
	v1.GET("/listings/:id/diagnostics/latest", diagnostics.GetLatestDiagnostic)

	v1.GET("/comparables", comparables.ListComparables)
	v1.POST("/comparables", comparables.CreateComparable)

	v1.GET("/alerts", alerts.ListPendingAlerts)
}

// Start begins serving. It blocks until the server stops.
func (s *Server) Start() error {
	s.log.Info("starting server", "addr", s.addr)
	return s.echo.Start(s.addr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Handler exposes the underlying HTTP handler for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

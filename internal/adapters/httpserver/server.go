// Package httpserver exposes the application queries as a JSON HTTP API
package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/andrescamacho/agroinsight-go/internal/adapters/cache"
	"github.com/andrescamacho/agroinsight-go/internal/application/logging"
	"github.com/andrescamacho/agroinsight-go/internal/application/mediator"
	"github.com/andrescamacho/agroinsight-go/internal/domain/shared"
	"github.com/andrescamacho/agroinsight-go/internal/infrastructure/config"
)

// Options configures the HTTP server
type Options struct {
	Config         config.ServerConfig
	Logger         logging.Logger
	Clock          shared.Clock
	Caches         []*cache.ResponseCache
	MetricsPath    string
	MetricsHandler http.Handler
}

// Server is the gin HTTP surface over the mediator
type Server struct {
	engine   *gin.Engine
	server   *http.Server
	mediator mediator.Mediator
	logger   logging.Logger
	clock    shared.Clock
	caches   []*cache.ResponseCache
}

// NewServer builds the engine and registers every route
func NewServer(m mediator.Mediator, opts Options) *Server {
	if opts.Clock == nil {
		opts.Clock = shared.NewRealClock()
	}
	if opts.Logger == nil {
		opts.Logger = logging.FromContext(context.Background())
	}
	if opts.Config.Mode != "" {
		gin.SetMode(opts.Config.Mode)
	}

	s := &Server{
		engine:   gin.New(),
		mediator: m,
		logger:   opts.Logger,
		clock:    opts.Clock,
		caches:   opts.Caches,
	}

	s.engine.Use(gin.CustomRecovery(s.recover))
	s.engine.Use(s.requestContext())
	s.registerRoutes(opts.MetricsPath, opts.MetricsHandler)

	s.server = &http.Server{
		Addr:              opts.Config.Address,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       opts.Config.ReadTimeout,
		WriteTimeout:      opts.Config.WriteTimeout,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// Handler returns the root handler, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.engine
}

// ListenAndServe blocks until the server stops. A graceful shutdown is not an error.
func (s *Server) ListenAndServe() error {
	s.logger.Log(logging.LevelInfo, "HTTP server starting", map[string]interface{}{
		"address": s.server.Addr,
	})
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully drains in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Log(logging.LevelInfo, "Shutting down HTTP server", nil)
	return s.server.Shutdown(ctx)
}

func (s *Server) registerRoutes(metricsPath string, metricsHandler http.Handler) {
	s.engine.GET("/healthz", s.health)
	if metricsHandler != nil {
		if metricsPath == "" {
			metricsPath = "/metrics"
		}
		s.engine.GET(metricsPath, gin.WrapH(metricsHandler))
	}

	api := s.engine.Group("/api")
	{
		agmarknet := api.Group("/agmarknet")
		{
			agmarknet.GET("/commodities", s.listCommodities)
			agmarknet.GET("/geographies", s.listGeographies)
			agmarknet.POST("/markets", s.listMarkets)
			agmarknet.POST("/prices", s.listPrices)
		}

		api.GET("/prices/current", s.currentPrices)
		api.GET("/irrigation-tips", s.irrigationTips)
		api.GET("/soil", s.soilProfile)
		api.GET("/weather", s.weather)
		api.GET("/cache/stats", s.cacheStats)
	}
}

func (s *Server) recover(c *gin.Context, recovered interface{}) {
	logging.FromContext(c.Request.Context()).Log(logging.LevelError, "Panic while handling request", map[string]interface{}{
		"path":  c.Request.URL.Path,
		"panic": recovered,
	})
	c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// Package server wires the preview service together.
package server

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	apihttp "github.com/microapp/previewd/internal/api/http"
	"github.com/microapp/previewd/internal/api/middleware"
	"github.com/microapp/previewd/internal/domain/session"
	"github.com/microapp/previewd/internal/infrastructure/config"
	"github.com/microapp/previewd/internal/infrastructure/logging"
	"github.com/microapp/previewd/internal/infrastructure/monitoring"
	"github.com/microapp/previewd/internal/preview"
	"github.com/microapp/previewd/internal/preview/sandbox"
	"github.com/microapp/previewd/internal/schema"
	"github.com/microapp/previewd/internal/ws"
)

// Server wraps the HTTP server and dependencies.
type Server struct {
	router  *gin.Engine
	session *session.Manager
	pool    *sandbox.Pool
	logger  *logging.Logger
	config  *config.Config
	metrics *monitoring.Metrics
}

// NewServer creates a new server instance.
func NewServer(cfg *config.Config) (*Server, error) {
	var logger *logging.Logger
	if cfg.Logging.Development {
		logger = logging.NewDevelopment()
	} else {
		logger = logging.NewDefault()
	}

	logger.Info("Initializing preview service",
		zap.String("port", cfg.Server.Port),
		zap.Duration("sandbox_timeout", cfg.Sandbox.Timeout),
	)

	metrics := monitoring.NewMetrics()

	sandboxCfg := sandbox.DefaultConfig()
	sandboxCfg.Timeout = cfg.Sandbox.Timeout
	pool, err := sandbox.NewPool(sandboxCfg, cfg.Sandbox.PoolSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create sandbox pool: %w", err)
	}

	builder := preview.NewBuilder(sandbox.NewDiscoverer(pool), logger)
	validator := schema.NewWithLimit(cfg.Limits.MaxMessageBytes)
	sess := session.NewManager(validator, builder, logger).WithMetrics(metrics)

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	handlers := apihttp.NewHandlers(sess, logger, metrics, int64(cfg.Limits.MaxMessageBytes))
	wsHandler := ws.NewHandler(sess, logger, metrics, int64(cfg.Limits.MaxMessageBytes))

	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)

	// Message channel
	router.GET("/stream", wsHandler.HandleConnection)
	router.POST("/messages", handlers.PostMessage)

	// Presentation-facing snapshots
	router.GET("/project", handlers.GetProject)
	router.GET("/files", handlers.ListFiles)
	router.POST("/files/select", handlers.SelectFile)
	router.GET("/files/selected", handlers.GetSelectedFile)
	router.GET("/preview", handlers.GetPreview)
	router.GET("/status", handlers.GetStatus)
	router.GET("/rejections", handlers.GetRejections)
	router.GET("/snapshot", handlers.GetSnapshot)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	logger.Info("Server initialized successfully")

	return &Server{
		router:  router,
		session: sess,
		pool:    pool,
		logger:  logger,
		config:  cfg,
		metrics: metrics,
	}, nil
}

// Run starts the HTTP server.
func (s *Server) Run() error {
	addr := s.config.Server.Host + ":" + s.config.Server.Port
	s.logger.Info("Starting HTTP server", zap.String("addr", addr))
	return s.router.Run(addr)
}

// Close releases server resources.
func (s *Server) Close() error {
	s.logger.Info("Shutting down server...")
	s.session.Close()
	if err := s.pool.Close(); err != nil {
		s.logger.Error("Failed to close sandbox pool", zap.Error(err))
		return err
	}
	return nil
}

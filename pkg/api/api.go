// Package api assembles the HTTP surface: the JSON API under /api, the health
// endpoint and the embedded dashboard SPA.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/frontdesk/frontdesk/pkg/config"
	"github.com/frontdesk/frontdesk/pkg/system"
)

type APIController interface {
	BasePath() string
	Register(rg *gin.RouterGroup) error
	Handlers() []gin.HandlerFunc
}

// HealthChecker reports whether the backing store is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

type Server struct {
	gin    *gin.Engine
	config config.Config
	health HealthChecker
	log    *zap.Logger
}

func NewServer(log *zap.Logger, cfg config.Config, debug bool, health HealthChecker) *Server {
	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(
		ginzap.Ginzap(log, time.RFC3339, true),
		ginzap.RecoveryWithZap(log, true),
		requestLogger(log.Sugar()),
	)
	if len(cfg.Server.TrustedProxies) > 0 {
		_ = engine.SetTrustedProxies(cfg.Server.TrustedProxies)
	}

	engine.NoRoute(ServeSPA("/", cfg.Frontend.DistDir))

	if debug {
		engine.Use(
			cors.New(cors.Config{
				AllowOrigins: []string{"http://localhost:5173", "127.0.0.1:8000"},
				AllowMethods: []string{"GET", "PUT", "PATCH", "POST", "OPTIONS"},
				AllowHeaders: []string{"Origin", "Authorization", "Content-Type"},
				MaxAge:       12 * time.Hour,
			}),
		)
	}

	s := &Server{
		gin:    engine,
		config: cfg,
		health: health,
		log:    log,
	}

	engine.GET("healthz", s.healthz)
	engine.GET("api/config", s.getConfig)

	return s
}

func (s *Server) RegisterAll(controllers []APIController) error {
	r := s.gin.Group("api")
	for _, c := range controllers {
		if err := c.Register(r.Group(c.BasePath(), c.Handlers()...)); err != nil {
			return err
		}
	}
	return nil
}

// Engine exposes the underlying router for tests.
func (s *Server) Engine() *gin.Engine {
	return s.gin
}

func (s *Server) Listen() error {
	return s.gin.Run(s.config.Server.ListenAddress)
}

// requestLogger attaches a request-scoped sugared logger to the gin context so
// handlers can log with the method and path already bound.
func requestLogger(log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(system.ReqLoggerKey, log.With(
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
		))
		c.Next()
	}
}

func (s *Server) healthz(c *gin.Context) {
	if s.health != nil {
		if err := s.health.Ping(c.Request.Context()); err != nil {
			s.log.Error("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// FrontendConfig is the runtime configuration served to the dashboard.
type FrontendConfig struct {
	BrandingName string `json:"brandingName"`
	TTLSeconds   int    `json:"ttlSeconds"`
}

func (s *Server) getConfig(c *gin.Context) {
	c.JSON(http.StatusOK, FrontendConfig{
		BrandingName: s.config.Frontend.BrandingName,
		TTLSeconds:   s.config.Requests.TTLSeconds,
	})
}

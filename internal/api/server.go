// Package api exposes the questionnaire catalog over HTTP. The API layer is
// a thin wrapper: registry lookup, validate, score — each request is an
// idempotent, pure function of its inputs.
package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/psyq-catalog-server/internal/config"
	"github.com/psyq-catalog-server/internal/service"
)

// Server is the HTTP server wrapping the catalog service.
type Server struct {
	manager *config.Manager
	catalog *service.Catalog
	logger  *logrus.Logger
	router  *gin.Engine
	server  *http.Server
}

// NewServer creates the HTTP server and wires routes and middleware.
func NewServer(manager *config.Manager, catalog *service.Catalog, logger *logrus.Logger) *Server {
	if logger == nil {
		logger = logrus.New()
	}
	cfg := manager.GetConfig()

	if cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(requestIDMiddleware())
	router.Use(rateLimitMiddleware(cfg.RateLimit))

	s := &Server{
		manager: manager,
		catalog: catalog,
		logger:  logger,
		router:  router,
	}
	s.setupRoutes()
	return s
}

// Router exposes the gin engine, used by tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start runs the HTTP server until the context is cancelled, then shuts
// down gracefully.
func (s *Server) Start(ctx context.Context) error {
	cfg := s.manager.GetServerConfig()

	s.server = &http.Server{
		Addr:         s.manager.ListenAddr(),
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	s.logger.WithField("addr", s.server.Addr).Info("HTTP server started")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	v1 := s.router.Group("/api/v1")
	{
		v1.GET("/questionnaires", s.handleListQuestionnaires)
		v1.GET("/questionnaires/:code", s.handleGetQuestionnaire)
		v1.GET("/questionnaires/:code/questions", s.handleGetQuestions)
		v1.POST("/questionnaires/:code/validate", s.handleValidate)
		v1.POST("/questionnaires/:code/score", s.handleScore)
		v1.POST("/questionnaires/batch-score", s.handleBatchScore)
		v1.GET("/visits/:type/questionnaires", s.handleVisitQuestionnaires)
	}
}

// corsMiddleware adds CORS headers to responses.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// requestIDMiddleware attaches a unique request ID to each request.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header("X-Request-ID", requestID)
		c.Set("request_id", requestID)
		c.Next()
	}
}

// rateLimitMiddleware applies a per-client token bucket keyed by client IP.
func rateLimitMiddleware(cfg config.RateLimitConfig) gin.HandlerFunc {
	var (
		mu       sync.Mutex
		limiters = make(map[string]*rate.Limiter)
	)

	limiterFor := func(key string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()
		l, ok := limiters[key]
		if !ok {
			l = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst)
			limiters[key] = l
		}
		return l
	}

	return func(c *gin.Context) {
		if !limiterFor(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded",
			})
			return
		}
		c.Next()
	}
}

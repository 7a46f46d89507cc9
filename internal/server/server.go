// Package server exposes the tracker over a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"leettrack/internal/app"
	"leettrack/internal/tracker"
)

// Server routes API requests to the application services.
type Server struct {
	app      *app.App
	engine   *gin.Engine
	sessions *sessionRegistry
	metrics  *Metrics
	limiter  *rateLimiter
	logger   tracker.Logger

	quit     chan struct{}
	quitOnce sync.Once
}

// New builds the router for a. The JWT secret must be configured.
func New(a *app.App) (*Server, error) {
	cfg := a.Config().Server
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("server.jwt_secret (or LEETTRACK_JWT_SECRET) must be set")
	}

	s := &Server{
		app:      a,
		sessions: newSessionRegistry(a.Session),
		metrics:  NewMetrics(),
		limiter:  newRateLimiter(cfg.RateLimitPerMinute),
		logger:   a.Logger(),
		quit:     make(chan struct{}),
	}
	s.limiter.onReject = s.metrics.RateLimited.Inc
	s.engine = s.routes([]byte(cfg.JWTSecret), cfg.AllowedOrigins)
	return s, nil
}

func (s *Server) routes(secret []byte, origins []string) *gin.Engine {
	r := gin.New()
	r.Use(s.requestLogger())
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		s.logger.Error("handler panicked", "path", c.Request.URL.Path, "panic", recovered)
		fail(c, http.StatusInternalServerError, codeInternal, "internal error")
	}))
	r.Use(s.metrics.Middleware())

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 1 && origins[0] == "*" {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	} else {
		corsCfg.AllowOrigins = origins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(c *gin.Context) {
		success(c, gin.H{"status": "ok", "online": s.app.Monitor().Online()})
	})
	r.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	api := r.Group("/api")
	api.Use(authRequired(secret), s.limiter.middleware())

	api.GET("/problems", s.listProblems)
	api.POST("/problems", s.addProblem)
	api.GET("/problems/watch", s.watchProblems)
	api.GET("/problems/:id", s.getProblem)
	api.PUT("/problems/:id", s.updateProblem)
	api.DELETE("/problems/:id", s.deleteProblem)

	api.GET("/stats/summary", s.statsSummary)
	api.GET("/stats/heatmap", s.statsHeatmap)
	api.GET("/stats/topics", s.statsTopics)
	api.GET("/stats/difficulty", s.statsDifficulty)
	api.GET("/stats/companies", s.statsCompanies)
	api.GET("/stats/timeline", s.statsTimeline)
	api.GET("/stats/rank-history", s.statsRankHistory)

	api.GET("/settings", s.getSettings)
	api.PATCH("/settings", s.patchSettings)
	api.POST("/connection/retry", s.retryConnection)

	api.GET("/contests", s.listContests)
	api.POST("/contests", s.addContest)

	api.GET("/profile/stats", s.profileStats)

	r.NoRoute(func(c *gin.Context) {
		fail(c, http.StatusNotFound, codeNoRoute, "api route not found")
	})

	return r
}

// requestLogger logs one line per request through the application logger.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		args := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).Round(time.Microsecond),
		}
		if identity := identityFrom(c); identity.Valid() {
			args = append(args, "user", identity.UserID)
		}
		if errs := c.Errors.String(); errs != "" {
			args = append(args, "errors", errs)
		}

		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			s.logger.Error("request", args...)
		case c.Writer.Status() >= http.StatusBadRequest:
			s.logger.Warn("request", args...)
		default:
			s.logger.Debug("request", args...)
		}
	}
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Metrics returns the server's collectors.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		s.Close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving http: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Snapshot streams never go idle on their own.
	s.stopStreams()
	err := srv.Shutdown(shutdownCtx)
	s.Close()
	if err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	return nil
}

func (s *Server) stopStreams() {
	s.quitOnce.Do(func() { close(s.quit) })
}

// Close ends open snapshot streams and releases every per-user session.
func (s *Server) Close() {
	s.stopStreams()
	s.sessions.closeAll()
}

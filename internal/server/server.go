// Package server exposes document analysis and university research over HTTP
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ppiankov/claimaudit/internal/logging"
	"github.com/ppiankov/claimaudit/internal/metrics"
	"github.com/ppiankov/claimaudit/internal/model"
)

// Version is reported by the capability endpoint
const Version = "4.0.0"

// DocumentAnalyzer audits an uploaded document
type DocumentAnalyzer interface {
	Analyze(ctx context.Context, req model.AnalyzeRequest) (*model.AuditReport, error)
	Mode() model.AnalysisMode
}

// UniversityResearcher looks up the web reputation of a university
type UniversityResearcher interface {
	Search(ctx context.Context, university string) (*model.UniversitySearchResult, error)
}

// Options holds the server collaborators
type Options struct {
	Config   model.ServerConfig
	Analyzer DocumentAnalyzer
	Reviews  UniversityResearcher // nil disables /reviews
	Metrics  *metrics.Metrics
	Logger   *zap.Logger
}

// Server is the HTTP API
type Server struct {
	cfg      model.ServerConfig
	engine   *gin.Engine
	analyzer DocumentAnalyzer
	reviews  UniversityResearcher
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// New builds the router. gin's mode is left to the caller.
func New(opts Options) *Server {
	s := &Server{
		cfg:      opts.Config,
		analyzer: opts.Analyzer,
		reviews:  opts.Reviews,
		metrics:  opts.Metrics,
		logger:   logging.OrNop(opts.Logger),
	}

	r := gin.New()
	r.Use(RequestLogger(s.logger))
	r.Use(Metrics(s.metrics))
	r.Use(Recovery(s.logger))
	r.Use(corsMiddleware(opts.Config.AllowOrigins))

	r.GET("/", s.handleRoot)
	r.GET("/status", s.handleStatus)
	r.POST("/analyze", s.handleAnalyze)
	if s.reviews != nil {
		r.GET("/reviews", s.handleReviews)
	}
	r.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	s.engine = r
	return s
}

// Handler returns the router
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is done, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.engine,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		s.logger.Info("server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("listen on %s: %w", addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.logger.Info("shutting down server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	cfg.AllowAllOrigins = len(origins) == 0
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
		}
	}
	if !cfg.AllowAllOrigins {
		cfg.AllowOrigins = origins
	}
	cfg.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	return cors.New(cfg)
}

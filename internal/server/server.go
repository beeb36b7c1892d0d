// Package server provides the HTTP REST API for leadprep.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"reflect"
	"strings"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jonathan/leadprep/internal/cache"
	"github.com/jonathan/leadprep/internal/interviews"
	"github.com/jonathan/leadprep/internal/leaders"
	"github.com/jonathan/leadprep/internal/types"
)

// CompanyService resolves a company URL to its leaders.
type CompanyService interface {
	CompanyInfo(ctx context.Context, rawURL string) (*leaders.CompanyInfo, error)
}

// InterviewFinder ranks media appearances for a set of leaders.
type InterviewFinder interface {
	ForLeaders(ctx context.Context, leaders []types.Leader, org string) []interviews.LeaderInterviews
}

// Researcher produces research briefs.
type Researcher interface {
	Research(ctx context.Context, lead types.Lead) (*types.ResearchBrief, error)
	ResearchBatch(ctx context.Context, leads []types.Lead) []types.ResearchResult
}

// OpenerGenerator drafts openers from research.
type OpenerGenerator interface {
	Generate(ctx context.Context, brief *types.ResearchBrief, lead types.Lead, productContext string) (string, error)
	GenerateBatch(ctx context.Context, results []types.ResearchResult, productContext string) []types.Opener
}

// CacheAdmin exposes cache maintenance.
type CacheAdmin interface {
	Stats() cache.Stats
	Clear() error
}

// Config holds server configuration. Only Companies is required; routes
// whose backend is nil answer 503.
type Config struct {
	Port       int
	Companies  CompanyService
	Finder     InterviewFinder
	Researcher Researcher
	Openers    OpenerGenerator
	Cache      CacheAdmin
	Logger     *slog.Logger
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	companies  CompanyService
	finder     InterviewFinder
	researcher Researcher
	openers    OpenerGenerator
	cache      CacheAdmin
	validate   *validator.Validate
	logger     *slog.Logger
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	if cfg.Companies == nil {
		return nil, fmt.Errorf("server requires a company service")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &Server{
		companies:  cfg.Companies,
		finder:     cfg.Finder,
		researcher: cfg.Researcher,
		openers:    cfg.Openers,
		cache:      cfg.Cache,
		validate:   newValidator(),
		logger:     logger.With("component", "server"),
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // Long timeout for batch research
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("POST /analyze", s.handleAnalyze)
	mux.HandleFunc("POST /interviews", s.handleInterviews)
	mux.HandleFunc("POST /research", s.handleResearch)
	mux.HandleFunc("POST /research/stream", s.handleResearchStream)

	mux.HandleFunc("GET /cache/stats", s.handleCacheStats)
	mux.HandleFunc("DELETE /cache", s.handleCacheClear)

	return s.withLogging(s.withCORS(mux))
}

// Start begins listening for requests and blocks until SIGINT/SIGTERM.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}
	s.logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Flush keeps SSE streaming working through the logging wrapper.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"remote", r.RemoteAddr,
			"status", rec.status,
			"duration", time.Since(start))
	})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("error encoding JSON response", "error", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// errorFromErr writes err with the status HTTPStatus assigns it.
func (s *Server) errorFromErr(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	s.errorResponse(w, status, err.Error())
}

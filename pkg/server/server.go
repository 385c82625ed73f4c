package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"mercator-hq/meridian/pkg/config"
	"mercator-hq/meridian/pkg/location"
)

// Server is the admin HTTP server.
type Server struct {
	config       config.ServerConfig
	resolver     *location.Resolver
	metricsPath  string
	metrics      http.Handler
	logger       *slog.Logger
	httpServer   *http.Server
	shutdownOnce sync.Once
	mu           sync.Mutex
	isRunning    bool
}

// NewServer creates an admin server over the given resolver. metrics may
// be nil, in which case no metrics endpoint is mounted.
func NewServer(cfg config.ServerConfig, resolver *location.Resolver, metricsPath string, metrics http.Handler) *Server {
	return &Server{
		config:      cfg,
		resolver:    resolver,
		metricsPath: metricsPath,
		metrics:     metrics,
		logger:      slog.Default().With("component", "server"),
	}
}

// Start starts the HTTP server and blocks until ctx is cancelled or the
// listener fails.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true

	s.httpServer = &http.Server{
		Addr:         s.config.ListenAddress,
		Handler:      s.routes(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}
	s.mu.Unlock()

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("starting admin server", "address", s.config.ListenAddress)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if !s.isRunning {
			return
		}

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("error during server shutdown", "error", err)
			shutdownErr = fmt.Errorf("server shutdown error: %w", err)
		}

		s.isRunning = false
		s.logger.Info("admin server stopped")
	})

	return shutdownErr
}

// routes builds the handler tree. Exposed for tests via Handler.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/v1/resolve", s.handleResolve)
	mux.HandleFunc("/v1/match", s.handleMatch)
	mux.HandleFunc("/v1/context", s.handleContext)
	mux.HandleFunc("/healthz", s.handleHealth)

	if s.metrics != nil && s.metricsPath != "" {
		mux.Handle(s.metricsPath, s.metrics)
	}

	return s.logRequests(mux)
}

// Handler returns the server's handler tree without starting a listener.
func (s *Server) Handler() http.Handler {
	return s.routes()
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request handled",
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	locationType := r.URL.Query().Get("type")
	if locationType == "" {
		writeError(w, http.StatusBadRequest, "missing required parameter: type")
		return
	}
	path := r.URL.Query().Get("path")

	url := s.resolver.ResolveURL(locationType, path, nil)
	node := s.resolver.GetNode(locationType, nil)

	response := map[string]any{
		"url": url,
	}
	if node != nil {
		response["node"] = node
	}
	writeJSON(w, http.StatusOK, response)
}

func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	target := r.URL.Query().Get("url")
	if target == "" {
		writeError(w, http.StatusBadRequest, "missing required parameter: url")
		return
	}

	node := s.resolver.GetNodeByURI(target)
	if node == nil {
		writeJSON(w, http.StatusOK, map[string]any{"matched": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"matched": true,
		"node":    node,
	})
}

func (s *Server) handleContext(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx := s.resolver.Context()
	writeJSON(w, http.StatusOK, map[string]any{
		"environment":           ctx.Environment,
		"residency":             ctx.Residency,
		"locationId":            ctx.LocationID,
		"accessibleLocationIds": ctx.AccessibleLocationIDs,
		"actingUrl":             s.resolver.ActingURL(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"locations": s.resolver.Registry().Len(),
		"timestamp": time.Now().Unix(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg})
}

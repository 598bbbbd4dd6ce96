// Package web serves a finished run over HTTP: the report JSON and the
// exported song files.
package web

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pulselab/brandtune/internal/report"
)

// DefaultAddr is the default server address.
const DefaultAddr = "127.0.0.1:8080"

// ServerConfig holds server configuration.
type ServerConfig struct {
	Addr      string
	OutputDir string
	Logger    *slog.Logger
}

// Server is the HTTP server for run artifacts.
type Server struct {
	router    chi.Router
	server    *http.Server
	outputDir string
	log       *slog.Logger
}

// NewServer creates a new artifact server rooted at the output directory
// of a completed run.
func NewServer(cfg ServerConfig) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	router := chi.NewRouter()
	s := &Server{
		router:    router,
		outputDir: cfg.OutputDir,
		log:       cfg.Logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupMiddleware configures middleware for the router.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
}

// setupRoutes configures routes for the application.
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)
	s.router.Get("/api/report", s.handleReport)

	// Song files live under <output>/songs.
	songServer := http.FileServer(http.Dir(filepath.Join(s.outputDir, "songs")))
	s.router.Handle("/songs/*", http.StripPrefix("/songs/", songServer))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// handleReport returns the persisted report for the served run.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	path := filepath.Join(s.outputDir, report.FileName)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		http.Error(w, "no report found; run the pipeline first", http.StatusNotFound)
		return
	}
	if err != nil {
		s.log.Error("reading report", "path", path, "error", err)
		http.Error(w, "reading report", http.StatusInternalServerError)
		return
	}
	if !json.Valid(data) {
		s.log.Error("report is not valid JSON", "path", path)
		http.Error(w, "report is corrupt", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.log.Info("starting server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Run starts the server and handles graceful shutdown on interrupt signals.
func (s *Server) Run() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		if err := s.Start(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-stop:
		s.log.Info("shutting down server")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	s.log.Info("server stopped")
	return nil
}

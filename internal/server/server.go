package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/flocard/browserd/internal/browser"
)

// Server exposes the browser executor over HTTP.
type Server struct {
	addr   string
	exec   *browser.Executor
	router chi.Router
	logger *slog.Logger
}

// New builds the router. mcpHandler, when non-nil, is mounted at /mcp.
func New(addr string, exec *browser.Executor, mcpHandler http.Handler) *Server {
	s := &Server{
		addr:   addr,
		exec:   exec,
		logger: slog.Default().With("component", "server"),
	}

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)

	r.Get("/", s.handleRoot)
	r.Get("/fetch/{query}", s.handleFetch)
	r.Post("/navigate", s.handleNavigate)
	r.Post("/navigate_to_url", s.handleNavigateToURL)
	r.Post("/click", s.handleClick)
	r.Post("/fill", s.handleFill)
	r.Post("/screenshot", s.handleScreenshot)
	r.Post("/eval", s.handleEval)
	r.Post("/close", s.handleClose)
	if mcpHandler != nil {
		r.Mount("/mcp", mcpHandler)
	}

	s.router = r
	return s
}

// Handler returns the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until the context is cancelled, then shuts down gracefully
// and closes any running browser session.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:        s.addr,
		Handler:     s.router,
		IdleTimeout: 120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	err := httpServer.Shutdown(shutdownCtx)

	if _, releaseErr := s.exec.Manager().Release(); releaseErr != nil {
		s.logger.Warn("error closing browser during shutdown", "error", releaseErr)
	}
	return err
}

// Package server serves composed documents, thumbnails and PDFs over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"pageforge/compose"
	"pageforge/library"
	"pageforge/preview"
)

// Printer renders print documents to PDF and page thumbnails to PNG.
type Printer interface {
	PDF(ctx context.Context, html string) ([]byte, error)
	Screenshot(ctx context.Context, html string, width, height int) ([]byte, error)
}

type Config struct {
	Addr  string
	Scale float64
}

type Server struct {
	router  chi.Router
	lib     *library.Library
	builder *compose.Builder
	preview *preview.Renderer
	printer Printer
	log     *zap.Logger
	cfg     Config
	now     func() time.Time
}

// New creates the server. printer may be nil; PDF and PNG routes then
// answer 503.
func New(lib *library.Library, printer Printer, log *zap.Logger, cfg Config) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Scale <= 0 {
		cfg.Scale = preview.DefaultScale
	}
	s := &Server{
		lib:     lib,
		builder: compose.NewBuilder(log),
		preview: preview.NewRenderer(log),
		printer: printer,
		log:     log.Named("server"),
		cfg:     cfg,
		now:     time.Now,
	}
	s.setupRoutes()
	return s
}

// WithClock fixes the date placeholders of everything the server renders.
func (s *Server) WithClock(now func() time.Time) *Server {
	s.now = now
	s.builder = s.builder.WithClock(now)
	s.preview = s.preview.WithClock(now)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))
	r.Use(middleware.NoCache)

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/collections", s.handleListCollections)
		r.Get("/collections/{colID}", s.handleGetCollection)
		r.Get("/snippets", s.handleListSnippets)
	})

	r.Route("/collections/{colID}", func(r chi.Router) {
		r.Get("/document", s.handleDocument)
		r.Get("/document.pdf", s.handlePDF)
		r.Get("/items/{item}/pages/{pos}/thumbnail", s.handlePageThumbnail)
		r.Get("/items/{item}/pages/{pos}/thumbnail.png", s.handlePageImage)
	})
	r.Get("/snippets/{snipID}/preview", s.handleSnippetPreview)

	s.router = r
}

// ListenAndServe serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("Listening", zap.String("addr", s.cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

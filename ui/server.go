// Package ui is the web-service shell around the report pipeline:
// upload handling, download serving, health, metrics. The core neither
// knows nor cares that it is driven over HTTP.
package ui

import (
	"net/http"
	"time"

	"github.com/Ivanfun/ivan-excel-type-checker/app"
	"github.com/Ivanfun/ivan-excel-type-checker/internal"
	"github.com/Ivanfun/ivan-excel-type-checker/internal/config"
	"github.com/Ivanfun/ivan-excel-type-checker/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/semaphore"
)

// Server represents the web server wrapping the report service.
type Server struct {
	router         *chi.Mux
	service        *app.ReportService
	store          *storage.OutputStore
	logger         *internal.Logger
	jobs           *semaphore.Weighted
	maxUploadBytes int64
}

// NewServer creates a server instance with all routes mounted.
func NewServer(service *app.ReportService, store *storage.OutputStore, cfg *config.Config, logger *internal.Logger) *Server {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	s := &Server{
		router:         chi.NewRouter(),
		service:        service,
		store:          store,
		logger:         logger,
		jobs:           semaphore.NewWeighted(int64(cfg.Upload.MaxConcurrentJobs)),
		maxUploadBytes: int64(cfg.Upload.MaxFileSizeMB) << 20,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.router

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	r.Post("/upload", s.handleUpload)
	r.Get("/download/{filename}", s.handleDownload)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start blocks serving HTTP on the given port.
func (s *Server) Start(port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("[Server] listening on :%s", port)
	return srv.ListenAndServe()
}

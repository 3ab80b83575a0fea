package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/edvin/statusboard/internal/api/handler"
	mw "github.com/edvin/statusboard/internal/api/middleware"
	"github.com/edvin/statusboard/internal/config"
	"github.com/edvin/statusboard/internal/core"
)

type Server struct {
	router   chi.Router
	logger   zerolog.Logger
	services *core.Services
	stream   *handler.Stream
	cfg      *config.Config
}

// NewServer builds the HTTP surface over an already wired service
// bundle. The stream is the broadcaster registered as an event sink on
// the tree.
func NewServer(logger zerolog.Logger, services *core.Services, stream *handler.Stream, cfg *config.Config) *Server {
	s := &Server{
		router:   chi.NewRouter(),
		logger:   logger,
		services: services,
		stream:   stream,
		cfg:      cfg,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(mw.RequestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(mw.Metrics)
}

func (s *Server) setupRoutes() {
	// Prometheus metrics endpoint
	s.router.Handle("/metrics", promhttp.Handler())

	// Health check endpoint
	s.router.Get("/healthz", s.handleHealthz)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(mw.Auth(s.cfg.APIToken))

		item := handler.NewItem(s.services.Tree)
		r.Get("/tree", item.Tree)
		r.Get("/items/{id}", item.Get)
		r.Post("/items/{parentID}/children", item.Create)
		r.Put("/items/{id}", item.Update)
		r.Delete("/items/{parentID}/children/{id}", item.Delete)
		r.Delete("/items/{id}/children", item.Clear)
		r.Post("/items/{id}/state", item.SetState)
		r.Post("/items/{id}/enabled", item.SetEnabled)

		dashboard := handler.NewDashboard(s.services.Tree, s.services.Notifications)
		r.Get("/summary", dashboard.Summary)
		r.Get("/notifications", dashboard.Notifications)
	})

	// The event stream sits outside /api/v1: browsers cannot set an
	// Authorization header on a WebSocket handshake.
	s.router.Get("/events", s.stream.Connect)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/meltforce/trainload/internal/catalog"
	"github.com/meltforce/trainload/internal/metrics"
	"github.com/meltforce/trainload/internal/models"
	"github.com/meltforce/trainload/internal/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Store is the persistence the handlers need. *storage.DB implements it.
type Store interface {
	CreateSession(ctx context.Context, p models.SessionPayload) (models.APISession, error)
	ListSessions(ctx context.Context, f models.SessionFilter) ([]models.APISession, error)
	CreateWellnessLog(ctx context.Context, in models.WellnessInput) (models.APIWellnessLog, error)
	ListWellnessLogs(ctx context.Context, f models.WellnessFilter) ([]models.APIWellnessLog, error)
	ListBodyPartProfiles(ctx context.Context, archived *bool) ([]models.BodyPartProfile, error)
	GetProfile(ctx context.Context, id int) (models.BodyPartProfile, error)
	CreateProfile(ctx context.Context, in models.ProfileInput) (models.BodyPartProfile, error)
	ArchiveProfile(ctx context.Context, id int) (models.BodyPartProfile, error)
	UnarchiveProfile(ctx context.Context, id int) (models.BodyPartProfile, error)
}

var _ Store = (*storage.DB)(nil)

// Server holds dependencies for HTTP handlers.
type Server struct {
	store   Store
	cat     *catalog.Catalog
	metrics *metrics.Manager
	log     *slog.Logger
	apiKey  string
	router  chi.Router
}

// New creates a new Server with all routes configured.
func New(store Store, cat *catalog.Catalog, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		store:  store,
		cat:    cat,
		log:    log,
		apiKey: apiKey,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(s.requestMetrics)
	s.router.Use(CORS)

	s.router.Get("/api/config", s.handleConfig)

	s.router.Route("/api/sessions", func(r chi.Router) {
		r.Get("/", s.handleListSessions)
		r.With(APIKeyAuth(s.apiKey)).Post("/", s.handleCreateSession)
	})

	s.router.Route("/api/wellness", func(r chi.Router) {
		r.Get("/", s.handleListWellness)
		r.With(APIKeyAuth(s.apiKey)).Post("/", s.handleCreateWellness)
		r.Get("/{metric}/series", s.handleWellnessSeries)
	})

	s.router.Get("/api/analytics/volume", s.handleVolumeSeries)

	s.router.Route("/body-part-profiles", func(r chi.Router) {
		r.Get("/", s.handleListProfiles)
		r.Get("/{id}", s.handleGetProfile)
		r.Group(func(r chi.Router) {
			r.Use(APIKeyAuth(s.apiKey))
			r.Post("/", s.handleCreateProfile)
			r.Patch("/{id}/archive", s.handleArchiveProfile)
			r.Patch("/{id}/unarchive", s.handleUnarchiveProfile)
		})
	})
}

// SetMetrics enables request metrics and mounts /metrics for the given registry.
func (s *Server) SetMetrics(m *metrics.Manager, g prometheus.Gatherer) {
	s.metrics = m
	s.router.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
}

// SetMCP mounts the streamable MCP endpoint behind API key auth.
func (s *Server) SetMCP(h http.Handler) {
	s.router.With(APIKeyAuth(s.apiKey)).Handle("/mcp", h)
}

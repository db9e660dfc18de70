// Package api exposes the navigator over HTTP: filter option lists, record
// listings, browsing sessions and the informational pages.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/okian/olympicsnav/internal/domain/catalog"
	"github.com/okian/olympicsnav/internal/domain/types"
	"github.com/okian/olympicsnav/pkg/logger"
)

// Request limits.
const (
	maxBodyBytes   = 64 << 10
	requestTimeout = 30 * time.Second
)

// RecordsDependencies answers stateless filter queries.
type RecordsDependencies interface {
	Options(ctx context.Context, season, sport types.Selection) (types.OptionSet, error)
	Filter(ctx context.Context, state types.FilterState, offset, limit int) (types.ResultPage, error)
}

// SessionDependencies manages browsing sessions.
type SessionDependencies interface {
	CreateSession(ctx context.Context) (types.SessionView, error)
	Session(ctx context.Context, id string) (types.SessionView, error)
	UpdateSession(ctx context.Context, id string, change types.StateChange) (types.SessionView, error)
	SessionRecords(ctx context.Context, id string, offset, limit int) (types.ResultPage, error)
	DeleteSession(ctx context.Context, id string) error
}

// ContentDependencies serves the informational pages and the host map.
type ContentDependencies interface {
	Pages(ctx context.Context) ([]catalog.RenderedPage, error)
	Page(ctx context.Context, slug string) (catalog.RenderedPage, error)
	Overview(ctx context.Context) (catalog.RenderedPage, error)
	Citations(ctx context.Context) ([]string, error)
	HostPoints(ctx context.Context) ([]catalog.Point, error)
}

// Dependencies required by HTTP handlers.
type Dependencies interface {
	RecordsDependencies
	SessionDependencies
	ContentDependencies
}

// Server wires HTTP routes for the navigator API.
type Server struct {
	deps          Dependencies
	logger        logger.Logger
	limiter       *RateLimiter
	stats         StatsProvider
	healthHandler *HealthHandler
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithServerLogger sets the logger used for failed requests.
func WithServerLogger(l logger.Logger) ServerOption {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRateLimiter limits /api requests per client. A nil limiter disables it.
func WithRateLimiter(l *RateLimiter) ServerOption {
	return func(s *Server) { s.limiter = l }
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...ServerOption) *Server {
	s := &Server{
		deps:          deps,
		logger:        logger.Discard(),
		stats:         statsProvider,
		healthHandler: NewHealthHandler(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/dashboard", dashboardHandler())
	mux.HandleFunc("/stats", MetricsMiddleware(s.handleStats, "stats"))
	mux.Handle("/api/", s.Routes())
}

// Routes returns the /api router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(requestTimeout))

	r.Route("/api", func(r chi.Router) {
		r.Use(s.limiter.Middleware("api"))

		r.Get("/options", MetricsMiddleware(s.handleOptions, "options"))
		r.Get("/records", MetricsMiddleware(s.handleRecords, "records"))

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", MetricsMiddleware(s.handleCreateSession, "sessions"))
			r.Get("/{id}", MetricsMiddleware(s.handleGetSession, "session"))
			r.Patch("/{id}", MetricsMiddleware(s.handleUpdateSession, "session"))
			r.Delete("/{id}", MetricsMiddleware(s.handleDeleteSession, "session"))
			r.Get("/{id}/records", MetricsMiddleware(s.handleSessionRecords, "session_records"))
		})

		r.Get("/overview", MetricsMiddleware(s.handleOverview, "overview"))
		r.Get("/pages", MetricsMiddleware(s.handlePages, "pages"))
		r.Get("/pages/{slug}", MetricsMiddleware(s.handlePage, "page"))
		r.Get("/citations", MetricsMiddleware(s.handleCitations, "citations"))
		r.Get("/hosts", MetricsMiddleware(s.handleHosts, "hosts"))
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Code: "not_found", Message: "no such route"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, NewKind("route", ErrMethodNotAllowed))
	})
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status, code := classify(err)
	writeJSON(w, status, errorResponse{Code: code, Message: err.Error()})
}

// fail writes err and logs it when it is the server's fault.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	if status >= statusInternalError {
		log := s.logger.With(logger.String("request_id", chimw.GetReqID(r.Context())))
		log.Error(r.Context(), "request failed",
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.String("code", code),
			logger.Error(err))
	}
	writeJSON(w, status, errorResponse{Code: code, Message: err.Error()})
}

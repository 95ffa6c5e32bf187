// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/okian/festboard/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	FestivalStats
	LeaderboardDependencies
	ReportDependencies
	ListDependencies
	FacetDependencies
	DisplayDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	leaderboardHandler *LeaderboardHandler
	reportHandler      *ReportHandler
	listHandler        *ListHandler
	facetHandler       *FacetHandler
	displayHandler     *DisplayHandler
	logger             logger.Logger
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	cfg := defaultOptions()
	for _, opt := range opts {
		opt(cfg)
	}
	validate := validator.New(validator.WithRequiredStructEnabled())

	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider, deps),
		leaderboardHandler: NewLeaderboardHandler(deps, cfg.maxLimit),
		reportHandler:      NewReportHandler(deps),
		listHandler:        NewListHandler(deps),
		facetHandler:       NewFacetHandler(deps, validate),
		displayHandler:     NewDisplayHandler(deps, cfg.pingInterval, cfg.logger),
		logger:             cfg.logger,
	}
}

// Register attaches all HTTP routes to r.
func (s *Server) Register(r chi.Router) {
	r.Get("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	r.Get("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	r.Get("/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))

	r.Route("/reports", func(r chi.Router) {
		r.Get("/merit", MetricsMiddleware(s.reportHandler.HandleMerit, "reports_merit"))
		r.Get("/items", MetricsMiddleware(s.reportHandler.HandleItems, "reports_items"))
	})

	r.Get("/participants", MetricsMiddleware(s.listHandler.HandleParticipants, "participants"))
	r.Get("/items", MetricsMiddleware(s.listHandler.HandleItems, "items"))
	r.Get("/schedule", MetricsMiddleware(s.listHandler.HandleSchedule, "schedule"))
	r.Get("/results", MetricsMiddleware(s.listHandler.HandleResults, "results"))

	r.Route("/facets", func(r chi.Router) {
		r.Get("/options", MetricsMiddleware(s.facetHandler.HandleOptions, "facets_options"))
		r.Post("/apply", MetricsMiddleware(s.facetHandler.HandleApply, "facets_apply"))
	})

	r.Route("/display", func(r chi.Router) {
		r.Get("/", MetricsMiddleware(s.displayHandler.HandleGet, "display"))
		r.Get("/stream", MetricsMiddleware(s.displayHandler.HandleStream, "display_stream"))
		r.Post("/pause", MetricsMiddleware(s.displayHandler.HandlePause, "display_pause"))
		r.Post("/resume", MetricsMiddleware(s.displayHandler.HandleResume, "display_resume"))
		r.Post("/mode/{mode}", MetricsMiddleware(s.displayHandler.HandleMode, "display_mode"))
	})
}

// Handler returns a chi router carrying the standard middleware stack and
// every API route. Further routes may be mounted on it.
func (s *Server) Handler() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(s.logger))
	r.Use(middleware.Recoverer)
	s.Register(r)
	return r
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeFailure picks the status from the kind carried by err.
func writeFailure(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrBadRequest):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, ErrUnavailable):
		writeError(w, http.StatusServiceUnavailable, "unavailable", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}

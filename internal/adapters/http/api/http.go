// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dalmatianosrs/RuneTracker-Pro/internal/adapters/repository"
	"github.com/dalmatianosrs/RuneTracker-Pro/internal/adapters/stats"
	service "github.com/dalmatianosrs/RuneTracker-Pro/internal/app"
	"github.com/dalmatianosrs/RuneTracker-Pro/internal/domain/model"
	"github.com/dalmatianosrs/RuneTracker-Pro/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the service implementation.
type Dependencies interface {
	Lookup(ctx context.Context, subject string) (service.LookupResult, error)
	History(ctx context.Context, subject string) (model.SubjectHistory, bool)
	Histories(ctx context.Context) []types.HistorySummary
	ClearAll(ctx context.Context) error
}

// Server wires HTTP routes for the tracker API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	lookupHandler  *LookupHandler
	historyHandler *HistoryHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		lookupHandler:  NewLookupHandler(deps),
		historyHandler: NewHistoryHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("GET /lookup/{subject}", MetricsMiddleware(s.lookupHandler.HandleLookup, "lookup"))
	mux.HandleFunc("GET /lookup/{$}", MetricsMiddleware(s.lookupHandler.HandleLookup, "lookup"))
	mux.HandleFunc("GET /history", MetricsMiddleware(s.historyHandler.HandleList, "history"))
	mux.HandleFunc("DELETE /history", MetricsMiddleware(s.historyHandler.HandleClear, "history"))
	mux.HandleFunc("GET /history/{subject}", MetricsMiddleware(s.historyHandler.HandleSeries, "history_series"))
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

// lookupStatus maps a lookup failure to a status, an error code and a
// message fit for display.
func lookupStatus(err error) (int, string, string) {
	switch {
	case errors.Is(err, service.ErrEmptySubject):
		return http.StatusBadRequest, "bad_request", "Enter a player name."
	case errors.Is(err, stats.ErrNotFound):
		return http.StatusNotFound, "not_found", stats.Message(err)
	case errors.Is(err, stats.ErrPrivateProfile):
		return http.StatusForbidden, "profile_private", stats.Message(err)
	case errors.Is(err, stats.ErrConnection):
		return http.StatusServiceUnavailable, "connection_failed", stats.Message(err)
	case errors.Is(err, stats.ErrRelay), errors.Is(err, stats.ErrParse):
		return http.StatusBadGateway, "relay_error", stats.Message(err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, "connection_failed", err.Error()
	}
	return http.StatusInternalServerError, "internal_error", err.Error()
}

// persistError describes a snapshot that could not be saved, nil otherwise.
func persistError(err error) *errorResponse {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrStorageFull):
		return &errorResponse{Code: "storage_full", Message: repository.ErrStorageFull.Error()}
	}
	return &errorResponse{Code: "persistence_error", Message: repository.ErrPersistence.Error()}
}

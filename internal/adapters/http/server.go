// Package http exposes the lint pipeline over a small JSON API:
// dispatch runs, inspect their state, scrape metrics.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sort"

	"github.com/aretw0/stylebot/pkg/domain"
	"github.com/aretw0/stylebot/pkg/ports"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dispatcher starts pipeline runs in the background.
type Dispatcher interface {
	DispatchAsync(ctx context.Context, repo, ref string) (*domain.Run, error)
}

// Server routes API requests to the dispatcher and run store.
type Server struct {
	dispatcher Dispatcher
	store      ports.RunStore
	logger     *slog.Logger
}

// DispatchRequest is the body of POST /dispatch.
type DispatchRequest struct {
	Repo string `json:"repo"`
	Ref  string `json:"ref,omitempty"`
}

// DispatchResponse acknowledges an accepted run.
type DispatchResponse struct {
	RunID string `json:"run_id"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewHandler creates the HTTP handler for the API.
func NewHandler(dispatcher Dispatcher, store ports.RunStore, logger *slog.Logger, gatherer prometheus.Gatherer) http.Handler {
	s := &Server{dispatcher: dispatcher, store: store, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Post("/dispatch", s.handleDispatch)
	r.Get("/runs", s.handleListRuns)
	r.Get("/runs/{id}", s.handleGetRun)
	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleDispatch accepts a run and hands it to the dispatcher. The
// response carries the run ID so clients can poll /runs/{id}.
func (s *Server) handleDispatch(w http.ResponseWriter, r *http.Request) {
	var body DispatchRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if body.Repo == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "repo is required"})
		return
	}

	run, err := s.dispatcher.DispatchAsync(r.Context(), body.Repo, body.Ref)
	if err != nil {
		s.logger.Error("failed to dispatch run", "repo", body.Repo, "err", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "could not start run"})
		return
	}
	writeJSON(w, http.StatusAccepted, DispatchResponse{RunID: run.ID})
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	ids, err := s.store.List(r.Context())
	if err != nil {
		s.logger.Error("failed to list runs", "err", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "could not list runs"})
		return
	}
	sort.Strings(ids)

	runs := make([]*domain.Run, 0, len(ids))
	for _, id := range ids {
		run, err := s.store.Load(r.Context(), id)
		if err != nil {
			// Run deleted between List and Load.
			continue
		}
		runs = append(runs, run)
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	run, err := s.store.Load(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrRunNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "run not found"})
			return
		}
		s.logger.Error("failed to load run", "run_id", id, "err", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "could not load run"})
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/brigantine-ci/brigantine/internal/core"
	"github.com/brigantine-ci/brigantine/internal/storage"
)

// APIHandler serves the operator endpoints: triggering an exec run and
// listing build history.
type APIHandler struct {
	dispatcher core.JobDispatcher
	store      storage.Store
	logger     *slog.Logger
}

// NewAPIHandler creates the operator API handler. The store may be nil when
// build history is disabled.
func NewAPIHandler(dispatcher core.JobDispatcher, store storage.Store, logger *slog.Logger) *APIHandler {
	return &APIHandler{
		dispatcher: dispatcher,
		store:      store,
		logger:     logger,
	}
}

type execRequest struct {
	Ref    string `json:"ref"`
	Commit string `json:"commit"`
}

type execResponse struct {
	BuildID string `json:"build_id"`
}

// Exec queues a synthetic exec event that runs the test pipeline.
func (h *APIHandler) Exec(w http.ResponseWriter, r *http.Request) {
	var req execRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	event := core.NewExecEvent(req.Ref, req.Commit)
	if err := h.dispatcher.Dispatch(r.Context(), event); err != nil {
		h.logger.Error("failed to dispatch exec event", "error", err)
		http.Error(w, "Failed to queue event", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	_ = json.NewEncoder(w).Encode(execResponse{BuildID: event.BuildID})
}

// Builds lists recent build records, newest first.
func (h *APIHandler) Builds(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		http.Error(w, "Build history is not configured", http.StatusNotFound)
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	records, err := h.store.RecentBuilds(r.Context(), limit)
	if err != nil {
		h.logger.Error("failed to list builds", "error", err)
		http.Error(w, "Failed to list builds", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(records)
}

package main

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/CTAG07/MarkovMania/pkg/history"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 500
)

// HistoryAPI serves the generation history.
type HistoryAPI struct {
	store  *history.Store
	logger *slog.Logger
}

func NewHistoryAPI(store *history.Store, logger *slog.Logger) *HistoryAPI {
	return &HistoryAPI{
		store:  store,
		logger: logger,
	}
}

// RegisterRoutes sets up the routing for all /api/history endpoints.
func (h *HistoryAPI) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/history", h.handleRecent)
	mux.HandleFunc("/api/history/", h.handleEntryByID)
}

func (h *HistoryAPI) handleRecent(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) || !requireScope(w, r, scopeHistoryRead) {
		return
	}

	limit := defaultHistoryLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			respondWithError(w, http.StatusBadRequest, "Invalid 'limit' query parameter")
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	entries, err := h.store.Recent(r.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to query history", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Database query failed")
		return
	}
	respondWithJSON(w, http.StatusOK, entries)
}

func (h *HistoryAPI) handleEntryByID(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) || !requireScope(w, r, scopeHistoryRead) {
		return
	}

	id := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/api/history/"), "/")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "Missing entry ID in URL")
		return
	}

	entry, err := h.store.Get(r.Context(), id)
	if errors.Is(err, history.ErrNotFound) {
		respondWithError(w, http.StatusNotFound, "History entry not found")
		return
	}
	if err != nil {
		h.logger.Error("Failed to get history entry", "id", id, "error", err)
		respondWithError(w, http.StatusInternalServerError, "Database query failed")
		return
	}
	respondWithJSON(w, http.StatusOK, entry)
}

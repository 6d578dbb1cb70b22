package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/CTAG07/MarkovMania/pkg/corpus"
	"github.com/CTAG07/MarkovMania/pkg/markov"
)

// MarkovAPI holds the dependencies for the chain API handlers.
type MarkovAPI struct {
	app            *App
	maxCorpusBytes int64
	logger         *slog.Logger
}

// NewMarkovAPI creates a new instance of the MarkovAPI.
func NewMarkovAPI(app *App, maxCorpusBytes int64, logger *slog.Logger) *MarkovAPI {
	return &MarkovAPI{
		app:            app,
		maxCorpusBytes: maxCorpusBytes,
		logger:         logger,
	}
}

// RegisterRoutes sets up the routing for all /api/markov endpoints.
func (m *MarkovAPI) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/markov/train", m.handleTrain)
	mux.HandleFunc("/api/markov/generate", m.handleGenerate)
	mux.HandleFunc("/api/markov/stats", m.handleStats)
	mux.HandleFunc("/api/markov/successors", m.handleSuccessors)
}

// SuccessorsResponse lists what may follow a word, with frequencies.
type SuccessorsResponse struct {
	Word       string              `json:"word"`
	Total      int                 `json:"total"`
	Successors []markov.ChainToken `json:"successors"`
}

// handleTrain replaces the chain with one trained on the request body, one
// line per sentence.
func (m *MarkovAPI) handleTrain(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) || !requireScope(w, r, scopeMarkovTrain) {
		return
	}

	lines, err := corpus.ReadLines(r.Body, m.maxCorpusBytes)
	switch {
	case errors.Is(err, corpus.ErrTooLarge):
		respondWithError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("Corpus exceeds the limit of %d bytes", m.maxCorpusBytes))
		return
	case err != nil && !errors.Is(err, corpus.ErrEmpty):
		m.logger.Error("Failed to read corpus from request", "error", err)
		respondWithError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	result := m.app.Train(lines, "api")
	m.logger.Info("Chain trained via API", "lines", result.Lines, "words", result.Stats.Words)
	respondWithJSON(w, http.StatusOK, result)
}

func (m *MarkovAPI) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) || !requireScope(w, r, scopeMarkovGenerate) {
		return
	}

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondWithError(w, http.StatusBadRequest, "Invalid JSON request body")
		return
	}
	if req.WordLimit != nil {
		if *req.WordLimit < 0 {
			respondWithError(w, http.StatusBadRequest, "word_limit must not be negative")
			return
		}
		if *req.WordLimit == 0 {
			req.WordLimit = nil
		}
	}

	result, err := m.app.Generate(r.Context(), req)
	if errors.Is(err, ErrEmptyResult) {
		respondWithError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err != nil {
		m.logger.Error("Failed to generate text", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Generation failed")
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

func (m *MarkovAPI) handleStats(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) || !requireScope(w, r, scopeMarkovRead) {
		return
	}
	respondWithJSON(w, http.StatusOK, m.app.Trained())
}

func (m *MarkovAPI) handleSuccessors(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) || !requireScope(w, r, scopeMarkovRead) {
		return
	}

	word := strings.TrimSpace(r.URL.Query().Get("word"))
	if word == "" {
		respondWithError(w, http.StatusBadRequest, "Missing 'word' query parameter")
		return
	}

	tokens, total := m.app.NextTokens(word)
	if tokens == nil {
		tokens = []markov.ChainToken{}
	}
	respondWithJSON(w, http.StatusOK, SuccessorsResponse{
		Word:       word,
		Total:      total,
		Successors: tokens,
	})
}

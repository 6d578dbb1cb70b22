package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/CTAG07/MarkovMania/pkg/corpus"
	"github.com/CTAG07/MarkovMania/pkg/history"
	"github.com/CTAG07/MarkovMania/pkg/markov"
)

// ErrEmptyResult is returned when generation produced no text, which happens
// when no seed was given and the chain learned no transitions.
var ErrEmptyResult = errors.New("nothing generated: the corpus has no line with two or more words")

// GenerateRequest holds the caller-supplied parameters for one generation.
type GenerateRequest struct {
	Seed      string `json:"seed"`
	WordLimit *int   `json:"word_limit,omitempty"` // nil picks a random limit from the configured range
}

// GenerateResult is the outcome of one generation.
type GenerateResult struct {
	Text      string `json:"text"`
	Words     int    `json:"words"`
	WordLimit int    `json:"word_limit"`
	HistoryID string `json:"history_id,omitempty"`
}

// TrainResult describes the corpus the chain is currently trained on.
type TrainResult struct {
	Source string       `json:"source"`
	Lines  int          `json:"lines"`
	Stats  markov.Stats `json:"stats"`
}

// App owns the trained chain and applies the application's policies around
// it. The chain itself is not safe for concurrent use, so every access goes
// through mu.
type App struct {
	mu      sync.Mutex
	chain   *markov.Chain
	trained TrainResult
	cfg     GeneratorConfig
	store   *history.Store
	rng     *rand.Rand
	logger  *slog.Logger
}

// NewApp creates an App with an untrained chain. store may be nil, in which
// case nothing is recorded.
func NewApp(cfg GeneratorConfig, store *history.Store, logger *slog.Logger) *App {
	opts := []markov.Option{markov.WithLogger(logger)}
	rng := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	if cfg.RandomSeed != 0 {
		opts = append(opts, markov.WithSeed(cfg.RandomSeed))
		rng = rand.New(rand.NewPCG(cfg.RandomSeed, ^cfg.RandomSeed))
	}

	return &App{
		chain:  markov.NewChain(opts...),
		cfg:    cfg,
		store:  store,
		rng:    rng,
		logger: logger,
	}
}

// Train replaces the chain's table with one learned from lines. source is a
// free-form description of where the lines came from, kept for history.
func (a *App) Train(lines []string, source string) TrainResult {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.chain.Train(lines)
	a.trained = TrainResult{
		Source: source,
		Lines:  len(lines),
		Stats:  a.chain.Stats(),
	}
	return a.trained
}

// TrainFile loads the corpus at path and trains on it. If the file cannot be
// read, the current chain is left untouched. A file without text still
// trains (to an empty chain) and returns corpus.ErrEmpty alongside the result.
func (a *App) TrainFile(path string, maxBytes int64) (TrainResult, error) {
	lines, err := corpus.LoadFile(path, maxBytes)
	if err != nil && !errors.Is(err, corpus.ErrEmpty) {
		return TrainResult{}, err
	}
	return a.Train(lines, path), err
}

// Trained returns a description of the current training data.
func (a *App) Trained() TrainResult {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.trained
}

// NextTokens returns the successors of word in the current chain.
func (a *App) NextTokens(word string) ([]markov.ChainToken, int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.chain.NextTokens(word)
}

// Generate produces one piece of text. When req.WordLimit is nil, the limit is
// drawn uniformly from [MinWords, MaxWords]. A successful result is appended
// to the history if recording is enabled; a history failure is logged and
// leaves HistoryID empty.
func (a *App) Generate(ctx context.Context, req GenerateRequest) (GenerateResult, error) {
	a.mu.Lock()
	wordLimit := a.pickWordLimit(req.WordLimit)
	text := a.chain.Generate(wordLimit, req.Seed)
	source := a.trained.Source
	a.mu.Unlock()

	if text == "" {
		return GenerateResult{WordLimit: wordLimit}, ErrEmptyResult
	}

	result := GenerateResult{
		Text:      text,
		Words:     len(strings.Fields(text)),
		WordLimit: wordLimit,
	}

	if a.cfg.RecordHistory && a.store != nil {
		entry, err := a.store.Append(ctx, history.Entry{
			Seed:      req.Seed,
			WordLimit: wordLimit,
			Text:      text,
			Corpus:    source,
		})
		if err != nil {
			a.logger.WarnContext(ctx, "Failed to record history entry", slog.Any("error", err))
		} else {
			result.HistoryID = entry.ID
		}
	}

	a.logger.DebugContext(ctx, "Text generated",
		slog.Int("word_limit", wordLimit),
		slog.Int("words", result.Words),
		slog.Bool("seeded", req.Seed != ""),
	)
	return result, nil
}

// pickWordLimit must be called with a.mu held.
func (a *App) pickWordLimit(requested *int) int {
	if requested != nil {
		return max(*requested, 0)
	}
	lo, hi := a.cfg.MinWords, a.cfg.MaxWords
	if hi <= lo {
		return max(lo, 0)
	}
	return lo + a.rng.IntN(hi-lo+1)
}

// describe is used by the CLI to report a training result.
func (t TrainResult) describe() string {
	return fmt.Sprintf("%d lines, %d words, %d transitions", t.Lines, t.Stats.Words, t.Stats.TotalFrequency)
}

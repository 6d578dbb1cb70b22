package markov

import (
	"io"
	"log/slog"
	"math/rand/v2"
)

// successors holds every token observed directly after a single word. Tokens
// keep the order in which they were first seen, and Freq counts how many
// times each one followed the word.
type successors struct {
	tokens []ChainToken
	index  map[string]int
	total  int
}

func (s *successors) add(word string) {
	if i, ok := s.index[word]; ok {
		s.tokens[i].Freq++
	} else {
		s.index[word] = len(s.tokens)
		s.tokens = append(s.tokens, ChainToken{Text: word, Freq: 1})
	}
	s.total++
}

// Chain is an in-memory, first-order Markov model. It maps each word to the
// words that followed it in the training data, along with how often.
//
// A Chain is not safe for concurrent use. Every draw mutates the shared random
// source, so callers that share a Chain between goroutines must serialize
// both Train and Generate.
type Chain struct {
	links     map[string]*successors
	keys      []string
	tokenizer Tokenizer
	rng       *rand.Rand
	logger    *slog.Logger
}

// Option is a function that configures a Chain.
type Option func(*Chain)

// WithRand sets the random source used for every random choice the Chain
// makes. Passing the same source state reproduces the same output.
func WithRand(r *rand.Rand) Option {
	return func(c *Chain) {
		if r != nil {
			c.rng = r
		}
	}
}

// WithSeed is a shorthand for WithRand with a PCG source built from seed.
func WithSeed(seed uint64) Option {
	return func(c *Chain) {
		c.rng = newSeededRand(seed)
	}
}

// WithTokenizer sets the tokenizer used to split training lines and seeds.
// Default: WhitespaceTokenizer
func WithTokenizer(t Tokenizer) Option {
	return func(c *Chain) {
		if t != nil {
			c.tokenizer = t
		}
	}
}

// WithLogger sets the logger for the Chain. See SetLogger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Chain) {
		c.SetLogger(logger)
	}
}

// NewChain creates an empty, untrained Chain. Without WithRand or WithSeed
// the Chain gets its own PCG source seeded from the runtime's random state.
func NewChain(opts ...Option) *Chain {
	c := &Chain{
		links:     make(map[string]*successors),
		tokenizer: NewWhitespaceTokenizer(),
		rng:       rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// SetLogger sets the logger for the Chain. By default, all logs are discarded.
func (c *Chain) SetLogger(logger *slog.Logger) {
	if logger != nil {
		c.logger = logger
	}
}

// SetTokenizer swaps the tokenizer. It only affects later calls to Train and
// Generate; an already trained table is left as is.
func (c *Chain) SetTokenizer(t Tokenizer) {
	if t != nil {
		c.tokenizer = t
	}
}

// Len returns the number of words that have at least one successor.
func (c *Chain) Len() int {
	return len(c.keys)
}

// link records a single prev -> next transition.
func (c *Chain) link(prev, next string) {
	s, ok := c.links[prev]
	if !ok {
		s = &successors{index: make(map[string]int)}
		c.links[prev] = s
		c.keys = append(c.keys, prev)
	}
	s.add(next)
}

func newSeededRand(seed uint64) *rand.Rand {
	// The second PCG word only needs to differ from the first.
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

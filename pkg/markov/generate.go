package markov

import (
	"iter"
	"log/slog"
	"slices"
	"strings"
)

// Generate walks the chain and returns the produced words joined by single
// spaces.
//
// If seed contains at least one token, the output starts with every seed
// token verbatim, whether or not the chain knows it. Otherwise a start word
// is picked uniformly at random from the trained words; an untrained or empty
// chain then returns "".
//
// From the last word so far, Generate appends up to wordLimit successors,
// each drawn with probability proportional to how often it followed the
// current word. The walk stops early at a word that has no successors. A
// negative wordLimit is treated as 0.
func (c *Chain) Generate(wordLimit int, seed string) string {
	return strings.Join(slices.Collect(c.Words(wordLimit, seed)), " ")
}

// Words is the lazy form of Generate. It yields the seed words (or the random
// start word) followed by each generated word, in order. Random draws happen
// while iterating, so ranging over the same sequence twice produces two
// independent walks.
func (c *Chain) Words(wordLimit int, seed string) iter.Seq[string] {
	return func(yield func(string) bool) {
		start := c.tokenizer.Tokens(seed)
		if len(start) == 0 {
			if len(c.keys) == 0 {
				c.logger.Debug("Generation skipped, chain is empty")
				return
			}
			start = []string{c.keys[c.rng.IntN(len(c.keys))]}
		}

		for _, word := range start {
			if !yield(word) {
				return
			}
		}

		current := start[len(start)-1]
		generatedCount := 0
		for generatedCount < wordLimit {
			s, ok := c.links[current]
			if !ok || s.total == 0 { // Dead end in chain
				c.logger.Debug("Generation terminated due to dead-end",
					slog.String("last_word", current),
					slog.Int("generated_length", generatedCount),
				)
				return
			}

			current = c.chooseNextToken(s)
			if !yield(current) {
				return
			}
			generatedCount++
		}

		c.logger.Debug("Generation terminated by reaching word limit",
			slog.Int("word_limit", wordLimit),
			slog.Int("generated_length", generatedCount),
		)
	}
}

// chooseNextToken draws one successor with probability Freq/total.
func (c *Chain) chooseNextToken(s *successors) string {
	randChoice := c.rng.IntN(s.total)
	for _, choice := range s.tokens {
		randChoice -= choice.Freq
		if randChoice < 0 {
			return choice.Text
		}
	}
	// Unreachable while total equals the sum of all frequencies.
	return s.tokens[len(s.tokens)-1].Text
}

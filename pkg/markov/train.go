package markov

import (
	"log/slog"
)

// Train rebuilds the transition table from lines. Each line is tokenized on
// its own and every adjacent pair of tokens (w[i], w[i+1]) adds w[i+1] as a
// successor of w[i]. Lines with fewer than two tokens add nothing, and no
// transition is ever created across a line boundary.
//
// Any previously trained table is discarded. Filtering blank lines is the
// caller's business, but blank lines are harmless here.
func (c *Chain) Train(lines []string) {
	c.links = make(map[string]*successors)
	c.keys = nil

	var linesUsed, transitions int
	for _, line := range lines {
		words := c.tokenizer.Tokens(line)
		if len(words) < 2 {
			continue
		}
		for i := 0; i < len(words)-1; i++ {
			c.link(words[i], words[i+1])
		}
		linesUsed++
		transitions += len(words) - 1
	}

	c.logger.Info("Training completed",
		slog.Int("lines_received", len(lines)),
		slog.Int("lines_used", linesUsed),
		slog.Int("words", len(c.keys)),
		slog.Int("transitions", transitions),
	)
}

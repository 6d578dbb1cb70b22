package markov

// Stats holds aggregated statistics for a trained Chain.
type Stats struct {
	Words          int `json:"words"`           // The number of words with at least one successor
	Vocabulary     int `json:"vocabulary"`      // The number of distinct tokens seen as a word or a successor
	Transitions    int `json:"transitions"`     // The number of unique word->successor links
	TotalFrequency int `json:"total_frequency"` // The sum of frequencies of all links; the total number of trained transitions
}

// Stats returns a snapshot of statistics for the Chain.
func (c *Chain) Stats() Stats {
	vocab := make(map[string]struct{}, len(c.keys))
	stats := Stats{Words: len(c.keys)}
	for word, s := range c.links {
		vocab[word] = struct{}{}
		for _, token := range s.tokens {
			vocab[token.Text] = struct{}{}
		}
		stats.Transitions += len(s.tokens)
		stats.TotalFrequency += s.total
	}
	stats.Vocabulary = len(vocab)
	return stats
}

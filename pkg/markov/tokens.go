package markov

// ChainToken represents a potential next word in a Markov chain, together
// with how many times it followed a given word during training.
type ChainToken struct {
	Text string
	Freq int
}

// Tokenizer is an interface that defines the contract for splitting input text
// into word tokens. The same tokenizer is used for training lines and for
// seed phrases, so a seed is always split the way the corpus was.
type Tokenizer interface {
	// Tokens splits text into tokens, in order. Empty text yields no tokens.
	Tokens(text string) []string
}

// NextTokens returns every word observed directly after word, in first-seen
// order, along with the sum of their frequencies. If the word was never seen
// with a successor, it returns a nil slice and a total frequency of 0.
// The returned slice is a copy and may be modified by the caller.
func (c *Chain) NextTokens(word string) ([]ChainToken, int) {
	s, ok := c.links[word]
	if !ok {
		return nil, 0
	}
	tokens := make([]ChainToken, len(s.tokens))
	copy(tokens, s.tokens)
	return tokens, s.total
}

// Successors returns the successor list of word with every observation
// repeated, so a word that followed k times appears k times. Repeats are
// grouped in first-seen order. The sampling distribution over this list is
// the one Generate uses.
func (c *Chain) Successors(word string) []string {
	s, ok := c.links[word]
	if !ok {
		return nil
	}
	out := make([]string, 0, s.total)
	for _, token := range s.tokens {
		for range token.Freq {
			out = append(out, token.Text)
		}
	}
	return out
}

// Keys returns a copy of every word that has at least one successor, in the
// order the words were first seen during training.
func (c *Chain) Keys() []string {
	keys := make([]string, len(c.keys))
	copy(keys, c.keys)
	return keys
}

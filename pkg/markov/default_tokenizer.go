package markov

import (
	"regexp"
	"strings"
)

// WhitespaceTokenizer is the default Tokenizer. It splits text on runs of
// Unicode whitespace and keeps everything else untouched, so punctuation
// stays attached ("word," and "word" are different tokens) and case is
// preserved.
type WhitespaceTokenizer struct{}

// NewWhitespaceTokenizer returns the default tokenizer.
func NewWhitespaceTokenizer() WhitespaceTokenizer {
	return WhitespaceTokenizer{}
}

// Tokens splits text with strings.Fields.
func (WhitespaceTokenizer) Tokens(text string) []string {
	return strings.Fields(text)
}

// RegexTokenizer is a Tokenizer that treats every match of a regular
// expression as a token and drops the text in between.
type RegexTokenizer struct {
	splitRegex *regexp.Regexp
}

// NewRegexTokenizer compiles pattern into a RegexTokenizer. For example,
// `[\w']+|[.,!?;]` splits punctuation off into tokens of its own.
func NewRegexTokenizer(pattern string) (*RegexTokenizer, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return &RegexTokenizer{splitRegex: re}, nil
}

// Tokens returns all non-overlapping matches of the tokenizer's expression.
func (t *RegexTokenizer) Tokens(text string) []string {
	return t.splitRegex.FindAllString(text, -1)
}

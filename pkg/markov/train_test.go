package markov

import (
	"reflect"
	"testing"
)

func TestTrain(t *testing.T) {
	c := newTestChain(t, 1, "the cat sat", "the cat ran")

	if got := c.Successors("the"); !reflect.DeepEqual(got, []string{"cat", "cat"}) {
		t.Errorf("Successors(the) = %v, want [cat cat]", got)
	}
	if got := c.Successors("cat"); !reflect.DeepEqual(got, []string{"sat", "ran"}) {
		t.Errorf("Successors(cat) = %v, want [sat ran]", got)
	}
	for _, word := range []string{"sat", "ran"} {
		if got := c.Successors(word); got != nil {
			t.Errorf("expected %q to have no successors, got %v", word, got)
		}
	}
	if c.Len() != 2 {
		t.Errorf("expected 2 keys, got %d", c.Len())
	}
}

func TestTrainEdgeCases(t *testing.T) {
	testCases := []struct {
		name     string
		lines    []string
		wantKeys []string
	}{
		{name: "No lines", lines: nil},
		{name: "Empty lines", lines: []string{"", "   ", "\t"}},
		{name: "Single token lines", lines: []string{"one", "two", "  three  "}},
		{name: "No cross-line links", lines: []string{"a b", "c d"}, wantKeys: []string{"a", "c"}},
		{name: "Punctuation is kept", lines: []string{"word, word"}, wantKeys: []string{"word,"}},
		{name: "Case is kept", lines: []string{"Go go GO"}, wantKeys: []string{"Go", "go"}},
		{name: "Mixed whitespace", lines: []string{"a\tb  c d"}, wantKeys: []string{"a", "b", "c"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestChain(t, 1, tc.lines...)
			keys := c.Keys()
			if len(keys) != len(tc.wantKeys) || (len(keys) > 0 && !reflect.DeepEqual(keys, tc.wantKeys)) {
				t.Errorf("Keys() = %v, want %v", keys, tc.wantKeys)
			}
			for _, key := range keys {
				if len(c.Successors(key)) == 0 {
					t.Errorf("key %q has an empty successor list", key)
				}
			}
		})
	}
}

func TestTrainReplacesTable(t *testing.T) {
	c := newTestChain(t, 1, "a b c")
	c.Train([]string{"x y"})

	if got := c.Successors("a"); got != nil {
		t.Errorf("expected previous training to be discarded, got a -> %v", got)
	}
	if got := c.Keys(); !reflect.DeepEqual(got, []string{"x"}) {
		t.Errorf("Keys() = %v, want [x]", got)
	}
}

func TestTrainFrequencies(t *testing.T) {
	c := newTestChain(t, 1, "x y x y x z")

	tokens, total := c.NextTokens("x")
	if total != 3 {
		t.Errorf("expected total frequency of 3 for x, got %d", total)
	}
	expected := []ChainToken{{Text: "y", Freq: 2}, {Text: "z", Freq: 1}}
	if !reflect.DeepEqual(tokens, expected) {
		t.Errorf("NextTokens(x) = %+v, want %+v", tokens, expected)
	}

	// The returned slice must not alias the table.
	tokens[0].Freq = 100
	if again, _ := c.NextTokens("x"); again[0].Freq != 2 {
		t.Error("modifying the result of NextTokens changed the chain")
	}

	if tokens, total := c.NextTokens("unknown"); tokens != nil || total != 0 {
		t.Errorf("expected no tokens for an unseen word, got %+v (%d)", tokens, total)
	}
}

func TestTrainWithRegexTokenizer(t *testing.T) {
	tok, err := NewRegexTokenizer(`[\w']+|[.,!?;]`)
	if err != nil {
		t.Fatalf("NewRegexTokenizer failed: %v", err)
	}
	c := NewChain(WithSeed(1), WithTokenizer(tok))
	c.Train([]string{"one fish, two fish."})

	if got := c.Successors("fish"); !reflect.DeepEqual(got, []string{",", "."}) {
		t.Errorf("Successors(fish) = %v, want [, .]", got)
	}

	if _, err := NewRegexTokenizer("("); err == nil {
		t.Error("expected an error for an invalid pattern")
	}
}

func BenchmarkTrain(b *testing.B) {
	corpus := createBenchmarkCorpus()
	c := NewChain(WithSeed(1))

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Train(corpus)
	}
}

package markov

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"
)

func TestGenerateFromSeed(t *testing.T) {
	testCases := []struct {
		name      string
		lines     []string
		seed      string
		wordLimit int
		expected  string
	}{
		{
			name:      "Single successor",
			lines:     []string{"the cat sat", "the cat ran"},
			seed:      "the",
			wordLimit: 1,
			expected:  "the cat",
		},
		{
			name:      "Seed word without successors",
			lines:     []string{"a b"},
			seed:      "b",
			wordLimit: 5,
			expected:  "b",
		},
		{
			name:      "Unknown seed word is kept",
			lines:     []string{"a b"},
			seed:      "green",
			wordLimit: 5,
			expected:  "green",
		},
		{
			name:      "Only the last seed word drives the walk",
			lines:     []string{"a b c"},
			seed:      "zzz b",
			wordLimit: 5,
			expected:  "zzz b c",
		},
		{
			name:      "Seed whitespace is normalized",
			lines:     []string{"a b"},
			seed:      "  a\t",
			wordLimit: 5,
			expected:  "a b",
		},
		{
			name:      "Zero word limit returns the seed",
			lines:     []string{"a b c"},
			seed:      "a",
			wordLimit: 0,
			expected:  "a",
		},
		{
			name:      "Negative word limit returns the seed",
			lines:     []string{"a b c"},
			seed:      "a",
			wordLimit: -3,
			expected:  "a",
		},
		{
			name:      "Cycles consume the limit",
			lines:     []string{"a a"},
			seed:      "a",
			wordLimit: 4,
			expected:  "a a a a a",
		},
		{
			name:      "Seed on an untrained chain",
			lines:     nil,
			seed:      "hello world",
			wordLimit: 3,
			expected:  "hello world",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestChain(t, 1, tc.lines...)
			if got := c.Generate(tc.wordLimit, tc.seed); got != tc.expected {
				t.Errorf("Generate(%d, %q) = %q, want %q", tc.wordLimit, tc.seed, got, tc.expected)
			}
		})
	}
}

func TestGenerateEmptyChain(t *testing.T) {
	for _, lines := range [][]string{nil, {"one", "two"}, {"", " "}} {
		c := newTestChain(t, 1, lines...)
		if got := c.Generate(10, ""); got != "" {
			t.Errorf("expected empty result for lines %q, got %q", lines, got)
		}
		if got := c.Generate(10, "   "); got != "" {
			t.Errorf("expected empty result for a blank seed on lines %q, got %q", lines, got)
		}
	}

	untrained := NewChain()
	if got := untrained.Generate(5, ""); got != "" {
		t.Errorf("expected empty result from an untrained chain, got %q", got)
	}
}

func TestGenerateWordCount(t *testing.T) {
	c := newTestChain(t, 3,
		"one fish two fish red fish blue fish",
		"this one has a little star",
		"this one has a little car",
		"say what a lot of fish there are",
	)
	for wordLimit := 0; wordLimit <= 15; wordLimit++ {
		for i := 0; i < 50; i++ {
			out := c.Generate(wordLimit, "")
			n := wordCount(out)
			if n < 1 || n > wordLimit+1 {
				t.Fatalf("Generate(%d) produced %d words: %q", wordLimit, n, out)
			}
		}
	}
}

func TestGenerateKeepsSeedPrefix(t *testing.T) {
	c := newTestChain(t, 5, "the quick brown fox jumps over the lazy dog")
	seeds := []string{"the", "the quick", "lazy   dog", "unknown words here", "fox"}
	for _, seed := range seeds {
		want := strings.Fields(seed)
		for i := 0; i < 20; i++ {
			got := strings.Fields(c.Generate(8, seed))
			if len(got) < len(want) {
				t.Fatalf("output for seed %q is shorter than the seed: %v", seed, got)
			}
			for j := range want {
				if got[j] != want[j] {
					t.Fatalf("output for seed %q does not start with the seed: %v", seed, got)
				}
			}
		}
	}
}

func TestGenerateIsDeterministicWithSeed(t *testing.T) {
	lines := []string{"a b c a b d", "b a c d a", "d d a b"}
	c1 := newTestChain(t, 42, lines...)
	c2 := newTestChain(t, 42, lines...)

	for i := 0; i < 100; i++ {
		out1 := c1.Generate(i%14+1, "")
		out2 := c2.Generate(i%14+1, "")
		if out1 != out2 {
			t.Fatalf("run %d diverged: %q != %q", i, out1, out2)
		}
	}

	// WithRand with identical state behaves the same way.
	c3 := NewChain(WithRand(rand.New(rand.NewPCG(9, 9))))
	c4 := NewChain(WithRand(rand.New(rand.NewPCG(9, 9))))
	c3.Train(lines)
	c4.Train(lines)
	for i := 0; i < 100; i++ {
		if out3, out4 := c3.Generate(10, "a"), c4.Generate(10, "a"); out3 != out4 {
			t.Fatalf("run %d diverged: %q != %q", i, out3, out4)
		}
	}
}

func TestGenerateFrequencyWeighting(t *testing.T) {
	c := newTestChain(t, 11, "x y x y x z")

	const trials = 30000
	counts := map[string]int{}
	for i := 0; i < trials; i++ {
		out := c.Generate(1, "x")
		counts[strings.TrimPrefix(out, "x ")]++
	}

	if counts["y"]+counts["z"] != trials {
		t.Fatalf("unexpected successors of x: %v", counts)
	}
	ratio := float64(counts["y"]) / float64(counts["z"])
	if ratio < 1.8 || ratio > 2.2 {
		t.Errorf("expected y to be chosen about twice as often as z, got ratio %.3f (%v)", ratio, counts)
	}
}

func TestGenerateUniformStart(t *testing.T) {
	c := newTestChain(t, 13, "a end", "b end", "c end", "d end")

	const trials = 20000
	counts := map[string]int{}
	for i := 0; i < trials; i++ {
		counts[c.Generate(0, "")]++
	}

	if len(counts) != 4 {
		t.Fatalf("expected 4 distinct start words, got %v", counts)
	}
	for word, n := range counts {
		share := float64(n) / trials
		if share < 0.22 || share > 0.28 {
			t.Errorf("start word %q chosen with share %.3f, want about 0.25", word, share)
		}
	}
}

func TestWordsStopsWhenConsumerStops(t *testing.T) {
	c := newTestChain(t, 1, "a a")

	var got []string
	for word := range c.Words(1000, "a") {
		got = append(got, word)
		if len(got) == 3 {
			break
		}
	}
	if strings.Join(got, " ") != "a a a" {
		t.Errorf("expected to stop after 3 words, got %v", got)
	}
}

func BenchmarkGenerate(b *testing.B) {
	c := NewChain(WithSeed(1))
	c.Train(createBenchmarkCorpus())

	for _, wordLimit := range []int{14, 100} {
		b.Run(fmt.Sprintf("Limit%d", wordLimit), func(b *testing.B) {
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				s := c.Generate(wordLimit, "")
				b.SetBytes(int64(len(s)))
			}
		})
	}
}

package markov

import (
	"go/build"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// newTestChain creates a Chain with a fixed seed and trains it on lines.
func newTestChain(t testing.TB, seed uint64, lines ...string) *Chain {
	t.Helper()
	c := NewChain(WithSeed(seed))
	c.Train(lines)
	return c
}

// wordCount counts the single-space separated words of a generated string.
func wordCount(s string) int {
	if s == "" {
		return 0
	}
	return len(strings.Split(s, " "))
}

var (
	benchmarkCorpus []string
	corpusOnce      sync.Once
)

// createBenchmarkCorpus reads Go source files to create a corpus for benchmarking.
func createBenchmarkCorpus() []string {
	corpusOnce.Do(func() {
		goRoot := build.Default.GOROOT
		filesToRead := []string{
			filepath.Join(goRoot, "src/net/http/server.go"),
			filepath.Join(goRoot, "src/go/parser/parser.go"),
			filepath.Join(goRoot, "src/encoding/json/encode.go"),
		}

		for _, file := range filesToRead {
			content, err := os.ReadFile(file)
			if err != nil {
				benchmarkCorpus = []string{"this is a fallback corpus for benchmarking. it is not very long but will prevent a crash."}
				return
			}
			for _, line := range strings.Split(string(content), "\n") {
				if strings.TrimSpace(line) != "" {
					benchmarkCorpus = append(benchmarkCorpus, line)
				}
			}
		}
	})
	return benchmarkCorpus
}

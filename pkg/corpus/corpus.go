// Package corpus reads training text for a markov.Chain. It splits a text blob
// into lines and drops the blank ones, which is the shape Chain.Train expects.
package corpus

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// maxLineLength bounds a single line so one huge line cannot exhaust memory.
const maxLineLength = 16 * 1024 * 1024

var (
	// ErrNoPath is returned by LoadFile when no path was given.
	ErrNoPath = errors.New("no corpus file selected")
	// ErrTooLarge is returned when a corpus exceeds the configured byte limit.
	ErrTooLarge = errors.New("corpus exceeds size limit")
	// ErrEmpty is returned when a corpus holds no non-blank lines. The lines
	// (none) are still valid training input.
	ErrEmpty = errors.New("corpus contains no text")
)

// Lines splits text on "\n" and drops every line that is empty or only
// whitespace. The remaining lines are returned as-is, including any trailing
// "\r", since tokenization on whitespace removes it anyway.
func Lines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// ReadLines reads r to the end and returns its non-blank lines. If maxBytes is
// positive and r holds more than maxBytes bytes, ReadLines stops and returns
// ErrTooLarge. An input without any non-blank line returns ErrEmpty along with
// the (empty) result.
func ReadLines(r io.Reader, maxBytes int64) ([]string, error) {
	counter := &countingReader{r: r}
	if maxBytes > 0 {
		// Read one byte past the limit so an oversized input can be told apart.
		counter.r = io.LimitReader(r, maxBytes+1)
	}

	scanner := bufio.NewScanner(counter)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)

	var lines []string
	for scanner.Scan() {
		if maxBytes > 0 && counter.n > maxBytes {
			return nil, ErrTooLarge
		}
		line := scanner.Text()
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read corpus: %w", err)
	}
	if maxBytes > 0 && counter.n > maxBytes {
		return nil, ErrTooLarge
	}
	if len(lines) == 0 {
		return lines, ErrEmpty
	}
	return lines, nil
}

// countingReader counts the bytes read through it.
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// LoadFile opens the file at path and reads it with ReadLines.
func LoadFile(path string, maxBytes int64) ([]string, error) {
	if path == "" {
		return nil, ErrNoPath
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error while opening file %q: %w", path, err)
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)

	lines, err := ReadLines(f, maxBytes)
	if err != nil && !errors.Is(err, ErrEmpty) {
		return nil, fmt.Errorf("error while reading file %q: %w", path, err)
	}
	return lines, err
}

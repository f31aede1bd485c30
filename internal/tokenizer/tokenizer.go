// Package tokenizer counts prompt tokens for context budgeting.
package tokenizer

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// Counter counts tokens with the cl100k_base encoding. A Counter without an
// encoding falls back to a character-based estimate.
type Counter struct {
	encoding *tiktoken.Tiktoken
}

// New creates a Counter backed by tiktoken. The encoding data is fetched and
// cached on first use, so this can fail offline; use Estimator then.
func New() (*Counter, error) {
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil, fmt.Errorf("load cl100k_base encoding: %w", err)
	}
	return &Counter{encoding: enc}, nil
}

// Estimator creates a Counter that only estimates.
func Estimator() *Counter {
	return &Counter{}
}

// Count returns the token count of text.
func (c *Counter) Count(text string) int {
	if c.encoding == nil {
		return Estimate(text)
	}
	return len(c.encoding.Encode(text, nil, nil))
}

// Estimate approximates the token count as one token per four characters,
// which is close enough for English prose budgeting.
func Estimate(text string) int {
	return len([]rune(text)) / 4
}

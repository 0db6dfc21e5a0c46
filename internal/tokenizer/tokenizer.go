// Package tokenizer wraps tiktoken for deterministic subword token counting.
package tokenizer

import (
	"fmt"
	"unicode/utf8"

	tiktoken "github.com/pkoukk/tiktoken-go"
)

// DefaultEncoding is the tiktoken encoding used when none is configured.
const DefaultEncoding = "cl100k_base"

// Counter counts tokens under one fixed encoding. The underlying encoding is
// loaded once at construction and is safe for concurrent use; share a single
// Counter across workers.
type Counter struct {
	name string
	enc  *tiktoken.Tiktoken
}

// New loads the named tiktoken encoding. An empty name selects DefaultEncoding.
func New(name string) (*Counter, error) {
	if name == "" {
		name = DefaultEncoding
	}
	enc, err := tiktoken.GetEncoding(name)
	if err != nil {
		return nil, fmt.Errorf("loading encoding %q: %w", name, err)
	}
	return &Counter{name: name, enc: enc}, nil
}

// Name returns the encoding identity recorded in artifact metadata.
func (c *Counter) Name() string {
	return c.name
}

// Count returns the number of tokens in text. Empty input yields 0.
func (c *Counter) Count(text string) int {
	if text == "" {
		return 0
	}
	return len(c.enc.Encode(text, nil, nil))
}

// CountBytes counts tokens in raw file content. Content that is not valid
// UTF-8 cannot be tokenized; it yields 0 and ok=false rather than an error so
// callers can record the file and continue.
func (c *Counter) CountBytes(content []byte) (tokens int, ok bool) {
	if len(content) == 0 {
		return 0, true
	}
	if !utf8.Valid(content) {
		return 0, false
	}
	return c.Count(string(content)), true
}

// Package tokencount counts prompt tokens for LLM API calls.
//
// It uses tiktoken-go, a Go port of OpenAI's tiktoken library, so the
// client can log and budget token usage before sending a request.
package tokencount

import (
	"strings"
	"sync"

	tiktoken "github.com/pkoukk/tiktoken-go"
)

// Counter provides thread-safe token counting. Encodings are cached per
// model because construction is expensive.
type Counter struct {
	mu        sync.RWMutex
	encodings map[string]*tiktoken.Tiktoken
}

// NewCounter creates a token counter.
func NewCounter() *Counter {
	return &Counter{encodings: make(map[string]*tiktoken.Tiktoken)}
}

// Count returns the token count of text for the given model. Unknown
// models fall back to the cl100k_base encoding; on any error a rough
// length/4 estimate is returned so callers never fail on counting.
func (c *Counter) Count(model, text string) int {
	enc, err := c.encodingFor(model)
	if err != nil {
		return len(text) / 4
	}
	return len(enc.Encode(text, nil, nil))
}

func (c *Counter) encodingFor(model string) (*tiktoken.Tiktoken, error) {
	key := normalizeModel(model)

	c.mu.RLock()
	enc, ok := c.encodings[key]
	c.mu.RUnlock()
	if ok {
		return enc, nil
	}

	enc, err := tiktoken.EncodingForModel(key)
	if err != nil {
		enc, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return nil, err
		}
	}

	c.mu.Lock()
	c.encodings[key] = enc
	c.mu.Unlock()
	return enc, nil
}

// normalizeModel strips an OpenRouter provider prefix like "openai/".
func normalizeModel(model string) string {
	if i := strings.LastIndex(model, "/"); i >= 0 {
		return model[i+1:]
	}
	return model
}

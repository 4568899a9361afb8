// Package cache stores generated summaries keyed by the input text, the
// summary level and the weights version that produced them.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/sanjeevkumarraob/adaptive-summarizer/internal/summarizer"
)

// Backend is a byte-oriented key/value store with expiry
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Key derives the cache key of a summarization request
func Key(text string, level summarizer.Level, weightsVersion string) string {
	sum := sha256.Sum256([]byte(text))
	return "summary:" + hex.EncodeToString(sum[:]) + ":" + string(level) + ":" + weightsVersion
}

// Summaries caches summarizer results on a Backend
type Summaries struct {
	backend Backend
	ttl     time.Duration
}

func NewSummaries(backend Backend, ttl time.Duration) *Summaries {
	return &Summaries{backend: backend, ttl: ttl}
}

// Get returns a cached result; decoding failures count as a miss
func (c *Summaries) Get(ctx context.Context, key string) (*summarizer.Result, bool, error) {
	raw, ok, err := c.backend.Get(ctx, key)
	if err != nil || !ok {
		return nil, false, err
	}
	var res summarizer.Result
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, false, nil
	}
	return &res, true, nil
}

func (c *Summaries) Put(ctx context.Context, key string, res *summarizer.Result) error {
	raw, err := json.Marshal(res)
	if err != nil {
		return err
	}
	return c.backend.Set(ctx, key, raw, c.ttl)
}

func (c *Summaries) Close() error {
	return c.backend.Close()
}

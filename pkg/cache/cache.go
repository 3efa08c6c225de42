// Package cache provides a TTL-bound fetch cache with stale-on-failure
// fallback. Entries are persisted through a pluggable Store so callers can
// run against files, Redis, or memory.
package cache

import (
	"context"
	"encoding/json"
	"errors"
)

var (
	ErrCacheMiss = errors.New("cache: key not found")
)

// Entry is the persisted form of one cached fetch result. Data carries the
// tagged payload; Kind names the payload variant so decoding never guesses.
// Payloads serialize decimals as strings and timestamps as RFC 3339, so a
// round-trip preserves exact decimal precision.
type Entry struct {
	Timestamp int64           `json:"timestamp"` // unix seconds of the write
	Kind      string          `json:"kind"`
	Data      json.RawMessage `json:"data"`
}

// Store persists cache entries, one entry per key, overwritten on every
// successful fetch. Implementations must make Save all-or-nothing.
type Store interface {
	Load(ctx context.Context, key string) (*Entry, error)
	Save(ctx context.Context, key string, e *Entry) error
}

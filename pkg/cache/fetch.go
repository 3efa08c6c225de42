package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// DefaultTTL is the freshness window applied when a Fetcher is built with a
// non-positive TTL.
const DefaultTTL = 600 * time.Second

// FetchFunc is any fallible zero-argument fetch operation.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// transienter marks errors caused by the outside world (network, bad
// markup) rather than by a bug. Only these unlock the stale-read fallback.
type transienter interface {
	Transient() bool
}

// IsTransient reports whether err is classified as transient.
func IsTransient(err error) bool {
	var t transienter
	return errors.As(err, &t) && t.Transient()
}

// Fetcher wraps a FetchFunc with TTL caching and stale fallback.
type Fetcher[T any] struct {
	store Store
	key   string
	kind  string
	ttl   time.Duration
	fn    FetchFunc[T]
}

// NewFetcher builds a caching decorator around fn. key identifies the
// operation (one persisted entry per key); kind tags the payload variant.
func NewFetcher[T any](store Store, key, kind string, ttl time.Duration, fn FetchFunc[T]) *Fetcher[T] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Fetcher[T]{store: store, key: key, kind: kind, ttl: ttl, fn: fn}
}

// Fetch returns the cached value when it is younger than the TTL, otherwise
// invokes the wrapped operation. A successful result overwrites the entry.
// When the operation fails with a transient error, the entry is served
// ignoring the TTL; any other failure propagates untouched.
func (f *Fetcher[T]) Fetch(ctx context.Context) (T, error) {
	if v, ok := f.load(ctx, false); ok {
		return v, nil
	}

	v, err := f.fn(ctx)
	if err == nil {
		f.save(ctx, v)
		return v, nil
	}

	if IsTransient(err) {
		if stale, ok := f.load(ctx, true); ok {
			return stale, nil
		}
	}

	var zero T
	return zero, err
}

func (f *Fetcher[T]) load(ctx context.Context, stale bool) (T, bool) {
	var zero T
	e, err := f.store.Load(ctx, f.key)
	if err != nil || e == nil {
		return zero, false
	}
	if e.Kind != f.kind {
		return zero, false
	}
	if !stale && time.Since(time.Unix(e.Timestamp, 0)) >= f.ttl {
		return zero, false
	}
	var v T
	if err := json.Unmarshal(e.Data, &v); err != nil {
		return zero, false
	}
	return v, true
}

func (f *Fetcher[T]) save(ctx context.Context, v T) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	// Persistence failures degrade to "no cache", never to a failed fetch.
	_ = f.store.Save(ctx, f.key, &Entry{
		Timestamp: time.Now().Unix(),
		Kind:      f.kind,
		Data:      data,
	})
}

// GenerateKey creates a cache key from a component identity and operation.
func GenerateKey(component, op string) string {
	return fmt.Sprintf("%s_%s", component, op)
}

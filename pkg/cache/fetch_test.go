package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

type tempErr struct{ msg string }

func (e tempErr) Error() string   { return e.msg }
func (e tempErr) Transient() bool { return true }

type quote struct {
	Price  decimal.Decimal `json:"price"`
	Source string          `json:"source"`
	At     time.Time       `json:"at"`
}

func newQuote(s string) quote {
	d, _ := decimal.NewFromString(s)
	return quote{Price: d, Source: "test", At: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
}

func TestFetchCachesWithinTTL(t *testing.T) {
	store := NewMemoryStore()
	calls := 0
	f := NewFetcher(store, "k", "quote", time.Minute, func(ctx context.Context) (quote, error) {
		calls++
		if calls > 1 {
			return quote{}, tempErr{"down"}
		}
		return newQuote("88500000"), nil
	})

	ctx := context.Background()
	first, err := f.Fetch(ctx)
	if err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	second, err := f.Fetch(ctx)
	if err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected one invocation, got %d", calls)
	}
	if !first.Price.Equal(second.Price) || !first.At.Equal(second.At) {
		t.Fatalf("cached value differs: %+v vs %+v", first, second)
	}
}

func TestFetchServesStaleOnTransientFailure(t *testing.T) {
	store := NewMemoryStore()
	calls := 0
	f := NewFetcher(store, "k", "quote", time.Minute, func(ctx context.Context) (quote, error) {
		calls++
		if calls > 1 {
			return quote{}, tempErr{"down"}
		}
		return newQuote("25500"), nil
	})

	ctx := context.Background()
	if _, err := f.Fetch(ctx); err != nil {
		t.Fatalf("populate: %v", err)
	}

	// Force expiry by rewriting the entry with an ancient timestamp.
	e, err := store.Load(ctx, "k")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	e.Timestamp = time.Now().Add(-time.Hour).Unix()
	if err := store.Save(ctx, "k", e); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := f.Fetch(ctx)
	if err != nil {
		t.Fatalf("expected stale value, got error %v", err)
	}
	if got.Price.String() != "25500" {
		t.Fatalf("unexpected stale value %s", got.Price)
	}
	if calls != 2 {
		t.Fatalf("expected re-invocation after expiry, got %d calls", calls)
	}
}

func TestFetchPropagatesNonTransientFailure(t *testing.T) {
	store := NewMemoryStore()
	boom := errors.New("programming error")
	calls := 0
	f := NewFetcher(store, "k", "quote", time.Minute, func(ctx context.Context) (quote, error) {
		calls++
		if calls > 1 {
			return quote{}, boom
		}
		return newQuote("1"), nil
	})

	ctx := context.Background()
	if _, err := f.Fetch(ctx); err != nil {
		t.Fatalf("populate: %v", err)
	}
	e, _ := store.Load(ctx, "k")
	e.Timestamp = 0
	_ = store.Save(ctx, "k", e)

	if _, err := f.Fetch(ctx); !errors.Is(err, boom) {
		t.Fatalf("expected error to propagate past stale entry, got %v", err)
	}
}

func TestFetchMissPropagatesTransientFailure(t *testing.T) {
	f := NewFetcher(NewMemoryStore(), "k", "quote", time.Minute, func(ctx context.Context) (quote, error) {
		return quote{}, tempErr{"down"}
	})
	if _, err := f.Fetch(context.Background()); err == nil {
		t.Fatalf("expected error with empty cache")
	}
}

func TestFetchIgnoresForeignKind(t *testing.T) {
	store := NewMemoryStore()
	calls := 0
	f := NewFetcher(store, "k", "quote", time.Minute, func(ctx context.Context) (quote, error) {
		calls++
		return newQuote("10"), nil
	})
	g := NewFetcher(store, "k", "other", time.Minute, func(ctx context.Context) (quote, error) {
		calls++
		return newQuote("20"), nil
	})

	ctx := context.Background()
	if _, err := f.Fetch(ctx); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	got, err := g.Fetch(ctx)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if got.Price.String() != "20" || calls != 2 {
		t.Fatalf("kind mismatch must be a miss: got %s calls=%d", got.Price, calls)
	}
}

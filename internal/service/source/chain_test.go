package source

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"VietPulse/pkg/logger"
)

type quote struct {
	value decimal.Decimal
	label string
}

func strat(label string, v int64, err error) Strategy[*quote] {
	return Strategy[*quote]{
		Label: label,
		Fetch: func(ctx context.Context) (*quote, error) {
			if err != nil {
				return nil, err
			}
			return &quote{value: decimal.NewFromInt(v), label: label}, nil
		},
	}
}

func fallbackQuote() *quote {
	return &quote{value: decimal.NewFromInt(1), label: "fallback"}
}

func TestChainReturnsFirstSuccess(t *testing.T) {
	c := NewChain("test", logger.Nop(), fallbackQuote,
		strat("s1", 0, transientf("s1 down", errors.New("connection refused"))),
		strat("s2", 0, parseErr("s2", "no plausible value")),
		strat("s3", 42, nil),
	)

	got, err := c.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "s3", got.label)
	assert.True(t, got.value.Equal(decimal.NewFromInt(42)))
}

func TestChainExhaustedUsesFallback(t *testing.T) {
	c := NewChain("test", logger.Nop(), fallbackQuote,
		strat("s1", 0, transientf("s1 down", errors.New("timeout"))),
		strat("s2", 0, parseErr("s2", "garbage payload")),
	)

	got, err := c.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fallback", got.label)
}

func TestChainPropagatesNonTransient(t *testing.T) {
	boom := errors.New("programming error")
	c := NewChain("test", logger.Nop(), fallbackQuote,
		strat("s1", 0, boom),
		strat("s2", 42, nil),
	)

	_, err := c.Fetch(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestBoundsAreExclusive(t *testing.T) {
	b := bounds{min: decimal.NewFromInt(500), max: decimal.NewFromInt(10_000)}

	assert.False(t, b.contains(decimal.NewFromInt(500)))
	assert.False(t, b.contains(decimal.NewFromInt(10_000)))
	assert.True(t, b.contains(decimal.NewFromInt(501)))
	assert.True(t, b.contains(decimal.NewFromInt(9_999)))
}

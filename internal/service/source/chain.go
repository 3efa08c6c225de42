package source

import (
	"context"

	"github.com/shopspring/decimal"

	"VietPulse/pkg/cache"
	"VietPulse/pkg/logger"
)

// Strategy is one upstream fetch attempt: network I/O, text parse, and range
// validation rolled into a single fallible call.
type Strategy[T any] struct {
	Label string
	Fetch func(ctx context.Context) (T, error)
}

// Chain runs strategies in order and returns the first success. Transient
// and parse failures yield control to the next strategy; anything else is a
// bug and propagates immediately. When every strategy fails the chain
// returns its terminal constant, so a chain call never fails upward.
type Chain[T any] struct {
	asset      string
	strategies []Strategy[T]
	fallback   func() T
	log        *logger.Logger
}

// NewChain builds a fallback chain for one asset. fallback must never fail;
// it is the guaranteed base case.
func NewChain[T any](asset string, log *logger.Logger, fallback func() T, strategies ...Strategy[T]) *Chain[T] {
	return &Chain[T]{asset: asset, strategies: strategies, fallback: fallback, log: log}
}

// Fetch walks the chain.
func (c *Chain[T]) Fetch(ctx context.Context) (T, error) {
	for _, s := range c.strategies {
		v, err := s.Fetch(ctx)
		if err == nil {
			return v, nil
		}
		if !cache.IsTransient(err) {
			var zero T
			return zero, err
		}
		c.log.Warn("strategy failed, trying next",
			logger.String("asset", c.asset),
			logger.String("strategy", s.Label),
			logger.Error(err),
		)
	}

	c.log.Warn("all strategies failed, using fallback constant",
		logger.String("asset", c.asset),
	)
	return c.fallback(), nil
}

// bounds is the plausible value range for one asset; parses outside it are
// rejected as noise.
type bounds struct {
	min decimal.Decimal
	max decimal.Decimal
}

func (b bounds) contains(d decimal.Decimal) bool {
	return d.GreaterThan(b.min) && d.LessThan(b.max)
}

var (
	goldBounds   = bounds{min: decimal.NewFromInt(1_000_000), max: decimal.NewFromInt(1_000_000_000)}
	usdVndBounds = bounds{min: decimal.NewFromInt(20_000), max: decimal.NewFromInt(30_000)}
	btcVndBounds = bounds{min: decimal.NewFromInt(1_000_000_000), max: decimal.NewFromInt(10_000_000_000)}
	vn30Bounds   = bounds{min: decimal.NewFromInt(500), max: decimal.NewFromInt(10_000)}
)

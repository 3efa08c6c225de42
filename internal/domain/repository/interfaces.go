package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"VietPulse/internal/domain/models"
)

// MarketSource fetches the latest quotes, one method per tracked asset.
// Implementations are fallback chains and must never block past their
// configured timeout; chains with a terminal constant never return an error.
type MarketSource interface {
	FetchGold(ctx context.Context) (*models.GoldPrice, error)
	FetchUsdVnd(ctx context.Context) (*models.UsdVndRate, error)
	FetchBitcoin(ctx context.Context) (*models.BitcoinPrice, error)
	FetchVn30(ctx context.Context) (*models.Vn30Index, error)
}

// SnapshotStore owns the durable per-asset daily time series.
type SnapshotStore interface {
	// Record upserts the snapshot for at's calendar day. Persistence
	// failures are swallowed; the in-memory series always reflects the write.
	Record(ctx context.Context, asset string, value decimal.Decimal, at time.Time)
	// Lookup returns the value nearest to target, or ok=false when the
	// nearest snapshot is more than the tolerance away or none exists.
	Lookup(ctx context.Context, asset string, target time.Time) (decimal.Decimal, bool)
	// All returns the full dated series for an asset, ascending by date.
	All(ctx context.Context, asset string) []models.Snapshot
}

// HistorySeries is a bulk external history normalized to day-keyed values.
type HistorySeries map[string]decimal.Decimal // YYYY-MM-DD -> value

// HistoryProvider fetches a bulk historical series for one asset.
type HistoryProvider interface {
	// Series returns up to days of daily values. MaxDays caps what the
	// provider can serve; periods beyond it must resolve elsewhere.
	Series(ctx context.Context, days int) (HistorySeries, error)
	MaxDays() int
}

// Publisher emits refresh-cycle observations to an external sink.
type Publisher interface {
	Publish(ctx context.Context, md *models.MarketData) error
	Close() error
}

// Metrics records operational counters for the fetch/aggregate pipeline.
type Metrics interface {
	RecordFetch(asset, source string)
	RecordError(kind string)
	RecordLastValue(asset string, value float64)
	RecordLatency(op string, seconds float64)
}

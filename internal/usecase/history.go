package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"VietPulse/internal/domain/models"
	drepo "VietPulse/internal/domain/repository"
	"VietPulse/pkg/logger"
)

const dateLayout = "2006-01-02"

// lookupToleranceDays bounds how far a bulk-series date may sit from a
// period's target before the snapshot store takes over.
const lookupToleranceDays = 3

// providerEntry binds a bulk history provider to one asset. Backfill seeds
// the snapshot store with the fetched series, so the store accumulates real
// history faster than one point per refresh cycle.
type providerEntry struct {
	provider drepo.HistoryProvider
	backfill bool
}

// HistoryService derives per-period percentage changes for each asset,
// blending bulk external series with the local snapshot store. Every
// sub-fetch failure degrades to "period unavailable", never to an error.
type HistoryService struct {
	snapshots drepo.SnapshotStore
	providers map[string]providerEntry
	metrics   drepo.Metrics
	log       *logger.Logger
	now       func() time.Time
}

func NewHistoryService(snapshots drepo.SnapshotStore, metrics drepo.Metrics, log *logger.Logger) *HistoryService {
	return &HistoryService{
		snapshots: snapshots,
		providers: make(map[string]providerEntry),
		metrics:   metrics,
		log:       log,
		now:       time.Now,
	}
}

// RegisterProvider attaches a bulk provider to an asset. backfill seeds the
// snapshot store with every fetched series point.
func (s *HistoryService) RegisterProvider(asset string, p drepo.HistoryProvider, backfill bool) {
	s.providers[asset] = providerEntry{provider: p, backfill: backfill}
}

// Changes computes the configured look-back changes for one asset against
// its current value.
func (s *HistoryService) Changes(ctx context.Context, asset string, current decimal.Decimal) models.AssetHistory {
	now := s.now()
	entry, hasProvider := s.providers[asset]

	var series drepo.HistorySeries
	var maxDays int
	if hasProvider {
		maxDays = entry.provider.MaxDays()
		fetchDays := models.Periods[len(models.Periods)-1].Days
		if fetchDays > maxDays {
			fetchDays = maxDays
		}

		start := time.Now()
		fetched, err := entry.provider.Series(ctx, fetchDays)
		s.metrics.RecordLatency("history_"+asset, time.Since(start).Seconds())
		if err != nil {
			s.metrics.RecordError("history_" + asset)
			s.log.Warn("bulk history fetch failed, using local store only",
				logger.String("asset", asset),
				logger.Error(err),
			)
		} else {
			series = fetched
			if entry.backfill {
				s.backfill(ctx, asset, series)
			}
		}
	}

	hist := models.AssetHistory{Asset: asset}
	for _, period := range models.Periods {
		target := now.AddDate(0, 0, -period.Days)

		var old *decimal.Decimal
		if series != nil && period.Days <= maxDays {
			old = findNearest(series, target)
		}
		if old == nil {
			if v, ok := s.snapshots.Lookup(ctx, asset, target); ok {
				old = &v
			}
		}

		change := models.HistoricalChange{Period: period.Label, NewValue: current}
		if old != nil {
			change.OldValue = old
			pct := computeChangePercent(*old, current)
			change.ChangePercent = &pct
		}
		hist.Changes = append(hist.Changes, change)
	}
	return hist
}

// ChangesForAll computes histories for every asset present in md.
func (s *HistoryService) ChangesForAll(ctx context.Context, md *models.MarketData) []models.AssetHistory {
	var out []models.AssetHistory
	if md.Gold != nil {
		out = append(out, s.Changes(ctx, models.AssetGold, md.Gold.Value()))
	}
	if md.UsdVnd != nil {
		out = append(out, s.Changes(ctx, models.AssetUsdVnd, md.UsdVnd.Value()))
	}
	if md.Bitcoin != nil {
		out = append(out, s.Changes(ctx, models.AssetBitcoin, md.Bitcoin.Value()))
	}
	if md.Vn30 != nil {
		out = append(out, s.Changes(ctx, models.AssetVn30, md.Vn30.Value()))
	}
	return out
}

func (s *HistoryService) backfill(ctx context.Context, asset string, series drepo.HistorySeries) {
	for date, value := range series {
		day, err := time.Parse(dateLayout, date)
		if err != nil {
			continue
		}
		s.snapshots.Record(ctx, asset, value, day)
	}
}

// findNearest resolves the series value closest to target within the
// tolerance, checking each distance later-date first.
func findNearest(series drepo.HistorySeries, target time.Time) *decimal.Decimal {
	for offset := 0; offset <= lookupToleranceDays; offset++ {
		for _, sign := range []int{1, -1} {
			key := target.AddDate(0, 0, sign*offset).Format(dateLayout)
			if v, ok := series[key]; ok {
				return &v
			}
			if offset == 0 {
				break
			}
		}
	}
	return nil
}

// computeChangePercent returns the percentage change from old to current,
// rounded to two decimal places. A zero old value yields zero.
func computeChangePercent(old, current decimal.Decimal) decimal.Decimal {
	if old.IsZero() {
		return decimal.Zero
	}
	return current.Sub(old).Div(old).Mul(decimal.NewFromInt(100)).Round(2)
}

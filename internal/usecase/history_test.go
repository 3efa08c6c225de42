package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"VietPulse/internal/domain/models"
	drepo "VietPulse/internal/domain/repository"
	"VietPulse/internal/service/store"
	"VietPulse/pkg/logger"
)

type noopMetrics struct{}

func (noopMetrics) RecordFetch(string, string)      {}
func (noopMetrics) RecordError(string)              {}
func (noopMetrics) RecordLastValue(string, float64) {}
func (noopMetrics) RecordLatency(string, float64)   {}

type stubProvider struct {
	series  drepo.HistorySeries
	maxDays int
	err     error
	calls   int
}

func (p *stubProvider) Series(context.Context, int) (drepo.HistorySeries, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.series, nil
}

func (p *stubProvider) MaxDays() int { return p.maxDays }

func fixedNow(t *testing.T) time.Time {
	t.Helper()
	now, err := time.Parse("2006-01-02", "2026-08-26")
	require.NoError(t, err)
	return now
}

func changeByPeriod(h models.AssetHistory) map[string]models.HistoricalChange {
	out := make(map[string]models.HistoricalChange, len(h.Changes))
	for _, c := range h.Changes {
		out[c.Period] = c
	}
	return out
}

func TestComputeChangePercent(t *testing.T) {
	up := computeChangePercent(decimal.NewFromInt(100), decimal.NewFromInt(120))
	assert.Equal(t, "20", up.String())

	down := computeChangePercent(decimal.NewFromInt(100), decimal.NewFromInt(80))
	assert.Equal(t, "-20", down.String())

	rounded := computeChangePercent(decimal.NewFromInt(3), decimal.NewFromInt(4))
	assert.Equal(t, "33.33", rounded.String())

	zero := computeChangePercent(decimal.Zero, decimal.NewFromInt(50))
	assert.True(t, zero.IsZero())
}

func TestChangesFromBulkSeriesWithinProviderRange(t *testing.T) {
	now := fixedNow(t)

	// 30 daily points ending yesterday, so 1D/1W/1M resolve from the
	// provider and 1Y/3Y do not.
	series := make(drepo.HistorySeries)
	for i := 1; i <= 30; i++ {
		day := now.AddDate(0, 0, -i).Format("2006-01-02")
		series[day] = decimal.NewFromInt(int64(1000 + i))
	}
	provider := &stubProvider{series: series, maxDays: 30}

	snapshots := store.New(store.NewMemoryPersistence(), logger.Nop())
	svc := NewHistoryService(snapshots, noopMetrics{}, logger.Nop())
	svc.now = func() time.Time { return now }
	svc.RegisterProvider(models.AssetGold, provider, true)

	hist := svc.Changes(context.Background(), models.AssetGold, decimal.NewFromInt(2000))
	require.Len(t, hist.Changes, len(models.Periods))
	byPeriod := changeByPeriod(hist)

	oneDay := byPeriod["1D"]
	require.NotNil(t, oneDay.OldValue)
	assert.Equal(t, "1001", oneDay.OldValue.String())

	oneWeek := byPeriod["1W"]
	require.NotNil(t, oneWeek.OldValue)
	assert.Equal(t, "1007", oneWeek.OldValue.String())

	oneMonth := byPeriod["1M"]
	require.NotNil(t, oneMonth.OldValue)

	assert.Nil(t, byPeriod["1Y"].OldValue)
	assert.Nil(t, byPeriod["3Y"].OldValue)

	// The provider is consulted exactly once per Changes call.
	assert.Equal(t, 1, provider.calls)

	// Backfill seeded the snapshot store with the whole series.
	assert.Len(t, snapshots.All(context.Background(), models.AssetGold), 30)
}

func TestChangesFallBackToSnapshotStore(t *testing.T) {
	now := fixedNow(t)

	snapshots := store.New(store.NewMemoryPersistence(), logger.Nop())
	snapshots.Record(context.Background(), models.AssetVn30, decimal.NewFromInt(1100), now.AddDate(0, 0, -365))

	provider := &stubProvider{maxDays: 365, err: errors.New("upstream down")}
	svc := NewHistoryService(snapshots, noopMetrics{}, logger.Nop())
	svc.now = func() time.Time { return now }
	svc.RegisterProvider(models.AssetVn30, provider, false)

	hist := svc.Changes(context.Background(), models.AssetVn30, decimal.NewFromInt(1250))
	byPeriod := changeByPeriod(hist)

	oneYear := byPeriod["1Y"]
	require.NotNil(t, oneYear.OldValue)
	assert.Equal(t, "1100", oneYear.OldValue.String())
	require.NotNil(t, oneYear.ChangePercent)
	assert.Equal(t, "13.64", oneYear.ChangePercent.String())

	// No snapshot near the other targets.
	assert.Nil(t, byPeriod["1D"].OldValue)
	assert.Nil(t, byPeriod["3Y"].OldValue)
}

func TestChangesAllSourcesFailYieldUnavailablePeriods(t *testing.T) {
	snapshots := store.New(store.NewMemoryPersistence(), logger.Nop())
	provider := &stubProvider{maxDays: 365, err: errors.New("upstream down")}

	svc := NewHistoryService(snapshots, noopMetrics{}, logger.Nop())
	svc.RegisterProvider(models.AssetBitcoin, provider, false)

	hist := svc.Changes(context.Background(), models.AssetBitcoin, decimal.NewFromInt(2_600_000_000))
	require.Len(t, hist.Changes, len(models.Periods))
	for _, c := range hist.Changes {
		assert.Nil(t, c.OldValue, c.Period)
		assert.Nil(t, c.ChangePercent, c.Period)
		assert.True(t, c.NewValue.Equal(decimal.NewFromInt(2_600_000_000)))
	}
}

func TestFindNearestPrefersLaterDate(t *testing.T) {
	target, err := time.Parse("2006-01-02", "2026-08-13")
	require.NoError(t, err)

	series := drepo.HistorySeries{
		"2026-08-11": decimal.NewFromInt(1),
		"2026-08-15": decimal.NewFromInt(2),
	}

	// Both candidates are two days away; the later one wins.
	got := findNearest(series, target)
	require.NotNil(t, got)
	assert.Equal(t, "2", got.String())

	// Beyond the tolerance nothing matches.
	far, err := time.Parse("2006-01-02", "2026-08-25")
	require.NoError(t, err)
	assert.Nil(t, findNearest(series, far))
}

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
	"VietPulse/internal/service/store"
	"VietPulse/pkg/cache"
	"VietPulse/pkg/logger"
)

type stubSource struct {
	goldCalls int
	goldErr   error
}

func (s *stubSource) FetchGold(context.Context) (*models.GoldPrice, error) {
	s.goldCalls++
	if s.goldErr != nil {
		return nil, s.goldErr
	}
	return &models.GoldPrice{
		BuyPrice:  decimal.NewFromInt(87_500_000),
		SellPrice: decimal.NewFromInt(88_500_000),
		Unit:      "VND/tael",
		Source:    "24h.com.vn",
		Timestamp: time.Now(),
	}, nil
}

func (s *stubSource) FetchUsdVnd(context.Context) (*models.UsdVndRate, error) {
	return &models.UsdVndRate{SellRate: decimal.NewFromInt(25_450), Source: "EGCurrency", Timestamp: time.Now()}, nil
}

func (s *stubSource) FetchBitcoin(context.Context) (*models.BitcoinPrice, error) {
	return &models.BitcoinPrice{BtcToVnd: decimal.NewFromInt(2_700_000_000), Source: "CoinGecko", Timestamp: time.Now()}, nil
}

func (s *stubSource) FetchVn30(context.Context) (*models.Vn30Index, error) {
	return &models.Vn30Index{IndexValue: decimal.NewFromInt(1_292), Source: "Vietstock", Timestamp: time.Now()}, nil
}

func newMarketService(src *stubSource) (*MarketService, *store.SnapshotStore) {
	snapshots := store.New(store.NewMemoryPersistence(), logger.Nop())
	svc := NewMarketService(src, cache.NewMemoryStore(), 10*time.Minute, snapshots, noopMetrics{}, logger.Nop())
	return svc, snapshots
}

func TestFetchAllRecordsSnapshots(t *testing.T) {
	src := &stubSource{}
	svc, snapshots := newMarketService(src)
	ctx := context.Background()

	md := svc.FetchAll(ctx)
	require.NotNil(t, md.Gold)
	require.NotNil(t, md.UsdVnd)
	require.NotNil(t, md.Bitcoin)
	require.NotNil(t, md.Vn30)

	for _, asset := range []string{models.AssetGold, models.AssetUsdVnd, models.AssetBitcoin, models.AssetVn30} {
		all := snapshots.All(ctx, asset)
		require.Len(t, all, 1, asset)
	}
	got, ok := snapshots.Lookup(ctx, models.AssetGold, md.FetchedAt)
	require.True(t, ok)
	assert.True(t, got.Equal(decimal.NewFromInt(88_500_000)))
}

func TestFetchAllServesFromCacheWithinTTL(t *testing.T) {
	src := &stubSource{}
	svc, _ := newMarketService(src)
	ctx := context.Background()

	svc.FetchAll(ctx)
	svc.FetchAll(ctx)

	assert.Equal(t, 1, src.goldCalls)
}

func TestFetchAllIsolatesFailedAsset(t *testing.T) {
	src := &stubSource{goldErr: errors.New("nil pointer in parser")}
	svc, snapshots := newMarketService(src)
	ctx := context.Background()

	md := svc.FetchAll(ctx)
	assert.Nil(t, md.Gold)
	require.NotNil(t, md.UsdVnd)
	require.NotNil(t, md.Bitcoin)
	require.NotNil(t, md.Vn30)

	assert.Empty(t, snapshots.All(ctx, models.AssetGold))
	assert.Len(t, snapshots.All(ctx, models.AssetUsdVnd), 1)
}

package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"VietPulse/internal/domain/models"
	drepo "VietPulse/internal/domain/repository"
	"VietPulse/pkg/cache"
	"VietPulse/pkg/logger"
)

// MarketService fetches the latest quote per asset through a TTL cache,
// records successful observations into the snapshot store, and isolates
// per-asset failures so one broken upstream never empties the dashboard.
type MarketService struct {
	gold    *cache.Fetcher[*models.GoldPrice]
	usdVnd  *cache.Fetcher[*models.UsdVndRate]
	bitcoin *cache.Fetcher[*models.BitcoinPrice]
	vn30    *cache.Fetcher[*models.Vn30Index]

	snapshots drepo.SnapshotStore
	metrics   drepo.Metrics
	log       *logger.Logger
}

// NewMarketService wires each source method behind its own cache entry.
// ttl <= 0 falls back to the cache package default.
func NewMarketService(
	src drepo.MarketSource,
	store cache.Store,
	ttl time.Duration,
	snapshots drepo.SnapshotStore,
	metrics drepo.Metrics,
	log *logger.Logger,
) *MarketService {
	return &MarketService{
		gold:      cache.NewFetcher(store, cache.GenerateKey("gold_source", "fetch"), "gold_price", ttl, src.FetchGold),
		usdVnd:    cache.NewFetcher(store, cache.GenerateKey("currency_source", "fetch"), "usd_vnd_rate", ttl, src.FetchUsdVnd),
		bitcoin:   cache.NewFetcher(store, cache.GenerateKey("crypto_source", "fetch"), "bitcoin_price", ttl, src.FetchBitcoin),
		vn30:      cache.NewFetcher(store, cache.GenerateKey("stock_source", "fetch"), "vn30_index", ttl, src.FetchVn30),
		snapshots: snapshots,
		metrics:   metrics,
		log:       log,
	}
}

// FetchAll loads every asset concurrently. A failed asset leaves its field
// nil; FetchAll itself never fails.
func (s *MarketService) FetchAll(ctx context.Context) *models.MarketData {
	md := &models.MarketData{FetchedAt: time.Now()}

	var wg sync.WaitGroup
	wg.Add(4)
	go func() {
		defer wg.Done()
		md.Gold = fetchOne(ctx, s, models.AssetGold, s.gold,
			func(g *models.GoldPrice) string { return g.Source })
	}()
	go func() {
		defer wg.Done()
		md.UsdVnd = fetchOne(ctx, s, models.AssetUsdVnd, s.usdVnd,
			func(r *models.UsdVndRate) string { return r.Source })
	}()
	go func() {
		defer wg.Done()
		md.Bitcoin = fetchOne(ctx, s, models.AssetBitcoin, s.bitcoin,
			func(b *models.BitcoinPrice) string { return b.Source })
	}()
	go func() {
		defer wg.Done()
		md.Vn30 = fetchOne(ctx, s, models.AssetVn30, s.vn30,
			func(v *models.Vn30Index) string { return v.Source })
	}()
	wg.Wait()

	s.recordSnapshots(ctx, md)
	return md
}

// fetchOne runs one cached fetch and reports its outcome to metrics. On
// failure it returns a typed nil so the caller's field stays absent.
func fetchOne[T interface{ Value() decimal.Decimal }](
	ctx context.Context,
	s *MarketService,
	asset string,
	f *cache.Fetcher[T],
	source func(T) string,
) T {
	start := time.Now()
	v, err := f.Fetch(ctx)
	s.metrics.RecordLatency("fetch_"+asset, time.Since(start).Seconds())
	if err != nil {
		s.metrics.RecordError("fetch_" + asset)
		s.log.Error("asset fetch failed",
			logger.String("asset", asset),
			logger.Error(err),
		)
		var zero T
		return zero
	}

	s.metrics.RecordFetch(asset, source(v))
	s.metrics.RecordLastValue(asset, v.Value().InexactFloat64())
	return v
}

// recordSnapshots writes every present observation into the daily store.
func (s *MarketService) recordSnapshots(ctx context.Context, md *models.MarketData) {
	at := md.FetchedAt
	if md.Gold != nil {
		s.snapshots.Record(ctx, models.AssetGold, md.Gold.Value(), at)
	}
	if md.UsdVnd != nil {
		s.snapshots.Record(ctx, models.AssetUsdVnd, md.UsdVnd.Value(), at)
	}
	if md.Bitcoin != nil {
		s.snapshots.Record(ctx, models.AssetBitcoin, md.Bitcoin.Value(), at)
	}
	if md.Vn30 != nil {
		s.snapshots.Record(ctx, models.AssetVn30, md.Vn30.Value(), at)
	}
}

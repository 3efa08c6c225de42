package di

import (
	"context"
	"fmt"
	"time"

	"VietPulse/internal/domain/models"
	"VietPulse/internal/domain/repository"
	"VietPulse/internal/handler/api"
	"VietPulse/internal/handler/ws"
	internalrepo "VietPulse/internal/repository"
	"VietPulse/internal/service/history"
	"VietPulse/internal/service/source"
	"VietPulse/internal/service/store"
	"VietPulse/internal/usecase"
	"VietPulse/pkg/cache"
	pkgch "VietPulse/pkg/clickhouse"
	"VietPulse/pkg/config"
	xhttp "VietPulse/pkg/http"
	pkgkafka "VietPulse/pkg/kafka"
	applogger "VietPulse/pkg/logger"
	"VietPulse/pkg/metrics"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
}

// ProvideHTTPClient creates the scraping HTTP client.
func ProvideHTTPClient(cfg *config.Config) *xhttp.Client {
	return xhttp.NewClient(xhttp.WithTimeout(cfg.HTTPClient.Timeout))
}

// ProvideCacheStore creates the fetch cache backend.
func ProvideCacheStore(cfg *config.Config) (cache.Store, error) {
	switch cfg.Cache.Backend {
	case "redis":
		return cache.NewRedisStore(
			cache.WithRedisHost(cfg.Cache.Redis.Host),
			cache.WithRedisPort(cfg.Cache.Redis.Port),
			cache.WithRedisPassword(cfg.Cache.Redis.Password),
			cache.WithRedisDB(cfg.Cache.Redis.DB),
			cache.WithRedisPrefix(cfg.Cache.Redis.Prefix),
		)
	default:
		return cache.NewFileStore(cfg.Cache.Dir)
	}
}

// ProvideClickHouseClient creates a ClickHouse client when the clickhouse
// history backend is configured, nil otherwise.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if cfg.History.Backend != "clickhouse" {
		return nil, nil
	}

	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	table := cfg.ClickHouse.Database + "." + cfg.History.ClickHouseTable
	if err := client.InitSchema(ctx, []string{
		"CREATE DATABASE IF NOT EXISTS " + cfg.ClickHouse.Database,
		"CREATE TABLE IF NOT EXISTS " + table +
			" (asset String, date Date, value String, ts DateTime)" +
			" ENGINE=ReplacingMergeTree(ts) ORDER BY (asset, date)",
	}); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideSnapshotStore creates the daily series store over the configured
// backend.
func ProvideSnapshotStore(cfg *config.Config, chClient *pkgch.Client, log *applogger.Logger) repository.SnapshotStore {
	if cfg.History.Backend == "clickhouse" && chClient != nil {
		table := cfg.ClickHouse.Database + "." + cfg.History.ClickHouseTable
		return store.NewClickHouseStore(chClient.DB(), table, log)
	}
	return store.New(store.NewFilePersistence(cfg.History.File), log)
}

// ProvideKafkaProducer creates a Kafka producer when publishing is enabled,
// nil otherwise.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithMaxAttempts(cfg.Kafka.MaxAttempts),
		pkgkafka.WithTimeouts(cfg.Kafka.WriteTimeout, cfg.Kafka.ReadTimeout),
		pkgkafka.WithAsync(cfg.Kafka.Async),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvidePublisher creates the observation publisher, nil when Kafka is off.
func ProvidePublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.Publisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.Topic)
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideSources creates the per-asset fallback chains.
func ProvideSources(client *xhttp.Client, cfg *config.Config, log *applogger.Logger) repository.MarketSource {
	return source.NewSources(client, source.URLs{
		Gold: source.GoldURLs{
			Gold24h: cfg.Sources.Gold24h,
			SJC:     cfg.Sources.SJC,
			MiHong:  cfg.Sources.MiHong,
		},
		EGCurrency: cfg.Sources.EGCurrency,
		Crypto: source.CryptoURLs{
			CoinMarketCap: cfg.Sources.CoinMarketCap,
			CoinGecko:     cfg.Sources.CoinGecko,
		},
		Vietstock: cfg.Sources.Vietstock,
	}, log)
}

// ProvideMarketService creates the cached fetch use case.
func ProvideMarketService(
	src repository.MarketSource,
	cacheStore cache.Store,
	snapshots repository.SnapshotStore,
	m repository.Metrics,
	cfg *config.Config,
	log *applogger.Logger,
) *usecase.MarketService {
	return usecase.NewMarketService(src, cacheStore, cfg.Cache.TTL, snapshots, m, log)
}

// ProvideHistoryService creates the change aggregator with its bulk
// providers. The gold series backfills the snapshot store; the other assets
// already have deep external history.
func ProvideHistoryService(
	snapshots repository.SnapshotStore,
	m repository.Metrics,
	client *xhttp.Client,
	cfg *config.Config,
	log *applogger.Logger,
) *usecase.HistoryService {
	svc := usecase.NewHistoryService(snapshots, m, log)
	svc.RegisterProvider(models.AssetGold, history.NewChogiaGoldProvider(client, cfg.History.ChogiaAjax), true)
	svc.RegisterProvider(models.AssetUsdVnd, history.NewChogiaUsdProvider(client, cfg.History.ChogiaAjax), false)
	svc.RegisterProvider(models.AssetBitcoin, history.NewCoinGeckoProvider(client, cfg.History.CoinGeckoChart), false)
	svc.RegisterProvider(models.AssetVn30, history.NewVpsProvider(client, cfg.History.VpsHistory), false)
	return svc
}

// ProvideLatest creates the shared cycle-output holder.
func ProvideLatest() *usecase.Latest {
	return usecase.NewLatest()
}

// ProvideHub creates the websocket hub.
func ProvideHub(latest *usecase.Latest, log *applogger.Logger) *ws.Hub {
	return ws.NewHub(latest, log)
}

// ProvideHTTPHandler bundles the API routes and the websocket endpoint.
func ProvideHTTPHandler(
	log *applogger.Logger,
	latest *usecase.Latest,
	snapshots repository.SnapshotStore,
	hub *ws.Hub,
) xhttp.Handler {
	return xhttp.Handlers{
		api.NewMarketHandler(log, latest, snapshots),
		hub,
	}
}

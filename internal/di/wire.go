//go:build wireinject
// +build wireinject

package di

import (
	"VietPulse/pkg/config"
	"VietPulse/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideHTTPClient,
		ProvideCacheStore,
		ProvideClickHouseClient,
		ProvideKafkaProducer,

		// Repositories
		ProvideSnapshotStore,
		ProvidePublisher,
		ProvideSources,

		// Use cases
		ProvideMarketService,
		ProvideHistoryService,
		ProvideLatest,

		// Delivery
		ProvideHub,
		ProvideHTTPHandler,

		server.New,
	)
	return nil, nil
}

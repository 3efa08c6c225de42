package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"VietPulse/internal/domain/models"
	drepo "VietPulse/internal/domain/repository"
	"VietPulse/internal/handler/ws"
	"VietPulse/internal/usecase"
	pkgch "VietPulse/pkg/clickhouse"
	"VietPulse/pkg/config"
	xhttp "VietPulse/pkg/http"
	applogger "VietPulse/pkg/logger"
)

// App encapsulates the entire application lifecycle: the periodic refresh
// loop, the HTTP API, the websocket hub, and the optional Kafka publisher.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	market     *usecase.MarketService
	history    *usecase.HistoryService
	latest     *usecase.Latest
	hub        *ws.Hub
	publisher  drepo.Publisher
	chClient   *pkgch.Client
	handler    xhttp.Handler
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies. publisher and
// chClient may be nil when their backends are not configured.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	market *usecase.MarketService,
	history *usecase.HistoryService,
	latest *usecase.Latest,
	hub *ws.Hub,
	publisher drepo.Publisher,
	chClient *pkgch.Client,
	handler xhttp.Handler,
) *App {
	return &App{
		cfg:       cfg,
		log:       log,
		market:    market,
		history:   history,
		latest:    latest,
		hub:       hub,
		publisher: publisher,
		chClient:  chClient,
		handler:   handler,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go a.hub.Run()

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithLogger(a.log),
	)
	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}

	go a.refreshLoop(ctx)
	a.log.Info("refresh loop started",
		applogger.Duration("interval", a.cfg.Refresh.Interval),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	cancel()
	return a.shutdown()
}

// refreshLoop runs one cycle immediately, then on every tick until ctx is
// cancelled. Interruption lands between cycles; a cycle in flight finishes.
func (a *App) refreshLoop(ctx context.Context) {
	a.cycle(ctx)

	ticker := time.NewTicker(a.cfg.Refresh.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			a.cycle(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// cycle fetches every asset, derives historical changes, and pushes the
// result to the API state, the websocket hub, and Kafka.
func (a *App) cycle(ctx context.Context) {
	start := time.Now()

	md := a.market.FetchAll(ctx)
	hist := a.history.ChangesForAll(ctx, md)
	d := &models.Dashboard{Market: md, History: hist}

	a.latest.Set(d)
	a.hub.Broadcast(d)

	if a.publisher != nil {
		if err := a.publisher.Publish(ctx, md); err != nil {
			a.log.Warn("observation publish failed", applogger.Error(err))
		}
	}

	a.log.Info("refresh cycle complete",
		applogger.Duration("took", time.Since(start)),
		applogger.Bool("gold", md.Gold != nil),
		applogger.Bool("usd_vnd", md.UsdVnd != nil),
		applogger.Bool("bitcoin", md.Bitcoin != nil),
		applogger.Bool("vn30", md.Vn30 != nil),
	)
}

// shutdown gracefully stops all services.
func (a *App) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}

	a.hub.Stop()

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.log.Warn("publisher close error", applogger.Error(err))
		}
	}
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.log.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
	return nil
}

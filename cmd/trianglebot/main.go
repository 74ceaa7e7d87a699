// trianglebot detects and optionally executes triangular arbitrage cycles
// on Binance spot markets.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"syscall"

	"github.com/adshao/go-binance/v2"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel/trace"

	arbapp "github.com/bmino/binance-triangle-arbitrage-sub000/business/arbitrage/app"
	arbdomain "github.com/bmino/binance-triangle-arbitrage-sub000/business/arbitrage/domain"
	marketapp "github.com/bmino/binance-triangle-arbitrage-sub000/business/market/app"
	exchange "github.com/bmino/binance-triangle-arbitrage-sub000/business/market/infra/binance"
	"github.com/bmino/binance-triangle-arbitrage-sub000/internal/apm"
	"github.com/bmino/binance-triangle-arbitrage-sub000/internal/config"
	"github.com/bmino/binance-triangle-arbitrage-sub000/internal/health"
	"github.com/bmino/binance-triangle-arbitrage-sub000/internal/logger"
	"github.com/bmino/binance-triangle-arbitrage-sub000/internal/metrics"
	"github.com/bmino/binance-triangle-arbitrage-sub000/internal/ratelimit"
)

var build = "develop"

func main() {
	_ = godotenv.Load()

	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	traceIDFn := func(ctx context.Context) string {
		sc := trace.SpanFromContext(ctx).SpanContext()
		if !sc.IsValid() {
			return ""
		}
		return sc.TraceID().String()
	}
	log := logger.New(os.Stdout, logger.ParseLevel(cfg.App.LogLevel), cfg.App.Name, traceIDFn)

	ctx := context.Background()
	if err := run(ctx, cfg, log); err != nil {
		log.Error(ctx, "fatal", "error", err.Error())
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info(ctx, "starting",
		"build", build,
		"environment", cfg.App.Environment,
		"trading_enabled", cfg.Trading.Enabled)

	if cfg.Telemetry.Enabled {
		if cfg.Telemetry.ServiceName != "" {
			os.Setenv("OTEL_SERVICE_NAME", cfg.Telemetry.ServiceName)
		}
		if cfg.Telemetry.OTLPEndpoint != "" {
			os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Telemetry.OTLPEndpoint)
		}

		tp := apm.NewTraceProvider(log, apm.WithProvider(apm.OTLPGRPCProvider, log))
		defer tp.Stop()

		mp := metrics.NewMetricProvider(
			metrics.WithServiceName(cfg.Telemetry.ServiceName),
			metrics.WithProviderConfig(metrics.ProviderCfg{Provider: metrics.PrometheusProvider}),
		)
		defer mp.Shutdown(context.Background())

		go func() {
			err := metrics.ServePrometheusMetrics(metrics.WithPort(strconv.Itoa(cfg.Telemetry.PrometheusPort)))
			log.Warn(ctx, "metrics endpoint stopped", "error", err.Error())
		}()
	}

	client := binance.NewClient(os.Getenv("BINANCE_API_KEY"), os.Getenv("BINANCE_SECRET_KEY"))
	if cfg.Binance.RESTURL != "" {
		client.BaseURL = cfg.Binance.RESTURL
	}
	limiter := ratelimit.New(cfg.Binance.RequestsPerMin)

	cache := marketapp.NewCache()
	feed := exchange.NewFeed(client, limiter, log)
	assets := cfg.Trading.WhitelistUpper()

	refresher := marketapp.NewRefresher(cache, feed, assets, cfg.Scheduler.RefreshInterval, log)
	if err := refresher.RefreshOnce(ctx); err != nil {
		return fmt.Errorf("initial metadata load: %w", err)
	}
	go func() { _ = refresher.Run(ctx) }()

	relationships := arbapp.AllRelationships(cache, assets)
	if len(relationships) == 0 {
		return errors.New("no triangular relationships resolvable from whitelist")
	}
	log.Info(ctx, "relationships resolved",
		"assets", len(assets),
		"relationships", len(relationships))

	symbols := tradedSymbols(relationships)
	stream := exchange.NewStream(exchange.StreamConfig{
		WebSocketURL:   cfg.Binance.WebSocketURL,
		DepthSpeedMs:   cfg.Binance.DepthSpeedMs,
		InitialBackoff: cfg.Binance.InitialBackoff,
		MaxBackoff:     cfg.Binance.MaxBackoff,
	}, log)
	if err := stream.Subscribe(ctx, symbols, cache.UpsertDepth); err != nil {
		return fmt.Errorf("depth stream: %w", err)
	}
	defer stream.Close()

	healthSrv := health.NewServer(cfg.Telemetry.HealthPort, build)
	healthSrv.RegisterCheck("depth_stream", func(ctx context.Context) (bool, string) {
		if !stream.Connected() {
			return false, "disconnected"
		}
		return true, ""
	})
	healthSrv.RegisterCheck("market_cache", func(ctx context.Context) (bool, string) {
		if thin := cache.DepthsBelowThreshold(1); len(thin) == len(symbols) {
			return false, "no depth received yet"
		}
		return true, ""
	})
	if err := healthSrv.Start(); err != nil {
		return fmt.Errorf("health server: %w", err)
	}
	defer healthSrv.Stop(context.Background())

	trader := exchange.NewTrader(client, limiter, log)
	gate := arbapp.NewGate(arbapp.GateConfig{
		Live:            cfg.Trading.Enabled,
		ProfitThreshold: cfg.Trading.ProfitThresholdDecimal(),
		AgeThreshold:    cfg.Trading.AgeThreshold,
	}, trader, log)

	scheduler := arbapp.NewScheduler(cache, gate, arbapp.SchedulerConfig{
		Interval:        cfg.Scheduler.Interval,
		Workers:         cfg.Scheduler.Workers,
		DepthSize:       cfg.Depth.Size,
		MinInvestment:   cfg.Investment.MinDecimal(),
		MaxInvestment:   cfg.Investment.MaxDecimal(),
		InvestmentStep:  cfg.Investment.StepDecimal(),
		ProfitThreshold: cfg.Trading.ProfitThresholdDecimal(),
	}, log)

	err := scheduler.Run(ctx, relationships)
	if errors.Is(err, context.Canceled) {
		log.Info(ctx, "shutdown complete")
		return nil
	}
	return err
}

// tradedSymbols returns the deduplicated ticker set the relationships touch.
func tradedSymbols(relationships []*arbdomain.Relationship) []string {
	seen := make(map[string]bool)
	var out []string
	for _, rel := range relationships {
		for _, symbol := range rel.Symbols() {
			if !seen[symbol] {
				seen[symbol] = true
				out = append(out, symbol)
			}
		}
	}
	sort.Strings(out)
	return out
}

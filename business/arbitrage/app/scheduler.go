package app

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"

	"github.com/bmino/binance-triangle-arbitrage-sub000/business/arbitrage/domain"
	marketapp "github.com/bmino/binance-triangle-arbitrage-sub000/business/market/app"
	"github.com/bmino/binance-triangle-arbitrage-sub000/internal/apm"
	"github.com/bmino/binance-triangle-arbitrage-sub000/internal/logger"
)

// SchedulerConfig tunes the evaluation cycle.
type SchedulerConfig struct {
	// Interval between cycle starts. A cycle still running when the next
	// tick fires causes that tick to be dropped, never queued.
	Interval time.Duration

	// Workers bounds the optimizer pool. Zero means GOMAXPROCS.
	Workers int

	// DepthSize is the per-side level count snapshots are pruned to
	// before each cycle.
	DepthSize int

	MinInvestment  decimal.Decimal
	MaxInvestment  decimal.Decimal
	InvestmentStep decimal.Decimal

	// ProfitThreshold selects which calculations are worth forwarding to
	// the execution gate.
	ProfitThreshold decimal.Decimal
}

// Scheduler drives periodic evaluation cycles over a fixed relationship
// set. Workers read detached cache subsets and never write the cache;
// results land in one ReplaceArbs swap at the end of the cycle.
type Scheduler struct {
	cache  *marketapp.Cache
	gate   *Gate
	cfg    SchedulerConfig
	log    logger.LoggerInterface
	tracer apm.Tracer

	running atomic.Bool

	cycleCount    metric.Int64Counter
	cycleDuration metric.Float64Histogram
	infeasible    metric.Int64Counter
	qualifying    metric.Int64Gauge
}

// NewScheduler creates a scheduler over the cache. The gate may be nil
// when nothing downstream consumes qualifying calculations.
func NewScheduler(cache *marketapp.Cache, gate *Gate, cfg SchedulerConfig, log logger.LoggerInterface) *Scheduler {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}

	meter := otel.Meter("arbitrage.scheduler")
	cycleCount, _ := meter.Int64Counter("arbitrage_cycles_total",
		metric.WithDescription("Completed evaluation cycles."))
	cycleDuration, _ := meter.Float64Histogram("arbitrage_cycle_duration_seconds",
		metric.WithDescription("Wall time per evaluation cycle."),
		metric.WithUnit("s"))
	infeasible, _ := meter.Int64Counter("arbitrage_infeasible_relationships_total",
		metric.WithDescription("Relationships with no feasible investment amount."))
	qualifying, _ := meter.Int64Gauge("arbitrage_qualifying_calculations",
		metric.WithDescription("Calculations above the profit threshold after the last cycle."))

	return &Scheduler{
		cache:         cache,
		gate:          gate,
		cfg:           cfg,
		log:           log,
		tracer:        apm.NewTracer("arbitrage.scheduler"),
		cycleCount:    cycleCount,
		cycleDuration: cycleDuration,
		infeasible:    infeasible,
		qualifying:    qualifying,
	}
}

// RunCycle prunes the cached books, optimizes every relationship against a
// consistent reference instant and swaps the results into the cache. It
// returns the calculations above the profit threshold, best first. A cycle
// already in flight makes the call a no-op.
func (s *Scheduler) RunCycle(ctx context.Context, relationships []*domain.Relationship) []*domain.Calculation {
	if !s.running.CompareAndSwap(false, true) {
		s.log.Warn(ctx, "cycle still running, tick dropped")
		return nil
	}
	defer s.running.Store(false)

	ctx, span := s.tracer.StartSpanFromContext(ctx, "scheduler.run_cycle")
	defer span.End()
	span.SetAttributes(attribute.Int("relationships", len(relationships)))

	started := time.Now()
	s.cache.PruneDepth(s.cfg.DepthSize)
	at := time.Now()

	var (
		mu      sync.Mutex
		results = make(map[string]*domain.Calculation, len(relationships))
		skipped int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Workers)
	for _, rel := range relationships {
		rel := rel
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			view := s.cache.Subset(rel.Symbols())
			calc, ok := Optimize(rel, s.cfg.MinInvestment, s.cfg.MaxInvestment, s.cfg.InvestmentStep, view, at)
			mu.Lock()
			if ok {
				results[rel.ID] = calc
			} else {
				skipped++
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	ordered := make([]*domain.Calculation, 0, len(results))
	for _, rel := range relationships {
		if calc, ok := results[rel.ID]; ok {
			ordered = append(ordered, calc)
		}
	}
	s.cache.ReplaceArbs(ordered)

	above := s.cache.ArbsAboveProfit(s.cfg.ProfitThreshold)
	elapsed := time.Since(started)

	s.cycleCount.Add(ctx, 1)
	s.cycleDuration.Record(ctx, elapsed.Seconds())
	s.infeasible.Add(ctx, skipped)
	s.qualifying.Record(ctx, int64(len(above)))

	s.log.Debug(ctx, "cycle complete",
		"relationships", len(relationships),
		"calculated", len(ordered),
		"infeasible", skipped,
		"qualifying", len(above),
		"elapsed", elapsed.String())
	return above
}

// Run executes cycles on the configured interval until the context is
// canceled. The best qualifying calculation of each cycle is handed to the
// gate; the rest stay queryable in the cache.
func (s *Scheduler) Run(ctx context.Context, relationships []*domain.Relationship) error {
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			above := s.RunCycle(ctx, relationships)
			if len(above) == 0 || s.gate == nil {
				continue
			}
			if _, err := s.gate.Evaluate(ctx, above[0]); err != nil {
				s.log.Error(ctx, "execution failed",
					"relationship", above[0].Relationship.ID,
					"error", err.Error())
			}
		}
	}
}

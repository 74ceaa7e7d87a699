package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bmino/binance-triangle-arbitrage-sub000/business/arbitrage/domain"
	"github.com/bmino/binance-triangle-arbitrage-sub000/internal/apperror"
	"github.com/bmino/binance-triangle-arbitrage-sub000/internal/logger"
)

// GateConfig controls when a calculation crosses from paper to execution.
type GateConfig struct {
	// Live places real orders when true; otherwise the gate only reports
	// what it would have traded.
	Live bool

	// ProfitThreshold is the minimum percent return worth acting on.
	ProfitThreshold decimal.Decimal

	// AgeThreshold rejects calculations whose oldest depth snapshot is
	// staler than this.
	AgeThreshold time.Duration
}

// PlacedOrder records one executed leg of a cycle.
type PlacedOrder struct {
	Symbol   string
	Side     domain.Method
	Quantity decimal.Decimal
	OrderID  string
}

// ExecutionReport is the gate's account of one qualifying calculation.
// FailedLeg is -1 when all placed legs succeeded.
type ExecutionReport struct {
	ID             string
	RelationshipID string
	Live           bool
	Percent        decimal.Decimal
	Orders         []PlacedOrder
	FailedLeg      int
}

// Gate decides whether a qualifying calculation becomes real orders. Legs
// are placed strictly in sequence; a failed leg aborts the cycle and the
// report says how far execution got, because the earlier fills are already
// on the exchange.
type Gate struct {
	cfg    GateConfig
	placer OrderPlacer
	log    logger.LoggerInterface
}

// NewGate creates an execution gate. The placer may be nil when Live is
// false.
func NewGate(cfg GateConfig, placer OrderPlacer, log logger.LoggerInterface) *Gate {
	return &Gate{cfg: cfg, placer: placer, log: log}
}

// Evaluate applies the profit and staleness thresholds to calc and, in
// live mode, places its three legs. A nil report means the calculation did
// not qualify.
func (g *Gate) Evaluate(ctx context.Context, calc *domain.Calculation) (*ExecutionReport, error) {
	if !calc.Percent.GreaterThan(g.cfg.ProfitThreshold) {
		g.log.Debug(ctx, "below profit threshold",
			"relationship", calc.Relationship.ID,
			"percent", calc.Percent.String())
		return nil, nil
	}
	if age := calc.MaxAge(); age > g.cfg.AgeThreshold {
		g.log.Info(ctx, "rejected stale calculation",
			"relationship", calc.Relationship.ID,
			"percent", calc.Percent.String(),
			"max_age", age.String())
		return nil, nil
	}

	report := &ExecutionReport{
		ID:             uuid.NewString(),
		RelationshipID: calc.Relationship.ID,
		Live:           g.cfg.Live,
		Percent:        calc.Percent,
		FailedLeg:      -1,
	}

	if !g.cfg.Live {
		g.log.Info(ctx, "paper trade",
			"execution_id", report.ID,
			"relationship", calc.Relationship.ID,
			"percent", calc.Percent.String(),
			"investment", calc.Investment.String(),
			"volume_score", calc.Volume.String())
		return report, nil
	}

	legs := calc.Relationship.Legs()
	fills := [3]decimal.Decimal{calc.AB.Filled, calc.BC.Filled, calc.CA.Filled}

	for i, leg := range legs {
		orderID, err := g.placer.PlaceMarketOrder(ctx, leg.Symbol, leg.Method, fills[i])
		if err != nil {
			report.FailedLeg = i
			g.log.Error(ctx, "leg placement failed",
				"execution_id", report.ID,
				"relationship", calc.Relationship.ID,
				"leg", i,
				"symbol", leg.Symbol,
				"side", string(leg.Method),
				"quantity", fills[i].String(),
				"legs_filled", len(report.Orders),
				"error", err.Error())
			return report, apperror.New(apperror.CodeOrderPlacementFailed,
				apperror.WithCause(err),
				apperror.WithContext(fmt.Sprintf("execution %s leg %d %s %s qty %s, %d legs already filled",
					report.ID, i, leg.Method, leg.Symbol, fills[i], len(report.Orders))))
		}
		report.Orders = append(report.Orders, PlacedOrder{
			Symbol:   leg.Symbol,
			Side:     leg.Method,
			Quantity: fills[i],
			OrderID:  orderID,
		})
	}

	g.log.Info(ctx, "cycle executed",
		"execution_id", report.ID,
		"relationship", calc.Relationship.ID,
		"percent", calc.Percent.String(),
		"orders", len(report.Orders))
	return report, nil
}

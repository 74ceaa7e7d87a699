package app

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bmino/binance-triangle-arbitrage-sub000/business/arbitrage/domain"
	marketapp "github.com/bmino/binance-triangle-arbitrage-sub000/business/market/app"
)

// Optimize sweeps investment amounts from min to max in step increments
// and returns the calculation with the highest percent return. Amounts the
// books cannot absorb are skipped, not fatal. Ties keep the first amount
// seen, so the sweep is deterministic for a fixed view. Returns false when
// no amount in the range was feasible.
func Optimize(rel *domain.Relationship, min, max, step decimal.Decimal, view marketapp.BookView, at time.Time) (*domain.Calculation, bool) {
	var best *domain.Calculation
	for amount := min; amount.LessThanOrEqual(max); amount = amount.Add(step) {
		calc, err := Calculate(amount, rel, view, at)
		if err != nil {
			var depthErr *domain.InsufficientDepthError
			if errors.As(err, &depthErr) {
				continue
			}
			return best, best != nil
		}
		if best == nil || calc.Percent.GreaterThan(best.Percent) {
			best = calc
		}
	}
	return best, best != nil
}

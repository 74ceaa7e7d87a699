package app

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bmino/binance-triangle-arbitrage-sub000/business/arbitrage/domain"
	marketapp "github.com/bmino/binance-triangle-arbitrage-sub000/business/market/app"
)

var hoursPerDay = decimal.NewFromInt(24)

var oneHundred = decimal.NewFromInt(100)

// Calculate simulates pushing investment units of the home asset through
// the relationship's three legs against the books in view. The reference
// instant at fixes snapshot ages, so repeated calls over the same view and
// instant produce identical results. The only expected failure is
// InsufficientDepthError; a leg whose snapshot has not arrived yet reports
// the same error with the full amount unfilled.
func Calculate(investment decimal.Decimal, rel *domain.Relationship, view marketapp.BookView, at time.Time) (*domain.Calculation, error) {
	calc := &domain.Calculation{
		Relationship: rel,
		Investment:   investment,
	}

	b, err := convertLeg(investment, rel.A, rel.B, rel.AB, view, at, &calc.AB)
	if err != nil {
		return nil, err
	}
	calc.B = b

	c, err := convertLeg(b, rel.B, rel.C, rel.BC, view, at, &calc.BC)
	if err != nil {
		return nil, err
	}
	calc.C = c

	a, err := convertLeg(c, rel.C, rel.A, rel.CA, view, at, &calc.CA)
	if err != nil {
		return nil, err
	}
	calc.A = a

	if !investment.IsZero() {
		calc.Percent = a.Sub(investment).Div(investment).Mul(oneHundred)
	}
	calc.Volume = volumeScore(rel, calc, view)
	return calc, nil
}

// convertLeg simulates one conversion step, recording the lot-size rounding
// into res. The returned balance is the amount of the to asset held after
// the leg.
func convertLeg(held decimal.Decimal, from, to string, leg domain.TradeLeg, view marketapp.BookView, at time.Time, res *domain.LegResult) (decimal.Decimal, error) {
	snap, ok := view.Depth(leg.Symbol)
	if !ok {
		return decimal.Zero, &domain.InsufficientDepthError{Symbol: leg.Symbol, Remainder: held}
	}
	ticker, ok := view.Ticker(leg.Symbol)
	if !ok {
		return decimal.Zero, &domain.InsufficientDepthError{Symbol: leg.Symbol, Remainder: held}
	}
	res.Age = snap.Age(at)

	if leg.Method == domain.MethodSell {
		// held is the base asset: round first, then sell the rounded
		// quantity into the bids.
		filled := ticker.RoundToLotSize(held)
		res.Requested = held
		res.Filled = filled
		res.Dust = held.Sub(filled)
		res.Market = filled
		return Walk(filled, from, to, snap)
	}

	// held is the quote asset: find how much base it buys, round that
	// down to the lot size, and price the rounded quantity off the asks.
	gross, err := Walk(held, from, to, snap)
	if err != nil {
		return decimal.Zero, err
	}
	filled := ticker.RoundToLotSize(gross)
	res.Requested = gross
	res.Filled = filled
	res.Dust = gross.Sub(filled)

	market, err := WalkReverse(filled, snap)
	if err != nil {
		return decimal.Zero, err
	}
	res.Market = market
	return filled, nil
}

// volumeScore estimates liquidity impact: the worst leg's filled quantity
// relative to one hour's share of that ticker's 24h volume, as a percent.
func volumeScore(rel *domain.Relationship, calc *domain.Calculation, view marketapp.BookView) decimal.Decimal {
	legs := rel.Legs()
	fills := [3]decimal.Decimal{calc.AB.Filled, calc.BC.Filled, calc.CA.Filled}

	score := decimal.Zero
	for i, leg := range legs {
		vol := leg.Volume
		if v, ok := view.Volume(leg.Symbol); ok {
			vol = v
		}
		if vol.IsZero() {
			continue
		}
		s := fills[i].Div(vol.Div(hoursPerDay))
		if s.GreaterThan(score) {
			score = s
		}
	}
	return score.Mul(oneHundred)
}

// Package app contains the application services for the arbitrage context:
// relationship resolution, fill simulation, calculation, optimization,
// the evaluation cycle and the execution gate.
package app

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/bmino/binance-triangle-arbitrage-sub000/business/arbitrage/domain"
	marketdomain "github.com/bmino/binance-triangle-arbitrage-sub000/business/market/domain"
)

// TickerIndex is the slice of the market cache the resolver consumes.
type TickerIndex interface {
	Ticker(symbol string) (marketdomain.Ticker, bool)
	Volume(symbol string) (decimal.Decimal, bool)
}

// OrderPlacer performs a market order on the exchange. The call is opaque
// and carries no retry; it resolves with the exchange order id or an error.
type OrderPlacer interface {
	PlaceMarketOrder(ctx context.Context, symbol string, side domain.Method, quantity decimal.Decimal) (string, error)
}

// Package app contains the market cache and collaborator port definitions
// for the market context.
package app

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/bmino/binance-triangle-arbitrage-sub000/business/market/domain"
)

// BookView is the read-only view of market data the calculation engine
// consumes. All lookups are total: a missing symbol means "not tradable
// yet", never an error.
type BookView interface {
	Ticker(symbol string) (domain.Ticker, bool)
	Depth(symbol string) (*domain.DepthSnapshot, bool)
	Volume(symbol string) (decimal.Decimal, bool)
}

// MetadataFeed supplies instrument metadata and rolling 24h volumes from
// the exchange.
type MetadataFeed interface {
	// ExchangeTickers returns the tradable instruments whose base and
	// quote assets are both in symbols.
	ExchangeTickers(ctx context.Context, symbols []string) ([]domain.Ticker, error)

	// DayVolumes returns 24h base volume per ticker symbol.
	DayVolumes(ctx context.Context) (map[string]decimal.Decimal, error)
}

// DepthHandler receives one depth snapshot per stream event.
type DepthHandler func(snapshot *domain.DepthSnapshot)

// DepthStream delivers streaming depth snapshots for a set of tickers.
type DepthStream interface {
	Subscribe(ctx context.Context, symbols []string, handler DepthHandler) error
	Close() error
}

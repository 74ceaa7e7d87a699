package app

import (
	"time"

	"github.com/shopspring/decimal"

	marketdomain "github.com/bmino/binance-triangle-arbitrage-sub000/business/market/domain"
)

// fakeBook implements BookView and TickerIndex for the application tests.
type fakeBook struct {
	tickers map[string]marketdomain.Ticker
	depths  map[string]*marketdomain.DepthSnapshot
	volumes map[string]decimal.Decimal
}

func newFakeBook() *fakeBook {
	return &fakeBook{
		tickers: make(map[string]marketdomain.Ticker),
		depths:  make(map[string]*marketdomain.DepthSnapshot),
		volumes: make(map[string]decimal.Decimal),
	}
}

func (b *fakeBook) addTicker(symbol string, dustDecimals int32) *fakeBook {
	b.tickers[symbol] = marketdomain.Ticker{
		Symbol:       symbol,
		Status:       marketdomain.StatusTrading,
		DustDecimals: dustDecimals,
	}
	return b
}

func (b *fakeBook) addHaltedTicker(symbol string) *fakeBook {
	b.tickers[symbol] = marketdomain.Ticker{Symbol: symbol, Status: "BREAK"}
	return b
}

func (b *fakeBook) addDepth(symbol string, eventTime time.Time, bids, asks [][2]string) *fakeBook {
	b.depths[symbol] = &marketdomain.DepthSnapshot{
		Symbol:    symbol,
		Bids:      parseTestLevels(bids),
		Asks:      parseTestLevels(asks),
		EventTime: eventTime,
	}
	return b
}

func (b *fakeBook) setVolume(symbol, volume string) *fakeBook {
	b.volumes[symbol] = decimal.RequireFromString(volume)
	return b
}

func (b *fakeBook) Ticker(symbol string) (marketdomain.Ticker, bool) {
	t, ok := b.tickers[symbol]
	return t, ok
}

func (b *fakeBook) Depth(symbol string) (*marketdomain.DepthSnapshot, bool) {
	s, ok := b.depths[symbol]
	return s, ok
}

func (b *fakeBook) Volume(symbol string) (decimal.Decimal, bool) {
	v, ok := b.volumes[symbol]
	return v, ok
}

func parseTestLevels(raw [][2]string) []marketdomain.DepthLevel {
	out := make([]marketdomain.DepthLevel, len(raw))
	for i, pair := range raw {
		out[i] = marketdomain.DepthLevel{
			Price:    decimal.RequireFromString(pair[0]),
			Quantity: decimal.RequireFromString(pair[1]),
		}
	}
	return out
}

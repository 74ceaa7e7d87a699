package app

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bmino/binance-triangle-arbitrage-sub000/business/arbitrage/domain"
)

// ResolveLeg finds the trading direction that converts the from asset into
// the to asset. A ticker named from+to means selling the held asset into
// its bids; a ticker named to+from means buying the target asset off its
// asks. Tickers that exist but are not in TRADING status are ignored.
func ResolveLeg(idx TickerIndex, from, to string) (domain.TradeLeg, bool) {
	from = strings.ToUpper(from)
	to = strings.ToUpper(to)

	if t, ok := idx.Ticker(from + to); ok && t.Tradable() {
		return domain.TradeLeg{
			Method: domain.MethodSell,
			Symbol: t.Symbol,
			Volume: volumeOrZero(idx, t.Symbol),
		}, true
	}
	if t, ok := idx.Ticker(to + from); ok && t.Tradable() {
		return domain.TradeLeg{
			Method: domain.MethodBuy,
			Symbol: t.Symbol,
			Volume: volumeOrZero(idx, t.Symbol),
		}, true
	}
	return domain.TradeLeg{}, false
}

// ResolveRelationship builds the A→B→C→A cycle if every leg has a tradable
// ticker. Resolution short-circuits on the first missing leg.
func ResolveRelationship(idx TickerIndex, a, b, c string) (*domain.Relationship, bool) {
	a = strings.ToUpper(a)
	b = strings.ToUpper(b)
	c = strings.ToUpper(c)

	ab, ok := ResolveLeg(idx, a, b)
	if !ok {
		return nil, false
	}
	bc, ok := ResolveLeg(idx, b, c)
	if !ok {
		return nil, false
	}
	ca, ok := ResolveLeg(idx, c, a)
	if !ok {
		return nil, false
	}

	return &domain.Relationship{
		ID: a + "-" + b + "-" + c,
		A:  a,
		B:  b,
		C:  c,
		AB: ab,
		BC: bc,
		CA: ca,
	}, true
}

// AllRelationships enumerates every resolvable ordered triple over the
// asset whitelist. Rotations of the same cycle are kept: each holds its
// capital in a different home asset, so their outcomes differ.
func AllRelationships(idx TickerIndex, assets []string) []*domain.Relationship {
	var out []*domain.Relationship
	for _, a := range assets {
		for _, b := range assets {
			if b == a {
				continue
			}
			for _, c := range assets {
				if c == a || c == b {
					continue
				}
				if rel, ok := ResolveRelationship(idx, a, b, c); ok {
					out = append(out, rel)
				}
			}
		}
	}
	return out
}

func volumeOrZero(idx TickerIndex, symbol string) decimal.Decimal {
	if v, ok := idx.Volume(symbol); ok {
		return v
	}
	return decimal.Zero
}

package app

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bmino/binance-triangle-arbitrage-sub000/business/arbitrage/domain"
	marketdomain "github.com/bmino/binance-triangle-arbitrage-sub000/business/market/domain"
)

// Walk simulates converting amount of the from asset into the to asset by
// consuming the snapshot's book level by level. When the snapshot's ticker
// is from+to the held asset is its base and the bids are walked; otherwise
// the held asset is the quote and the asks are walked, buying base units.
// A book too shallow to absorb the amount yields InsufficientDepthError.
func Walk(amount decimal.Decimal, from, to string, snap *marketdomain.DepthSnapshot) (decimal.Decimal, error) {
	if amount.IsZero() {
		return decimal.Zero, nil
	}
	if snap.Symbol == strings.ToUpper(from)+strings.ToUpper(to) {
		return walkBids(amount, snap)
	}
	return walkAsks(amount, snap)
}

// walkBids sells base units into the bid side, accumulating quote proceeds.
func walkBids(amount decimal.Decimal, snap *marketdomain.DepthSnapshot) (decimal.Decimal, error) {
	remaining := amount
	proceeds := decimal.Zero
	for _, level := range snap.Bids {
		if level.Quantity.LessThan(remaining) {
			proceeds = proceeds.Add(level.Quantity.Mul(level.Price))
			remaining = remaining.Sub(level.Quantity)
			continue
		}
		return proceeds.Add(remaining.Mul(level.Price)), nil
	}
	return decimal.Zero, &domain.InsufficientDepthError{Symbol: snap.Symbol, Remainder: remaining}
}

// walkAsks spends quote units into the ask side, accumulating base units.
func walkAsks(spend decimal.Decimal, snap *marketdomain.DepthSnapshot) (decimal.Decimal, error) {
	remaining := spend
	acquired := decimal.Zero
	for _, level := range snap.Asks {
		if level.Price.IsZero() {
			continue
		}
		value := level.Quantity.Mul(level.Price)
		if value.LessThan(remaining) {
			acquired = acquired.Add(level.Quantity)
			remaining = remaining.Sub(value)
			continue
		}
		return acquired.Add(remaining.Div(level.Price)), nil
	}
	return decimal.Zero, &domain.InsufficientDepthError{Symbol: snap.Symbol, Remainder: remaining}
}

// WalkReverse back-computes the quote cost of acquiring quantity base units
// off the ask side. Used after lot-size rounding on a buy leg to price the
// quantity the order would actually carry.
func WalkReverse(quantity decimal.Decimal, snap *marketdomain.DepthSnapshot) (decimal.Decimal, error) {
	if quantity.IsZero() {
		return decimal.Zero, nil
	}
	remaining := quantity
	cost := decimal.Zero
	for _, level := range snap.Asks {
		if level.Quantity.LessThan(remaining) {
			cost = cost.Add(level.Quantity.Mul(level.Price))
			remaining = remaining.Sub(level.Quantity)
			continue
		}
		return cost.Add(remaining.Mul(level.Price)), nil
	}
	return decimal.Zero, &domain.InsufficientDepthError{Symbol: snap.Symbol, Remainder: remaining}
}

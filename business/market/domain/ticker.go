// Package domain contains the core domain types for the market context.
package domain

import "github.com/shopspring/decimal"

// StatusTrading is the exchange status of an instrument accepting orders.
const StatusTrading = "TRADING"

// Ticker is the metadata of a single instrument. Immutable after load
// except on exchange-info refresh.
type Ticker struct {
	Symbol       string
	Base         string
	Quote        string
	Status       string
	DustDecimals int32
}

// Tradable reports whether the instrument currently accepts orders.
func (t Ticker) Tradable() bool {
	return t.Status == StatusTrading
}

// RoundToLotSize truncates amount to the instrument's tradable precision.
// Truncation, never rounding up: the exchange rejects orders finer than the
// lot size, so the fractional remainder is dust the caller must track.
func (t Ticker) RoundToLotSize(amount decimal.Decimal) decimal.Decimal {
	return amount.Truncate(t.DustDecimals)
}

// DustDecimalsFromMinQty derives the allowed quantity decimals from the
// exchange's minimum-quantity filter: a filter of exactly 1 allows whole
// units only; otherwise the decimals equal the position of the significant
// digit (0.001 allows 3 decimals).
func DustDecimalsFromMinQty(minQty decimal.Decimal) int32 {
	if minQty.Equal(decimal.NewFromInt(1)) {
		return 0
	}
	exp := -minQty.Exponent()
	// trailing zeros in string form ("0.00100000") inflate the exponent
	for exp > 0 && minQty.Shift(exp-1).IsInteger() {
		exp--
	}
	if exp < 0 {
		return 0
	}
	return exp
}

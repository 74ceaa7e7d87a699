// Package domain contains the core domain types for the arbitrage context.
package domain

import "github.com/shopspring/decimal"

// Method is the direction a leg trades on its ticker.
type Method string

const (
	// MethodBuy acquires the next asset from the ask side of the ticker.
	MethodBuy Method = "BUY"

	// MethodSell converts the held asset into the bid side of the ticker.
	MethodSell Method = "SELL"
)

// TradeLeg describes one conversion step of a triangular cycle. Volume is
// the ticker's 24h base volume, used for liquidity-impact estimation.
type TradeLeg struct {
	Method Method
	Symbol string
	Volume decimal.Decimal
}

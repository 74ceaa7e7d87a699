package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LegResult is the simulated outcome of one leg of a cycle.
type LegResult struct {
	// Requested is the quantity the leg wanted to trade before lot-size
	// rounding, denominated in the ticker's base asset.
	Requested decimal.Decimal

	// Filled is the lot-size-rounded quantity the order would carry.
	Filled decimal.Decimal

	// Dust is Requested minus Filled: the untradable remainder.
	Dust decimal.Decimal

	// Market is the amount committed on the spend side of the leg: the
	// rounded quantity itself on a sell, the back-computed cost of the
	// rounded quantity on a buy.
	Market decimal.Decimal

	// Age is how old the leg's depth snapshot was at calculation time.
	Age time.Duration
}

// Calculation is the full simulated outcome of pushing an investment
// through a relationship's three legs against cached depth.
type Calculation struct {
	Relationship *Relationship

	// Investment is the starting amount of the home asset A.
	Investment decimal.Decimal

	// B and C are the realized balances of the intermediate assets;
	// A is the realized home-asset balance after the final leg.
	A decimal.Decimal
	B decimal.Decimal
	C decimal.Decimal

	AB LegResult
	BC LegResult
	CA LegResult

	// Percent is (A - Investment) / Investment * 100, forced to zero
	// when the arithmetic would not be finite.
	Percent decimal.Decimal

	// Volume scores how much of daily liquidity the trade would consume:
	// max over legs of filled/(24h volume / 24), times 100. Higher means
	// riskier to fill at the simulated price.
	Volume decimal.Decimal
}

// MaxAge returns the oldest of the three legs' snapshot ages.
func (c *Calculation) MaxAge() time.Duration {
	max := c.AB.Age
	if c.BC.Age > max {
		max = c.BC.Age
	}
	if c.CA.Age > max {
		max = c.CA.Age
	}
	return max
}

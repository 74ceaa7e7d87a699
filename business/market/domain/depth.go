package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DepthLevel is a single price level of an order book side.
type DepthLevel struct {
	Price    decimal.Decimal
	Quantity decimal.Decimal
}

// DepthSnapshot is a point-in-time view of an instrument's order book.
// Bids are ordered best (highest) first, asks best (lowest) first. A
// snapshot is replaced wholesale on every stream update; it is never
// mutated after publication, so readers can hold it without locking.
type DepthSnapshot struct {
	Symbol    string
	Bids      []DepthLevel
	Asks      []DepthLevel
	EventTime time.Time
}

// Age returns how old this snapshot is relative to now.
func (s *DepthSnapshot) Age(now time.Time) time.Duration {
	return now.Sub(s.EventTime)
}

// Pruned returns a snapshot restricted to the best maxLevels levels per
// side. The underlying level slices are shared, not copied.
func (s *DepthSnapshot) Pruned(maxLevels int) *DepthSnapshot {
	if len(s.Bids) <= maxLevels && len(s.Asks) <= maxLevels {
		return s
	}

	out := &DepthSnapshot{
		Symbol:    s.Symbol,
		Bids:      s.Bids,
		Asks:      s.Asks,
		EventTime: s.EventTime,
	}
	if len(out.Bids) > maxLevels {
		out.Bids = out.Bids[:maxLevels]
	}
	if len(out.Asks) > maxLevels {
		out.Asks = out.Asks[:maxLevels]
	}
	return out
}

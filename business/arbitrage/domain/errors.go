package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// InsufficientDepthError reports that an order book could not absorb the
// requested conversion. It is recoverable per investment amount: the
// optimizer skips the amount rather than aborting the search.
type InsufficientDepthError struct {
	Symbol    string
	Remainder decimal.Decimal
}

func (e *InsufficientDepthError) Error() string {
	return fmt.Sprintf("insufficient depth on %s: %s unfilled", e.Symbol, e.Remainder)
}

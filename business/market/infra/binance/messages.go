package binance

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bmino/binance-triangle-arbitrage-sub000/business/market/domain"
	"github.com/bmino/binance-triangle-arbitrage-sub000/internal/apperror"
)

// combinedStreamEvent is the envelope of the /stream multiplexed endpoint.
type combinedStreamEvent struct {
	Stream string          `json:"stream"`
	Data   json.RawMessage `json:"data"`
}

// partialDepthPayload is a depth<N> partial book snapshot.
type partialDepthPayload struct {
	LastUpdateID int64      `json:"lastUpdateId"`
	Bids         [][]string `json:"bids"`
	Asks         [][]string `json:"asks"`
}

// symbolFromStream extracts the upper-cased ticker from a stream name like
// "ethbtc@depth20@100ms".
func symbolFromStream(stream string) string {
	name, _, _ := strings.Cut(stream, "@")
	return strings.ToUpper(name)
}

// parseLevels converts the wire's [price, quantity] string pairs.
func parseLevels(raw [][]string) ([]domain.DepthLevel, error) {
	out := make([]domain.DepthLevel, 0, len(raw))
	for _, pair := range raw {
		if len(pair) < 2 {
			return nil, apperror.New(apperror.CodeDepthParseError,
				apperror.WithContext("level pair too short"))
		}
		price, err := decimal.NewFromString(pair[0])
		if err != nil {
			return nil, apperror.New(apperror.CodeDepthParseError,
				apperror.WithContext("price "+pair[0]),
				apperror.WithCause(err))
		}
		qty, err := decimal.NewFromString(pair[1])
		if err != nil {
			return nil, apperror.New(apperror.CodeDepthParseError,
				apperror.WithContext("quantity "+pair[1]),
				apperror.WithCause(err))
		}
		out = append(out, domain.DepthLevel{Price: price, Quantity: qty})
	}
	return out, nil
}

package binance

import (
	"context"
	"errors"
	"strconv"

	"github.com/adshao/go-binance/v2"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"

	arbdomain "github.com/bmino/binance-triangle-arbitrage-sub000/business/arbitrage/domain"
	"github.com/bmino/binance-triangle-arbitrage-sub000/internal/apperror"
	"github.com/bmino/binance-triangle-arbitrage-sub000/internal/logger"
	"github.com/bmino/binance-triangle-arbitrage-sub000/internal/ratelimit"
)

// Trader places market orders on the exchange. A circuit breaker sits in
// front of the order endpoint so a failing exchange sheds calls quickly
// instead of queueing them behind the rate limiter.
type Trader struct {
	client  *binance.Client
	limiter *ratelimit.Limiter
	breaker *gobreaker.CircuitBreaker[*binance.CreateOrderResponse]
	log     logger.LoggerInterface
}

// NewTrader creates an order placer over the given client.
func NewTrader(client *binance.Client, limiter *ratelimit.Limiter, log logger.LoggerInterface) *Trader {
	t := &Trader{
		client:  client,
		limiter: limiter,
		log:     log,
	}
	t.breaker = gobreaker.NewCircuitBreaker[*binance.CreateOrderResponse](gobreaker.Settings{
		Name: "binance-orders",
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			t.log.Warn(context.Background(), "order circuit state change",
				"breaker", name, "from", from.String(), "to", to.String())
		},
	})
	return t
}

// PlaceMarketOrder submits a market order and returns the exchange order
// id. An open circuit maps to its own error code so the gate can tell
// "exchange refused" from "we refused to ask".
func (t *Trader) PlaceMarketOrder(ctx context.Context, symbol string, side arbdomain.Method, quantity decimal.Decimal) (string, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return "", err
	}

	res, err := t.breaker.Execute(func() (*binance.CreateOrderResponse, error) {
		return t.client.NewCreateOrderService().
			Symbol(symbol).
			Side(sideType(side)).
			Type(binance.OrderTypeMarket).
			Quantity(quantity.String()).
			Do(ctx)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", apperror.New(apperror.CodeCircuitOpen,
				apperror.WithContext(symbol),
				apperror.WithCause(err))
		}
		return "", apperror.New(apperror.CodeOrderPlacementFailed,
			apperror.WithContext(symbol),
			apperror.WithCause(err))
	}

	return strconv.FormatInt(res.OrderID, 10), nil
}

func sideType(side arbdomain.Method) binance.SideType {
	if side == arbdomain.MethodBuy {
		return binance.SideTypeBuy
	}
	return binance.SideTypeSell
}

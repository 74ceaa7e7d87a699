// Package binance implements the market ports against the Binance spot
// REST and WebSocket APIs.
package binance

import (
	"context"
	"strings"

	"github.com/adshao/go-binance/v2"
	"github.com/shopspring/decimal"

	"github.com/bmino/binance-triangle-arbitrage-sub000/business/market/domain"
	"github.com/bmino/binance-triangle-arbitrage-sub000/internal/apperror"
	"github.com/bmino/binance-triangle-arbitrage-sub000/internal/logger"
	"github.com/bmino/binance-triangle-arbitrage-sub000/internal/ratelimit"
)

// Feed serves instrument metadata and 24h volumes from the REST API.
type Feed struct {
	client  *binance.Client
	limiter *ratelimit.Limiter
	log     logger.LoggerInterface
}

// NewFeed creates a metadata feed over the given client.
func NewFeed(client *binance.Client, limiter *ratelimit.Limiter, log logger.LoggerInterface) *Feed {
	return &Feed{client: client, limiter: limiter, log: log}
}

// ExchangeTickers loads exchange info and returns the instruments whose
// base and quote assets are both in assets. Instruments without a lot-size
// filter are skipped; the dust decimals cannot be derived for them.
func (f *Feed) ExchangeTickers(ctx context.Context, assets []string) ([]domain.Ticker, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	info, err := f.client.NewExchangeInfoService().Do(ctx)
	if err != nil {
		return nil, apperror.New(apperror.CodeExchangeAPIError,
			apperror.WithContext("exchange info"),
			apperror.WithCause(err))
	}

	wanted := make(map[string]bool, len(assets))
	for _, a := range assets {
		wanted[strings.ToUpper(a)] = true
	}

	var out []domain.Ticker
	for _, s := range info.Symbols {
		if !wanted[s.BaseAsset] || !wanted[s.QuoteAsset] {
			continue
		}
		lot := s.LotSizeFilter()
		if lot == nil {
			f.log.Warn(ctx, "skipping instrument without lot-size filter", "symbol", s.Symbol)
			continue
		}
		minQty, err := decimal.NewFromString(lot.MinQuantity)
		if err != nil {
			f.log.Warn(ctx, "unparseable min quantity",
				"symbol", s.Symbol, "min_qty", lot.MinQuantity, "error", err.Error())
			continue
		}
		out = append(out, domain.Ticker{
			Symbol:       s.Symbol,
			Base:         s.BaseAsset,
			Quote:        s.QuoteAsset,
			Status:       s.Status,
			DustDecimals: domain.DustDecimalsFromMinQty(minQty),
		})
	}
	return out, nil
}

// DayVolumes returns the rolling 24h base volume of every ticker.
func (f *Feed) DayVolumes(ctx context.Context) (map[string]decimal.Decimal, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	stats, err := f.client.NewListPriceChangeStatsService().Do(ctx)
	if err != nil {
		return nil, apperror.New(apperror.CodeExchangeAPIError,
			apperror.WithContext("24h ticker statistics"),
			apperror.WithCause(err))
	}

	out := make(map[string]decimal.Decimal, len(stats))
	for _, s := range stats {
		v, err := decimal.NewFromString(s.Volume)
		if err != nil {
			continue
		}
		out[s.Symbol] = v
	}
	return out, nil
}

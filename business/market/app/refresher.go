package app

import (
	"context"
	"time"

	"github.com/bmino/binance-triangle-arbitrage-sub000/internal/logger"
)

// Refresher keeps ticker metadata and 24h volumes current. Depth arrives
// over the stream; everything else is polled because it changes slowly.
type Refresher struct {
	cache    *Cache
	feed     MetadataFeed
	assets   []string
	interval time.Duration
	log      logger.LoggerInterface
}

// NewRefresher creates a refresher polling on the given interval.
func NewRefresher(cache *Cache, feed MetadataFeed, assets []string, interval time.Duration, log logger.LoggerInterface) *Refresher {
	return &Refresher{
		cache:    cache,
		feed:     feed,
		assets:   assets,
		interval: interval,
		log:      log,
	}
}

// RefreshOnce pulls metadata and volumes and upserts them into the cache.
func (r *Refresher) RefreshOnce(ctx context.Context) error {
	tickers, err := r.feed.ExchangeTickers(ctx, r.assets)
	if err != nil {
		return err
	}
	for _, t := range tickers {
		r.cache.UpsertTicker(t)
	}

	volumes, err := r.feed.DayVolumes(ctx)
	if err != nil {
		return err
	}
	for symbol, v := range volumes {
		if _, ok := r.cache.Ticker(symbol); ok {
			r.cache.UpsertVolume(symbol, v)
		}
	}

	r.log.Debug(ctx, "market metadata refreshed",
		"tickers", len(tickers))
	return nil
}

// Run polls until the context is canceled. Refresh failures are logged and
// retried on the next tick; the cache keeps serving the last good data.
func (r *Refresher) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := r.RefreshOnce(ctx); err != nil {
				r.log.Warn(ctx, "metadata refresh failed", "error", err.Error())
			}
		}
	}
}

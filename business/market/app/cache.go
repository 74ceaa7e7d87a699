package app

import (
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	arbdomain "github.com/bmino/binance-triangle-arbitrage-sub000/business/arbitrage/domain"
	"github.com/bmino/binance-triangle-arbitrage-sub000/business/market/domain"
)

// Cache is the in-memory market data store: ticker metadata, 24h volumes,
// depth snapshots and the latest calculation per relationship. It is the
// single shared resource between the streaming ingestion path and the
// evaluation cycle; every depth update swaps the whole snapshot for its
// ticker so readers never observe a torn book.
type Cache struct {
	mu       sync.RWMutex
	tickers  map[string]domain.Ticker
	volumes  map[string]decimal.Decimal
	depths   map[string]*domain.DepthSnapshot
	arbs     map[string]*arbdomain.Calculation
	arbOrder []string
}

// NewCache creates an empty market cache.
func NewCache() *Cache {
	return &Cache{
		tickers: make(map[string]domain.Ticker),
		volumes: make(map[string]decimal.Decimal),
		depths:  make(map[string]*domain.DepthSnapshot),
		arbs:    make(map[string]*arbdomain.Calculation),
	}
}

// UpsertTicker replaces the metadata for a ticker. Last write wins.
func (c *Cache) UpsertTicker(ticker domain.Ticker) {
	c.mu.Lock()
	c.tickers[ticker.Symbol] = ticker
	c.mu.Unlock()
}

// UpsertDepth replaces the depth snapshot for a symbol. Last write wins;
// there are no merge semantics.
func (c *Cache) UpsertDepth(snapshot *domain.DepthSnapshot) {
	c.mu.Lock()
	c.depths[snapshot.Symbol] = snapshot
	c.mu.Unlock()
}

// UpsertVolume replaces the 24h volume for a symbol.
func (c *Cache) UpsertVolume(symbol string, volume decimal.Decimal) {
	c.mu.Lock()
	c.volumes[symbol] = volume
	c.mu.Unlock()
}

// Ticker returns the metadata for a symbol.
func (c *Cache) Ticker(symbol string) (domain.Ticker, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.tickers[symbol]
	return t, ok
}

// Depth returns the current snapshot for a symbol.
func (c *Cache) Depth(symbol string) (*domain.DepthSnapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.depths[symbol]
	return s, ok
}

// Volume returns the 24h volume for a symbol.
func (c *Cache) Volume(symbol string) (decimal.Decimal, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.volumes[symbol]
	return v, ok
}

// Symbols returns all known ticker symbols.
func (c *Cache) Symbols() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.tickers))
	for s := range c.tickers {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// PruneDepth discards bid and ask levels beyond the best maxLevels of
// every cached snapshot. Runs before each evaluation cycle so the fill
// simulator never walks an unbounded book.
func (c *Cache) PruneDepth(maxLevels int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for symbol, snap := range c.depths {
		c.depths[symbol] = snap.Pruned(maxLevels)
	}
}

// Subset returns a detached read-only view restricted to the given ticker
// symbols, for handing a worker only the data it needs. The snapshots
// themselves are shared immutable values.
func (c *Cache) Subset(symbols []string) BookView {
	c.mu.RLock()
	defer c.mu.RUnlock()

	view := &subsetView{
		tickers: make(map[string]domain.Ticker, len(symbols)),
		volumes: make(map[string]decimal.Decimal, len(symbols)),
		depths:  make(map[string]*domain.DepthSnapshot, len(symbols)),
	}
	for _, symbol := range symbols {
		if t, ok := c.tickers[symbol]; ok {
			view.tickers[symbol] = t
		}
		if v, ok := c.volumes[symbol]; ok {
			view.volumes[symbol] = v
		}
		if s, ok := c.depths[symbol]; ok {
			view.depths[symbol] = s
		}
	}
	return view
}

// DepthsBelowThreshold returns symbols whose bid or ask level count is
// below n. Diagnostic for thin books.
func (c *Cache) DepthsBelowThreshold(n int) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []string
	for symbol, snap := range c.depths {
		if len(snap.Bids) < n || len(snap.Asks) < n {
			out = append(out, symbol)
		}
	}
	sort.Strings(out)
	return out
}

// DepthsAboveThreshold returns symbols whose bid or ask level count
// exceeds n. Diagnostic for unexpectedly deep books.
func (c *Cache) DepthsAboveThreshold(n int) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []string
	for symbol, snap := range c.depths {
		if len(snap.Bids) > n || len(snap.Asks) > n {
			out = append(out, symbol)
		}
	}
	sort.Strings(out)
	return out
}

// ReplaceArbs overwrites the latest-calculation map with the results of an
// evaluation cycle, preserving the given order for stable tie-breaking.
func (c *Cache) ReplaceArbs(calcs []*arbdomain.Calculation) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.arbs = make(map[string]*arbdomain.Calculation, len(calcs))
	c.arbOrder = c.arbOrder[:0]
	for _, calc := range calcs {
		id := calc.Relationship.ID
		if _, ok := c.arbs[id]; !ok {
			c.arbOrder = append(c.arbOrder, id)
		}
		c.arbs[id] = calc
	}
}

// ArbsAboveProfit returns the cached latest calculations whose percent
// return exceeds the threshold, sorted descending by percent. Ties keep
// insertion order.
func (c *Cache) ArbsAboveProfit(percent decimal.Decimal) []*arbdomain.Calculation {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []*arbdomain.Calculation
	for _, id := range c.arbOrder {
		calc := c.arbs[id]
		if calc.Percent.GreaterThan(percent) {
			out = append(out, calc)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Percent.GreaterThan(out[j].Percent)
	})
	return out
}

// subsetView is the detached view produced by Subset.
type subsetView struct {
	tickers map[string]domain.Ticker
	volumes map[string]decimal.Decimal
	depths  map[string]*domain.DepthSnapshot
}

func (v *subsetView) Ticker(symbol string) (domain.Ticker, bool) {
	t, ok := v.tickers[symbol]
	return t, ok
}

func (v *subsetView) Depth(symbol string) (*domain.DepthSnapshot, bool) {
	s, ok := v.depths[symbol]
	return s, ok
}

func (v *subsetView) Volume(symbol string) (decimal.Decimal, bool) {
	u, ok := v.volumes[symbol]
	return u, ok
}

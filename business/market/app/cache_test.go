package app

import (
	"testing"

	"github.com/shopspring/decimal"

	arbdomain "github.com/bmino/binance-triangle-arbitrage-sub000/business/arbitrage/domain"
	"github.com/bmino/binance-triangle-arbitrage-sub000/business/market/domain"
)

func snapWithLevels(symbol string, n int) *domain.DepthSnapshot {
	lv := make([]domain.DepthLevel, n)
	for i := range lv {
		lv[i] = domain.DepthLevel{
			Price:    decimal.NewFromInt(int64(n - i)),
			Quantity: decimal.NewFromInt(1),
		}
	}
	return &domain.DepthSnapshot{Symbol: symbol, Bids: lv, Asks: lv}
}

func TestCacheUpsertDepthLastWriteWins(t *testing.T) {
	cache := NewCache()

	cache.UpsertDepth(snapWithLevels("ETHBTC", 5))
	second := snapWithLevels("ETHBTC", 7)
	cache.UpsertDepth(second)

	got, ok := cache.Depth("ETHBTC")
	if !ok {
		t.Fatal("depth not found")
	}
	if got != second {
		t.Error("latest snapshot should replace the previous one")
	}
}

func TestCachePruneDepth(t *testing.T) {
	cache := NewCache()
	cache.UpsertDepth(snapWithLevels("ETHBTC", 150))
	cache.UpsertDepth(snapWithLevels("BNBETH", 20))

	cache.PruneDepth(50)

	eth, _ := cache.Depth("ETHBTC")
	if len(eth.Bids) != 50 {
		t.Errorf("ETHBTC pruned to %d levels, want 50", len(eth.Bids))
	}
	bnb, _ := cache.Depth("BNBETH")
	if len(bnb.Bids) != 20 {
		t.Errorf("BNBETH should be untouched, got %d levels", len(bnb.Bids))
	}
}

func TestCacheSubset(t *testing.T) {
	cache := NewCache()
	cache.UpsertTicker(domain.Ticker{Symbol: "ETHBTC", Status: domain.StatusTrading})
	cache.UpsertTicker(domain.Ticker{Symbol: "BNBETH", Status: domain.StatusTrading})
	cache.UpsertDepth(snapWithLevels("ETHBTC", 5))
	cache.UpsertVolume("ETHBTC", decimal.NewFromInt(1000))

	view := cache.Subset([]string{"ETHBTC", "BNBBTC"})

	if _, ok := view.Ticker("ETHBTC"); !ok {
		t.Error("subset should contain requested ticker")
	}
	if _, ok := view.Ticker("BNBETH"); ok {
		t.Error("subset should not contain unrequested ticker")
	}
	if _, ok := view.Depth("BNBBTC"); ok {
		t.Error("missing symbols stay missing, not an error")
	}
	if v, ok := view.Volume("ETHBTC"); !ok || !v.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("subset volume = %v, %v", v, ok)
	}
}

func TestCacheDepthThresholds(t *testing.T) {
	cache := NewCache()
	cache.UpsertDepth(snapWithLevels("ETHBTC", 3))
	cache.UpsertDepth(snapWithLevels("BNBETH", 10))
	cache.UpsertDepth(snapWithLevels("BNBBTC", 60))

	below := cache.DepthsBelowThreshold(5)
	if len(below) != 1 || below[0] != "ETHBTC" {
		t.Errorf("DepthsBelowThreshold(5) = %v, want [ETHBTC]", below)
	}

	above := cache.DepthsAboveThreshold(50)
	if len(above) != 1 || above[0] != "BNBBTC" {
		t.Errorf("DepthsAboveThreshold(50) = %v, want [BNBBTC]", above)
	}
}

func calcWithPercent(id, percent string) *arbdomain.Calculation {
	return &arbdomain.Calculation{
		Relationship: &arbdomain.Relationship{ID: id},
		Percent:      decimal.RequireFromString(percent),
	}
}

func TestCacheArbsAboveProfit(t *testing.T) {
	cache := NewCache()
	cache.ReplaceArbs([]*arbdomain.Calculation{
		calcWithPercent("BTC-ETH-BNB", "0.10"),
		calcWithPercent("ETH-BNB-BTC", "0.75"),
		calcWithPercent("BNB-BTC-ETH", "0.40"),
		calcWithPercent("BTC-BNB-ETH", "-0.20"),
	})

	got := cache.ArbsAboveProfit(decimal.RequireFromString("0.25"))
	if len(got) != 2 {
		t.Fatalf("got %d calculations, want 2", len(got))
	}
	if got[0].Relationship.ID != "ETH-BNB-BTC" || got[1].Relationship.ID != "BNB-BTC-ETH" {
		t.Errorf("wrong order: %s, %s", got[0].Relationship.ID, got[1].Relationship.ID)
	}
}

func TestCacheArbsAboveProfitTiesKeepInsertionOrder(t *testing.T) {
	cache := NewCache()
	cache.ReplaceArbs([]*arbdomain.Calculation{
		calcWithPercent("BTC-ETH-BNB", "0.50"),
		calcWithPercent("ETH-BNB-BTC", "0.50"),
	})

	got := cache.ArbsAboveProfit(decimal.Zero)
	if len(got) != 2 {
		t.Fatalf("got %d calculations, want 2", len(got))
	}
	if got[0].Relationship.ID != "BTC-ETH-BNB" {
		t.Errorf("tie should keep insertion order, got %s first", got[0].Relationship.ID)
	}
}

func TestCacheReplaceArbsDropsStaleResults(t *testing.T) {
	cache := NewCache()
	cache.ReplaceArbs([]*arbdomain.Calculation{calcWithPercent("BTC-ETH-BNB", "1.00")})
	cache.ReplaceArbs([]*arbdomain.Calculation{calcWithPercent("ETH-BNB-BTC", "0.10")})

	got := cache.ArbsAboveProfit(decimal.RequireFromString("-10"))
	if len(got) != 1 || got[0].Relationship.ID != "ETH-BNB-BTC" {
		t.Errorf("previous cycle results should be gone, got %v", got)
	}
}

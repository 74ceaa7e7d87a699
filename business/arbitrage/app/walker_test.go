package app

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/bmino/binance-triangle-arbitrage-sub000/business/arbitrage/domain"
	marketdomain "github.com/bmino/binance-triangle-arbitrage-sub000/business/market/domain"
)

func sellBook() *marketdomain.DepthSnapshot {
	return &marketdomain.DepthSnapshot{
		Symbol: "ETHBTC",
		Bids: parseTestLevels([][2]string{
			{"1.00", "100"},
			{"0.99", "200"},
		}),
	}
}

func buyBook() *marketdomain.DepthSnapshot {
	return &marketdomain.DepthSnapshot{
		Symbol: "ETHBTC",
		Asks: parseTestLevels([][2]string{
			{"2.00", "10"},
			{"2.50", "10"},
		}),
	}
}

func TestWalkSellPartialSecondLevel(t *testing.T) {
	got, err := Walk(decimal.RequireFromString("150"), "ETH", "BTC", sellBook())
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	// 100 at 1.00, then 50 at 0.99
	if want := decimal.RequireFromString("149.5"); !got.Equal(want) {
		t.Errorf("Walk = %s, want %s", got, want)
	}
}

func TestWalkSellConsumesExactDepth(t *testing.T) {
	got, err := Walk(decimal.RequireFromString("300"), "ETH", "BTC", sellBook())
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if want := decimal.RequireFromString("298"); !got.Equal(want) {
		t.Errorf("Walk = %s, want %s", got, want)
	}
}

func TestWalkSellInsufficientDepth(t *testing.T) {
	_, err := Walk(decimal.RequireFromString("300.0001"), "ETH", "BTC", sellBook())

	var depthErr *domain.InsufficientDepthError
	if !errors.As(err, &depthErr) {
		t.Fatalf("want InsufficientDepthError, got %v", err)
	}
	if depthErr.Symbol != "ETHBTC" {
		t.Errorf("Symbol = %s, want ETHBTC", depthErr.Symbol)
	}
	if want := decimal.RequireFromString("0.0001"); !depthErr.Remainder.Equal(want) {
		t.Errorf("Remainder = %s, want %s", depthErr.Remainder, want)
	}
}

func TestWalkZeroAmount(t *testing.T) {
	got, err := Walk(decimal.Zero, "ETH", "BTC", sellBook())
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if !got.IsZero() {
		t.Errorf("Walk(0) = %s, want 0", got)
	}
}

func TestWalkBuyPartialSecondLevel(t *testing.T) {
	// BTC -> ETH on ETHBTC walks the asks: 10 at 2.00 costs 20,
	// the remaining 10 buys 4 at 2.50.
	got, err := Walk(decimal.RequireFromString("30"), "BTC", "ETH", buyBook())
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if want := decimal.RequireFromString("14"); !got.Equal(want) {
		t.Errorf("Walk = %s, want %s", got, want)
	}
}

func TestWalkBuyConsumesExactDepth(t *testing.T) {
	got, err := Walk(decimal.RequireFromString("45"), "BTC", "ETH", buyBook())
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if want := decimal.RequireFromString("20"); !got.Equal(want) {
		t.Errorf("Walk = %s, want %s", got, want)
	}
}

func TestWalkBuyInsufficientDepth(t *testing.T) {
	_, err := Walk(decimal.RequireFromString("45.01"), "BTC", "ETH", buyBook())

	var depthErr *domain.InsufficientDepthError
	if !errors.As(err, &depthErr) {
		t.Fatalf("want InsufficientDepthError, got %v", err)
	}
	if want := decimal.RequireFromString("0.01"); !depthErr.Remainder.Equal(want) {
		t.Errorf("Remainder = %s, want %s", depthErr.Remainder, want)
	}
}

func TestWalkBuySkipsZeroPriceLevels(t *testing.T) {
	snap := &marketdomain.DepthSnapshot{
		Symbol: "ETHBTC",
		Asks: parseTestLevels([][2]string{
			{"0", "5"},
			{"2.00", "10"},
		}),
	}

	got, err := Walk(decimal.RequireFromString("10"), "BTC", "ETH", snap)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if want := decimal.RequireFromString("5"); !got.Equal(want) {
		t.Errorf("Walk = %s, want %s", got, want)
	}
}

func TestWalkReverse(t *testing.T) {
	got, err := WalkReverse(decimal.RequireFromString("14"), buyBook())
	if err != nil {
		t.Fatalf("WalkReverse: %v", err)
	}
	// 10 at 2.00 plus 4 at 2.50
	if want := decimal.RequireFromString("30"); !got.Equal(want) {
		t.Errorf("WalkReverse = %s, want %s", got, want)
	}
}

func TestWalkReverseInsufficientDepth(t *testing.T) {
	_, err := WalkReverse(decimal.RequireFromString("20.5"), buyBook())

	var depthErr *domain.InsufficientDepthError
	if !errors.As(err, &depthErr) {
		t.Fatalf("want InsufficientDepthError, got %v", err)
	}
	if want := decimal.RequireFromString("0.5"); !depthErr.Remainder.Equal(want) {
		t.Errorf("Remainder = %s, want %s", depthErr.Remainder, want)
	}
}

func TestWalkRoundTripConsistency(t *testing.T) {
	// Buying with the cost of a prior walk returns the original quantity.
	spend := decimal.RequireFromString("37.5")
	qty, err := Walk(spend, "BTC", "ETH", buyBook())
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	cost, err := WalkReverse(qty, buyBook())
	if err != nil {
		t.Fatalf("WalkReverse: %v", err)
	}
	if !cost.Equal(spend) {
		t.Errorf("round trip cost = %s, want %s", cost, spend)
	}
}

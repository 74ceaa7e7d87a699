package app

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bmino/binance-triangle-arbitrage-sub000/business/arbitrage/domain"
)

func sellCycleRelationship() *domain.Relationship {
	return &domain.Relationship{
		ID: "AAA-BBB-CCC",
		A:  "AAA", B: "BBB", C: "CCC",
		AB: domain.TradeLeg{Method: domain.MethodSell, Symbol: "AAABBB"},
		BC: domain.TradeLeg{Method: domain.MethodSell, Symbol: "BBBCCC"},
		CA: domain.TradeLeg{Method: domain.MethodSell, Symbol: "CCCAAA"},
	}
}

// sellCycleBook prices AAA->BBB at 2 and BBB->CCC at 0.5, so the final
// leg's price decides the round-trip outcome.
func sellCycleBook(at time.Time, caPrice string) *fakeBook {
	return newFakeBook().
		addTicker("AAABBB", 8).
		addTicker("BBBCCC", 8).
		addTicker("CCCAAA", 8).
		addDepth("AAABBB", at.Add(-100*time.Millisecond), [][2]string{{"2", "1000"}}, nil).
		addDepth("BBBCCC", at.Add(-200*time.Millisecond), [][2]string{{"0.5", "1000"}}, nil).
		addDepth("CCCAAA", at.Add(-300*time.Millisecond), [][2]string{{caPrice, "1000"}}, nil)
}

func TestCalculateFlatCycleYieldsZeroPercent(t *testing.T) {
	at := time.Now()
	calc, err := Calculate(decimal.NewFromInt(1), sellCycleRelationship(), sellCycleBook(at, "1"), at)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if !calc.Percent.IsZero() {
		t.Errorf("Percent = %s, want 0", calc.Percent)
	}
	if !calc.A.Equal(decimal.NewFromInt(1)) {
		t.Errorf("A = %s, want 1", calc.A)
	}
}

func TestCalculateProfitableCycle(t *testing.T) {
	at := time.Now()
	book := sellCycleBook(at, "1.1").
		setVolume("AAABBB", "24").
		setVolume("BBBCCC", "4800").
		setVolume("CCCAAA", "2400")

	calc, err := Calculate(decimal.NewFromInt(1), sellCycleRelationship(), book, at)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}

	if !calc.B.Equal(decimal.NewFromInt(2)) {
		t.Errorf("B = %s, want 2", calc.B)
	}
	if !calc.C.Equal(decimal.NewFromInt(1)) {
		t.Errorf("C = %s, want 1", calc.C)
	}
	if want := decimal.RequireFromString("1.1"); !calc.A.Equal(want) {
		t.Errorf("A = %s, want %s", calc.A, want)
	}
	if want := decimal.NewFromInt(10); !calc.Percent.Equal(want) {
		t.Errorf("Percent = %s, want %s", calc.Percent, want)
	}

	// AAABBB trades one full hour of its daily volume, the worst leg
	if want := decimal.NewFromInt(100); !calc.Volume.Equal(want) {
		t.Errorf("Volume = %s, want %s", calc.Volume, want)
	}

	if calc.AB.Age != 100*time.Millisecond {
		t.Errorf("AB.Age = %v, want 100ms", calc.AB.Age)
	}
	if calc.MaxAge() != 300*time.Millisecond {
		t.Errorf("MaxAge = %v, want 300ms", calc.MaxAge())
	}
}

func TestCalculateBuyLegRoundsAndBackComputesCost(t *testing.T) {
	at := time.Now()
	rel := &domain.Relationship{
		ID: "AAA-BBB-CCC",
		A:  "AAA", B: "BBB", C: "CCC",
		AB: domain.TradeLeg{Method: domain.MethodBuy, Symbol: "BBBAAA"},
		BC: domain.TradeLeg{Method: domain.MethodSell, Symbol: "BBBCCC"},
		CA: domain.TradeLeg{Method: domain.MethodSell, Symbol: "CCCAAA"},
	}
	book := newFakeBook().
		addTicker("BBBAAA", 0). // whole units only
		addTicker("BBBCCC", 8).
		addTicker("CCCAAA", 8).
		addDepth("BBBAAA", at, nil, [][2]string{{"0.5", "1000"}}).
		addDepth("BBBCCC", at, [][2]string{{"0.5", "1000"}}, nil).
		addDepth("CCCAAA", at, [][2]string{{"1", "1000"}}, nil)

	calc, err := Calculate(decimal.RequireFromString("1.2"), rel, book, at)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}

	// 1.2 AAA buys 2.4 BBB, rounded down to 2 whole units costing 1 AAA
	if want := decimal.RequireFromString("2.4"); !calc.AB.Requested.Equal(want) {
		t.Errorf("AB.Requested = %s, want %s", calc.AB.Requested, want)
	}
	if want := decimal.NewFromInt(2); !calc.AB.Filled.Equal(want) {
		t.Errorf("AB.Filled = %s, want %s", calc.AB.Filled, want)
	}
	if want := decimal.RequireFromString("0.4"); !calc.AB.Dust.Equal(want) {
		t.Errorf("AB.Dust = %s, want %s", calc.AB.Dust, want)
	}
	if want := decimal.NewFromInt(1); !calc.AB.Market.Equal(want) {
		t.Errorf("AB.Market = %s, want %s", calc.AB.Market, want)
	}
	if !calc.B.Equal(decimal.NewFromInt(2)) {
		t.Errorf("B = %s, want 2", calc.B)
	}

	// ends with 1 AAA against 1.2 invested
	if want := decimal.RequireFromString("-16.67"); !calc.Percent.Round(2).Equal(want) {
		t.Errorf("Percent = %s, want %s rounded", calc.Percent, want)
	}
}

func TestCalculateZeroInvestment(t *testing.T) {
	at := time.Now()
	calc, err := Calculate(decimal.Zero, sellCycleRelationship(), sellCycleBook(at, "1.1"), at)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if !calc.A.IsZero() || !calc.B.IsZero() || !calc.C.IsZero() {
		t.Errorf("balances = %s/%s/%s, want all zero", calc.A, calc.B, calc.C)
	}
	if !calc.Percent.IsZero() {
		t.Errorf("Percent = %s, want 0", calc.Percent)
	}
}

func TestCalculateMissingSnapshot(t *testing.T) {
	at := time.Now()
	book := sellCycleBook(at, "1")
	delete(book.depths, "BBBCCC")

	_, err := Calculate(decimal.NewFromInt(1), sellCycleRelationship(), book, at)

	var depthErr *domain.InsufficientDepthError
	if !errors.As(err, &depthErr) {
		t.Fatalf("want InsufficientDepthError, got %v", err)
	}
	if depthErr.Symbol != "BBBCCC" {
		t.Errorf("Symbol = %s, want BBBCCC", depthErr.Symbol)
	}
	if !depthErr.Remainder.Equal(decimal.NewFromInt(2)) {
		t.Errorf("Remainder = %s, want 2", depthErr.Remainder)
	}
}

func TestCalculateIsDeterministic(t *testing.T) {
	at := time.Now()
	rel := sellCycleRelationship()
	book := sellCycleBook(at, "1.1").setVolume("AAABBB", "24")

	first, err := Calculate(decimal.NewFromInt(1), rel, book, at)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	second, err := Calculate(decimal.NewFromInt(1), rel, book, at)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("identical inputs must produce identical calculations")
	}
}

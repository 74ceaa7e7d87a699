package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestDustDecimalsFromMinQty(t *testing.T) {
	tests := []struct {
		name   string
		minQty string
		want   int32
	}{
		{"whole units only", "1", 0},
		{"whole units with trailing zeros", "1.00000000", 0},
		{"three decimals", "0.001", 3},
		{"three decimals with trailing zeros", "0.00100000", 3},
		{"one decimal", "0.1", 1},
		{"eight decimals", "0.00000001", 8},
		{"min qty above one", "10", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			minQty := decimal.RequireFromString(tt.minQty)
			if got := DustDecimalsFromMinQty(minQty); got != tt.want {
				t.Errorf("DustDecimalsFromMinQty(%s) = %d, want %d", tt.minQty, got, tt.want)
			}
		})
	}
}

func TestRoundToLotSize(t *testing.T) {
	tests := []struct {
		name     string
		decimals int32
		amount   string
		want     string
	}{
		{"truncates below precision", 3, "1.23456", "1.234"},
		{"never rounds up", 2, "0.999999", "0.99"},
		{"whole units", 0, "5.9", "5"},
		{"already exact", 3, "1.234", "1.234"},
		{"zero", 3, "0", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ticker := Ticker{Symbol: "ETHBTC", DustDecimals: tt.decimals}
			got := ticker.RoundToLotSize(decimal.RequireFromString(tt.amount))
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("RoundToLotSize(%s) = %s, want %s", tt.amount, got, tt.want)
			}
		})
	}
}

func TestRoundToLotSizeDustNonNegative(t *testing.T) {
	ticker := Ticker{Symbol: "ETHBTC", DustDecimals: 4}
	amount := decimal.RequireFromString("3.00019")

	rounded := ticker.RoundToLotSize(amount)
	dust := amount.Sub(rounded)

	if rounded.GreaterThan(amount) {
		t.Errorf("rounded %s exceeds amount %s", rounded, amount)
	}
	if dust.IsNegative() {
		t.Errorf("dust %s is negative", dust)
	}
}

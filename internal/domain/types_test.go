package domain

import (
	"testing"
	"time"
)

func TestBarZeroValue(t *testing.T) {
	bar := Bar{}
	if bar.Symbol != "" {
		t.Error("expected empty Symbol for zero-value Bar")
	}
	if !bar.Timestamp.IsZero() {
		t.Error("expected zero Timestamp for zero-value Bar")
	}
	if bar.Open != 0 || bar.High != 0 || bar.Low != 0 || bar.Close != 0 {
		t.Error("expected zero OHLC values for zero-value Bar")
	}
	if bar.Volume != 0 || bar.TradeCount != 0 || bar.VWAP != 0 {
		t.Error("expected zero Volume/TradeCount/VWAP for zero-value Bar")
	}
}

func TestMarketConstants(t *testing.T) {
	if MarketUS != "us" {
		t.Errorf("MarketUS = %q, want %q", MarketUS, "us")
	}
}

func TestInstrumentConstruction(t *testing.T) {
	added := time.Date(2021, 3, 22, 0, 0, 0, 0, time.UTC)
	inst := Instrument{
		Symbol:    "NVDA",
		Name:      "NVIDIA Corporation",
		Sector:    "Information Technology",
		Industry:  "Semiconductors",
		MarketCap: 1.2e12,
		DateAdded: added,
	}
	if inst.Symbol != "NVDA" {
		t.Errorf("inst.Symbol = %q, want %q", inst.Symbol, "NVDA")
	}
	if !inst.DateAdded.Equal(added) {
		t.Errorf("inst.DateAdded = %v, want %v", inst.DateAdded, added)
	}
}

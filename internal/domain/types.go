// Package domain defines the core data types shared across the tradesuite
// packages: OHLCV bars and instrument reference records.
package domain

import "time"

// Market identifies the market an instrument trades in.
type Market string

const (
	MarketUS Market = "us"
)

// Bar is one daily OHLCV observation for a single instrument. Bars are
// immutable once loaded; derived values live in indicator.Series columns,
// never on the Bar itself.
type Bar struct {
	Symbol     string
	Timestamp  time.Time
	Open       float64
	High       float64
	Low        float64
	Close      float64
	Volume     int64
	TradeCount int64
	VWAP       float64
}

// Instrument is one row of the instrument reference set used by the screener.
type Instrument struct {
	Symbol    string
	Name      string
	Sector    string
	Industry  string
	MarketCap float64
	DateAdded time.Time
}

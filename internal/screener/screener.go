// Package screener filters an instrument universe (an S&P 500 style listing)
// by sector, index-addition date, market capitalization, and RSI.
package screener

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"tradesuite/internal/domain"
	"tradesuite/internal/indicator"
)

// LoadUniverse reads the instrument universe from a CSV file with a header
// row: symbol, name, sector, industry, market_cap, date_added. Market cap and
// date parse leniently; a blank or malformed field loads as the zero value.
func LoadUniverse(path string) ([]domain.Instrument, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening universe CSV %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading universe CSV %s: %w", path, err)
	}
	if len(records) < 2 {
		return nil, nil
	}

	instruments := make([]domain.Instrument, 0, len(records)-1)
	for _, row := range records[1:] {
		if len(row) < 1 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		inst := domain.Instrument{Symbol: strings.ToUpper(strings.TrimSpace(row[0]))}
		if len(row) > 1 {
			inst.Name = strings.TrimSpace(row[1])
		}
		if len(row) > 2 {
			inst.Sector = strings.TrimSpace(row[2])
		}
		if len(row) > 3 {
			inst.Industry = strings.TrimSpace(row[3])
		}
		if len(row) > 4 {
			if cap, err := strconv.ParseFloat(strings.TrimSpace(row[4]), 64); err == nil {
				inst.MarketCap = cap
			}
		}
		if len(row) > 5 {
			if added, err := time.Parse("2006-01-02", strings.TrimSpace(row[5])); err == nil {
				inst.DateAdded = added
			}
		}
		instruments = append(instruments, inst)
	}
	return instruments, nil
}

// BarReader is the slice of the bar store the RSI filter needs.
type BarReader interface {
	ReadBars(ctx context.Context, symbol string, market string, start, end time.Time) ([]domain.Bar, error)
}

// Screener applies chainable filters over an instrument universe. Filters
// narrow the working set; Reset restores the full universe. All orderings are
// deterministic, with ties broken by symbol.
type Screener struct {
	universe []domain.Instrument
	filtered []domain.Instrument
	bars     BarReader
	rsi      map[string]float64
	log      *slog.Logger
}

// New creates a Screener over the given universe. The bar reader may be nil
// if the RSI filter is never used.
func New(universe []domain.Instrument, bars BarReader) *Screener {
	s := &Screener{
		universe: universe,
		bars:     bars,
		log:      slog.Default().With("component", "screener"),
	}
	s.Reset()
	return s
}

// Reset restores the full universe, discarding all applied filters.
func (s *Screener) Reset() *Screener {
	s.filtered = append([]domain.Instrument(nil), s.universe...)
	s.rsi = nil
	return s
}

// BySector keeps only instruments in the given GICS sector.
func (s *Screener) BySector(sector string) *Screener {
	var kept []domain.Instrument
	for _, inst := range s.filtered {
		if inst.Sector == sector {
			kept = append(kept, inst)
		}
	}
	if len(kept) == 0 {
		s.log.Warn("no instruments in sector", "sector", sector)
	}
	s.filtered = kept
	return s
}

// RecentAdditions keeps the n instruments most recently added to the index,
// newest first.
func (s *Screener) RecentAdditions(n int) *Screener {
	sort.SliceStable(s.filtered, func(i, j int) bool {
		a, b := s.filtered[i], s.filtered[j]
		if !a.DateAdded.Equal(b.DateAdded) {
			return a.DateAdded.After(b.DateAdded)
		}
		return a.Symbol < b.Symbol
	})
	s.filtered = head(s.filtered, n)
	return s
}

// TopByMarketCap keeps the n instruments with the highest market
// capitalization, largest first.
func (s *Screener) TopByMarketCap(n int) *Screener {
	sort.SliceStable(s.filtered, func(i, j int) bool {
		a, b := s.filtered[i], s.filtered[j]
		if a.MarketCap != b.MarketCap {
			return a.MarketCap > b.MarketCap
		}
		return a.Symbol < b.Symbol
	})
	s.filtered = head(s.filtered, n)
	return s
}

// LowestRSI keeps the n instruments with the lowest current RSI, computed
// over stored bars in [start, end], lowest first. Instruments whose bars are
// missing or whose RSI is undefined are dropped, matching an oversold scan's
// intent. Per-symbol read failures are logged and skipped.
func (s *Screener) LowestRSI(ctx context.Context, n, period int, start, end time.Time) *Screener {
	if s.bars == nil {
		s.log.Error("no bar reader configured, dropping all instruments")
		s.filtered = nil
		return s
	}

	type scored struct {
		inst domain.Instrument
		rsi  float64
	}
	var results []scored
	for _, inst := range s.filtered {
		bars, err := s.bars.ReadBars(ctx, inst.Symbol, string(domain.MarketUS), start, end)
		if err != nil {
			s.log.Warn("reading bars failed", "symbol", inst.Symbol, "err", err)
			continue
		}
		if len(bars) <= period {
			continue
		}
		sort.Slice(bars, func(i, j int) bool {
			return bars[i].Timestamp.Before(bars[j].Timestamp)
		})

		closes := make([]float64, len(bars))
		for i, b := range bars {
			closes[i] = b.Close
		}
		values := indicator.RSI(closes, period)
		latest := values[len(values)-1]
		if !indicator.Defined(latest) {
			continue
		}
		results = append(results, scored{inst: inst, rsi: latest})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].rsi != results[j].rsi {
			return results[i].rsi < results[j].rsi
		}
		return results[i].inst.Symbol < results[j].inst.Symbol
	})
	results = head(results, n)

	s.filtered = make([]domain.Instrument, len(results))
	s.rsi = make(map[string]float64, len(results))
	for i, r := range results {
		s.filtered[i] = r.inst
		s.rsi[r.inst.Symbol] = r.rsi
	}
	return s
}

// Results returns a copy of the current filtered set.
func (s *Screener) Results() []domain.Instrument {
	return append([]domain.Instrument(nil), s.filtered...)
}

// Tickers returns the symbols of the current filtered set, in filter order.
func (s *Screener) Tickers() []string {
	tickers := make([]string, len(s.filtered))
	for i, inst := range s.filtered {
		tickers[i] = inst.Symbol
	}
	return tickers
}

// RSI returns the RSI computed for a symbol by the last LowestRSI filter.
func (s *Screener) RSI(symbol string) (float64, bool) {
	v, ok := s.rsi[symbol]
	return v, ok
}

// Sectors returns the distinct sectors present in the current filtered set,
// sorted.
func (s *Screener) Sectors() []string {
	seen := make(map[string]struct{})
	for _, inst := range s.filtered {
		if inst.Sector != "" {
			seen[inst.Sector] = struct{}{}
		}
	}
	sectors := make([]string, 0, len(seen))
	for sector := range seen {
		sectors = append(sectors, sector)
	}
	sort.Strings(sectors)
	return sectors
}

func head[T any](items []T, n int) []T {
	if n < 0 {
		n = 0
	}
	if len(items) > n {
		return items[:n]
	}
	return items
}

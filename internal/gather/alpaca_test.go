package gather

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"

	"tradesuite/internal/store"
	"tradesuite/internal/util"
)

// fakeFetcher returns one synthetic bar per requested symbol.
type fakeFetcher struct {
	calls atomic.Int64
	err   error
}

func (f *fakeFetcher) GetMultiBars(symbols []string, req marketdata.GetBarsRequest) (map[string][]marketdata.Bar, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}

	out := make(map[string][]marketdata.Bar, len(symbols))
	for _, sym := range symbols {
		out[sym] = []marketdata.Bar{
			{
				Timestamp:  req.Start,
				Open:       100,
				High:       101,
				Low:        99,
				Close:      100.5,
				Volume:     10000,
				TradeCount: 500,
				VWAP:       100.2,
			},
		}
	}
	return out, nil
}

func testGatherer(client barFetcher, s store.BarStore, symbols []string, batchSize, workers int) *DailyBarGatherer {
	return &DailyBarGatherer{
		client:     client,
		store:      s,
		symbols:    symbols,
		rng:        DateRange{Start: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), End: time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)},
		batchSize:  batchSize,
		maxWorkers: workers,
		limiter:    util.NewRateLimiter(60000),
		log:        slog.Default(),
	}
}

func TestDailyBarGathererRun(t *testing.T) {
	ps := store.NewParquetStore(t.TempDir())
	fetcher := &fakeFetcher{}
	g := testGatherer(fetcher, ps, []string{"AAPL", "MSFT", "GOOGL"}, 2, 2)

	if err := g.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	// Two batches of sizes 2 and 1.
	if got := fetcher.calls.Load(); got != 2 {
		t.Errorf("fetcher called %d times, want 2", got)
	}

	symbols, err := ps.ListSymbols(context.Background(), "us")
	if err != nil {
		t.Fatalf("ListSymbols: %v", err)
	}
	if len(symbols) != 3 {
		t.Errorf("store holds %d symbols, want 3: %v", len(symbols), symbols)
	}

	bars, err := ps.ReadBars(context.Background(), "AAPL", "us",
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("ReadBars: %v", err)
	}
	if len(bars) != 1 || bars[0].Close != 100.5 {
		t.Errorf("stored bars = %+v, want one bar with close 100.5", bars)
	}
}

func TestDailyBarGathererReportsFailedBatches(t *testing.T) {
	ps := store.NewParquetStore(t.TempDir())
	fetcher := &fakeFetcher{err: errors.New("api down")}
	g := testGatherer(fetcher, ps, []string{"AAPL"}, 10, 1)

	if err := g.Run(context.Background()); err == nil {
		t.Fatal("Run succeeded although every batch failed")
	}
	// Three attempts from the retry policy.
	if got := fetcher.calls.Load(); got != 3 {
		t.Errorf("fetcher called %d times, want 3 retries", got)
	}
}

func TestDailyBarGathererRejectsEmptySymbolList(t *testing.T) {
	g := testGatherer(&fakeFetcher{}, store.NewParquetStore(t.TempDir()), nil, 10, 1)
	if err := g.Run(context.Background()); err == nil {
		t.Fatal("Run accepted an empty symbol list")
	}
}

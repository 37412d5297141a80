package gather

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"

	"tradesuite/internal/domain"
	"tradesuite/internal/store"
	"tradesuite/internal/util"
)

// Compile-time interface check.
var _ Gatherer = (*DailyBarGatherer)(nil)

// barFetcher is the slice of the Alpaca market-data client the gatherer uses.
type barFetcher interface {
	GetMultiBars(symbols []string, req marketdata.GetBarsRequest) (map[string][]marketdata.Bar, error)
}

// DailyBarGatherer gathers daily OHLCV bars for an explicit list of US equity
// symbols via the Alpaca market-data API and writes them to the bar store.
type DailyBarGatherer struct {
	client     barFetcher
	store      store.BarStore
	symbols    []string
	rng        DateRange
	batchSize  int
	maxWorkers int
	limiter    *util.RateLimiter
	log        *slog.Logger
}

// NewDailyBarGatherer creates a DailyBarGatherer configured with the given
// Alpaca credentials, target store, symbol list, and batch parameters.
func NewDailyBarGatherer(apiKey, apiSecret, dataURL string, s store.BarStore, symbols []string, rng DateRange, batchSize, maxWorkers, rateLimitPerMin int) *DailyBarGatherer {
	opts := marketdata.ClientOpts{
		APIKey:    apiKey,
		APISecret: apiSecret,
	}
	if dataURL != "" {
		opts.BaseURL = dataURL
	}

	return &DailyBarGatherer{
		client:     marketdata.NewClient(opts),
		store:      s,
		symbols:    symbols,
		rng:        rng,
		batchSize:  batchSize,
		maxWorkers: maxWorkers,
		limiter:    util.NewRateLimiter(rateLimitPerMin),
		log:        slog.Default().With("gatherer", "us-daily"),
	}
}

// Name returns the gatherer identifier.
func (g *DailyBarGatherer) Name() string { return "us-daily" }

// Run fetches daily bars for the configured symbols in batches and writes
// them to the store. Symbol batches are fetched concurrently; a batch that
// keeps failing after retries is logged and skipped so one bad symbol cannot
// sink the run.
func (g *DailyBarGatherer) Run(ctx context.Context) error {
	if len(g.symbols) == 0 {
		return fmt.Errorf("us-daily: no symbols to gather")
	}
	batchSize := g.batchSize
	if batchSize <= 0 {
		batchSize = 200
	}

	var batches [][]string
	for i := 0; i < len(g.symbols); i += batchSize {
		end := min(i+batchSize, len(g.symbols))
		batches = append(batches, g.symbols[i:end])
	}

	g.log.Info("starting us-daily",
		"symbols", len(g.symbols),
		"batches", len(batches),
		"start", g.rng.Start.Format("2006-01-02"),
		"end", g.rng.End.Format("2006-01-02"),
	)

	batchCh := make(chan int, len(batches))
	for i := range batches {
		batchCh <- i
	}
	close(batchCh)

	var (
		wg       sync.WaitGroup
		gathered atomic.Int64
		failed   atomic.Int64
		runStart = time.Now()
	)

	workers := min(max(g.maxWorkers, 1), len(batches))
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for batchIdx := range batchCh {
				if ctx.Err() != nil {
					return
				}

				batch := batches[batchIdx]
				var bars []domain.Bar
				err := util.Retry(ctx, 3, time.Second, func() error {
					if err := g.limiter.Wait(ctx); err != nil {
						return err
					}
					var ferr error
					bars, ferr = g.fetchMultiBars(batch)
					return ferr
				})
				if err != nil {
					failed.Add(1)
					g.log.Error("batch fetch failed",
						"batch", fmt.Sprintf("%d/%d", batchIdx+1, len(batches)),
						"err", err,
					)
					continue
				}

				if err := g.store.WriteBars(ctx, string(domain.MarketUS), bars); err != nil {
					failed.Add(1)
					g.log.Error("writing bars failed", "err", err)
					continue
				}

				gathered.Add(int64(len(bars)))
				g.log.Info("batch done",
					"batch", fmt.Sprintf("%d/%d", batchIdx+1, len(batches)),
					"bars", len(bars),
					"elapsed", time.Since(runStart).Round(time.Second),
				)
			}
		}()
	}

	wg.Wait()

	if ctx.Err() != nil {
		return ctx.Err()
	}
	if n := failed.Load(); n > 0 {
		return fmt.Errorf("us-daily: %d of %d batches failed", n, len(batches))
	}

	g.log.Info("complete",
		"bars", gathered.Load(),
		"elapsed", time.Since(runStart).Round(time.Second),
	)
	return nil
}

// fetchMultiBars fetches daily bars for multiple symbols in a single API call.
func (g *DailyBarGatherer) fetchMultiBars(symbols []string) ([]domain.Bar, error) {
	multiBars, err := g.client.GetMultiBars(symbols, marketdata.GetBarsRequest{
		TimeFrame: marketdata.OneDay,
		Start:     g.rng.Start,
		End:       g.rng.End,
		Feed:      "sip",
	})
	if err != nil {
		return nil, fmt.Errorf("GetMultiBars: %w", err)
	}

	var bars []domain.Bar
	for symbol, alpacaBars := range multiBars {
		for _, ab := range alpacaBars {
			bars = append(bars, domain.Bar{
				Symbol:     strings.ToUpper(symbol),
				Timestamp:  ab.Timestamp,
				Open:       ab.Open,
				High:       ab.High,
				Low:        ab.Low,
				Close:      ab.Close,
				Volume:     int64(ab.Volume),
				TradeCount: int64(ab.TradeCount),
				VWAP:       ab.VWAP,
			})
		}
	}
	return bars, nil
}

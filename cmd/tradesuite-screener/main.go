// Command tradesuite-screener filters the instrument universe by sector,
// index-addition date, market cap, and RSI over stored bars.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tradesuite/internal/config"
	"tradesuite/internal/report"
	"tradesuite/internal/screener"
	"tradesuite/internal/store"
	"tradesuite/internal/util"
)

func main() {
	var (
		sector    = flag.String("sector", "", "keep only this GICS sector")
		recent    = flag.Int("recent", 0, "keep the N most recent index additions")
		topCap    = flag.Int("top-cap", 0, "keep the N largest by market cap")
		lowestRSI = flag.Int("lowest-rsi", 0, "keep the N lowest-RSI instruments")
		rsiPeriod = flag.Int("rsi-period", 14, "RSI period for -lowest-rsi")
		lookback  = flag.Int("lookback", 365, "days of bars to read for -lowest-rsi")
	)
	flag.Parse()

	cfgPath := "config/tradesuite.yaml"
	if p := os.Getenv("TRADESUITE_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	util.SetDefault(util.NewLogger(cfg.Logging.Level, cfg.Logging.Format))

	universe, err := screener.LoadUniverse(cfg.Screener.UniverseCSV)
	if err != nil {
		log.Fatalf("loading universe: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	s := screener.New(universe, store.NewParquetStore(cfg.Storage.DataDir))
	if *sector != "" {
		s.BySector(*sector)
	}
	if *recent > 0 {
		s.RecentAdditions(*recent)
	}
	if *topCap > 0 {
		s.TopByMarketCap(*topCap)
	}
	if *lowestRSI > 0 {
		end := time.Now().UTC()
		start := end.AddDate(0, 0, -*lookback)
		s.LowestRSI(ctx, *lowestRSI, *rsiPeriod, start, end)
	}

	report.NewConsole().PrintCandidates(s.Results())
}

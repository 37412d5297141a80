// Command tradesuite-data gathers daily bars for the configured universe
// from the Alpaca market-data API into the Parquet store.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"tradesuite/internal/config"
	"tradesuite/internal/gather"
	"tradesuite/internal/screener"
	"tradesuite/internal/store"
	"tradesuite/internal/util"
)

func main() {
	var (
		symbolsFlag = flag.String("symbols", "", "comma-separated symbols (default: the screener universe CSV)")
		startStr    = flag.String("start", "", "start date YYYY-MM-DD (default from config)")
		endStr      = flag.String("end", "", "end date YYYY-MM-DD (default today)")
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

	var symbols []string
	if *symbolsFlag != "" {
		for _, s := range strings.Split(*symbolsFlag, ",") {
			if s = strings.ToUpper(strings.TrimSpace(s)); s != "" {
				symbols = append(symbols, s)
			}
		}
	} else {
		universe, err := screener.LoadUniverse(cfg.Screener.UniverseCSV)
		if err != nil {
			log.Fatalf("loading universe: %v", err)
		}
		for _, inst := range universe {
			symbols = append(symbols, inst.Symbol)
		}
	}

	startDate := cfg.Gather.StartDate
	if *startStr != "" {
		startDate = *startStr
	}
	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		log.Fatalf("invalid start date %q: %v", startDate, err)
	}
	end := time.Now().UTC()
	if *endStr != "" {
		end, err = time.Parse("2006-01-02", *endStr)
		if err != nil {
			log.Fatalf("invalid -end: %v", err)
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	g := gather.NewDailyBarGatherer(
		cfg.Alpaca.APIKey,
		cfg.Alpaca.APISecret,
		cfg.Alpaca.DataURL,
		store.NewParquetStore(cfg.Storage.DataDir),
		symbols,
		gather.DateRange{Start: start, End: end},
		cfg.Gather.BatchSize,
		cfg.Gather.MaxWorkers,
		cfg.Gather.RateLimitPerMin,
	)

	if err := g.Run(ctx); err != nil {
		log.Fatalf("gather failed: %v", err)
	}
}

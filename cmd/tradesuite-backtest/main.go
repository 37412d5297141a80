// Command tradesuite-backtest replays stored daily bars through a strategy
// and prints the trade ledger and summary. With -save the run is also
// persisted to SQLite.
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

	"github.com/google/uuid"

	"tradesuite/internal/backtest"
	"tradesuite/internal/config"
	"tradesuite/internal/domain"
	"tradesuite/internal/report"
	"tradesuite/internal/store"
	"tradesuite/internal/strategy"
	"tradesuite/internal/util"
)

func main() {
	var (
		symbol    = flag.String("symbol", "", "symbol to backtest (required)")
		stratName = flag.String("strategy", "", "strategy name (default from config)")
		startStr  = flag.String("start", "", "start date YYYY-MM-DD (required)")
		endStr    = flag.String("end", "", "end date YYYY-MM-DD (default today)")
		save      = flag.Bool("save", false, "persist the run to SQLite")
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

	if *symbol == "" || *startStr == "" {
		flag.Usage()
		os.Exit(2)
	}
	start, err := time.Parse("2006-01-02", *startStr)
	if err != nil {
		log.Fatalf("invalid -start: %v", err)
	}
	end := time.Now().UTC().Truncate(24 * time.Hour)
	if *endStr != "" {
		end, err = time.Parse("2006-01-02", *endStr)
		if err != nil {
			log.Fatalf("invalid -end: %v", err)
		}
	}

	name := cfg.Backtest.Strategy
	if *stratName != "" {
		name = *stratName
	}

	registry := strategy.NewRegistry()
	registry.Register(strategy.NewTrendFollow(cfg.Backtest.TrendFollow.Params()))
	registry.Register(strategy.NewRSIReversion(strategy.DefaultRSIReversionParams()))
	registry.Register(strategy.NewSMMARibbon(strategy.DefaultSMMARibbonParams()))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	bars := store.NewParquetStore(cfg.Storage.DataDir)
	bt := backtest.NewBacktester(bars, registry)

	sym := strings.ToUpper(*symbol)
	ledger, summary, err := bt.Run(ctx, name, sym, string(domain.MarketUS), start, end)
	if err != nil {
		log.Fatalf("backtest failed: %v", err)
	}

	console := report.NewConsole()
	console.PrintLedger(ledger)
	console.PrintSummary(summary)

	if *save {
		runs, err := store.NewSQLiteStore(cfg.Storage.SQLitePath)
		if err != nil {
			log.Fatalf("opening run store: %v", err)
		}
		defer runs.Close()

		run := &store.BacktestRun{
			ID:        uuid.NewString(),
			Symbol:    sym,
			Strategy:  name,
			Market:    string(domain.MarketUS),
			Start:     start,
			End:       end,
			CreatedAt: time.Now().UTC(),
			Summary:   summary,
			Trades:    ledger.Trades,
		}
		if err := runs.SaveRun(ctx, run); err != nil {
			log.Fatalf("saving run: %v", err)
		}
		log.Printf("saved run %s", run.ID)
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tradesuite.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"DATA_DIR", "SQLITE_PATH",
		"ALPACA_API_KEY", "ALPACA_API_SECRET", "ALPACA_BASE_URL", "ALPACA_DATA_URL",
		"APCA_API_KEY_ID", "APCA_API_SECRET_KEY",
		"LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
storage:
  data_dir: "/tmp/tradesuite/data"
  sqlite_path: "/tmp/tradesuite/runs.db"
alpaca:
  api_key: "test-key"
  api_secret: "test-secret"
  data_url: "https://data.alpaca.markets"
logging:
  level: "debug"
  format: "json"
gather:
  start_date: "2020-01-01"
  batch_size: 500
  max_workers: 8
  rate_limit_per_min: 200
screener:
  universe_csv: "/tmp/sp500.csv"
backtest:
  strategy: "trend-follow"
  trend_follow:
    rsi_threshold: 60
    sma_short: 30
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Storage.DataDir != "/tmp/tradesuite/data" {
		t.Errorf("Storage.DataDir = %q", cfg.Storage.DataDir)
	}
	if cfg.Alpaca.APIKey != "test-key" {
		t.Errorf("Alpaca.APIKey = %q", cfg.Alpaca.APIKey)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
	if cfg.Gather.BatchSize != 500 || cfg.Gather.MaxWorkers != 8 {
		t.Errorf("Gather = %+v", cfg.Gather)
	}
	if cfg.Screener.UniverseCSV != "/tmp/sp500.csv" {
		t.Errorf("Screener.UniverseCSV = %q", cfg.Screener.UniverseCSV)
	}
	if cfg.Backtest.Strategy != "trend-follow" {
		t.Errorf("Backtest.Strategy = %q", cfg.Backtest.Strategy)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(writeConfig(t, "{}\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Storage.DataDir != "data" {
		t.Errorf("Storage.DataDir = %q, want the default \"data\"", cfg.Storage.DataDir)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want \"info\"", cfg.Logging.Level)
	}
	if cfg.Gather.BatchSize != 200 {
		t.Errorf("Gather.BatchSize = %d, want 200", cfg.Gather.BatchSize)
	}
	if cfg.Backtest.Strategy != "trend-follow" {
		t.Errorf("Backtest.Strategy = %q, want \"trend-follow\"", cfg.Backtest.Strategy)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
storage:
  data_dir: "/original/data"
alpaca:
  api_key: "yaml-key"
  api_secret: "yaml-secret"
`)

	t.Setenv("DATA_DIR", "/env/data")
	t.Setenv("ALPACA_API_KEY", "env-key")
	t.Setenv("APCA_API_KEY_ID", "apca-key")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Storage.DataDir != "/env/data" {
		t.Errorf("Storage.DataDir = %q, want env override", cfg.Storage.DataDir)
	}
	// Canonical APCA name beats the generic one.
	if cfg.Alpaca.APIKey != "apca-key" {
		t.Errorf("Alpaca.APIKey = %q, want %q", cfg.Alpaca.APIKey, "apca-key")
	}
	if cfg.Alpaca.APISecret != "yaml-secret" {
		t.Errorf("Alpaca.APISecret = %q, want the YAML value", cfg.Alpaca.APISecret)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	clearEnv(t)
	if _, err := Load(writeConfig(t, "gather:\n  batch_size: -5\n")); err == nil {
		t.Error("Load accepted a negative batch size")
	}
}

func TestTrendFollowConfigParams(t *testing.T) {
	var empty TrendFollowConfig
	p := empty.Params()
	if p.RSIPeriod != 14 || p.SMALong != 200 || p.MaxRisePercent != 15.0 {
		t.Errorf("empty overrides changed the defaults: %+v", p)
	}

	partial := TrendFollowConfig{RSIThreshold: 60, SMAShort: 30}
	p = partial.Params()
	if p.RSIThreshold != 60 {
		t.Errorf("RSIThreshold = %v, want the override 60", p.RSIThreshold)
	}
	if p.SMAShort != 30 {
		t.Errorf("SMAShort = %v, want the override 30", p.SMAShort)
	}
	if p.SMALong != 200 {
		t.Errorf("SMALong = %v, want the untouched default 200", p.SMALong)
	}
}

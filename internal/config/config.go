// Package config loads the application configuration from YAML, a .env file,
// and environment variable overrides, in that order of precedence.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"tradesuite/internal/strategy"
)

// ---------------------------------------------------------------------------
// Configuration structs
// ---------------------------------------------------------------------------

// Config is the top-level configuration for the tradesuite tools.
type Config struct {
	Storage  Storage        `yaml:"storage"`
	Alpaca   Alpaca         `yaml:"alpaca"`
	Logging  Logging        `yaml:"logging"`
	Gather   GatherConfig   `yaml:"gather"`
	Screener ScreenerConfig `yaml:"screener"`
	Backtest BacktestConfig `yaml:"backtest"`
}

// Storage holds paths for data persistence.
type Storage struct {
	DataDir    string `yaml:"data_dir"`
	SQLitePath string `yaml:"sqlite_path"`
}

// Alpaca holds credentials and endpoints for the Alpaca market-data API.
type Alpaca struct {
	APIKey    string `yaml:"api_key"`
	APISecret string `yaml:"api_secret"`
	BaseURL   string `yaml:"base_url"`
	DataURL   string `yaml:"data_url"`
}

// Logging configures the application logger.
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// GatherConfig controls daily-bar gathering.
type GatherConfig struct {
	StartDate       string `yaml:"start_date"`
	BatchSize       int    `yaml:"batch_size"`
	MaxWorkers      int    `yaml:"max_workers"`
	RateLimitPerMin int    `yaml:"rate_limit_per_min"`
}

// ScreenerConfig points the screener at its universe file.
type ScreenerConfig struct {
	UniverseCSV string `yaml:"universe_csv"`
}

// BacktestConfig selects the default strategy and its parameter overrides.
// Zero values mean "use the strategy's documented default".
type BacktestConfig struct {
	Strategy    string            `yaml:"strategy"`
	TrendFollow TrendFollowConfig `yaml:"trend_follow"`
}

// TrendFollowConfig overrides trend-follow strategy parameters from YAML.
type TrendFollowConfig struct {
	RSIPeriod          int     `yaml:"rsi_period"`
	RSIThreshold       float64 `yaml:"rsi_threshold"`
	SMALong            int     `yaml:"sma_long"`
	SMAShort           int     `yaml:"sma_short"`
	SlopePeriod        int     `yaml:"slope_period"`
	BreakoutPeriod     int     `yaml:"breakout_period"`
	ATRPeriod          int     `yaml:"atr_period"`
	ATRMultiplierBody  float64 `yaml:"atr_multiplier_body"`
	ATRMultiplierStop  float64 `yaml:"atr_multiplier_stop"`
	ATRMultiplierTrail float64 `yaml:"atr_multiplier_trail"`
	MaxRisePeriod      int     `yaml:"max_rise_period"`
	MaxRisePercent     float64 `yaml:"max_rise_percent"`
}

// Params merges the YAML overrides onto the strategy's documented defaults.
// Only explicitly set (non-zero) fields override.
func (c TrendFollowConfig) Params() strategy.TrendFollowParams {
	p := strategy.DefaultTrendFollowParams()
	if c.RSIPeriod > 0 {
		p.RSIPeriod = c.RSIPeriod
	}
	if c.RSIThreshold > 0 {
		p.RSIThreshold = c.RSIThreshold
	}
	if c.SMALong > 0 {
		p.SMALong = c.SMALong
	}
	if c.SMAShort > 0 {
		p.SMAShort = c.SMAShort
	}
	if c.SlopePeriod > 0 {
		p.SlopePeriod = c.SlopePeriod
	}
	if c.BreakoutPeriod > 0 {
		p.BreakoutPeriod = c.BreakoutPeriod
	}
	if c.ATRPeriod > 0 {
		p.ATRPeriod = c.ATRPeriod
	}
	if c.ATRMultiplierBody > 0 {
		p.ATRMultiplierBody = c.ATRMultiplierBody
	}
	if c.ATRMultiplierStop > 0 {
		p.ATRMultiplierStop = c.ATRMultiplierStop
	}
	if c.ATRMultiplierTrail > 0 {
		p.ATRMultiplierTrail = c.ATRMultiplierTrail
	}
	if c.MaxRisePeriod > 0 {
		p.MaxRisePeriod = c.MaxRisePeriod
	}
	if c.MaxRisePercent > 0 {
		p.MaxRisePercent = c.MaxRisePercent
	}
	return p
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Load reads the YAML configuration file at the given path, parses it into a
// Config struct, and then applies .env and environment variable overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	// A local .env file fills in unset environment variables; already-set
	// variables keep their values.
	_ = godotenv.Load()
	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Storage: Storage{
			DataDir:    "data",
			SQLitePath: "data/tradesuite.db",
		},
		Logging: Logging{
			Level:  "info",
			Format: "text",
		},
		Gather: GatherConfig{
			StartDate:       "2015-01-01",
			BatchSize:       200,
			MaxWorkers:      4,
			RateLimitPerMin: 200,
		},
		Backtest: BacktestConfig{
			Strategy: "trend-follow",
		},
	}
}

// Validate rejects configurations no tool could run with.
func (c *Config) Validate() error {
	if c.Storage.DataDir == "" {
		return fmt.Errorf("config: storage.data_dir must not be empty")
	}
	if c.Gather.BatchSize <= 0 {
		return fmt.Errorf("config: gather.batch_size must be positive, got %d", c.Gather.BatchSize)
	}
	if c.Gather.MaxWorkers <= 0 {
		return fmt.Errorf("config: gather.max_workers must be positive, got %d", c.Gather.MaxWorkers)
	}
	if c.Gather.RateLimitPerMin <= 0 {
		return fmt.Errorf("config: gather.rate_limit_per_min must be positive, got %d", c.Gather.RateLimitPerMin)
	}
	return nil
}

// applyEnvOverrides checks well-known environment variables and overrides the
// corresponding configuration fields when they are set.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.Storage.DataDir = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Storage.SQLitePath = v
	}

	if v := os.Getenv("ALPACA_API_KEY"); v != "" {
		cfg.Alpaca.APIKey = v
	}
	if v := os.Getenv("ALPACA_API_SECRET"); v != "" {
		cfg.Alpaca.APISecret = v
	}
	if v := os.Getenv("ALPACA_BASE_URL"); v != "" {
		cfg.Alpaca.BaseURL = v
	}
	if v := os.Getenv("ALPACA_DATA_URL"); v != "" {
		cfg.Alpaca.DataURL = v
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}

	// Canonical Alpaca env vars take highest priority; the SDK reads these
	// names itself.
	if v := os.Getenv("APCA_API_KEY_ID"); v != "" {
		cfg.Alpaca.APIKey = v
	}
	if v := os.Getenv("APCA_API_SECRET_KEY"); v != "" {
		cfg.Alpaca.APISecret = v
	}
}

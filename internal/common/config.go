package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/robfig/cron/v3"
)

// Config represents the application configuration
type Config struct {
	EODHD    EODHDConfig    `toml:"eodhd"`
	Market   MarketConfig   `toml:"market"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Report   ReportConfig   `toml:"report"`
	Storage  StorageConfig  `toml:"storage"`
	Schedule ScheduleConfig `toml:"schedule"`
	Logging  LoggingConfig  `toml:"logging"`
}

// EODHDConfig configures the end-of-day price provider
type EODHDConfig struct {
	APIKey    string `toml:"api_key" validate:"required"`
	BaseURL   string `toml:"base_url" validate:"required,url"`
	RateLimit int    `toml:"rate_limit" validate:"gte=1"` // requests per second
	Timeout   string `toml:"timeout" validate:"required"` // e.g. "30s"
}

type MarketConfig struct {
	DefaultExchange string `toml:"default_exchange" validate:"required"` // exchange used for bare tickers ("META" -> "META.US")
	From            string `toml:"from"`                                 // optional first date (YYYY-MM-DD); empty fetches full history
}

type MetricsConfig struct {
	RiskFreeRate   float64 `toml:"risk_free_rate" validate:"gte=0"`
	PeriodsPerYear int     `toml:"periods_per_year" validate:"gte=1"`
	VaRConfidence  float64 `toml:"var_confidence" validate:"gt=0,lt=1"`
}

type ReportConfig struct {
	Output     string `toml:"output" validate:"required"`
	Title      string `toml:"title" validate:"required"`
	Validate   bool   `toml:"validate"`    // re-read generated PDFs with pdfcpu
	PrintTable bool   `toml:"print_table"` // print the full metrics table to stdout
	TableStyle string `toml:"table_style" validate:"oneof=notty ascii dark light"`
	ExportYAML string `toml:"export_yaml"` // optional path for a YAML copy of the metrics
}

type StorageConfig struct {
	Badger   BadgerConfig `toml:"badger"`
	CacheTTL string       `toml:"cache_ttl"` // e.g. "12h"; "0" never expires
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Enabled        bool   `toml:"enabled"`
	Path           string `toml:"path"`             // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete database on startup
}

type ScheduleConfig struct {
	Cron      string   `toml:"cron"` // six-field cron expression (seconds first)
	Tickers   []string `toml:"tickers"`
	OutputDir string   `toml:"output_dir"`
}

type LoggingConfig struct {
	Level  string   `toml:"level" validate:"oneof=trace debug info warn error"`
	Output []string `toml:"output"` // "stdout", "file"
}

func NewDefaultConfig() *Config {
	return &Config{
		EODHD: EODHDConfig{
			APIKey:    "demo", // EODHD demo key, limited to a handful of symbols
			BaseURL:   "https://eodhd.com/api",
			RateLimit: 10,
			Timeout:   "30s",
		},
		Market: MarketConfig{
			DefaultExchange: "US",
		},
		Metrics: MetricsConfig{
			RiskFreeRate:   0,
			PeriodsPerYear: 252,
			VaRConfidence:  0.95,
		},
		Report: ReportConfig{
			Output:     "investment_metrics.pdf",
			Title:      "Investment Performance Metrics",
			Validate:   true,
			PrintTable: true,
			TableStyle: "notty",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Enabled: true,
				Path:    "./data/prices",
			},
			CacheTTL: "12h",
		},
		Schedule: ScheduleConfig{
			Cron:      "0 30 22 * * 1-5", // weekdays after the US close
			OutputDir: "./reports",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout"},
		},
	}
}

// LoadFromFiles loads defaults, then each file in order (later files override
// earlier ones), then environment overrides. A .env file in the working
// directory is loaded first when present.
func LoadFromFiles(paths ...string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		err = toml.Unmarshal(data, config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

func applyEnvOverrides(config *Config) {
	if apiKey := os.Getenv("TEARSHEET_EODHD_API_KEY"); apiKey != "" {
		config.EODHD.APIKey = apiKey
	} else if apiKey := os.Getenv("EODHD_API_KEY"); apiKey != "" {
		config.EODHD.APIKey = apiKey
	}
	if baseURL := os.Getenv("TEARSHEET_EODHD_BASE_URL"); baseURL != "" {
		config.EODHD.BaseURL = baseURL
	}
	if rateLimit := os.Getenv("TEARSHEET_EODHD_RATE_LIMIT"); rateLimit != "" {
		if rl, err := strconv.Atoi(rateLimit); err == nil {
			config.EODHD.RateLimit = rl
		}
	}

	if exchange := os.Getenv("TEARSHEET_DEFAULT_EXCHANGE"); exchange != "" {
		config.Market.DefaultExchange = exchange
	}
	if from := os.Getenv("TEARSHEET_FROM"); from != "" {
		config.Market.From = from
	}

	if rf := os.Getenv("TEARSHEET_RISK_FREE_RATE"); rf != "" {
		if v, err := strconv.ParseFloat(rf, 64); err == nil {
			config.Metrics.RiskFreeRate = v
		}
	}

	if output := os.Getenv("TEARSHEET_REPORT_OUTPUT"); output != "" {
		config.Report.Output = output
	}

	if badgerPath := os.Getenv("TEARSHEET_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}
	if enabled := os.Getenv("TEARSHEET_CACHE_ENABLED"); enabled != "" {
		if e, err := strconv.ParseBool(enabled); err == nil {
			config.Storage.Badger.Enabled = e
		}
	}

	if level := os.Getenv("TEARSHEET_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("TEARSHEET_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}
}

// ApplyFlagOverrides applies command-line values (highest priority)
func ApplyFlagOverrides(config *Config, output string, noTable bool, exportYAML string) {
	if output != "" {
		config.Report.Output = output
	}
	if noTable {
		config.Report.PrintTable = false
	}
	if exportYAML != "" {
		config.Report.ExportYAML = exportYAML
	}
}

// Validate checks struct constraints plus the duration, date and cron fields.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if _, err := c.EODHD.TimeoutDuration(); err != nil {
		return fmt.Errorf("invalid eodhd.timeout: %w", err)
	}
	if _, err := c.Storage.CacheTTLDuration(); err != nil {
		return fmt.Errorf("invalid storage.cache_ttl: %w", err)
	}
	if _, err := c.Market.FromDate(); err != nil {
		return fmt.Errorf("invalid market.from: %w", err)
	}
	if c.Schedule.Cron != "" {
		if err := ValidateSchedule(c.Schedule.Cron); err != nil {
			return err
		}
	}
	return nil
}

func (c EODHDConfig) TimeoutDuration() (time.Duration, error) {
	return time.ParseDuration(c.Timeout)
}

func (c StorageConfig) CacheTTLDuration() (time.Duration, error) {
	if c.CacheTTL == "" || c.CacheTTL == "0" {
		return 0, nil
	}
	return time.ParseDuration(c.CacheTTL)
}

// FromDate returns the configured start date, zero when unset.
func (c MarketConfig) FromDate() (time.Time, error) {
	if c.From == "" {
		return time.Time{}, nil
	}
	return time.Parse("2006-01-02", c.From)
}

// ValidateSchedule parses a six-field cron expression (seconds first).
func ValidateSchedule(schedule string) error {
	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	if _, err := parser.Parse(schedule); err != nil {
		return fmt.Errorf("invalid cron expression: %w", err)
	}
	return nil
}

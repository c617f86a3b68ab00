package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/tearsheet/internal/common"
	"github.com/ternarybob/tearsheet/internal/eodhd"
	"github.com/ternarybob/tearsheet/internal/interfaces"
	"github.com/ternarybob/tearsheet/internal/models"
	"github.com/ternarybob/tearsheet/internal/services/metrics"
	"github.com/ternarybob/tearsheet/internal/services/pdf"
	"github.com/ternarybob/tearsheet/internal/services/returns"
	"github.com/ternarybob/tearsheet/internal/services/summary"
	"github.com/ternarybob/tearsheet/internal/storage/badger"
)

// App holds all application components and dependencies
type App struct {
	Config *common.Config
	Logger arbor.ILogger
	Stdout io.Writer

	// Price cache (nil when storage.badger.enabled = false)
	DB           *badger.BadgerDB
	PriceStorage interfaces.PriceStorage

	// Pipeline services
	ReturnsService interfaces.ReturnsService
	Calculator     interfaces.MetricsCalculator
	ReportService  interfaces.ReportService
	Inspector      *pdf.Inspector
	Printer        *summary.Printer
}

// Compile-time assertion
var _ interfaces.ReportGenerator = (*App)(nil)

// ReportOptions controls one report run
type ReportOptions struct {
	Output      string // file path; config report.output when empty
	ReturnBytes bool   // keep the PDF in memory instead of writing Output
}

// ReportResult is the outcome of GenerateReport
type ReportResult struct {
	Symbol  string
	Metrics models.MetricsData
	Sharpe  float64
	PDF     []byte // set in byte mode
	Path    string // set in file mode
	Pages   int    // 0 when report.validate = false
}

// New initializes the application with the EODHD client as price provider
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	timeout, err := cfg.EODHD.TimeoutDuration()
	if err != nil {
		return nil, fmt.Errorf("invalid eodhd timeout: %w", err)
	}

	client := eodhd.NewClient(cfg.EODHD.APIKey,
		eodhd.WithBaseURL(cfg.EODHD.BaseURL),
		eodhd.WithRateLimit(cfg.EODHD.RateLimit),
		eodhd.WithTimeout(timeout),
		eodhd.WithLogger(logger),
	)

	return NewWithProvider(cfg, logger, client)
}

// NewWithProvider initializes the application around an existing price provider
func NewWithProvider(cfg *common.Config, logger arbor.ILogger, provider interfaces.EODProvider) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
		Stdout: os.Stdout,
	}

	common.SetDefaultExchange(cfg.Market.DefaultExchange)

	if err := app.initDatabase(); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := app.initServices(provider); err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	logger.Debug().
		Bool("cache_enabled", app.PriceStorage != nil).
		Str("default_exchange", cfg.Market.DefaultExchange).
		Msg("Application initialization complete")

	return app, nil
}

// initDatabase opens the badger price cache when enabled
func (a *App) initDatabase() error {
	if !a.Config.Storage.Badger.Enabled {
		a.Logger.Debug().Msg("Price cache disabled")
		return nil
	}

	db, err := badger.NewBadgerDB(a.Logger, &a.Config.Storage.Badger)
	if err != nil {
		return err
	}

	a.DB = db
	a.PriceStorage = badger.NewPriceStorage(db, a.Logger)
	a.Logger.Debug().
		Str("storage", "badger").
		Str("path", a.Config.Storage.Badger.Path).
		Msg("Storage layer initialized")
	return nil
}

func (a *App) initServices(provider interfaces.EODProvider) error {
	from, err := a.Config.Market.FromDate()
	if err != nil {
		return fmt.Errorf("invalid market.from: %w", err)
	}

	opts := []returns.Option{returns.WithFrom(from)}
	if a.PriceStorage != nil {
		ttl, err := a.Config.Storage.CacheTTLDuration()
		if err != nil {
			return fmt.Errorf("invalid storage.cache_ttl: %w", err)
		}
		opts = append(opts, returns.WithCache(a.PriceStorage, ttl))
	}

	a.ReturnsService = returns.NewService(provider, a.Logger, opts...)
	a.Calculator = metrics.NewCalculator(metrics.Options{
		RiskFreeRate:   a.Config.Metrics.RiskFreeRate,
		PeriodsPerYear: a.Config.Metrics.PeriodsPerYear,
		VaRConfidence:  a.Config.Metrics.VaRConfidence,
	}, a.Logger)
	a.ReportService = pdf.NewService(a.Logger,
		pdf.WithTitle(a.Config.Report.Title),
		pdf.WithCreator("tearsheet "+common.GetVersion()),
	)
	a.Inspector = pdf.NewInspector(a.Logger)
	a.Printer = summary.NewPrinter(a.Logger, summary.WithStyle(a.Config.Report.TableStyle))
	return nil
}

// GenerateReport fetches returns for ticker, computes metrics, renders the
// PDF and prints the summary. Any failing step aborts the run.
func (a *App) GenerateReport(ctx context.Context, ticker string, opts ReportOptions) (*ReportResult, error) {
	series, err := a.ReturnsService.Fetch(ctx, ticker)
	if err != nil {
		return nil, fmt.Errorf("fetch returns: %w", err)
	}

	data, err := a.Calculator.Compute(ctx, series)
	if err != nil {
		return nil, fmt.Errorf("compute metrics: %w", err)
	}

	result := &ReportResult{
		Symbol:  series.Symbol,
		Metrics: data,
		Sharpe:  a.Calculator.Sharpe(series),
	}

	if err := a.render(result, opts); err != nil {
		return nil, fmt.Errorf("build report: %w", err)
	}

	if path := a.Config.Report.ExportYAML; path != "" {
		if err := metrics.ExportYAML(data, path); err != nil {
			return nil, fmt.Errorf("export metrics: %w", err)
		}
		a.Logger.Info().Str("path", path).Msg("Metrics exported")
	}

	if a.Config.Report.PrintTable {
		table, err := a.Printer.Table(data)
		if err != nil {
			return nil, fmt.Errorf("print metrics table: %w", err)
		}
		fmt.Fprint(a.Stdout, table)
	}

	if err := a.Printer.Print(a.Stdout, result.Symbol, data, result.Sharpe); err != nil {
		return nil, fmt.Errorf("print summary: %w", err)
	}

	return result, nil
}

func (a *App) render(result *ReportResult, opts ReportOptions) error {
	if opts.ReturnBytes {
		content, err := a.ReportService.Bytes(result.Metrics)
		if err != nil {
			return err
		}
		result.PDF = content
		return a.validate(result, content)
	}

	path := opts.Output
	if path == "" {
		path = a.Config.Report.Output
	}
	if err := a.ReportService.WriteFile(result.Metrics, path); err != nil {
		return err
	}
	result.Path = path

	if !a.Config.Report.Validate {
		return nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read back %s: %w", path, err)
	}
	return a.validate(result, content)
}

func (a *App) validate(result *ReportResult, content []byte) error {
	if !a.Config.Report.Validate {
		return nil
	}
	pages, err := a.Inspector.PageCount(content)
	if err != nil {
		return err
	}
	result.Pages = pages
	return nil
}

// Generate writes the report for ticker to output.
func (a *App) Generate(ctx context.Context, ticker, output string) error {
	_, err := a.GenerateReport(ctx, ticker, ReportOptions{Output: output})
	return err
}

// Close releases the price cache
func (a *App) Close() error {
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close price cache")
			return err
		}
		a.DB = nil
	}
	a.Logger.Debug().Msg("Application closed")
	return nil
}

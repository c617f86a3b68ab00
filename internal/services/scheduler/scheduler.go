// Package scheduler runs report generation for a fixed ticker list on a cron schedule.
package scheduler

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/tearsheet/internal/common"
	"github.com/ternarybob/tearsheet/internal/interfaces"
)

// ErrNoTickers is returned by Start when there is nothing to schedule.
var ErrNoTickers = errors.New("no tickers configured for schedule")

// DefaultSchedule runs on weekdays after the US close.
const DefaultSchedule = "0 30 22 * * 1-5"

// RunStats summarizes one scheduled run
type RunStats struct {
	RunID     string
	Succeeded int
	Failed    int
	Duration  time.Duration
}

// Service generates reports for each configured ticker on a cron schedule
type Service struct {
	generator interfaces.ReportGenerator
	tickers   []common.Ticker
	outputDir string
	timeout   time.Duration
	cron      *cron.Cron
	logger    arbor.ILogger

	mu sync.Mutex // one run at a time
}

// NewService creates a new report scheduler. Blank tickers are dropped.
func NewService(generator interfaces.ReportGenerator, tickers []string, outputDir string, logger arbor.ILogger) *Service {
	return &Service{
		generator: generator,
		tickers:   common.ParseTickers(tickers),
		outputDir: outputDir,
		timeout:   30 * time.Minute,
		cron:      cron.New(cron.WithSeconds()),
		logger:    logger,
	}
}

// OutputPath returns <dir>/<SYMBOL>_metrics.pdf for ticker.
func OutputPath(dir, ticker string) string {
	return outputPath(dir, common.ParseTicker(ticker))
}

func outputPath(dir string, ticker common.Ticker) string {
	return filepath.Join(dir, ticker.FileStem()+"_metrics.pdf")
}

// Tickers returns the symbols the scheduler reports on.
func (s *Service) Tickers() []string {
	symbols := make([]string, 0, len(s.tickers))
	for _, t := range s.tickers {
		symbols = append(symbols, t.EODHDSymbol())
	}
	return symbols
}

// Start registers the schedule and starts the cron runner
func (s *Service) Start(schedule string) error {
	if len(s.tickers) == 0 {
		return ErrNoTickers
	}
	if schedule == "" {
		schedule = DefaultSchedule
	}

	_, err := s.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		s.RunNow(ctx)
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info().
		Str("schedule", schedule).
		Strs("tickers", s.Tickers()).
		Str("output_dir", s.outputDir).
		Msg("Report scheduler started")

	return nil
}

// Stop stops the scheduler and waits for a running job to finish
func (s *Service) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info().Msg("Report scheduler stopped")
}

// RunNow generates every report once. A failing ticker is logged and skipped.
func (s *Service) RunNow(ctx context.Context) RunStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := RunStats{RunID: uuid.New().String()}
	logger := s.logger.WithCorrelationId(stats.RunID)
	start := time.Now()

	logger.Info().Int("tickers", len(s.tickers)).Msg("Starting scheduled reports")

	for _, ticker := range s.tickers {
		if ctx.Err() != nil {
			logger.Warn().Err(ctx.Err()).Msg("Scheduled run cancelled")
			break
		}

		output := outputPath(s.outputDir, ticker)
		if err := s.generator.Generate(ctx, ticker.Raw, output); err != nil {
			stats.Failed++
			logger.Error().Err(err).Str("ticker", ticker.Raw).Msg("Scheduled report failed")
			continue
		}
		stats.Succeeded++
		logger.Info().Str("ticker", ticker.Raw).Str("path", output).Msg("Scheduled report written")
	}

	stats.Duration = time.Since(start)
	logger.Info().
		Int("succeeded", stats.Succeeded).
		Int("failed", stats.Failed).
		Dur("duration", stats.Duration).
		Msg("Scheduled reports completed")

	return stats
}

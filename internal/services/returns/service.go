// Package returns downloads daily prices and converts them to a returns series.
package returns

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/tearsheet/internal/common"
	"github.com/ternarybob/tearsheet/internal/eodhd"
	"github.com/ternarybob/tearsheet/internal/interfaces"
	"github.com/ternarybob/tearsheet/internal/models"
	"gonum.org/v1/gonum/floats"
)

// ErrInsufficientData is returned when fewer than two usable prices exist.
var ErrInsufficientData = errors.New("insufficient price history")

// Service implements interfaces.ReturnsService
type Service struct {
	provider interfaces.EODProvider
	cache    interfaces.PriceStorage // nil disables caching
	logger   arbor.ILogger
	from     time.Time
	cacheTTL time.Duration
	now      func() time.Time
}

// Compile-time assertion
var _ interfaces.ReturnsService = (*Service)(nil)

// Option configures the Service.
type Option func(*Service)

// WithCache enables the price cache; entries older than ttl are refetched.
func WithCache(cache interfaces.PriceStorage, ttl time.Duration) Option {
	return func(s *Service) {
		s.cache = cache
		s.cacheTTL = ttl
	}
}

// WithFrom limits the download to prices on or after from.
func WithFrom(from time.Time) Option {
	return func(s *Service) {
		s.from = from
	}
}

// WithClock overrides the time source used for cache freshness.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a new returns service
func NewService(provider interfaces.EODProvider, logger arbor.ILogger, opts ...Option) *Service {
	s := &Service{
		provider: provider,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fetch returns the daily simple returns for ticker, oldest first.
func (s *Service) Fetch(ctx context.Context, ticker string) (models.ReturnSeries, error) {
	parsed := common.ParseTicker(ticker)
	symbol := parsed.EODHDSymbol()
	if symbol == "" {
		return models.ReturnSeries{}, fmt.Errorf("invalid ticker %q", ticker)
	}

	history, err := s.prices(ctx, symbol)
	if err != nil {
		return models.ReturnSeries{}, err
	}

	series, err := FromPrices(symbol, history.Bars)
	if err != nil {
		return models.ReturnSeries{}, fmt.Errorf("%s: %w", symbol, err)
	}

	s.logger.Info().
		Str("symbol", symbol).
		Int("returns", series.Len()).
		Str("start", series.First().Date.Format("2006-01-02")).
		Str("end", series.Last().Date.Format("2006-01-02")).
		Msg("Returns series ready")

	return series, nil
}

func (s *Service) prices(ctx context.Context, symbol string) (*models.PriceHistory, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, symbol)
		switch {
		case err == nil && cached.IsFresh(s.now(), s.cacheTTL):
			s.logger.Debug().
				Str("symbol", symbol).
				Int("bars", len(cached.Bars)).
				Msg("Using cached price history")
			return cached, nil
		case err != nil && !errors.Is(err, interfaces.ErrNotFound):
			s.logger.Warn().Err(err).Str("symbol", symbol).Msg("Price cache read failed, fetching")
		}
	}

	var opts []eodhd.QueryOption
	if !s.from.IsZero() {
		opts = append(opts, eodhd.WithDateRange(s.from, time.Time{}))
	}

	bars, err := s.provider.GetEOD(ctx, symbol, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to download prices for %s: %w", symbol, err)
	}

	history := &models.PriceHistory{
		Symbol:    symbol,
		Bars:      bars,
		FetchedAt: s.now(),
	}

	if s.cache != nil {
		if err := s.cache.Save(ctx, history); err != nil {
			s.logger.Warn().Err(err).Str("symbol", symbol).Msg("Failed to cache price history")
		}
	}

	return history, nil
}

// FromPrices sorts bars by date and converts them into simple returns
// p[i]/p[i-1]-1, dated at bar i. Bars without a positive adjusted close are dropped.
func FromPrices(symbol string, bars []models.PriceBar) (models.ReturnSeries, error) {
	sorted := make([]models.PriceBar, len(bars))
	copy(sorted, bars)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	prices := make([]float64, 0, len(sorted))
	dates := make([]time.Time, 0, len(sorted))
	for _, b := range sorted {
		if b.AdjustedClose <= 0 {
			continue
		}
		prices = append(prices, b.AdjustedClose)
		dates = append(dates, b.Date)
	}
	if len(prices) < 2 {
		return models.ReturnSeries{}, ErrInsufficientData
	}

	values := make([]float64, len(prices)-1)
	floats.DivTo(values, prices[1:], prices[:len(prices)-1])
	floats.AddConst(-1, values)

	series := models.ReturnSeries{
		Symbol:  symbol,
		Returns: make([]models.Return, len(values)),
	}
	for i, v := range values {
		series.Returns[i] = models.Return{Date: dates[i+1], Value: v}
	}
	return series, nil
}

package badger

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/tearsheet/internal/interfaces"
	"github.com/ternarybob/tearsheet/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// PriceStorage implements interfaces.PriceStorage for Badger
type PriceStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// Compile-time assertion
var _ interfaces.PriceStorage = (*PriceStorage)(nil)

// NewPriceStorage creates a new PriceStorage instance
func NewPriceStorage(db *BadgerDB, logger arbor.ILogger) *PriceStorage {
	return &PriceStorage{
		db:     db,
		logger: logger,
	}
}

// normalizeKey upper-cases symbols so "meta.us" and "META.US" share an entry
func (s *PriceStorage) normalizeKey(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// Get retrieves the cached history for a symbol
func (s *PriceStorage) Get(ctx context.Context, symbol string) (*models.PriceHistory, error) {
	key := s.normalizeKey(symbol)
	var history models.PriceHistory
	err := s.db.Store().Get(key, &history)
	if errors.Is(err, badgerhold.ErrNotFound) {
		return nil, interfaces.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get price history: %w", err)
	}
	return &history, nil
}

// Save inserts or replaces the history for history.Symbol
func (s *PriceStorage) Save(ctx context.Context, history *models.PriceHistory) error {
	if history == nil || strings.TrimSpace(history.Symbol) == "" {
		return fmt.Errorf("price history requires a symbol")
	}
	key := s.normalizeKey(history.Symbol)
	record := *history
	record.Symbol = key

	if err := s.db.Store().Upsert(key, &record); err != nil {
		return fmt.Errorf("failed to save price history: %w", err)
	}

	s.logger.Debug().
		Str("symbol", key).
		Int("bars", len(record.Bars)).
		Msg("Cached price history")
	return nil
}

// Delete removes the cached history for a symbol
func (s *PriceStorage) Delete(ctx context.Context, symbol string) error {
	err := s.db.Store().Delete(s.normalizeKey(symbol), &models.PriceHistory{})
	if errors.Is(err, badgerhold.ErrNotFound) {
		return interfaces.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete price history: %w", err)
	}
	return nil
}

// List returns the cached symbols in sorted order
func (s *PriceStorage) List(ctx context.Context) ([]string, error) {
	var histories []models.PriceHistory
	if err := s.db.Store().Find(&histories, nil); err != nil {
		return nil, fmt.Errorf("failed to list price histories: %w", err)
	}

	symbols := make([]string, 0, len(histories))
	for _, h := range histories {
		symbols = append(symbols, h.Symbol)
	}
	sort.Strings(symbols)
	return symbols, nil
}

// Package badger provides the on-disk price cache backed by badgerhold.
package badger

import (
	"fmt"
	"os"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/tearsheet/internal/common"
	"github.com/timshannon/badgerhold/v4"
)

// BadgerDB owns the badgerhold store used by the price cache
type BadgerDB struct {
	store  *badgerhold.Store
	path   string
	logger arbor.ILogger
}

// NewBadgerDB opens (and optionally wipes) the cache directory at config.Path.
func NewBadgerDB(logger arbor.ILogger, config *common.BadgerConfig) (*BadgerDB, error) {
	if config == nil || config.Path == "" {
		return nil, fmt.Errorf("badger path is required")
	}

	if config.ResetOnStartup {
		if err := os.RemoveAll(config.Path); err != nil {
			return nil, fmt.Errorf("failed to reset price cache %s: %w", config.Path, err)
		}
		logger.Info().Str("path", config.Path).Msg("Price cache reset")
	}

	if err := os.MkdirAll(config.Path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create price cache directory: %w", err)
	}

	options := badgerhold.DefaultOptions
	options.Dir = config.Path
	options.ValueDir = config.Path
	options.Logger = nil // badger's own logger is noisy; arbor covers open/close

	store, err := badgerhold.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to open price cache %s: %w", config.Path, err)
	}

	logger.Debug().Str("path", config.Path).Msg("Price cache opened")
	return &BadgerDB{store: store, path: config.Path, logger: logger}, nil
}

// Store returns the underlying badgerhold store
func (b *BadgerDB) Store() *badgerhold.Store {
	return b.store
}

func (b *BadgerDB) Path() string {
	return b.path
}

// Close closes the store. Calling it twice is a no-op.
func (b *BadgerDB) Close() error {
	if b.store == nil {
		return nil
	}
	err := b.store.Close()
	b.store = nil
	if err != nil {
		return fmt.Errorf("failed to close price cache: %w", err)
	}
	b.logger.Debug().Str("path", b.path).Msg("Price cache closed")
	return nil
}

package badger

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/tearsheet/internal/common"
	"github.com/ternarybob/tearsheet/internal/interfaces"
	"github.com/ternarybob/tearsheet/internal/models"
)

func newTestStorage(t *testing.T) *PriceStorage {
	t.Helper()
	logger := arbor.NewLogger()
	db, err := NewBadgerDB(logger, &common.BadgerConfig{
		Enabled: true,
		Path:    filepath.Join(t.TempDir(), "prices"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPriceStorage(db, logger)
}

func TestPriceStorage_SaveAndGet(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	fetched := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	history := &models.PriceHistory{
		Symbol: "meta.us",
		Bars: []models.PriceBar{
			{Date: time.Date(2024, 5, 30, 0, 0, 0, 0, time.UTC), Close: 470, AdjustedClose: 469.5},
			{Date: time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC), Close: 466, AdjustedClose: 465.7},
		},
		FetchedAt: fetched,
	}
	require.NoError(t, storage.Save(ctx, history))

	got, err := storage.Get(ctx, "META.US")
	require.NoError(t, err)
	assert.Equal(t, "META.US", got.Symbol)
	require.Len(t, got.Bars, 2)
	assert.Equal(t, 465.7, got.Bars[1].AdjustedClose)
	assert.True(t, got.FetchedAt.Equal(fetched))

	// caller's value is not mutated
	assert.Equal(t, "meta.us", history.Symbol)
}

func TestPriceStorage_Upsert(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, storage.Save(ctx, &models.PriceHistory{Symbol: "AAPL.US", Bars: make([]models.PriceBar, 1)}))
	require.NoError(t, storage.Save(ctx, &models.PriceHistory{Symbol: "AAPL.US", Bars: make([]models.PriceBar, 3)}))

	got, err := storage.Get(ctx, "aapl.us")
	require.NoError(t, err)
	assert.Len(t, got.Bars, 3)
}

func TestPriceStorage_NotFoundAndDelete(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	_, err := storage.Get(ctx, "NONE.US")
	assert.True(t, errors.Is(err, interfaces.ErrNotFound))

	require.NoError(t, storage.Save(ctx, &models.PriceHistory{Symbol: "TSLA.US"}))
	require.NoError(t, storage.Save(ctx, &models.PriceHistory{Symbol: "AAPL.US"}))

	symbols, err := storage.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL.US", "TSLA.US"}, symbols)

	require.NoError(t, storage.Delete(ctx, "tsla.us"))
	_, err = storage.Get(ctx, "TSLA.US")
	assert.True(t, errors.Is(err, interfaces.ErrNotFound))

	assert.Error(t, storage.Save(ctx, &models.PriceHistory{}))
}

func TestNewBadgerDB_Reset(t *testing.T) {
	logger := arbor.NewLogger()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "prices")

	db, err := NewBadgerDB(logger, &common.BadgerConfig{Enabled: true, Path: path})
	require.NoError(t, err)
	require.NoError(t, NewPriceStorage(db, logger).Save(ctx, &models.PriceHistory{Symbol: "META.US"}))
	require.NoError(t, db.Close())
	require.NoError(t, db.Close())

	db, err = NewBadgerDB(logger, &common.BadgerConfig{Enabled: true, Path: path, ResetOnStartup: true})
	require.NoError(t, err)
	defer db.Close()
	assert.Equal(t, path, db.Path())

	_, err = NewPriceStorage(db, logger).Get(ctx, "META.US")
	assert.True(t, errors.Is(err, interfaces.ErrNotFound))

	_, err = NewBadgerDB(logger, &common.BadgerConfig{Enabled: true})
	assert.Error(t, err)
}

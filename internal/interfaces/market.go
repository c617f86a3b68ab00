// Package interfaces provides service interfaces for dependency injection.
package interfaces

import (
	"context"

	"github.com/ternarybob/tearsheet/internal/eodhd"
	"github.com/ternarybob/tearsheet/internal/models"
)

// EODProvider fetches end-of-day prices. Implemented by *eodhd.Client.
type EODProvider interface {
	GetEOD(ctx context.Context, symbol string, opts ...eodhd.QueryOption) ([]models.PriceBar, error)
}

// ReturnsService downloads the daily returns series for a ticker
type ReturnsService interface {
	Fetch(ctx context.Context, ticker string) (models.ReturnSeries, error)
}

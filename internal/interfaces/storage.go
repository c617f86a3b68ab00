package interfaces

import (
	"context"
	"errors"

	"github.com/ternarybob/tearsheet/internal/models"
)

// ErrNotFound is returned when a cached price history does not exist
var ErrNotFound = errors.New("not found")

// PriceStorage caches daily price histories keyed by EODHD symbol
type PriceStorage interface {
	Get(ctx context.Context, symbol string) (*models.PriceHistory, error)
	Save(ctx context.Context, history *models.PriceHistory) error
	Delete(ctx context.Context, symbol string) error
	List(ctx context.Context) ([]string, error)
}

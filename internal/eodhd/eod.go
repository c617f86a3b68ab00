package eodhd

import (
	"context"
	"net/url"
	"time"

	"github.com/ternarybob/tearsheet/internal/models"
)

const dateLayout = "2006-01-02"

// QueryOption narrows an end-of-day query
type QueryOption func(*eodQuery)

type eodQuery struct {
	from time.Time
	to   time.Time
}

// WithDateRange limits the query to [from, to]. A zero bound is left open.
func WithDateRange(from, to time.Time) QueryOption {
	return func(q *eodQuery) {
		q.from = from
		q.to = to
	}
}

// eodRow is one element of the /eod JSON array
type eodRow struct {
	Date          string  `json:"date"`
	Open          float64 `json:"open"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Close         float64 `json:"close"`
	AdjustedClose float64 `json:"adjusted_close"`
	Volume        int64   `json:"volume"`
}

// GetEOD returns daily bars for symbol (e.g. "META.US"), oldest first.
// A row with an unparseable date fails the whole call with a *DateError.
func (c *Client) GetEOD(ctx context.Context, symbol string, opts ...QueryOption) ([]models.PriceBar, error) {
	var q eodQuery
	for _, opt := range opts {
		opt(&q)
	}

	query := url.Values{}
	query.Set("period", "d")
	query.Set("order", "a")
	if !q.from.IsZero() {
		query.Set("from", q.from.Format(dateLayout))
	}
	if !q.to.IsZero() {
		query.Set("to", q.to.Format(dateLayout))
	}

	var rows []eodRow
	if err := c.getJSON(ctx, "/eod/"+symbol, query, &rows); err != nil {
		return nil, err
	}

	bars := make([]models.PriceBar, len(rows))
	for i, row := range rows {
		date, err := time.Parse(dateLayout, row.Date)
		if err != nil {
			return nil, &DateError{Symbol: symbol, Row: i, Value: row.Date, Err: err}
		}
		bars[i] = models.PriceBar{
			Date:          date,
			Open:          row.Open,
			High:          row.High,
			Low:           row.Low,
			Close:         row.Close,
			AdjustedClose: row.AdjustedClose,
			Volume:        row.Volume,
		}
	}

	c.logger.Debug().Str("symbol", symbol).Int("bars", len(bars)).Msg("EOD prices received")
	return bars, nil
}

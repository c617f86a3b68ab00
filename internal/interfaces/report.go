package interfaces

import (
	"context"
	"io"

	"github.com/ternarybob/tearsheet/internal/models"
)

// MetricsCalculator turns a returns series into categorized metrics
type MetricsCalculator interface {
	Compute(ctx context.Context, series models.ReturnSeries) (models.MetricsData, error)
	Sharpe(series models.ReturnSeries) float64
}

// ReportService renders metrics into a PDF document
type ReportService interface {
	// Build writes the report to w
	Build(data models.MetricsData, w io.Writer) error
	// Bytes returns the report in memory
	Bytes(data models.MetricsData) ([]byte, error)
	// WriteFile writes the report to path
	WriteFile(data models.MetricsData, path string) error
}

// PDFInspector validates a generated PDF and reports its page count
type PDFInspector interface {
	PageCount(pdf []byte) (int, error)
}

// ReportGenerator runs the full fetch, compute and render pipeline for one ticker
type ReportGenerator interface {
	Generate(ctx context.Context, ticker, output string) error
}

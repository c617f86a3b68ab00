package pdf

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/tearsheet/internal/interfaces"
	"github.com/ternarybob/tearsheet/internal/models"
)

// Layout in points (US Letter, 1in margins)
const (
	margin        = 72.0
	titleSize     = 24.0
	titleGap      = 30.0
	headingSize   = 16.0
	headingHeight = 20.0
	headingGap    = 12.0
	tableFontSize = 10.0
	rowHeight     = 22.0 // 10pt text plus 12pt bottom padding
	keyColWidth   = 180.0
	valueColWidth = 144.0
	sectionGap    = 20.0
	fontFamily    = "Helvetica"
)

const DefaultTitle = "Investment Performance Metrics"

// Service implements interfaces.ReportService
type Service struct {
	title   string
	creator string
	logger  arbor.ILogger
}

// Compile-time assertion
var _ interfaces.ReportService = (*Service)(nil)

// Option configures a Service
type Option func(*Service)

// WithTitle sets the document title and metadata subject.
func WithTitle(title string) Option {
	return func(s *Service) {
		if title != "" {
			s.title = title
		}
	}
}

// WithCreator sets the creator recorded in document metadata.
func WithCreator(creator string) Option {
	return func(s *Service) {
		s.creator = creator
	}
}

// NewService creates a new PDF report service
func NewService(logger arbor.ILogger, opts ...Option) *Service {
	s := &Service{
		title:   DefaultTitle,
		creator: "tearsheet",
		logger:  logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Build renders the report and writes it to w.
func (s *Service) Build(data models.MetricsData, w io.Writer) error {
	if err := data.Require(); err != nil {
		return err
	}

	doc := fpdf.New("P", "pt", "Letter", "")
	doc.SetMargins(margin, margin, margin)
	doc.SetAutoPageBreak(true, margin)
	doc.SetTitle(s.title, true)
	doc.SetSubject(s.title, true)
	doc.SetCreator(s.creator, true)
	doc.AddPage()

	tr := doc.UnicodeTranslatorFromDescriptor("")

	s.heading(doc, tr)

	for _, category := range models.Categories() {
		s.section(doc, tr, category.Title(), TableRows(data[category]))
	}

	if err := doc.Error(); err != nil {
		s.logger.Error().Err(err).Msg("Failed to generate PDF")
		return fmt.Errorf("failed to generate PDF: %w", err)
	}

	if err := doc.Output(w); err != nil {
		s.logger.Error().Err(err).Msg("Failed to generate PDF output")
		return fmt.Errorf("failed to generate PDF output: %w", err)
	}
	return nil
}

// heading draws the document title flush with the left margin.
func (s *Service) heading(doc *fpdf.Fpdf, tr func(string) string) {
	doc.SetTextColor(0, 0, 0)
	doc.SetFont(fontFamily, "B", titleSize)
	doc.CellFormat(0, titleSize, tr(s.title), "", 1, "L", false, 0, "")
	doc.Ln(titleGap)
}

// section draws a heading and its two-column table.
func (s *Service) section(doc *fpdf.Fpdf, tr func(string) string, heading string, rows [][2]string) {
	doc.SetFont(fontFamily, "B", headingSize)
	doc.CellFormat(0, headingHeight, tr(heading), "", 1, "L", false, 0, "")
	doc.Ln(headingGap)

	doc.SetFont(fontFamily, "", tableFontSize)
	doc.SetDrawColor(128, 128, 128)
	doc.SetLineWidth(1)
	doc.SetFillColor(255, 255, 255)
	doc.SetTextColor(0, 0, 0)

	for _, row := range rows {
		doc.CellFormat(keyColWidth, rowHeight, tr(row[0]), "1", 0, "L", true, 0, "")
		doc.CellFormat(valueColWidth, rowHeight, tr(row[1]), "1", 1, "L", true, 0, "")
	}

	doc.Ln(sectionGap)
}

// Bytes renders the report in memory.
func (s *Service) Bytes(data models.MetricsData) ([]byte, error) {
	var buf bytes.Buffer
	if err := s.Build(data, &buf); err != nil {
		return nil, err
	}

	s.logger.Debug().Int("pdf_size", buf.Len()).Msg("PDF generated successfully")
	return buf.Bytes(), nil
}

// WriteFile renders the report and writes it to path. Nothing is written
// when rendering fails.
func (s *Service) WriteFile(data models.MetricsData, path string) error {
	content, err := s.Bytes(data)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("failed to write PDF %s: %w", path, err)
	}

	s.logger.Info().Str("path", path).Int("bytes", len(content)).Msg("PDF report written")
	return nil
}

// Package summary prints the console summary of a metrics run.
package summary

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/tearsheet/internal/models"
	"github.com/ternarybob/tearsheet/internal/services/pdf"
)

// Printer writes key metrics and the optional metrics table to the console
type Printer struct {
	style  string
	width  int
	logger arbor.ILogger
}

// Option configures a Printer
type Option func(*Printer)

// WithStyle selects a glamour standard style ("dark", "light", "notty", "ascii").
func WithStyle(style string) Option {
	return func(p *Printer) {
		if style != "" {
			p.style = style
		}
	}
}

// WithWidth sets the word wrap width of rendered tables.
func WithWidth(width int) Option {
	return func(p *Printer) {
		if width > 0 {
			p.width = width
		}
	}
}

func NewPrinter(logger arbor.ILogger, opts ...Option) *Printer {
	p := &Printer{
		style:  "notty",
		width:  100,
		logger: logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Print writes the Sharpe value, then the Sharpe Ratio and Max Drawdown lines.
func (p *Printer) Print(w io.Writer, symbol string, data models.MetricsData, sharpe float64) error {
	ratio, ok := data[models.CategoryRatios].Float("sharpe")
	if !ok {
		return fmt.Errorf("sharpe not found for %s", symbol)
	}
	maxDD, ok := data[models.CategoryDrawdown].Get("max_drawdown")
	if !ok {
		return fmt.Errorf("max_drawdown not found for %s", symbol)
	}

	if _, err := fmt.Fprintf(w, "%.4f\nSharpe Ratio: %.4f\nMax Drawdown: %s\n",
		sharpe, ratio, pdf.FormatValue(maxDD)); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}

	p.logger.Info().
		Str("symbol", symbol).
		Float64("sharpe", sharpe).
		Str("max_drawdown", pdf.FormatValue(maxDD)).
		Msg("Summary printed")
	return nil
}

// Markdown renders every category as a heading plus a Metric/Value table.
func Markdown(data models.MetricsData) string {
	var b strings.Builder
	for _, c := range models.Categories() {
		set, ok := data[c]
		if !ok {
			continue
		}
		b.WriteString(fmt.Sprintf("## %s\n\n", c.Title()))
		b.WriteString("| Metric | Value |\n|---|---|\n")
		for _, row := range pdf.TableRows(set) {
			b.WriteString(fmt.Sprintf("| %s | %s |\n", row[0], row[1]))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Table renders the metrics markdown for the terminal.
func (p *Printer) Table(data models.MetricsData) (string, error) {
	if err := data.Require(); err != nil {
		return "", err
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(p.style),
		glamour.WithWordWrap(p.width),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create table renderer: %w", err)
	}

	out, err := r.Render(Markdown(data))
	if err != nil {
		return "", fmt.Errorf("failed to render metrics table: %w", err)
	}
	return out, nil
}

package summary

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/tearsheet/internal/models"
)

func testData() models.MetricsData {
	data := models.MetricsData{}
	for _, c := range models.Categories() {
		data[c] = models.MetricSet{}
	}

	var ratios models.MetricSet
	ratios.Set("sharpe", 1.23456)
	ratios.Set("sortino", 2.5)
	data[models.CategoryRatios] = ratios

	var drawdown models.MetricSet
	drawdown.Set("max_drawdown", -0.2)
	drawdown.Set("longest_drawdown_days", 14)
	data[models.CategoryDrawdown] = drawdown
	return data
}

func TestPrint(t *testing.T) {
	printer := NewPrinter(arbor.NewLogger())

	var buf bytes.Buffer
	require.NoError(t, printer.Print(&buf, "META.US", testData(), 1.23456))

	assert.Equal(t, "1.2346\nSharpe Ratio: 1.2346\nMax Drawdown: -20.00%\n", buf.String())
}

func TestPrint_MissingMetric(t *testing.T) {
	printer := NewPrinter(arbor.NewLogger())

	noSharpe := testData()
	var ratios models.MetricSet
	ratios.Set("sortino", 2.5)
	noSharpe[models.CategoryRatios] = ratios

	noDrawdown := testData()
	noDrawdown[models.CategoryDrawdown] = models.MetricSet{}

	tests := []struct {
		name    string
		data    models.MetricsData
		wantErr string
	}{
		{"empty data", models.MetricsData{}, "sharpe"},
		{"missing sharpe", noSharpe, "sharpe"},
		{"missing drawdown", noDrawdown, "max_drawdown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := printer.Print(&buf, "META.US", tt.data, 1.2)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Zero(t, buf.Len())
		})
	}
}

func TestMarkdown(t *testing.T) {
	md := Markdown(testData())

	assert.Contains(t, md, "## Performance Ratios\n")
	assert.Contains(t, md, "| Max Drawdown | -20.00% |")
	assert.Contains(t, md, "| Longest Drawdown Days | 14 |")
	assert.Less(t, strings.Index(md, "## General Information"), strings.Index(md, "## Trading Statistics"))
}

func TestTable(t *testing.T) {
	printer := NewPrinter(arbor.NewLogger(), WithWidth(120))

	out, err := printer.Table(testData())
	require.NoError(t, err)
	assert.Contains(t, out, "Drawdown Analysis")
	assert.Contains(t, out, "Max Drawdown")
	assert.Contains(t, out, "-20.00%")

	_, err = printer.Table(models.MetricsData{})
	assert.ErrorIs(t, err, models.ErrMissingCategory)
}

func TestTable_Styles(t *testing.T) {
	for _, style := range []string{"notty", "ascii", "dark", "light"} {
		t.Run(style, func(t *testing.T) {
			out, err := NewPrinter(arbor.NewLogger(), WithStyle(style)).Table(testData())
			require.NoError(t, err)
			assert.Contains(t, out, "Drawdown")
		})
	}

	// an empty style keeps the default
	p := NewPrinter(arbor.NewLogger(), WithStyle(""))
	assert.Equal(t, "notty", p.style)
}

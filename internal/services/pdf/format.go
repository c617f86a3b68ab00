package pdf

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/ternarybob/tearsheet/internal/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FormatValue renders a metric value for a report cell.
// Floats below 10 in magnitude are shown as percentages, larger ones with
// four decimals. Everything else uses its plain string form.
func FormatValue(v interface{}) string {
	switch n := v.(type) {
	case nil:
		return "None"
	case bool:
		if n {
			return "True"
		}
		return "False"
	case float32:
		return formatFloat(float64(n))
	case float64:
		return formatFloat(n)
	}
	return fmt.Sprint(v)
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.Abs(f) < 10:
		return fmt.Sprintf("%.2f%%", f*100)
	}
	return fmt.Sprintf("%.4f", f)
}

// HumanizeKey turns a metric key into a row label: "max_drawdown" -> "Max Drawdown".
// Every run of letters is title cased, so "3m" becomes "3M".
func HumanizeKey(key string) string {
	key = strings.ReplaceAll(key, "_", " ")

	// a Caser keeps state between calls, so each call gets its own
	caser := cases.Title(language.Und)
	var b strings.Builder
	word := strings.Builder{}
	flush := func() {
		if word.Len() > 0 {
			b.WriteString(caser.String(word.String()))
			word.Reset()
		}
	}
	for _, r := range key {
		if unicode.IsLetter(r) {
			word.WriteRune(r)
			continue
		}
		flush()
		b.WriteRune(r)
	}
	flush()
	return b.String()
}

// TableRows returns one [label, value] row per metric, in set order.
func TableRows(set models.MetricSet) [][2]string {
	rows := make([][2]string, 0, len(set))
	for _, m := range set {
		rows = append(rows, [2]string{HumanizeKey(m.Key), FormatValue(m.Value)})
	}
	return rows
}

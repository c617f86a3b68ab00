package models

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Category names one section of a metrics report.
type Category string

const (
	CategoryGeneral  Category = "general"
	CategoryReturns  Category = "returns"
	CategoryRisk     Category = "risk"
	CategoryRatios   Category = "ratios"
	CategoryDrawdown Category = "drawdown"
	CategoryTiming   Category = "timing"
)

// ErrMissingCategory is wrapped by MissingCategoryError.
var ErrMissingCategory = errors.New("missing metrics category")

// MissingCategoryError reports a category absent from MetricsData.
type MissingCategoryError struct {
	Category Category
}

func (e *MissingCategoryError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingCategory.Error(), e.Category)
}

func (e *MissingCategoryError) Unwrap() error {
	return ErrMissingCategory
}

var categoryTitles = map[Category]string{
	CategoryGeneral:  "General Information",
	CategoryReturns:  "Returns",
	CategoryRisk:     "Risk Metrics",
	CategoryRatios:   "Performance Ratios",
	CategoryDrawdown: "Drawdown Analysis",
	CategoryTiming:   "Trading Statistics",
}

// Categories returns every category in report order.
func Categories() []Category {
	return []Category{
		CategoryGeneral,
		CategoryReturns,
		CategoryRisk,
		CategoryRatios,
		CategoryDrawdown,
		CategoryTiming,
	}
}

// Title returns the section heading used in reports.
func (c Category) Title() string {
	if title, ok := categoryTitles[c]; ok {
		return title
	}
	return string(c)
}

// Metric is a single named value. Value is numeric or a string.
type Metric struct {
	Key   string
	Value interface{}
}

// MetricSet is an ordered list of metrics; order is table row order.
type MetricSet []Metric

// Set replaces the value of an existing key in place or appends a new one.
func (s *MetricSet) Set(key string, value interface{}) {
	for i := range *s {
		if (*s)[i].Key == key {
			(*s)[i].Value = value
			return
		}
	}
	*s = append(*s, Metric{Key: key, Value: value})
}

// Get returns the value stored under key.
func (s MetricSet) Get(key string) (interface{}, bool) {
	for _, m := range s {
		if m.Key == key {
			return m.Value, true
		}
	}
	return nil, false
}

// Float returns the value under key when it is numeric.
func (s MetricSet) Float(key string) (float64, bool) {
	v, ok := s.Get(key)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func (s MetricSet) Len() int {
	return len(s)
}

func (s MetricSet) Keys() []string {
	keys := make([]string, len(s))
	for i, m := range s {
		keys[i] = m.Key
	}
	return keys
}

// MetricsData is the categorized metrics mapping consumed by the report builder.
type MetricsData map[Category]MetricSet

// Require checks that every category of Categories is present.
func (d MetricsData) Require() error {
	for _, c := range Categories() {
		if _, ok := d[c]; !ok {
			return &MissingCategoryError{Category: c}
		}
	}
	return nil
}

// MarshalYAML keeps report order for categories and rows.
func (d MetricsData) MarshalYAML() (interface{}, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, c := range Categories() {
		set, ok := d[c]
		if !ok {
			continue
		}
		section := &yaml.Node{Kind: yaml.MappingNode}
		for _, m := range set {
			value := &yaml.Node{}
			if err := value.Encode(m.Value); err != nil {
				return nil, fmt.Errorf("failed to encode metric %s.%s: %w", c, m.Key, err)
			}
			section.Content = append(section.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Value: m.Key},
				value,
			)
		}
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: string(c)},
			section,
		)
	}
	return root, nil
}

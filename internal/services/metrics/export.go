package metrics

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ternarybob/tearsheet/internal/models"
	"gopkg.in/yaml.v3"
)

// ExportYAML writes data to path as YAML, categories in report order.
func ExportYAML(data models.MetricsData, path string) error {
	if err := data.Require(); err != nil {
		return err
	}

	out, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal metrics: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

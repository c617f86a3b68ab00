package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/tearsheet/internal/common"
)

var (
	// Multiple --config flags supported; later files override earlier ones
	configFiles []string

	// Global state, set by setup
	config *common.Config
	logger arbor.ILogger
)

var rootCmd = &cobra.Command{
	Use:           "tearsheet",
	Short:         "Investment performance metrics reports",
	Long:          `Downloads daily prices for a security, computes performance and risk metrics and renders them into a PDF report.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringArrayVarP(&configFiles, "config", "c", nil,
		"Configuration file path (can be specified multiple times, later files override earlier ones)")

	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup runs the startup sequence (REQUIRED ORDER):
// 1. Load config (.env -> defaults -> file1 -> file2 -> ... -> env)
// 2. Apply CLI overrides (highest priority)
// 3. Validate
// 4. Initialize logger
// 5. Print banner
func setup(overrides func(*common.Config)) error {
	if len(configFiles) == 0 {
		if _, err := os.Stat("tearsheet.toml"); err == nil {
			configFiles = append(configFiles, "tearsheet.toml")
		}
	}

	var err error
	config, err = common.LoadFromFiles(configFiles...)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if overrides != nil {
		overrides(config)
	}

	if err := config.Validate(); err != nil {
		return err
	}

	logger = common.InitLogger(config)
	common.PrintBanner(common.GetVersion())

	logger.Debug().
		Strs("config_files", configFiles).
		Str("default_exchange", config.Market.DefaultExchange).
		Bool("cache_enabled", config.Storage.Badger.Enabled).
		Str("log_level", config.Logging.Level).
		Strs("log_output", config.Logging.Output).
		Msg("Resolved configuration (sanitized)")

	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		// setup may fail before InitLogger runs
		if logger == nil {
			logger = common.GetLogger()
		}
		logger.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}

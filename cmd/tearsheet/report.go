package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/ternarybob/tearsheet/internal/app"
	"github.com/ternarybob/tearsheet/internal/common"
)

var reportCmd = &cobra.Command{
	Use:   "report <TICKER>",
	Short: "Generate the metrics PDF for one ticker",
	Long: `Fetches daily prices for TICKER (e.g. META, NASDAQ:META, BHP.AU), computes the
performance metrics and writes them to a PDF report. Prints the Sharpe ratio and
maximum drawdown when done.`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

var (
	reportOutput  string
	reportNoTable bool
	reportYAML    string
)

func init() {
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "PDF output path (overrides report.output)")
	reportCmd.Flags().BoolVar(&reportNoTable, "no-table", false, "Skip the full metrics table")
	reportCmd.Flags().StringVar(&reportYAML, "yaml", "", "Also write the metrics as YAML to this path")
}

func runReport(cmd *cobra.Command, args []string) error {
	err := setup(func(c *common.Config) {
		common.ApplyFlagOverrides(c, reportOutput, reportNoTable, reportYAML)
	})
	if err != nil {
		return err
	}

	application, err := app.New(config, logger)
	if err != nil {
		return err
	}
	defer application.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := application.GenerateReport(ctx, args[0], app.ReportOptions{Output: config.Report.Output})
	if err != nil {
		return err
	}

	logger.Info().
		Str("symbol", result.Symbol).
		Str("path", result.Path).
		Int("pages", result.Pages).
		Msg("Report complete")
	return nil
}

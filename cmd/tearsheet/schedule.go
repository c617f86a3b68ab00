package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/ternarybob/tearsheet/internal/app"
	"github.com/ternarybob/tearsheet/internal/services/scheduler"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Generate reports for schedule.tickers on schedule.cron",
	Long:  `Runs until interrupted, writing <output_dir>/<SYMBOL>_metrics.pdf for every configured ticker on each cron tick.`,
	Args:  cobra.NoArgs,
	RunE:  runSchedule,
}

var scheduleRunNow bool

func init() {
	scheduleCmd.Flags().BoolVar(&scheduleRunNow, "now", false, "Run once immediately before waiting for the schedule")
}

func runSchedule(cmd *cobra.Command, args []string) error {
	if err := setup(nil); err != nil {
		return err
	}

	application, err := app.New(config, logger)
	if err != nil {
		return err
	}
	defer application.Close()

	service := scheduler.NewService(application, config.Schedule.Tickers, config.Schedule.OutputDir, logger)

	if scheduleRunNow {
		service.RunNow(cmd.Context())
	}

	if err := service.Start(config.Schedule.Cron); err != nil {
		return err
	}

	logger.Info().Msg("Scheduler ready - Press Ctrl+C to stop")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info().Msg("Interrupt signal received")
	service.Stop()
	return nil
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/catalinplesu/timesheet/internal/platform/logger"
	"github.com/catalinplesu/timesheet/internal/workers"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the background workers until interrupted",
	Long: `serve runs the auto-shutdown, lunch-reminder and mnemonic-sweep
workers on their configured cadences (spec §4.4), blocking until SIGINT or
SIGTERM.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logger.Named("serve")

	coordinator := workers.NewCoordinator(
		workers.Task{
			Name:     "autoshutdown",
			Interval: current.cfg.AutoShutdownInterval,
			Run:      workers.NewAutoShutdown(current.db, nil).Tick,
		},
		workers.Task{
			Name:     "lunchreminder",
			Interval: current.cfg.LunchReminderInterval,
			Run:      workers.NewLunchReminder(current.db, nil).Tick,
		},
		workers.Task{
			Name:     "sweeper",
			Interval: current.cfg.ExpirySweepInterval,
			Run:      workers.NewExpirySweeper(current.db).Tick,
		},
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	headerColor.Println("timesheetd serve")
	infoColor.Printf("database: %s\n", current.cfg.DatabasePath)

	log.Info().Msg("workers starting")
	coordinator.Run(ctx)
	log.Info().Msg("workers stopped")
	return nil
}

// Command timesheetd is the composition root for TimeSheet's core: it wires
// configuration, storage, the tracking/analytics/credential services and
// the background workers, and exposes them through a small operator CLI.
// The bot/web front end and HTTP transport named in spec §1's non-goals are
// not part of this binary; "serve" here means "run the background workers
// against the local store."
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/catalinplesu/timesheet/internal/analytics"
	"github.com/catalinplesu/timesheet/internal/config"
	"github.com/catalinplesu/timesheet/internal/credential"
	"github.com/catalinplesu/timesheet/internal/platform/logger"
	"github.com/catalinplesu/timesheet/internal/store/sqlite"
	"github.com/catalinplesu/timesheet/internal/tracking"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan)
	headerColor  = color.New(color.FgMagenta, color.Bold)
)

var noColor bool

// app bundles the services every subcommand needs, built once by
// rootCmd.PersistentPreRunE from the loaded Config.
type app struct {
	cfg        *config.Config
	db         *sqlite.DB
	tracking   *tracking.Service
	analytics  *analytics.Engine
	credential *credential.Service
}

var current *app

var rootCmd = &cobra.Command{
	Use:   "timesheetd",
	Short: "TimeSheet work-hour tracking daemon and operator CLI",
	Long: `timesheetd runs TimeSheet's background workers and exposes an
operator CLI over the same SQLite store the bot/web front end reads and
writes.

WORKERS
  timesheetd serve             run the auto-shutdown, lunch-reminder and
                                mnemonic-sweep workers until interrupted

CREDENTIALS
  timesheetd issue-mnemonic    generate and store a pending registration phrase

MAINTENANCE
  timesheetd migrate           apply the embedded schema and exit
  timesheetd sweep             run one expired-mnemonic sweep and exit

REPORTING
  timesheetd report daily      per-day work/commute/lunch breakdown
  timesheetd report stats      aggregate statistics over a window
  timesheetd report compliance evaluate enabled compliance rules
  timesheetd report sessions   list raw sessions, flagged for holidays`,
	PersistentPreRunE: setup,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if current != nil && current.db != nil {
			return current.db.Close()
		}
		return nil
	},
}

func setup(cmd *cobra.Command, args []string) error {
	if noColor || os.Getenv("NO_COLOR") != "" {
		color.NoColor = true
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	logger.Init(logger.FromEnv())

	db, err := sqlite.Open(sqlite.DefaultConnectionConfig(cfg.DatabasePath))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	current = &app{
		cfg:        cfg,
		db:         db,
		tracking:   tracking.NewService(db, cfg.MaxTimeOffsetBound),
		analytics:  analytics.NewEngine(db),
		credential: credential.NewService(db),
	}
	return nil
}

func main() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(issueMnemonicCmd)
	rootCmd.AddCommand(reportCmd)

	if err := rootCmd.Execute(); err != nil {
		errorColor.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

package main

import (
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the embedded schema and exit",
	Long: `migrate opens the configured database, which applies the embedded
schema idempotently (internal/store/sqlite.Open), and exits. Useful for
provisioning a database file before first running serve.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		successColor.Printf("schema applied: %s\n", current.cfg.DatabasePath)
		return nil
	},
}

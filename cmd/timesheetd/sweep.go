package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/catalinplesu/timesheet/internal/workers"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run one expired-mnemonic sweep and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		sweeper := workers.NewExpirySweeper(current.db)
		if err := sweeper.Tick(cmd.Context()); err != nil {
			return fmt.Errorf("sweep: %w", err)
		}
		successColor.Println("sweep complete")
		return nil
	},
}

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/catalinplesu/timesheet/internal/credential"
)

var issueMnemonicTTL time.Duration

var issueMnemonicCmd = &cobra.Command{
	Use:   "issue-mnemonic",
	Short: "Generate and store a pending registration phrase",
	Long: `issue-mnemonic generates a fresh 24-word BIP39 phrase, stores it as
a pending credential with the given TTL (spec §4.5), and prints it so an
operator can hand it to the user who will register with it.`,
	RunE: runIssueMnemonic,
}

func init() {
	issueMnemonicCmd.Flags().DurationVar(&issueMnemonicTTL, "ttl", credential.DefaultTTL, "how long the phrase stays valid")
}

func runIssueMnemonic(cmd *cobra.Command, args []string) error {
	phrase, err := credential.Generate()
	if err != nil {
		return fmt.Errorf("generate mnemonic: %w", err)
	}

	m, err := current.credential.StorePending(cmd.Context(), phrase, issueMnemonicTTL)
	if err != nil {
		return fmt.Errorf("store pending mnemonic: %w", err)
	}

	headerColor.Println("pending registration phrase")
	fmt.Println(phrase)
	infoColor.Printf("expires: %s\n", m.ExpiresAt.Format(time.RFC3339))
	return nil
}

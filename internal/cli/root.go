// Package cli implements the Coinkeep command-line interface using Cobra.
// Commands that inspect or mutate lock state talk to the running engine over
// its localhost control API; the state lives in the serve process.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "coinkeep",
	Short: "Coinkeep personal finance engine",
	Long: `Coinkeep is the local engine behind a personal-finance tracker.
It owns the app-lock state machine and the transaction ledger; shells talk
to it over a localhost control API.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

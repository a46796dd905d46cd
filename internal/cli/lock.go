package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(lockCmd)
	rootCmd.AddCommand(unlockCmd)
	rootCmd.AddCommand(activityCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current lock state",
	RunE: func(cmd *cobra.Command, args []string) error {
		var st lockStatus
		if err := apiDo("GET", "/api/lock/status", nil, &st); err != nil {
			return err
		}
		printLockStatus(st)
		return nil
	},
}

var lockCmd = &cobra.Command{
	Use:   "lock",
	Short: "Lock the app now",
	RunE: func(cmd *cobra.Command, args []string) error {
		var st lockStatus
		if err := apiDo("POST", "/api/lock", nil, &st); err != nil {
			return err
		}
		printLockStatus(st)
		return nil
	},
}

var unlockCmd = &cobra.Command{
	Use:   "unlock",
	Short: "Unlock the app (stands in for the credential verifier)",
	RunE: func(cmd *cobra.Command, args []string) error {
		var st lockStatus
		if err := apiDo("POST", "/api/unlock", nil, &st); err != nil {
			return err
		}
		printLockStatus(st)
		return nil
	},
}

var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Record a user-activity event (resets the auto-lock countdown)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := apiDo("POST", "/api/activity", nil, nil); err != nil {
			return err
		}
		fmt.Println("Activity recorded.")
		return nil
	},
}

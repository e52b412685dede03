// Package cli holds the cobra commands of the tg-otp binary.
package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tg-otp",
	Short: "Telegram OTP login service",
	Long: `Issues one-time passcodes over Telegram, verifies them from the browser and
records successful logins in the Login Directory.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCmd.RunE(cmd, args)
	},
}

// Execute runs the root command and exits with status 1 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

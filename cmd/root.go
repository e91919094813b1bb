package cmd

import (
	"fmt"
	"os"

	"updatebin/config"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var showInfo bool

var rootCmd = &cobra.Command{
	Use:           config.AppName + " <binary>",
	Short:         "Update a binary to its latest version by using the original package manager",
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if showInfo {
			return displayInfo(args[0])
		}
		return updateBinary(args[0])
	},
}

func init() {
	log.SetReportTimestamp(false)
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.Flags().BoolVar(&showInfo, "info", false, "Display package name and package manager instead of updating")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

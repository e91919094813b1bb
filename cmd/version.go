package cmd

import (
	"fmt"

	"updatebin/config"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print current version of " + config.AppName,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(config.AppName, "version", config.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "stylebot",
	Short: "Stylebot lints Python repositories and pushes the fixes back",
	Long: `Stylebot runs code style tools (black, flake8) against a repository,
commits the automatic fixes under a bot identity and pushes them back.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("workflow", "w", "stylebot.yml", "Path to the workflow file")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
}

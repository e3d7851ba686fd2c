package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/stylebot"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of stylebot",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("stylebot version %s\n", strings.TrimSpace(stylebot.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

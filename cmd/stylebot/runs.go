package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/aretw0/stylebot/internal/adapters/file"
	"github.com/aretw0/stylebot/internal/cli"
	"github.com/spf13/cobra"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect the local run history",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded runs",
	Run: func(cmd *cobra.Command, args []string) {
		storeDir, _ := cmd.Flags().GetString("store")
		store := file.NewStore(storeDir)
		ctx := context.Background()

		ids, err := store.List(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error listing runs: %v\n", err)
			os.Exit(1)
		}
		if len(ids) == 0 {
			fmt.Println("No runs recorded.")
			return
		}
		sort.Strings(ids)

		for _, id := range ids {
			run, err := store.Load(ctx, id)
			if err != nil {
				fmt.Printf("%s\t(unreadable: %v)\n", id, err)
				continue
			}
			fmt.Printf("%s\t%s\t%s\t%d commit(s)\n", run.ID, run.Status, run.Repo, len(run.Commits))
		}
	},
}

var runsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show the full report for one run",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		storeDir, _ := cmd.Flags().GetString("store")
		store := file.NewStore(storeDir)

		run, err := store.Load(context.Background(), args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading run: %v\n", err)
			os.Exit(1)
		}
		if err := cli.RenderReport(os.Stdout, run); err != nil {
			fmt.Fprintf(os.Stderr, "Error rendering report: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)

	runsCmd.PersistentFlags().String("store", "", "Directory for run history (default .stylebot/runs)")
}

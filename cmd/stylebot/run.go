package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/stylebot"
	"github.com/aretw0/stylebot/internal/adapters/file"
	"github.com/aretw0/stylebot/internal/cli"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <repo> [ref]",
	Short: "Dispatch a lint-and-autofix run against a repository",
	Long: `Checks out the repository, provisions the pinned Python version,
installs the configured tools, runs them with auto-fix and pushes any
fixes back as commits. Violations the tools cannot repair fail the run.`,
	Args: cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		repo := args[0]
		ref := ""
		if len(args) > 1 {
			ref = args[1]
		}

		workflowPath, _ := cmd.Flags().GetString("workflow")
		debug, _ := cmd.Flags().GetBool("debug")
		check, _ := cmd.Flags().GetBool("check")
		quiet, _ := cmd.Flags().GetBool("quiet")
		storeDir, _ := cmd.Flags().GetString("store")

		logger := cli.CreateLogger(debug)

		opts := []stylebot.Option{
			stylebot.WithLogger(logger),
			stylebot.WithStore(file.NewStore(storeDir)),
		}

		engine, err := stylebot.New(workflowPath, opts...)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading workflow: %v\n", err)
			os.Exit(1)
		}
		if check {
			engine.Workflow().AutoFix = false
		}

		if !quiet {
			cli.PrintBanner()
		}

		ctx := cli.NewSignalContext(context.Background())
		defer ctx.Cancel()

		run, err := engine.Dispatch(ctx, repo, ref)
		if run != nil {
			if renderErr := cli.RenderReport(os.Stdout, run); renderErr != nil {
				logger.Warn("failed to render report", "err", renderErr)
			}
		}
		if err != nil {
			if sig := ctx.Signal(); sig != nil {
				fmt.Fprintf(os.Stderr, "Run interrupted by %v\n", sig)
			}
			fmt.Fprintf(os.Stderr, "Run failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Bool("check", false, "Report violations without writing fixes")
	runCmd.Flags().BoolP("quiet", "q", false, "Suppress the banner")
	runCmd.Flags().String("store", "", "Directory for run history (default .stylebot/runs)")
}

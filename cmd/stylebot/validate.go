package main

import (
	"fmt"
	"os"

	"github.com/aretw0/stylebot/internal/workflow"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the workflow file for consistency",
	Long:  `Parses the workflow file and reports every configuration problem it finds.`,
	Run: func(cmd *cobra.Command, args []string) {
		workflowPath, _ := cmd.Flags().GetString("workflow")
		if len(args) > 0 {
			workflowPath = args[0]
		}

		wf, err := workflow.Load(workflowPath)
		if err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
		if err := workflow.Validate(wf); err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Workflow is valid! Tools: %v\n", wf.EnabledTools())
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

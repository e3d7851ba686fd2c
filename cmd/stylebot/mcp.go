package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/aretw0/stylebot"
	"github.com/aretw0/stylebot/internal/adapters/file"
	mcpAdapter "github.com/aretw0/stylebot/internal/adapters/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts stylebot as an MCP server over stdio so agent tooling can
dispatch and inspect runs as tools.`,
	Run: func(cmd *cobra.Command, args []string) {
		workflowPath, _ := cmd.Flags().GetString("workflow")
		storeDir, _ := cmd.Flags().GetString("store")

		// Logs must go to Stderr so they don't corrupt JSON-RPC on Stdout.
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		slog.SetDefault(logger)
		log.SetOutput(os.Stderr)

		engine, err := stylebot.New(workflowPath,
			stylebot.WithLogger(logger),
			stylebot.WithStore(file.NewStore(storeDir)),
		)
		if err != nil {
			log.Fatalf("Error initializing stylebot: %v", err)
		}

		srv := mcpAdapter.NewServer(engine, engine.Store(), stylebot.Version)

		slog.Info("Starting Stylebot MCP Server (Stdio)...")
		if err := srv.ServeStdio(); err != nil {
			slog.Error("MCP Server execution failed", "error", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("store", "", "Directory for run history (default .stylebot/runs)")
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/stylebot"
	"github.com/aretw0/stylebot/internal/adapters/file"
	httpAdapter "github.com/aretw0/stylebot/internal/adapters/http"
	redisAdapter "github.com/aretw0/stylebot/internal/adapters/redis"
	"github.com/aretw0/stylebot/internal/cli"
	"github.com/aretw0/stylebot/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	backend "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dispatch HTTP server",
	Long: `Starts stylebot in server mode, exposing run dispatch and inspection
over a JSON API plus Prometheus metrics on /metrics.`,
	Run: func(cmd *cobra.Command, args []string) {
		workflowPath, _ := cmd.Flags().GetString("workflow")
		debug, _ := cmd.Flags().GetBool("debug")
		port, _ := cmd.Flags().GetString("port")
		redisAddr, _ := cmd.Flags().GetString("redis")
		storeDir, _ := cmd.Flags().GetString("store")

		logger := cli.CreateLogger(debug)

		reg := prometheus.NewRegistry()
		recorder := metrics.NewRecorder(reg)

		opts := []stylebot.Option{
			stylebot.WithLogger(logger),
			stylebot.WithLifecycleHooks(recorder.Hooks()),
		}

		// Redis backs both run state and cross-replica locking; without
		// it the server falls back to local files and in-process locks.
		if redisAddr != "" {
			client := backend.NewClient(&backend.Options{Addr: redisAddr})
			opts = append(opts,
				stylebot.WithStore(redisAdapter.NewFromClient(client)),
				stylebot.WithLocker(redisAdapter.NewLocker(client, "stylebot:lock:")),
			)
		} else {
			opts = append(opts, stylebot.WithStore(file.NewStore(storeDir)))
		}

		engine, err := stylebot.New(workflowPath, opts...)
		if err != nil {
			fmt.Printf("Error initializing stylebot: %v\n", err)
			os.Exit(1)
		}

		handler := httpAdapter.NewHandler(engine, engine.Store(), logger, reg)

		srv := &http.Server{
			Addr:    ":" + port,
			Handler: handler,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			fmt.Printf("Starting Stylebot Server on %s\n", srv.Addr)
			fmt.Printf("Workflow: %s\n", workflowPath)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			fmt.Printf("\nStart shutdown... Signal: %v\n", sig)

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			fmt.Println("Stylebot Server stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().String("redis", "", "Redis address for shared state (e.g. localhost:6379)")
	serveCmd.Flags().String("store", "", "Directory for run history when Redis is not used")
}

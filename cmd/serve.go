package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/songsim/configs"
	"github.com/RyanBlaney/songsim/internal/webui"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the interactive web front end",
	Long: `Serve a small web UI with two forms mirroring the CLI modes: build a
song database from a folder, and query it for similar songs.

Example:
  songsim serve --addr localhost:8080`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "",
		"listen address (default localhost:8080)")
}

func runServe(cmd *cobra.Command, args []string) error {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	addr := serveAddr
	if addr == "" {
		addr = appConfig.Serve.Addr
	}

	server, err := webui.NewServer(webui.Config{
		Addr:         addr,
		DatabasePath: appConfig.Database.Path,
		Features:     &appConfig.Features,
		Workers:      appConfig.Build.Workers,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return server.ListenAndServe(ctx)
}

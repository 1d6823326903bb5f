package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/songsim/configs"
	"github.com/RyanBlaney/songsim/internal/library"
	"github.com/RyanBlaney/songsim/pkg/audio/features"
	"github.com/RyanBlaney/songsim/pkg/output"
)

var (
	buildWorkers  int
	buildProgress bool
)

var buildCmd = &cobra.Command{
	Use:   "build [song-folder]",
	Short: "Build the song feature database from a folder of audio files",
	Long: `Scan a folder for supported audio files (.wav, .mp3), extract features
from each, and persist the name-to-features mapping as a single database file.

Files that fail to decode are skipped with a warning; the build continues.
Each build fully replaces the prior database file.

Examples:
  songsim build ~/Music
  songsim build ~/Music --database my_songs.gob --workers 4`,
	Args: cobra.ExactArgs(1),
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().IntVar(&buildWorkers, "workers", 1,
		"number of concurrent extraction workers")
	buildCmd.Flags().BoolVar(&buildProgress, "progress", true,
		"show a progress bar during the build")
}

func runBuild(cmd *cobra.Command, args []string) error {
	folder := args[0]

	appConfig, err := configs.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	workers := buildWorkers
	if !cmd.Flags().Changed("workers") {
		workers = appConfig.Build.Workers
	}
	progress := buildProgress
	if !cmd.Flags().Changed("progress") {
		progress = appConfig.Build.Progress
	}

	extractor, err := features.NewExtractor(&appConfig.Features)
	if err != nil {
		return err
	}

	builder := library.NewBuilder(extractor,
		library.WithWorkers(workers),
		library.WithProgress(progress),
	)

	report, err := builder.Build(context.Background(), folder, appConfig.Database.Path)
	if err != nil {
		return err
	}

	formatter := output.NewFormatter(appConfig.OutputFormat)
	rendered, err := formatter.Format(report)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(rendered)
	return err
}

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/songsim/configs"
	"github.com/RyanBlaney/songsim/internal/ranking"
	"github.com/RyanBlaney/songsim/pkg/audio/features"
	"github.com/RyanBlaney/songsim/pkg/output"
)

var queryTopN int

var queryCmd = &cobra.Command{
	Use:   "query [query-song]",
	Short: "Rank database songs by similarity to a query song",
	Long: `Extract features from the query song and compare them against every
entry of the persisted database using cosine similarity over the concatenated
feature vector. Results are printed in descending similarity order.

Examples:
  songsim query track.mp3
  songsim query track.wav --top-n 5 --output json`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)

	queryCmd.Flags().IntVarP(&queryTopN, "top-n", "n", 10,
		"number of similar songs to retrieve")
}

func runQuery(cmd *cobra.Command, args []string) error {
	queryPath := args[0]

	appConfig, err := configs.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	topN := queryTopN
	if !cmd.Flags().Changed("top-n") {
		topN = appConfig.Query.TopN
	}

	extractor, err := features.NewExtractor(&appConfig.Features)
	if err != nil {
		return err
	}

	ranker := ranking.NewRanker(extractor)
	matches, err := ranker.Query(context.Background(), queryPath, appConfig.Database.Path, topN)
	if err != nil {
		return err
	}

	formatter := output.NewFormatter(appConfig.OutputFormat)
	rendered, err := formatter.Format(matches)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(rendered)
	return err
}

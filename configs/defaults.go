package configs

import (
	"github.com/spf13/viper"

	"github.com/RyanBlaney/songsim/internal/library"
)

// setDefaults sets default configuration values for all components
func setDefaults(v *viper.Viper) {
	// Application defaults
	if !v.IsSet("verbose") {
		v.SetDefault("verbose", false)
	}
	if !v.IsSet("log_level") {
		v.SetDefault("log_level", "info")
	}
	if !v.IsSet("output_format") {
		v.SetDefault("output_format", "table")
	}

	// Database defaults
	if !v.IsSet("database.path") {
		v.SetDefault("database.path", library.DefaultDatabaseFile)
	}

	// Feature extraction defaults
	if !v.IsSet("features.window_size") {
		v.SetDefault("features.window_size", 2048)
	}
	if !v.IsSet("features.hop_size") {
		v.SetDefault("features.hop_size", 512)
	}
	if !v.IsSet("features.mfcc_coefficients") {
		v.SetDefault("features.mfcc_coefficients", 13)
	}
	if !v.IsSet("features.mel_filters") {
		v.SetDefault("features.mel_filters", 26)
	}
	if !v.IsSet("features.chroma_bins") {
		v.SetDefault("features.chroma_bins", 12)
	}
	if !v.IsSet("features.contrast_bands") {
		v.SetDefault("features.contrast_bands", 7)
	}
	if !v.IsSet("features.chroma_min_freq") {
		v.SetDefault("features.chroma_min_freq", 80.0)
	}
	if !v.IsSet("features.chroma_max_freq") {
		v.SetDefault("features.chroma_max_freq", 8000.0)
	}
	if !v.IsSet("features.min_tempo") {
		v.SetDefault("features.min_tempo", 30.0)
	}
	if !v.IsSet("features.max_tempo") {
		v.SetDefault("features.max_tempo", 240.0)
	}

	// Build defaults
	if !v.IsSet("build.workers") {
		v.SetDefault("build.workers", 1)
	}
	if !v.IsSet("build.progress") {
		v.SetDefault("build.progress", true)
	}

	// Query defaults
	if !v.IsSet("query.top_n") {
		v.SetDefault("query.top_n", 10)
	}

	// Serve defaults
	if !v.IsSet("serve.addr") {
		v.SetDefault("serve.addr", "localhost:8080")
	}
}

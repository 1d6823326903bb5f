package features

import "fmt"

// Config controls the dimensions of every extracted feature group. All
// FeatureSets produced with the same Config have identical vector lengths,
// which keeps concatenated vectors comparable across a database build.
type Config struct {
	// Spectral analysis
	WindowSize int `json:"window_size" mapstructure:"window_size"`
	HopSize    int `json:"hop_size" mapstructure:"hop_size"`

	// Feature dimensions
	MFCCCoefficients int `json:"mfcc_coefficients" mapstructure:"mfcc_coefficients"`
	MelFilters       int `json:"mel_filters" mapstructure:"mel_filters"`
	ChromaBins       int `json:"chroma_bins" mapstructure:"chroma_bins"`
	ContrastBands    int `json:"contrast_bands" mapstructure:"contrast_bands"`

	// Chroma frequency range in Hz
	ChromaMinFreq float64 `json:"chroma_min_freq" mapstructure:"chroma_min_freq"`
	ChromaMaxFreq float64 `json:"chroma_max_freq" mapstructure:"chroma_max_freq"`

	// Tempo search range in BPM
	MinTempo float64 `json:"min_tempo" mapstructure:"min_tempo"`
	MaxTempo float64 `json:"max_tempo" mapstructure:"max_tempo"`
}

// DefaultConfig returns the standard extraction parameters
func DefaultConfig() *Config {
	return &Config{
		WindowSize:       2048,
		HopSize:          512,
		MFCCCoefficients: 13,
		MelFilters:       26,
		ChromaBins:       12,
		ContrastBands:    7,
		ChromaMinFreq:    80.0,
		ChromaMaxFreq:    8000.0,
		MinTempo:         30.0,
		MaxTempo:         240.0,
	}
}

// Validate checks the configuration for internal consistency
func (c *Config) Validate() error {
	if c.WindowSize <= 0 || c.WindowSize&(c.WindowSize-1) != 0 {
		return fmt.Errorf("window size must be a positive power of two, got %d", c.WindowSize)
	}
	if c.HopSize <= 0 || c.HopSize > c.WindowSize {
		return fmt.Errorf("hop size must be in (0, window size], got %d", c.HopSize)
	}
	if c.MFCCCoefficients <= 0 {
		return fmt.Errorf("mfcc coefficient count must be positive, got %d", c.MFCCCoefficients)
	}
	if c.MelFilters < c.MFCCCoefficients {
		return fmt.Errorf("mel filter count %d must be >= mfcc coefficient count %d",
			c.MelFilters, c.MFCCCoefficients)
	}
	if c.ChromaBins <= 0 {
		return fmt.Errorf("chroma bin count must be positive, got %d", c.ChromaBins)
	}
	if c.ContrastBands <= 0 {
		return fmt.Errorf("contrast band count must be positive, got %d", c.ContrastBands)
	}
	if c.MinTempo <= 0 || c.MaxTempo <= c.MinTempo {
		return fmt.Errorf("invalid tempo range [%.1f, %.1f]", c.MinTempo, c.MaxTempo)
	}
	return nil
}

// VectorDim returns the length of the concatenated feature vector
func (c *Config) VectorDim() int {
	return c.MFCCCoefficients + c.ChromaBins + 1 + c.ContrastBands
}

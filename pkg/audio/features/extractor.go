package features

import (
	"fmt"
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/RyanBlaney/songsim/pkg/audio"
	"github.com/RyanBlaney/songsim/pkg/audio/analyzers"
	"github.com/RyanBlaney/songsim/pkg/logging"
)

// Extractor computes a FeatureSet from decoded audio. One Extractor
// configuration produces fixed-length feature vectors across every file.
type Extractor struct {
	config *Config
	logger logging.Logger
}

// NewExtractor creates a feature extractor. A nil config uses defaults.
func NewExtractor(config *Config) (*Extractor, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid feature config: %w", err)
	}

	return &Extractor{
		config: config,
		logger: logging.WithFields(logging.Fields{
			"component": "feature_extractor",
		}),
	}, nil
}

// Config returns the extractor's configuration
func (e *Extractor) Config() *Config {
	return e.config
}

// ExtractFile decodes an audio file and extracts its features. Any decode or
// computation error is returned to the caller; no partial FeatureSet is
// produced.
func (e *Extractor) ExtractFile(path string) (*FeatureSet, error) {
	data, err := audio.DecodeFile(path)
	if err != nil {
		return nil, err
	}
	return e.Extract(data)
}

// Extract computes MFCC, chroma, tempo and spectral contrast features from
// decoded audio, each reduced to a fixed-length time average.
func (e *Extractor) Extract(data *audio.AudioData) (*FeatureSet, error) {
	if data == nil || len(data.PCM) == 0 {
		return nil, fmt.Errorf("no audio data to extract features from")
	}

	analyzer := analyzers.NewSpectralAnalyzer(e.config.WindowSize, e.config.HopSize, data.SampleRate)
	spectrogram, err := analyzer.ComputeSpectrogram(data.PCM)
	if err != nil {
		return nil, fmt.Errorf("spectrogram computation failed: %w", err)
	}

	mfccFrames := e.extractMFCC(spectrogram)
	chromaFrames := e.extractChroma(spectrogram)
	contrastFrames := e.extractSpectralContrast(spectrogram)
	tempo := e.estimateTempo(spectrogram, analyzer.FrameRate())

	mfcc, err := meanColumns(mfccFrames, e.config.MFCCCoefficients)
	if err != nil {
		return nil, fmt.Errorf("mfcc aggregation failed: %w", err)
	}
	chroma, err := meanColumns(chromaFrames, e.config.ChromaBins)
	if err != nil {
		return nil, fmt.Errorf("chroma aggregation failed: %w", err)
	}
	contrast, err := meanColumns(contrastFrames, e.config.ContrastBands)
	if err != nil {
		return nil, fmt.Errorf("spectral contrast aggregation failed: %w", err)
	}

	e.logger.Debug("Features extracted", logging.Fields{
		"frames":      spectrogram.TimeFrames,
		"sample_rate": data.SampleRate,
		"tempo_bpm":   tempo,
	})

	return &FeatureSet{
		MFCC:             mfcc,
		Chroma:           chroma,
		Tempo:            tempo,
		SpectralContrast: contrast,
	}, nil
}

// extractMFCC computes per-frame mel-frequency cepstral coefficients
func (e *Extractor) extractMFCC(spectrogram *analyzers.SpectrogramResult) [][]float64 {
	melFilters := createMelFilterBank(
		e.config.MelFilters,
		0,
		float64(spectrogram.SampleRate)/2,
		spectrogram.FreqBins,
		spectrogram.WindowSize,
		spectrogram.SampleRate,
	)

	mfcc := make([][]float64, spectrogram.TimeFrames)
	for t := range spectrogram.TimeFrames {
		melSpectrum := applyMelFilters(spectrogram.Magnitude[t], melFilters)

		logMelSpectrum := make([]float64, len(melSpectrum))
		for i, v := range melSpectrum {
			if v < 1e-10 {
				v = 1e-10 // log floor
			}
			logMelSpectrum[i] = math.Log(v)
		}

		mfcc[t] = applyDCT(logMelSpectrum, e.config.MFCCCoefficients)
	}

	return mfcc
}

// extractChroma maps per-frame spectral energy onto the twelve pitch classes
func (e *Extractor) extractChroma(spectrogram *analyzers.SpectrogramResult) [][]float64 {
	chromaBins := e.config.ChromaBins
	freqResolution := float64(spectrogram.SampleRate) / float64(spectrogram.WindowSize)

	chroma := make([][]float64, spectrogram.TimeFrames)
	for t := range spectrogram.TimeFrames {
		chroma[t] = make([]float64, chromaBins)
		magnitude := spectrogram.Magnitude[t]

		for f := range magnitude {
			freq := float64(f) * freqResolution
			if freq < e.config.ChromaMinFreq || freq > e.config.ChromaMaxFreq {
				continue
			}

			// Frequency to MIDI note: 12*log2(f/440) + 69
			midiNote := 12*math.Log2(freq/440.0) + 69
			chromaClass := ((int(math.Round(midiNote)) % chromaBins) + chromaBins) % chromaBins
			chroma[t][chromaClass] += magnitude[f]
		}

		// Normalize each frame by its peak so loudness does not dominate
		maxVal := 0.0
		for _, v := range chroma[t] {
			maxVal = math.Max(maxVal, v)
		}
		if maxVal > 0 {
			for i := range chroma[t] {
				chroma[t][i] /= maxVal
			}
		}
	}

	return chroma
}

// extractSpectralContrast computes the per-frame log peak-to-valley ratio in
// equal-width frequency bands, using the 5th and 95th percentiles.
func (e *Extractor) extractSpectralContrast(spectrogram *analyzers.SpectrogramResult) [][]float64 {
	numBands := e.config.ContrastBands

	contrast := make([][]float64, spectrogram.TimeFrames)
	for t := range spectrogram.TimeFrames {
		magnitude := spectrogram.Magnitude[t]
		contrast[t] = make([]float64, numBands)
		bandSize := len(magnitude) / numBands

		for band := range numBands {
			start := band * bandSize
			end := start + bandSize
			if band == numBands-1 {
				end = len(magnitude)
			}
			if start >= end {
				continue
			}

			sorted := make([]float64, end-start)
			copy(sorted, magnitude[start:end])
			sort.Float64s(sorted)

			// 5th and 95th percentiles
			valley := sorted[len(sorted)/20]
			peak := sorted[len(sorted)-1-len(sorted)/20]
			contrast[t][band] = math.Log((peak + 1e-10) / (valley + 1e-10))
		}
	}

	return contrast
}

// meanColumns averages a time x dim frame matrix into a single dim vector
func meanColumns(frames [][]float64, dim int) ([]float64, error) {
	if len(frames) == 0 {
		return nil, fmt.Errorf("no frames to average")
	}

	out := make([]float64, dim)
	column := make([]float64, len(frames))
	for d := range dim {
		for t, frame := range frames {
			column[t] = frame[d]
		}
		mean, err := stats.Mean(stats.Float64Data(column))
		if err != nil {
			return nil, err
		}
		out[d] = mean
	}

	return out, nil
}

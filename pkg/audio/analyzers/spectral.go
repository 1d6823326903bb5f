package analyzers

import (
	"fmt"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"

	"github.com/RyanBlaney/songsim/pkg/logging"
)

// SpectralAnalyzer provides STFT analysis for feature extraction
type SpectralAnalyzer struct {
	windowSize int
	hopSize    int
	sampleRate int
	win        []float64
	logger     logging.Logger
}

// SpectrogramResult holds the result of STFT analysis
type SpectrogramResult struct {
	Magnitude      [][]float64 `json:"magnitude"`       // Time x Frequency magnitude matrix
	TimeFrames     int         `json:"time_frames"`     // Number of time frames
	FreqBins       int         `json:"freq_bins"`       // Number of frequency bins
	SampleRate     int         `json:"sample_rate"`     // Sample rate
	WindowSize     int         `json:"window_size"`     // FFT window size
	HopSize        int         `json:"hop_size"`        // Hop size between frames
	FreqResolution float64     `json:"freq_resolution"` // Frequency resolution (Hz/bin)
	TimeResolution float64     `json:"time_resolution"` // Time resolution (seconds/frame)
}

// NewSpectralAnalyzer creates a new spectral analyzer with a Hann window
func NewSpectralAnalyzer(windowSize, hopSize, sampleRate int) *SpectralAnalyzer {
	return &SpectralAnalyzer{
		windowSize: windowSize,
		hopSize:    hopSize,
		sampleRate: sampleRate,
		win:        window.Hann(windowSize),
		logger: logging.WithFields(logging.Fields{
			"component":   "spectral_analyzer",
			"window_size": windowSize,
			"hop_size":    hopSize,
			"sample_rate": sampleRate,
		}),
	}
}

// ComputeSpectrogram computes the STFT magnitude spectrogram of a signal.
// Only positive frequencies are kept (DC through Nyquist).
func (sa *SpectralAnalyzer) ComputeSpectrogram(signal []float64) (*SpectrogramResult, error) {
	if len(signal) < sa.windowSize {
		return nil, fmt.Errorf("signal too short: %d samples, need at least %d", len(signal), sa.windowSize)
	}
	if sa.hopSize <= 0 {
		return nil, fmt.Errorf("hop size must be positive")
	}

	timeFrames := 1 + (len(signal)-sa.windowSize)/sa.hopSize
	freqBins := sa.windowSize/2 + 1

	magnitude := make([][]float64, timeFrames)
	frame := make([]float64, sa.windowSize)

	for t := range timeFrames {
		start := t * sa.hopSize
		copy(frame, signal[start:start+sa.windowSize])
		for i := range frame {
			frame[i] *= sa.win[i]
		}

		spectrum := fft.FFTReal(frame)

		magnitude[t] = make([]float64, freqBins)
		for f := range freqBins {
			magnitude[t][f] = cmplx.Abs(spectrum[f])
		}
	}

	result := &SpectrogramResult{
		Magnitude:      magnitude,
		TimeFrames:     timeFrames,
		FreqBins:       freqBins,
		SampleRate:     sa.sampleRate,
		WindowSize:     sa.windowSize,
		HopSize:        sa.hopSize,
		FreqResolution: float64(sa.sampleRate) / float64(sa.windowSize),
		TimeResolution: float64(sa.hopSize) / float64(sa.sampleRate),
	}

	sa.logger.Debug("Spectrogram computed", logging.Fields{
		"time_frames": result.TimeFrames,
		"freq_bins":   result.FreqBins,
	})

	return result, nil
}

// FrequencyBins returns the center frequency in Hz of each spectrogram bin
func (sa *SpectralAnalyzer) FrequencyBins(numBins int) []float64 {
	freqs := make([]float64, numBins)
	for i := range freqs {
		freqs[i] = float64(i) * float64(sa.sampleRate) / float64(sa.windowSize)
	}
	return freqs
}

// FrameRate returns the number of spectrogram frames per second
func (sa *SpectralAnalyzer) FrameRate() float64 {
	return float64(sa.sampleRate) / float64(sa.hopSize)
}

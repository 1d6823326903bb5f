package features

import (
	"math"

	"github.com/RyanBlaney/songsim/pkg/audio/analyzers"
)

// estimateTempo produces a single global BPM estimate from the spectrogram.
// It builds a spectral-flux onset envelope, autocorrelates it, and picks the
// lag whose autocorrelation is strongest after weighting by a log-Gaussian
// prior centered at 120 BPM.
func (e *Extractor) estimateTempo(spectrogram *analyzers.SpectrogramResult, frameRate float64) float64 {
	envelope := onsetEnvelope(spectrogram)
	if len(envelope) < 4 {
		return 0
	}

	// Remove the DC component so autocorrelation reflects periodicity
	mean := 0.0
	for _, v := range envelope {
		mean += v
	}
	mean /= float64(len(envelope))
	for i := range envelope {
		envelope[i] -= mean
	}

	minLag := int(math.Floor(60.0 * frameRate / e.config.MaxTempo))
	maxLag := int(math.Ceil(60.0 * frameRate / e.config.MinTempo))
	if minLag < 1 {
		minLag = 1
	}
	if maxLag >= len(envelope) {
		maxLag = len(envelope) - 1
	}
	if minLag > maxLag {
		return 0
	}

	norm := autocorrelate(envelope, 0)
	if norm <= 0 {
		return 0
	}

	bestBPM := 0.0
	bestScore := math.Inf(-1)
	for lag := minLag; lag <= maxLag; lag++ {
		bpm := 60.0 * frameRate / float64(lag)
		score := autocorrelate(envelope, lag) / norm * tempoPrior(bpm)
		if score > bestScore {
			bestScore = score
			bestBPM = bpm
		}
	}

	return bestBPM
}

// onsetEnvelope computes the half-wave rectified spectral flux per frame
func onsetEnvelope(spectrogram *analyzers.SpectrogramResult) []float64 {
	if spectrogram.TimeFrames <= 1 {
		return nil
	}

	envelope := make([]float64, spectrogram.TimeFrames-1)
	for t := 1; t < spectrogram.TimeFrames; t++ {
		sum := 0.0
		for f := range spectrogram.FreqBins {
			diff := spectrogram.Magnitude[t][f] - spectrogram.Magnitude[t-1][f]
			if diff > 0 {
				sum += diff
			}
		}
		envelope[t-1] = sum
	}

	return envelope
}

// autocorrelate computes the raw autocorrelation of x at the given lag
func autocorrelate(x []float64, lag int) float64 {
	sum := 0.0
	for i := 0; i+lag < len(x); i++ {
		sum += x[i] * x[i+lag]
	}
	return sum
}

// tempoPrior weights candidate tempos toward the typical 120 BPM range,
// suppressing octave errors from the autocorrelation peak picker.
func tempoPrior(bpm float64) float64 {
	const center = 120.0
	const spread = 1.0 // octaves
	d := math.Log2(bpm / center)
	return math.Exp(-0.5 * (d / spread) * (d / spread))
}

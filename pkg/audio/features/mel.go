package features

import "math"

// hzToMel converts a frequency in Hz to the mel scale
func hzToMel(hz float64) float64 {
	return 2595.0 * math.Log10(1.0+hz/700.0)
}

// melToHz converts a mel-scale value back to Hz
func melToHz(mel float64) float64 {
	return 700.0 * (math.Pow(10, mel/2595.0) - 1.0)
}

// createMelFilterBank builds triangular mel-spaced filters over the positive
// frequency bins of an FFT of the given window size.
func createMelFilterBank(numFilters int, lowFreq, highFreq float64, freqBins, windowSize, sampleRate int) [][]float64 {
	lowMel := hzToMel(lowFreq)
	highMel := hzToMel(highFreq)

	// Equally spaced points on the mel scale, converted back to Hz
	melStep := (highMel - lowMel) / float64(numFilters+1)
	freqPoints := make([]float64, numFilters+2)
	for i := range freqPoints {
		freqPoints[i] = melToHz(lowMel + float64(i)*melStep)
	}

	freqResolution := float64(sampleRate) / float64(windowSize)

	filterBank := make([][]float64, numFilters)
	for i := range numFilters {
		filter := make([]float64, freqBins)

		left := freqPoints[i]
		center := freqPoints[i+1]
		right := freqPoints[i+2]

		for j := range freqBins {
			freq := float64(j) * freqResolution
			switch {
			case freq <= left || freq >= right:
				// outside the triangle
			case freq <= center:
				if center > left {
					filter[j] = (freq - left) / (center - left)
				}
			default:
				if right > center {
					filter[j] = (right - freq) / (right - center)
				}
			}
		}

		filterBank[i] = filter
	}

	return filterBank
}

// applyMelFilters projects a magnitude spectrum onto the filter bank
func applyMelFilters(magnitude []float64, filterBank [][]float64) []float64 {
	melSpectrum := make([]float64, len(filterBank))
	for i, filter := range filterBank {
		sum := 0.0
		for j, coeff := range filter {
			if j < len(magnitude) {
				sum += magnitude[j] * coeff
			}
		}
		melSpectrum[i] = sum
	}
	return melSpectrum
}

// applyDCT computes the type-II discrete cosine transform of the log mel
// spectrum, keeping the first numCoeffs coefficients.
func applyDCT(logMelSpectrum []float64, numCoeffs int) []float64 {
	mfcc := make([]float64, numCoeffs)
	n := float64(len(logMelSpectrum))

	for k := range numCoeffs {
		sum := 0.0
		for i, v := range logMelSpectrum {
			sum += v * math.Cos(math.Pi*float64(k)*(float64(i)+0.5)/n)
		}
		mfcc[k] = sum
	}

	return mfcc
}

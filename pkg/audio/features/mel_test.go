package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMelScaleRoundTrip(t *testing.T) {
	for _, hz := range []float64{100, 440, 1000, 8000} {
		assert.InDelta(t, hz, melToHz(hzToMel(hz)), 1e-9)
	}
}

func TestCreateMelFilterBankShape(t *testing.T) {
	const (
		numFilters = 26
		windowSize = 2048
		sampleRate = 22050
		freqBins   = windowSize/2 + 1
	)

	bank := createMelFilterBank(numFilters, 0, float64(sampleRate)/2, freqBins, windowSize, sampleRate)
	require.Len(t, bank, numFilters)

	for i, filter := range bank {
		require.Len(t, filter, freqBins)

		// Each triangular filter has nonzero weights in (0, 1]
		peak := 0.0
		for _, w := range filter {
			assert.GreaterOrEqual(t, w, 0.0)
			assert.LessOrEqual(t, w, 1.0)
			if w > peak {
				peak = w
			}
		}
		assert.Greater(t, peak, 0.0, "filter %d has no support", i)
	}
}

func TestApplyMelFilters(t *testing.T) {
	bank := [][]float64{
		{1, 0, 0, 0},
		{0, 0.5, 0.5, 0},
	}
	magnitude := []float64{2, 4, 6, 8}

	mel := applyMelFilters(magnitude, bank)
	require.Len(t, mel, 2)
	assert.InDelta(t, 2.0, mel[0], 1e-12)
	assert.InDelta(t, 5.0, mel[1], 1e-12)
}

func TestApplyDCTConstantInput(t *testing.T) {
	// A constant log mel spectrum concentrates all energy in coefficient 0
	input := []float64{3, 3, 3, 3, 3, 3, 3, 3}

	coeffs := applyDCT(input, 4)
	require.Len(t, coeffs, 4)
	assert.InDelta(t, 24.0, coeffs[0], 1e-9)
	for k := 1; k < 4; k++ {
		assert.InDelta(t, 0.0, coeffs[k], 1e-9)
	}
}

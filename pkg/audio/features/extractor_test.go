package features

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/songsim/pkg/audio"
)

func testAudio(freq float64, sampleRate int, seconds float64) *audio.AudioData {
	n := int(float64(sampleRate) * seconds)
	pcm := make([]float64, n)
	for i := range pcm {
		pcm[i] = 0.5 * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate))
	}
	return &audio.AudioData{PCM: pcm, SampleRate: sampleRate, Channels: 1}
}

func TestExtractVectorDimensions(t *testing.T) {
	extractor, err := NewExtractor(nil)
	require.NoError(t, err)

	fs, err := extractor.Extract(testAudio(440, 22050, 2))
	require.NoError(t, err)

	cfg := extractor.Config()
	assert.Len(t, fs.MFCC, cfg.MFCCCoefficients)
	assert.Len(t, fs.Chroma, cfg.ChromaBins)
	assert.Len(t, fs.SpectralContrast, cfg.ContrastBands)

	vec := fs.Vector()
	assert.Len(t, vec, cfg.VectorDim())
	assert.Equal(t, fs.Dim(), len(vec))
}

func TestExtractVectorOrder(t *testing.T) {
	extractor, err := NewExtractor(nil)
	require.NoError(t, err)

	fs, err := extractor.Extract(testAudio(440, 22050, 2))
	require.NoError(t, err)

	cfg := extractor.Config()
	vec := fs.Vector()

	// mfcc, then chroma, then tempo, then contrast
	assert.Equal(t, fs.MFCC, vec[:cfg.MFCCCoefficients])
	assert.Equal(t, fs.Chroma, vec[cfg.MFCCCoefficients:cfg.MFCCCoefficients+cfg.ChromaBins])
	assert.Equal(t, fs.Tempo, vec[cfg.MFCCCoefficients+cfg.ChromaBins])
	assert.Equal(t, fs.SpectralContrast, vec[cfg.MFCCCoefficients+cfg.ChromaBins+1:])
}

func TestExtractFixedLengthsAcrossSampleRates(t *testing.T) {
	extractor, err := NewExtractor(nil)
	require.NoError(t, err)

	for _, sr := range []int{8192, 22050, 44100} {
		fs, err := extractor.Extract(testAudio(330, sr, 1.5))
		require.NoError(t, err, "sample rate %d", sr)
		assert.Equal(t, extractor.Config().VectorDim(), fs.Dim(), "sample rate %d", sr)
	}
}

func TestExtractDeterministic(t *testing.T) {
	extractor, err := NewExtractor(nil)
	require.NoError(t, err)

	a, err := extractor.Extract(testAudio(440, 22050, 2))
	require.NoError(t, err)
	b, err := extractor.Extract(testAudio(440, 22050, 2))
	require.NoError(t, err)

	assert.Equal(t, a.Vector(), b.Vector())
}

func TestExtractChromaPitchClass(t *testing.T) {
	extractor, err := NewExtractor(nil)
	require.NoError(t, err)

	// A4 at 440 Hz: pitch class 9 (MIDI 69 % 12)
	fs, err := extractor.Extract(testAudio(440, 22050, 2))
	require.NoError(t, err)

	maxIdx := 0
	for i, v := range fs.Chroma {
		if v > fs.Chroma[maxIdx] {
			maxIdx = i
		}
	}
	assert.Equal(t, 9, maxIdx)
}

func TestExtractEmptyAudio(t *testing.T) {
	extractor, err := NewExtractor(nil)
	require.NoError(t, err)

	_, err = extractor.Extract(nil)
	assert.Error(t, err)

	_, err = extractor.Extract(&audio.AudioData{PCM: nil, SampleRate: 44100})
	assert.Error(t, err)
}

func TestExtractTooShort(t *testing.T) {
	extractor, err := NewExtractor(nil)
	require.NoError(t, err)

	_, err = extractor.Extract(&audio.AudioData{PCM: make([]float64, 64), SampleRate: 44100})
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"zero window", func(c *Config) { c.WindowSize = 0 }, true},
		{"non power of two window", func(c *Config) { c.WindowSize = 1000 }, true},
		{"hop larger than window", func(c *Config) { c.HopSize = 4096 }, true},
		{"zero mfcc", func(c *Config) { c.MFCCCoefficients = 0 }, true},
		{"fewer mel filters than coefficients", func(c *Config) { c.MelFilters = 5 }, true},
		{"zero chroma bins", func(c *Config) { c.ChromaBins = 0 }, true},
		{"zero contrast bands", func(c *Config) { c.ContrastBands = 0 }, true},
		{"inverted tempo range", func(c *Config) { c.MinTempo = 200; c.MaxTempo = 100 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestVectorDim(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 13+12+1+7, cfg.VectorDim())
}

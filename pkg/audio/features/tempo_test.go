package features

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/songsim/pkg/audio"
)

// clickTrain synthesizes short noise bursts at a fixed beat interval
func clickTrain(bpm float64, sampleRate int, seconds float64) *audio.AudioData {
	n := int(float64(sampleRate) * seconds)
	pcm := make([]float64, n)

	interval := int(60.0 / bpm * float64(sampleRate))
	for start := 0; start < n; start += interval {
		for i := 0; i < 256 && start+i < n; i++ {
			decay := math.Exp(-float64(i) / 32.0)
			pcm[start+i] = decay * math.Sin(2*math.Pi*1000*float64(i)/float64(sampleRate))
		}
	}

	return &audio.AudioData{PCM: pcm, SampleRate: sampleRate, Channels: 1}
}

func TestEstimateTempoClickTrain(t *testing.T) {
	extractor, err := NewExtractor(nil)
	require.NoError(t, err)

	// 8192 Hz with hop 512 gives 16 frames per second, so a 120 BPM beat
	// lands exactly every 8 frames.
	fs, err := extractor.Extract(clickTrain(120, 8192, 10))
	require.NoError(t, err)

	assert.InDelta(t, 120.0, fs.Tempo, 15.0)
}

func TestEstimateTempoSilence(t *testing.T) {
	extractor, err := NewExtractor(nil)
	require.NoError(t, err)

	fs, err := extractor.Extract(&audio.AudioData{
		PCM:        make([]float64, 8192*4),
		SampleRate: 8192,
		Channels:   1,
	})
	require.NoError(t, err)

	assert.Equal(t, 0.0, fs.Tempo)
}

func TestEstimateTempoWithinConfiguredRange(t *testing.T) {
	extractor, err := NewExtractor(nil)
	require.NoError(t, err)

	fs, err := extractor.Extract(clickTrain(90, 8192, 10))
	require.NoError(t, err)

	cfg := extractor.Config()
	assert.GreaterOrEqual(t, fs.Tempo, cfg.MinTempo)
	assert.LessOrEqual(t, fs.Tempo, cfg.MaxTempo)
}

func TestTempoPrior(t *testing.T) {
	// Maximal at the center, symmetric per octave
	assert.InDelta(t, 1.0, tempoPrior(120), 1e-12)
	assert.Greater(t, tempoPrior(120), tempoPrior(60))
	assert.Greater(t, tempoPrior(120), tempoPrior(240))
	assert.InDelta(t, tempoPrior(60), tempoPrior(240), 1e-12)
}

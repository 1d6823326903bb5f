package audio

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-audio/wav"
	mp3 "github.com/hajimehoshi/go-mp3"

	"github.com/RyanBlaney/songsim/pkg/logging"
)

// AudioData represents decoded audio: mono PCM samples normalized to [-1, 1]
// at the file's native sample rate.
type AudioData struct {
	PCM        []float64     `json:"-"`
	SampleRate int           `json:"sample_rate"`
	Channels   int           `json:"channels"`
	Duration   time.Duration `json:"duration"`
}

// SupportedExtensions lists the audio container formats DecodeFile accepts.
var SupportedExtensions = []string{".wav", ".mp3"}

// IsSupported reports whether the file extension belongs to a decodable format.
func IsSupported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, s := range SupportedExtensions {
		if ext == s {
			return true
		}
	}
	return false
}

// DecodeFile decodes a WAV or MP3 file into mono float64 samples at the
// native sample rate. Multi-channel input is downmixed by channel averaging.
func DecodeFile(path string) (*AudioData, error) {
	logger := logging.WithFields(logging.Fields{
		"component": "audio_decoder",
		"path":      path,
	})

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer f.Close()

	var data *AudioData
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		data, err = decodeWAV(f)
	case ".mp3":
		data, err = decodeMP3(f)
	default:
		return nil, fmt.Errorf("unsupported audio format: %s", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}

	logger.Debug("Audio decoded", logging.Fields{
		"sample_rate": data.SampleRate,
		"channels":    data.Channels,
		"duration_s":  data.Duration.Seconds(),
		"samples":     len(data.PCM),
	})

	return data, nil
}

// decodeWAV decodes PCM WAV data using go-audio
func decodeWAV(f *os.File) (*AudioData, error) {
	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("not a valid WAV file")
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to read PCM data: %w", err)
	}
	if buf == nil || len(buf.Data) == 0 {
		return nil, fmt.Errorf("empty PCM data")
	}

	channels := buf.Format.NumChannels
	if channels <= 0 {
		return nil, fmt.Errorf("invalid channel count: %d", channels)
	}

	bitDepth := buf.SourceBitDepth
	if bitDepth == 0 {
		bitDepth = int(dec.BitDepth)
	}
	scale := 1.0 / float64(int64(1)<<(bitDepth-1))

	frames := len(buf.Data) / channels
	pcm := make([]float64, frames)
	for i := range frames {
		sum := 0.0
		for c := range channels {
			sum += float64(buf.Data[i*channels+c]) * scale
		}
		pcm[i] = sum / float64(channels)
	}

	sampleRate := buf.Format.SampleRate
	if sampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate: %d", sampleRate)
	}

	return &AudioData{
		PCM:        pcm,
		SampleRate: sampleRate,
		Channels:   channels,
		Duration:   time.Duration(float64(frames) / float64(sampleRate) * float64(time.Second)),
	}, nil
}

// decodeMP3 decodes MPEG audio using go-mp3. The decoder always emits
// interleaved 16-bit stereo at the native sample rate.
func decodeMP3(f *os.File) (*AudioData, error) {
	dec, err := mp3.NewDecoder(f)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize MP3 decoder: %w", err)
	}

	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("failed to read MP3 stream: %w", err)
	}

	// 2 channels x 2 bytes per sample
	frames := len(raw) / 4
	if frames == 0 {
		return nil, fmt.Errorf("empty MP3 stream")
	}

	const scale = 1.0 / 32768.0
	pcm := make([]float64, frames)
	for i := range frames {
		l := int16(uint16(raw[i*4]) | uint16(raw[i*4+1])<<8)
		r := int16(uint16(raw[i*4+2]) | uint16(raw[i*4+3])<<8)
		pcm[i] = (float64(l) + float64(r)) * 0.5 * scale
	}

	sampleRate := dec.SampleRate()

	return &AudioData{
		PCM:        pcm,
		SampleRate: sampleRate,
		Channels:   2,
		Duration:   time.Duration(float64(frames) / float64(sampleRate) * float64(time.Second)),
	}, nil
}

package library

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/songsim/pkg/audio/features"
)

// writeSineWAV writes a mono 16-bit sine wave fixture
func writeSineWAV(t *testing.T, path string, freq float64, sampleRate int, seconds float64) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, 16, 1, 1)
	frames := int(float64(sampleRate) * seconds)
	data := make([]int, frames)
	for i := range frames {
		data[i] = int(0.5 * 32767 * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate)))
	}

	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
	require.NoError(t, enc.Write(buf))
	require.NoError(t, enc.Close())
}

func testBuilder(t *testing.T, opts ...BuilderOption) *Builder {
	t.Helper()
	extractor, err := features.NewExtractor(nil)
	require.NoError(t, err)
	opts = append(opts, WithProgress(false))
	return NewBuilder(extractor, opts...)
}

func TestBuilderBuild(t *testing.T) {
	folder := t.TempDir()
	writeSineWAV(t, filepath.Join(folder, "a.wav"), 440, 8192, 2)
	writeSineWAV(t, filepath.Join(folder, "b.wav"), 660, 8192, 2)
	require.NoError(t, os.WriteFile(filepath.Join(folder, "notes.txt"), []byte("ignored"), 0o644))

	dbPath := filepath.Join(t.TempDir(), "db.gob")
	report, err := testBuilder(t).Build(context.Background(), folder, dbPath)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Processed)
	assert.Equal(t, 0, report.Skipped)
	assert.Equal(t, dbPath, report.DatabasePath)

	db, err := Load(dbPath)
	require.NoError(t, err)
	assert.Equal(t, 2, db.Size())
	assert.Contains(t, db.Entries, "a.wav")
	assert.Contains(t, db.Entries, "b.wav")
}

func TestBuilderSkipsUndecodableFiles(t *testing.T) {
	folder := t.TempDir()
	writeSineWAV(t, filepath.Join(folder, "good.wav"), 440, 8192, 2)
	require.NoError(t, os.WriteFile(filepath.Join(folder, "broken.wav"), []byte("not audio"), 0o644))

	dbPath := filepath.Join(t.TempDir(), "db.gob")
	report, err := testBuilder(t).Build(context.Background(), folder, dbPath)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Processed)
	assert.Equal(t, 1, report.Skipped)

	db, err := Load(dbPath)
	require.NoError(t, err)
	assert.Contains(t, db.Entries, "good.wav")
	assert.NotContains(t, db.Entries, "broken.wav")
}

func TestBuilderMissingFolder(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "db.gob")
	_, err := testBuilder(t).Build(context.Background(), filepath.Join(t.TempDir(), "nope"), dbPath)
	assert.ErrorContains(t, err, "not accessible")
}

func TestBuilderFolderIsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	_, err := testBuilder(t).Build(context.Background(), path, filepath.Join(t.TempDir(), "db.gob"))
	assert.ErrorContains(t, err, "not a directory")
}

func TestBuilderEmptyFolder(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "db.gob")
	report, err := testBuilder(t).Build(context.Background(), t.TempDir(), dbPath)
	require.NoError(t, err)

	assert.Equal(t, 0, report.Processed)

	db, err := Load(dbPath)
	require.NoError(t, err)
	assert.Equal(t, 0, db.Size())
}

func TestBuilderParallelWorkers(t *testing.T) {
	folder := t.TempDir()
	writeSineWAV(t, filepath.Join(folder, "a.wav"), 330, 8192, 2)
	writeSineWAV(t, filepath.Join(folder, "b.wav"), 440, 8192, 2)
	writeSineWAV(t, filepath.Join(folder, "c.wav"), 550, 8192, 2)

	serialPath := filepath.Join(t.TempDir(), "serial.gob")
	_, err := testBuilder(t).Build(context.Background(), folder, serialPath)
	require.NoError(t, err)

	parallelPath := filepath.Join(t.TempDir(), "parallel.gob")
	_, err = testBuilder(t, WithWorkers(4)).Build(context.Background(), folder, parallelPath)
	require.NoError(t, err)

	serial, err := Load(serialPath)
	require.NoError(t, err)
	parallel, err := Load(parallelPath)
	require.NoError(t, err)

	require.Equal(t, serial.Size(), parallel.Size())
	for name, fs := range serial.Entries {
		require.Contains(t, parallel.Entries, name)
		assert.Equal(t, fs.Vector(), parallel.Entries[name].Vector())
	}
}

func TestBuilderCanceledContext(t *testing.T) {
	folder := t.TempDir()
	writeSineWAV(t, filepath.Join(folder, "a.wav"), 440, 8192, 2)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := testBuilder(t).Build(ctx, folder, filepath.Join(t.TempDir(), "db.gob"))
	assert.ErrorIs(t, err, context.Canceled)
}

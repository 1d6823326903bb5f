package library

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/RyanBlaney/songsim/pkg/audio"
	"github.com/RyanBlaney/songsim/pkg/audio/features"
	"github.com/RyanBlaney/songsim/pkg/logging"
)

// BuildReport summarizes a completed database build pass
type BuildReport struct {
	Processed    int           `json:"processed"`
	Skipped      int           `json:"skipped"`
	Elapsed      time.Duration `json:"elapsed"`
	DatabasePath string        `json:"database_path"`
}

// Builder scans a folder of audio files, extracts features from each, and
// persists the resulting database. Individual extraction failures skip the
// file; only configuration errors abort the build.
type Builder struct {
	extractor *features.Extractor
	workers   int
	progress  bool
	logger    logging.Logger
}

// BuilderOption configures a Builder
type BuilderOption func(*Builder)

// WithWorkers sets the number of concurrent extraction workers. Each file's
// extraction is independent; results are merged after completion.
func WithWorkers(n int) BuilderOption {
	return func(b *Builder) {
		if n > 0 {
			b.workers = n
		}
	}
}

// WithProgress enables a terminal progress bar during the build pass
func WithProgress(enabled bool) BuilderOption {
	return func(b *Builder) {
		b.progress = enabled
	}
}

// NewBuilder creates a database builder around the given extractor
func NewBuilder(extractor *features.Extractor, opts ...BuilderOption) *Builder {
	b := &Builder{
		extractor: extractor,
		workers:   1,
		logger: logging.WithFields(logging.Fields{
			"component": "database_builder",
		}),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build extracts features from every supported audio file directly inside
// folder and writes the resulting database to outPath, overwriting any prior
// content. Zero successfully processed files still produce a valid empty
// database.
func (b *Builder) Build(ctx context.Context, folder, outPath string) (*BuildReport, error) {
	start := time.Now()

	info, err := os.Stat(folder)
	if err != nil {
		return nil, fmt.Errorf("song folder is not accessible: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("song folder %s is not a directory", folder)
	}

	paths, err := collectAudioFiles(folder)
	if err != nil {
		return nil, fmt.Errorf("failed to scan song folder: %w", err)
	}

	b.logger.Info("Starting database build", logging.Fields{
		"folder":  folder,
		"files":   len(paths),
		"workers": b.workers,
		"output":  outPath,
	})

	db := NewDatabase(b.extractor.Config())

	var bar *mpb.Bar
	var pool *mpb.Progress
	if b.progress && len(paths) > 0 {
		pool = mpb.New(mpb.WithWidth(64))
		bar = pool.AddBar(int64(len(paths)),
			mpb.PrependDecorators(
				decor.Name("Building: "),
				decor.CountersNoUnit("%d / %d"),
			),
			mpb.AppendDecorators(decor.Percentage()),
		)
	}

	type result struct {
		name     string
		features *features.FeatureSet
		err      error
	}

	jobs := make(chan string, len(paths))
	results := make(chan result, len(paths))

	var wg sync.WaitGroup
	for range b.workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				if err := ctx.Err(); err != nil {
					results <- result{name: filepath.Base(path), err: err}
					continue
				}
				fs, err := b.extractor.ExtractFile(path)
				results <- result{name: filepath.Base(path), features: fs, err: err}
			}
		}()
	}

	for _, p := range paths {
		jobs <- p
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	skipped := 0
	for r := range results {
		if bar != nil {
			bar.Increment()
		}
		if r.err != nil {
			skipped++
			b.logger.Warn("Skipping file after extraction failure", logging.Fields{
				"file":  r.name,
				"error": r.err.Error(),
			})
			continue
		}
		db.Entries[r.name] = r.features
	}
	if pool != nil {
		pool.Wait()
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := db.Save(outPath); err != nil {
		return nil, err
	}

	report := &BuildReport{
		Processed:    db.Size(),
		Skipped:      skipped,
		Elapsed:      time.Since(start),
		DatabasePath: outPath,
	}

	b.logger.Info("Database build completed", logging.Fields{
		"processed": report.Processed,
		"skipped":   report.Skipped,
		"elapsed_s": report.Elapsed.Seconds(),
	})

	return report, nil
}

// collectAudioFiles lists the supported audio files directly inside folder,
// sorted by name for deterministic processing order.
func collectAudioFiles(folder string) ([]string, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, err
	}

	var out []string
	for _, entry := range entries {
		if entry.IsDir() || !audio.IsSupported(entry.Name()) {
			continue
		}
		out = append(out, filepath.Join(folder, entry.Name()))
	}
	sort.Strings(out)

	return out, nil
}

package ranking

import (
	"context"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/RyanBlaney/songsim/internal/library"
	"github.com/RyanBlaney/songsim/pkg/audio/features"
	"github.com/RyanBlaney/songsim/pkg/logging"
)

// RankedMatch pairs a song identifier with its cosine similarity to the query
type RankedMatch struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// Ranker compares a query song against every entry of a persisted database.
// Lookups are brute-force linear scans, which is fine at personal-collection
// scale.
type Ranker struct {
	extractor *features.Extractor
	logger    logging.Logger
}

// NewRanker creates a similarity ranker around the given extractor
func NewRanker(extractor *features.Extractor) *Ranker {
	return &Ranker{
		extractor: extractor,
		logger: logging.WithFields(logging.Fields{
			"component": "similarity_ranker",
		}),
	}
}

// Query extracts features from queryPath, compares them against every entry
// in the database at dbPath, and returns the topN matches ordered by
// descending similarity. Ties break by ascending name so results are
// reproducible. An empty database yields an empty result and nil error,
// distinct from extraction and database failures, which are errors.
func (r *Ranker) Query(ctx context.Context, queryPath, dbPath string, topN int) ([]RankedMatch, error) {
	if topN < 1 {
		return nil, fmt.Errorf("topN must be >= 1, got %d", topN)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	db, err := library.Load(dbPath)
	if err != nil {
		return nil, err
	}

	queryFeatures, err := r.extractor.ExtractFile(queryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to extract features from query song: %w", err)
	}
	queryVector := queryFeatures.Vector()

	matches := make([]RankedMatch, 0, db.Size())
	for name, fs := range db.Entries {
		matches = append(matches, RankedMatch{
			Name:  name,
			Score: CosineSimilarity(queryVector, fs.Vector()),
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Name < matches[j].Name
	})

	if topN < len(matches) {
		matches = matches[:topN]
	}

	r.logger.Debug("Query completed", logging.Fields{
		"query":         queryPath,
		"database":      dbPath,
		"database_size": db.Size(),
		"returned":      len(matches),
	})

	return matches, nil
}

// CosineSimilarity computes dot(a,b) / (||a|| * ||b||). It returns 0 when the
// vectors differ in length or either has zero magnitude.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	normA := floats.Norm(a, 2)
	normB := floats.Norm(b, 2)
	if normA == 0 || normB == 0 {
		return 0
	}

	return floats.Dot(a, b) / (normA * normB)
}

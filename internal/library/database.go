package library

import (
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/RyanBlaney/songsim/pkg/audio/features"
)

// DefaultDatabaseFile is the database path used when none is configured
const DefaultDatabaseFile = "song_database.gob"

var (
	// ErrDatabaseNotFound indicates the database file does not exist
	ErrDatabaseNotFound = errors.New("song database not found")
	// ErrDatabaseCorrupt indicates the database file could not be decoded
	ErrDatabaseCorrupt = errors.New("song database is corrupt")
)

// Database is a flat mapping from song file name to its extracted features,
// persisted wholesale as a single gob blob. Each build fully replaces the
// prior file; it is never partially updated or merged.
type Database struct {
	Entries   map[string]*features.FeatureSet
	Config    *features.Config // extraction parameters the entries were built with
	CreatedAt time.Time
}

// NewDatabase creates an empty database for the given extraction config
func NewDatabase(config *features.Config) *Database {
	return &Database{
		Entries:   make(map[string]*features.FeatureSet),
		Config:    config,
		CreatedAt: time.Now(),
	}
}

// Save serializes the full database to path, atomically replacing any prior
// content via a temp file and rename.
func (db *Database) Save(path string) error {
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("failed to create temp database file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := gob.NewEncoder(tmp).Encode(db); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode database: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp database file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace database file: %w", err)
	}

	return nil
}

// Load deserializes a database from path. A missing file yields
// ErrDatabaseNotFound; undecodable content yields ErrDatabaseCorrupt. Both
// are distinct from an empty result set.
func Load(path string) (*Database, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrDatabaseNotFound, path)
		}
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	defer f.Close()

	var db Database
	if err := gob.NewDecoder(f).Decode(&db); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDatabaseCorrupt, path, err)
	}
	if db.Entries == nil {
		db.Entries = make(map[string]*features.FeatureSet)
	}

	return &db, nil
}

// Size returns the number of songs in the database
func (db *Database) Size() int {
	return len(db.Entries)
}

// ABOUTME: Durable run state for the wallpaper pipeline under the cache directory.
// ABOUTME: Stores the last-applied record and the applied image with crash-safe atomic writes.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// ErrCorrupt means the record file exists but cannot be decoded. Callers
// treat this the same as an absent record; the next successful save
// overwrites the bad file.
var ErrCorrupt = errors.New("cache record corrupt")

const (
	recordFile = "record.json"
	imageFile  = "wallpaper.img"
	lockFile   = "run.lock"
)

// Record describes the last successfully applied wallpaper. It is the only
// state that survives between runs.
type Record struct {
	LastAppliedDate string    `json:"last_applied_date"`
	ContentID       string    `json:"content_id"`
	ImagePath       string    `json:"image_path"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Store owns the cache directory layout: one record file, one applied
// image file, and one lock file.
type Store struct {
	dir string
}

// NewStore creates the cache directory if needed and returns a store for it.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the cache directory path.
func (s *Store) Dir() string {
	return s.dir
}

// ImagePath returns the stable path of the applied image file.
func (s *Store) ImagePath() string {
	return filepath.Join(s.dir, imageFile)
}

func (s *Store) recordPath() string {
	return filepath.Join(s.dir, recordFile)
}

// Load reads the persisted record. A missing file returns (nil, nil); an
// undecodable file returns ErrCorrupt.
func (s *Store) Load() (*Record, error) {
	data, err := os.ReadFile(s.recordPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read cache record: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if rec.LastAppliedDate == "" {
		return nil, fmt.Errorf("%w: missing last_applied_date", ErrCorrupt)
	}
	return &rec, nil
}

// Save persists the record durably. The write goes to a temp file in the
// same directory and is renamed into place, so a crash mid-write never
// leaves a partial record for the next Load.
func (s *Store) Save(rec Record) error {
	rec.UpdatedAt = rec.UpdatedAt.UTC()
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode cache record: %w", err)
	}
	if err := s.atomicWrite(s.recordPath(), data, 0600); err != nil {
		return fmt.Errorf("failed to write cache record: %w", err)
	}
	return nil
}

// AlreadyApplied reports whether the record shows the given calendar day
// was applied. Pure decision function; touches neither disk nor network.
func AlreadyApplied(day string, rec *Record) bool {
	return rec != nil && rec.LastAppliedDate == day
}

// WriteImage replaces the applied image file with data, atomically, and
// returns its stable path. The setter never observes a partial file.
func (s *Store) WriteImage(data []byte) (string, error) {
	path := s.ImagePath()
	if err := s.atomicWrite(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	return path, nil
}

func (s *Store) atomicWrite(path string, data []byte, perm os.FileMode) error {
	tmp := filepath.Join(s.dir, "."+uuid.NewString()+".tmp")
	if err := os.WriteFile(tmp, data, perm); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

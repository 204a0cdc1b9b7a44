// ABOUTME: Tests for cache record persistence, atomic writes, and the run lock.
// ABOUTME: Covers round-trips, corruption handling, crash simulation, and lock exclusion.
package cache

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error: %v", err)
	}
	return s
}

func TestLoadAbsentRecord(t *testing.T) {
	s := newTestStore(t)
	rec, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if rec != nil {
		t.Errorf("expected nil record on first run, got %+v", rec)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)
	want := Record{
		LastAppliedDate: "2024-03-01",
		ContentID:       "abc123",
		ImagePath:       s.ImagePath(),
		UpdatedAt:       time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC),
	}
	if err := s.Save(want); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got == nil {
		t.Fatal("expected a record after Save")
	}
	if *got != want {
		t.Errorf("round-trip mismatch:\n got  %+v\n want %+v", *got, want)
	}
}

func TestLoadCorruptRecord(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not json", "{{{"},
		{"missing date", `{"content_id":"abc"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t)
			path := filepath.Join(s.Dir(), "record.json")
			if err := os.WriteFile(path, []byte(tt.content), 0600); err != nil {
				t.Fatalf("failed to write record: %v", err)
			}

			_, err := s.Load()
			if !errors.Is(err, ErrCorrupt) {
				t.Errorf("expected ErrCorrupt, got %v", err)
			}
		})
	}
}

func TestSaveSelfHealsCorruptRecord(t *testing.T) {
	s := newTestStore(t)
	path := filepath.Join(s.Dir(), "record.json")
	if err := os.WriteFile(path, []byte("garbage"), 0600); err != nil {
		t.Fatalf("failed to write record: %v", err)
	}

	rec := Record{LastAppliedDate: "2024-03-02", ContentID: "def", ImagePath: s.ImagePath()}
	if err := s.Save(rec); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load() after self-heal error: %v", err)
	}
	if got.LastAppliedDate != "2024-03-02" {
		t.Errorf("expected healed record, got %+v", got)
	}
}

func TestCrashBetweenTempWriteAndRename(t *testing.T) {
	s := newTestStore(t)
	good := Record{LastAppliedDate: "2024-03-01", ContentID: "abc", ImagePath: s.ImagePath()}
	if err := s.Save(good); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	// A crash after the temp write but before the rename leaves only a
	// stray temp file behind.
	stray := filepath.Join(s.Dir(), ".00000000-dead-beef-0000-000000000000.tmp")
	if err := os.WriteFile(stray, []byte(`{"last_applied_date":"2024-0`), 0600); err != nil {
		t.Fatalf("failed to write stray temp file: %v", err)
	}

	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got.LastAppliedDate != "2024-03-01" {
		t.Errorf("partial write became observable: %+v", got)
	}
}

func TestAbortedSaveLeavesNoTempFile(t *testing.T) {
	s := newTestStore(t)

	// A directory squatting on the record path makes the rename fail.
	if err := os.Mkdir(filepath.Join(s.Dir(), "record.json"), 0750); err != nil {
		t.Fatalf("failed to create blocking dir: %v", err)
	}

	rec := Record{LastAppliedDate: "2024-03-01", ContentID: "abc", ImagePath: s.ImagePath()}
	if err := s.Save(rec); err == nil {
		t.Fatal("expected Save to fail")
	}

	entries, err := os.ReadDir(s.Dir())
	if err != nil {
		t.Fatalf("failed to read cache dir: %v", err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("aborted save left temp file behind: %s", e.Name())
		}
	}
}

func TestAlreadyApplied(t *testing.T) {
	rec := &Record{LastAppliedDate: "2024-03-01"}

	tests := []struct {
		name string
		day  string
		rec  *Record
		want bool
	}{
		{"same day", "2024-03-01", rec, true},
		{"different day", "2024-03-02", rec, false},
		{"nil record", "2024-03-01", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AlreadyApplied(tt.day, tt.rec); got != tt.want {
				t.Errorf("AlreadyApplied(%q) = %v, want %v", tt.day, got, tt.want)
			}
		})
	}
}

func TestWriteImage(t *testing.T) {
	s := newTestStore(t)

	path, err := s.WriteImage([]byte("first"))
	if err != nil {
		t.Fatalf("WriteImage() error: %v", err)
	}
	if path != s.ImagePath() {
		t.Errorf("expected stable path %s, got %s", s.ImagePath(), path)
	}

	// Overwrites the prior file at the same stable path.
	if _, err := s.WriteImage([]byte("second")); err != nil {
		t.Fatalf("WriteImage() overwrite error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read image: %v", err)
	}
	if string(data) != "second" {
		t.Errorf("expected overwritten content, got %q", data)
	}

	// No temp files left behind.
	entries, err := os.ReadDir(s.Dir())
	if err != nil {
		t.Fatalf("failed to read cache dir: %v", err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("stray temp file left behind: %s", e.Name())
		}
	}
}

func TestTryLockExcludesSecondHolder(t *testing.T) {
	s := newTestStore(t)

	release, err := s.TryLock()
	if err != nil {
		t.Fatalf("TryLock() error: %v", err)
	}

	// Same file, second flock handle: must report ErrLocked.
	s2, err := NewStore(s.Dir())
	if err != nil {
		t.Fatalf("NewStore() error: %v", err)
	}
	if _, err := s2.TryLock(); !errors.Is(err, ErrLocked) {
		t.Errorf("expected ErrLocked while lock held, got %v", err)
	}

	release()
	release2, err := s2.TryLock()
	if err != nil {
		t.Fatalf("TryLock() after release error: %v", err)
	}
	release2()
}

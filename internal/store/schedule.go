package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"postflow/internal/domain"
)

// ScheduleStore is a whole-document store: Load returns every record, Save
// replaces them all. Callers must serialize load/mutate/save sequences
// themselves; interleaved writers lose updates.
type ScheduleStore interface {
	Load() ([]domain.ScheduledPost, error)
	Save(posts []domain.ScheduledPost) error
}

type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the full schedule document. A missing file is the valid empty
// state; anything else (unreadable, unparsable) is a hard error.
func (s *FileStore) Load() ([]domain.ScheduledPost, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read schedule %s: %w", s.path, err)
	}
	var posts []domain.ScheduledPost
	if err := json.Unmarshal(data, &posts); err != nil {
		return nil, fmt.Errorf("parse schedule %s: %w", s.path, err)
	}
	return posts, nil
}

// Save writes the document to a temp file in the same directory and renames
// it over the target, so readers never observe a torn write.
func (s *FileStore) Save(posts []domain.ScheduledPost) error {
	if posts == nil {
		posts = []domain.ScheduledPost{}
	}
	data, err := json.MarshalIndent(posts, "", "  ")
	if err != nil {
		return fmt.Errorf("encode schedule: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".schedule-*.json")
	if err != nil {
		return fmt.Errorf("write schedule %s: %w", s.path, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write schedule %s: %w", s.path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write schedule %s: %w", s.path, err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace schedule %s: %w", s.path, err)
	}
	return nil
}

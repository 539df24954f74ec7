// Package content reads generated post content out of the upstream queue.
// The queue is produced by the generation pipeline; this side only looks
// items up by generation id and never writes.
package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"postflow/internal/domain"
)

// Store looks up queued content by generation id. The bool reports presence;
// an error means the store itself failed, not that the id is unknown.
type Store interface {
	Lookup(ctx context.Context, generationID string) (domain.PostContent, bool, error)
}

// FileStore reads a flat JSON document mapping generation id to content.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Lookup(ctx context.Context, generationID string) (domain.PostContent, bool, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return domain.PostContent{}, false, nil
	}
	if err != nil {
		return domain.PostContent{}, false, fmt.Errorf("read queue %s: %w", s.path, err)
	}
	var items map[string]domain.PostContent
	if err := json.Unmarshal(data, &items); err != nil {
		return domain.PostContent{}, false, fmt.Errorf("parse queue %s: %w", s.path, err)
	}
	c, ok := items[generationID]
	return c, ok, nil
}

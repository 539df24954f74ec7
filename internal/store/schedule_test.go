package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"postflow/internal/domain"
)

func TestLoadAbsentFileIsEmpty(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "schedule.json"))
	posts, err := s.Load()
	require.NoError(t, err)
	require.Empty(t, posts)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schedule.json")
	s := NewFileStore(path)

	published := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	posts := []domain.ScheduledPost{
		{
			ID:           "sp_a",
			GenerationID: "g1",
			Brand:        "acme",
			Platforms:    []domain.Platform{domain.PlatformTwitter, domain.PlatformLinkedIn},
			ScheduledFor: published.Add(-time.Hour),
			Status:       domain.StatusFailed,
			CreatedAt:    published.Add(-2 * time.Hour),
			PublishedAt:  &published,
			Error:        "linkedin: rate limited",
		},
		{
			ID:           "sp_b",
			GenerationID: "g2",
			Brand:        "acme",
			Platforms:    []domain.Platform{domain.PlatformThreads},
			ScheduledFor: published.Add(time.Hour),
			Status:       domain.StatusPending,
			CreatedAt:    published,
		},
	}
	require.NoError(t, s.Save(posts))

	got, err := s.Load()
	require.NoError(t, err)
	require.Equal(t, posts, got)
}

func TestSaveReplacesWholeDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schedule.json")
	s := NewFileStore(path)

	require.NoError(t, s.Save([]domain.ScheduledPost{{ID: "sp_a"}, {ID: "sp_b"}}))
	require.NoError(t, s.Save([]domain.ScheduledPost{{ID: "sp_c"}}))

	got, err := s.Load()
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "sp_c", got[0].ID)
}

func TestSaveNilWritesEmptyDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schedule.json")
	s := NewFileStore(path)

	require.NoError(t, s.Save(nil))
	got, err := s.Load()
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestLoadCorruptFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schedule.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := NewFileStore(path).Load()
	require.Error(t, err)
}

func TestLoadToleratesUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schedule.json")
	doc := `[{"id":"sp_a","status":"pending","futureField":42}]`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	got, err := NewFileStore(path).Load()
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "sp_a", got[0].ID)
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(filepath.Join(dir, "schedule.json"))
	require.NoError(t, s.Save([]domain.ScheduledPost{{ID: "sp_a"}}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "schedule.json", entries[0].Name())
}

package content

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"postflow/internal/domain"
)

func writeQueue(t *testing.T, doc string) *FileStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "queue.json")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	return NewFileStore(path)
}

func TestFileLookup(t *testing.T) {
	s := writeQueue(t, `{
  "g1": {
    "text": "Hello",
    "platformText": {"twitter": "Hello, shorter"},
    "hashtags": ["launch"],
    "imageUrl": "https://cdn.example.com/a.png"
  }
}`)

	c, ok, err := s.Lookup(context.Background(), "g1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Hello", c.Text)
	require.Equal(t, "Hello, shorter", c.PlatformText[domain.PlatformTwitter])
	require.Equal(t, []string{"launch"}, c.Hashtags)
	require.Equal(t, "https://cdn.example.com/a.png", c.ImageURL)
}

func TestFileLookupAbsentID(t *testing.T) {
	s := writeQueue(t, `{"g1": {"text": "Hello"}}`)
	_, ok, err := s.Lookup(context.Background(), "g2")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestFileLookupAbsentFile(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "queue.json"))
	_, ok, err := s.Lookup(context.Background(), "g1")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestFileLookupCorrupt(t *testing.T) {
	s := writeQueue(t, `{broken`)
	_, _, err := s.Lookup(context.Background(), "g1")
	require.Error(t, err)
}

func TestTextForFallsBackToGeneric(t *testing.T) {
	c := domain.PostContent{
		Text:         "Generic",
		PlatformText: map[domain.Platform]string{domain.PlatformTwitter: "Tweet-sized"},
	}
	require.Equal(t, "Tweet-sized", c.TextFor([]domain.Platform{domain.PlatformTwitter, domain.PlatformLinkedIn}))
	require.Equal(t, "Generic", c.TextFor([]domain.Platform{domain.PlatformLinkedIn}))
	require.Equal(t, "", domain.PostContent{}.TextFor([]domain.Platform{domain.PlatformTwitter}))
}

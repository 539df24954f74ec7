package content

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"postflow/internal/domain"
)

// EnsureSchema creates the content table if it doesn't exist. The generation
// pipeline inserts rows; this process only reads them.
func EnsureSchema(db *sql.DB) error {
	schema := `
PRAGMA journal_mode=WAL;
CREATE TABLE IF NOT EXISTS content_items (
  generation_id TEXT PRIMARY KEY,
  text TEXT NOT NULL DEFAULT '',
  platform_text TEXT,
  hashtags TEXT,
  image_url TEXT,
  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`
	_, err := db.Exec(schema)
	return err
}

type SQLiteStore struct{ db *sql.DB }

func NewSQLiteStore(db *sql.DB) *SQLiteStore { return &SQLiteStore{db: db} }

func (s *SQLiteStore) Lookup(ctx context.Context, generationID string) (domain.PostContent, bool, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT text, platform_text, hashtags, image_url
FROM content_items WHERE generation_id = ?`, generationID)

	var c domain.PostContent
	var platformText, hashtags, imageURL sql.NullString
	err := row.Scan(&c.Text, &platformText, &hashtags, &imageURL)
	if err == sql.ErrNoRows {
		return domain.PostContent{}, false, nil
	}
	if err != nil {
		return domain.PostContent{}, false, fmt.Errorf("lookup content %s: %w", generationID, err)
	}
	if platformText.Valid && platformText.String != "" {
		if err := json.Unmarshal([]byte(platformText.String), &c.PlatformText); err != nil {
			return domain.PostContent{}, false, fmt.Errorf("parse platform text for %s: %w", generationID, err)
		}
	}
	if hashtags.Valid && hashtags.String != "" {
		if err := json.Unmarshal([]byte(hashtags.String), &c.Hashtags); err != nil {
			return domain.PostContent{}, false, fmt.Errorf("parse hashtags for %s: %w", generationID, err)
		}
	}
	if imageURL.Valid {
		c.ImageURL = imageURL.String
	}
	return c, true, nil
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/dinostories/internal/client/models"
	"github.com/dmitrijs2005/dinostories/internal/dbx"
)

// storyColumns is the column list shared by the stories, bookmarks and
// pending_stories tables (bookmarks add saved_at on top).
const storyColumns = "id, name, description, photo_url, lat, lon, created_at, is_offline"

// StoryRepository persists the story cache backed by the stories table.
type StoryRepository struct {
	db dbx.DBTX
}

func NewStoryRepository(db dbx.DBTX) *StoryRepository {
	return &StoryRepository{db: db}
}

// Upsert inserts or replaces a cached story by id, last write wins.
func (r *StoryRepository) Upsert(ctx context.Context, s models.Story) error {
	query := `INSERT INTO stories (id, name, description, photo_url, lat, lon, created_at, is_offline)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name,
			description = excluded.description,
			photo_url = excluded.photo_url,
			lat = excluded.lat,
			lon = excluded.lon,
			created_at = excluded.created_at,
			is_offline = excluded.is_offline
	`
	_, err := r.db.ExecContext(ctx, query, storyArgs(s)...)
	if err != nil {
		return fmt.Errorf("failed to upsert story: %w", err)
	}
	return nil
}

// GetAll lists all cached stories, newest first.
func (r *StoryRepository) GetAll(ctx context.Context) ([]models.Story, error) {
	query := `SELECT ` + storyColumns + ` FROM stories ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select stories: %w", err)
	}
	defer rows.Close()
	return collectStories(rows)
}

// GetByID returns a single cached story or ErrNotFound.
func (r *StoryRepository) GetByID(ctx context.Context, id string) (*models.Story, error) {
	query := `SELECT ` + storyColumns + ` FROM stories WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	s, err := scanStory(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}
	return s, nil
}

// Clear removes every cached story.
func (r *StoryRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM stories`); err != nil {
		return fmt.Errorf("failed to clear stories: %w", err)
	}
	return nil
}

// storyArgs flattens a story into the shared column order.
func storyArgs(s models.Story) []any {
	return []any{
		s.ID, s.Name, s.Description, s.PhotoURL,
		nullFloat(s.Lat), nullFloat(s.Lon),
		s.CreatedAt.UTC().Format(time.RFC3339Nano),
		s.Offline,
	}
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

// scanStory reads one row in the shared column order.
func scanStory(scan func(dest ...any) error) (*models.Story, error) {
	var (
		s         models.Story
		lat, lon  sql.NullFloat64
		createdAt string
	)
	if err := scan(&s.ID, &s.Name, &s.Description, &s.PhotoURL, &lat, &lon, &createdAt, &s.Offline); err != nil {
		return nil, err
	}
	if lat.Valid {
		s.Lat = &lat.Float64
	}
	if lon.Valid {
		s.Lon = &lon.Float64
	}
	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("invalid created_at %q: %w", createdAt, err)
	}
	s.CreatedAt = ts
	return &s, nil
}

func collectStories(rows *sql.Rows) ([]models.Story, error) {
	var result []models.Story
	for rows.Next() {
		s, err := scanStory(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

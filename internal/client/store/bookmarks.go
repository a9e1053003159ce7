package store

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/dinostories/internal/client/models"
	"github.com/dmitrijs2005/dinostories/internal/dbx"
)

// BookmarkRepository stores full story snapshots keyed by story id, so a
// bookmark survives even when the cached copy of the story is evicted or the
// server stops returning it.
type BookmarkRepository struct {
	db dbx.DBTX
}

func NewBookmarkRepository(db dbx.DBTX) *BookmarkRepository {
	return &BookmarkRepository{db: db}
}

// Add saves a bookmark. Re-adding an existing bookmark refreshes the snapshot.
func (r *BookmarkRepository) Add(ctx context.Context, s models.Story) error {
	query := `INSERT INTO bookmarks (id, name, description, photo_url, lat, lon, created_at, is_offline, saved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name,
			description = excluded.description,
			photo_url = excluded.photo_url,
			lat = excluded.lat,
			lon = excluded.lon,
			created_at = excluded.created_at,
			is_offline = excluded.is_offline,
			saved_at = excluded.saved_at
	`
	args := append(storyArgs(s), time.Now().UTC().Format(time.RFC3339Nano))
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to add bookmark: %w", err)
	}
	return nil
}

// Remove deletes a bookmark by story id. Removing an absent bookmark is not
// an error.
func (r *BookmarkRepository) Remove(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM bookmarks WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to remove bookmark: %w", err)
	}
	return nil
}

// Exists reports whether a story id is bookmarked.
func (r *BookmarkRepository) Exists(ctx context.Context, id string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookmarks WHERE id = ?`, id).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check bookmark: %w", err)
	}
	return n > 0, nil
}

// GetAll lists bookmarked stories, most recently saved first.
func (r *BookmarkRepository) GetAll(ctx context.Context) ([]models.Story, error) {
	query := `SELECT ` + storyColumns + ` FROM bookmarks ORDER BY saved_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select bookmarks: %w", err)
	}
	defer rows.Close()
	return collectStories(rows)
}

// Clear removes every bookmark.
func (r *BookmarkRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM bookmarks`); err != nil {
		return fmt.Errorf("failed to clear bookmarks: %w", err)
	}
	return nil
}

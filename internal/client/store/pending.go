package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/dinostories/internal/client/models"
	"github.com/dmitrijs2005/dinostories/internal/dbx"
)

// PendingRepository is the queue of stories created while the server was
// unreachable. It is a separate table from the story cache so that "what to
// show" and "what still needs syncing" are each a single query, and so a
// cache refresh can never drop queued entries.
type PendingRepository struct {
	db dbx.DBTX
}

func NewPendingRepository(db dbx.DBTX) *PendingRepository {
	return &PendingRepository{db: db}
}

// Save enqueues a story for later submission.
func (r *PendingRepository) Save(ctx context.Context, s models.Story) error {
	query := `INSERT INTO pending_stories (id, name, description, photo_url, lat, lon, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name,
			description = excluded.description,
			photo_url = excluded.photo_url,
			lat = excluded.lat,
			lon = excluded.lon,
			created_at = excluded.created_at
	`
	args := storyArgs(s)
	// pending_stories has no is_offline column: membership implies it
	args = args[:len(args)-1]
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to save pending story: %w", err)
	}
	return nil
}

// GetAll lists queued stories in creation order. Every returned story carries
// Offline=true.
func (r *PendingRepository) GetAll(ctx context.Context) ([]models.Story, error) {
	query := `SELECT id, name, description, photo_url, lat, lon, created_at, 1 FROM pending_stories ORDER BY created_at ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select pending stories: %w", err)
	}
	defer rows.Close()
	return collectStories(rows)
}

// GetByID returns a queued story or ErrNotFound.
func (r *PendingRepository) GetByID(ctx context.Context, id string) (*models.Story, error) {
	query := `SELECT id, name, description, photo_url, lat, lon, created_at, 1 FROM pending_stories WHERE id = ?`
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

// Remove dequeues a story once it has been accepted by the server.
func (r *PendingRepository) Remove(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pending_stories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to remove pending story: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra == 0 {
		return ErrNotFound
	}
	return nil
}

// Clear empties the queue.
func (r *PendingRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM pending_stories`); err != nil {
		return fmt.Errorf("failed to clear pending stories: %w", err)
	}
	return nil
}

// Package storage implements the sqlite persistence layer of the
// development story API server.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/dinostories/internal/server/storage/migrations"
)

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateEmail is returned when registering an already taken email.
	ErrDuplicateEmail = errors.New("email already registered")
)

// User is a registered account on the server.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash []byte
	CreatedAt    time.Time
}

// Story is a story record as stored by the server.
type Story struct {
	ID          string
	UserID      string
	Name        string
	Description string
	PhotoURL    string
	Lat         *float64
	Lon         *float64
	CreatedAt   time.Time
}

// Storage wraps the server database.
type Storage struct {
	db *sql.DB
}

// New opens the server database and applies pending migrations.
func New(dsn string) (*Storage, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// modernc sqlite allows a single writer.
	db.SetMaxOpenConns(1)

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return &Storage{db: db}, nil
}

func runMigrations(db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.Up(db, ".")
}

// Close releases the underlying database handle.
func (s *Storage) Close() error {
	return s.db.Close()
}

// CreateUser inserts a new account. The email must be unique.
func (s *Storage) CreateUser(ctx context.Context, u User) error {
	query := `INSERT INTO users (id, name, email, password_hash, created_at)
		VALUES (?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		u.ID, u.Name, strings.ToLower(u.Email), u.PasswordHash,
		u.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

// UserByEmail returns the account registered under email.
func (s *Storage) UserByEmail(ctx context.Context, email string) (User, error) {
	query := `SELECT id, name, email, password_hash, created_at FROM users WHERE email = ?`
	row := s.db.QueryRowContext(ctx, query, strings.ToLower(email))

	var u User
	var created string
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, err
	}
	u.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
	return u, nil
}

// UserByID returns the account with the given id.
func (s *Storage) UserByID(ctx context.Context, id string) (User, error) {
	query := `SELECT id, name, email, password_hash, created_at FROM users WHERE id = ?`
	row := s.db.QueryRowContext(ctx, query, id)

	var u User
	var created string
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, err
	}
	u.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
	return u, nil
}

// CreateStory inserts a new story record.
func (s *Storage) CreateStory(ctx context.Context, story Story) error {
	query := `INSERT INTO stories (id, user_id, name, description, photo_url, lat, lon, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		story.ID, story.UserID, story.Name, story.Description, story.PhotoURL,
		nullFloat(story.Lat), nullFloat(story.Lon),
		story.CreatedAt.UTC().Format(time.RFC3339Nano))
	return err
}

// Stories returns all stories, newest first.
func (s *Storage) Stories(ctx context.Context) ([]Story, error) {
	query := `SELECT id, user_id, name, description, photo_url, lat, lon, created_at
		FROM stories ORDER BY created_at DESC`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Story
	for rows.Next() {
		story, err := scanStory(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, story)
	}
	return result, rows.Err()
}

// StoryByID returns a single story.
func (s *Storage) StoryByID(ctx context.Context, id string) (Story, error) {
	query := `SELECT id, user_id, name, description, photo_url, lat, lon, created_at
		FROM stories WHERE id = ?`
	row := s.db.QueryRowContext(ctx, query, id)

	story, err := scanStory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Story{}, ErrNotFound
	}
	if err != nil {
		return Story{}, err
	}
	return story, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStory(row rowScanner) (Story, error) {
	var story Story
	var lat, lon sql.NullFloat64
	var created string

	err := row.Scan(&story.ID, &story.UserID, &story.Name, &story.Description,
		&story.PhotoURL, &lat, &lon, &created)
	if err != nil {
		return Story{}, err
	}

	if lat.Valid {
		story.Lat = &lat.Float64
	}
	if lon.Valid {
		story.Lon = &lon.Float64
	}
	story.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
	return story, nil
}

func nullFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

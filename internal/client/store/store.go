// Package store implements the local persistent store: an embedded sqlite
// database holding the story cache, bookmarks, the offline pending queue,
// offline accounts and generic preferences.
//
// The store is process-wide shared state. Init is idempotent and safe to call
// concurrently from independent components; every other method returns
// ErrStorageUnavailable until Init has succeeded, so callers can degrade
// instead of crashing when persistent storage is denied.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sync"

	"github.com/dmitrijs2005/dinostories/internal/client/models"
	"github.com/dmitrijs2005/dinostories/internal/client/store/migrations"
	"github.com/dmitrijs2005/dinostories/internal/dbx"
	"github.com/pressly/goose/v3"
	"golang.org/x/crypto/bcrypt"
)

// Store is the facade over the five collections.
type Store struct {
	dsn string

	once    sync.Once
	db      *sql.DB
	initErr error
}

// New returns an unopened store for the given sqlite DSN. Call Init before
// use.
func New(dsn string) *Store {
	return &Store{dsn: dsn}
}

// RunMigrations applies the embedded goose migrations to db.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		log.Fatal("failed to set goose dialect:", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// Init opens the database and establishes the schema. Calling it again (from
// any goroutine) is a no-op that returns the first outcome. A failed Init
// reports ErrStorageUnavailable with the cause attached.
func (s *Store) Init(ctx context.Context) error {
	s.once.Do(func() {
		db, err := sql.Open("sqlite", s.dsn)
		if err != nil {
			s.initErr = fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
			return
		}
		// modernc sqlite serializes writes; a single connection avoids
		// table-lock errors from interleaved transactions.
		db.SetMaxOpenConns(1)

		if err := RunMigrations(ctx, db); err != nil {
			_ = db.Close()
			s.initErr = fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
			return
		}
		s.db = db
	})
	return s.initErr
}

// Close releases the underlying database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// ready guards every data method behind a successful Init.
func (s *Store) ready() error {
	if s.db == nil {
		if s.initErr != nil {
			return s.initErr
		}
		return ErrStorageUnavailable
	}
	return nil
}

// CacheStories upserts a batch of stories into the cache, last write wins per
// id. The cache is additive: records absent from the batch are kept, so a
// refresh can never lose entries.
func (s *Store) CacheStories(ctx context.Context, list []models.Story) error {
	if err := s.ready(); err != nil {
		return err
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := NewStoryRepository(tx)
		for _, story := range list {
			if err := repo.Upsert(ctx, story.Normalize()); err != nil {
				return err
			}
		}
		return nil
	})
}

// Stories lists all cached stories.
func (s *Store) Stories(ctx context.Context) ([]models.Story, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return NewStoryRepository(s.db).GetAll(ctx)
}

// StoryByID looks a story up in the cache first and falls back to the pending
// queue, so locally created stories are visible through the same call.
// Returns ErrNotFound when neither collection has the id.
func (s *Store) StoryByID(ctx context.Context, id string) (*models.Story, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	story, err := NewStoryRepository(s.db).GetByID(ctx, id)
	if err == nil {
		return story, nil
	}
	if err != ErrNotFound {
		return nil, err
	}
	return NewPendingRepository(s.db).GetByID(ctx, id)
}

// AddBookmark saves a full story snapshot under the story id.
func (s *Store) AddBookmark(ctx context.Context, story models.Story) error {
	if err := s.ready(); err != nil {
		return err
	}
	return NewBookmarkRepository(s.db).Add(ctx, story.Normalize())
}

// RemoveBookmark deletes a bookmark by story id.
func (s *Store) RemoveBookmark(ctx context.Context, id string) error {
	if err := s.ready(); err != nil {
		return err
	}
	return NewBookmarkRepository(s.db).Remove(ctx, id)
}

// IsBookmarked reports whether the story id has a bookmark.
func (s *Store) IsBookmarked(ctx context.Context, id string) (bool, error) {
	if err := s.ready(); err != nil {
		return false, err
	}
	return NewBookmarkRepository(s.db).Exists(ctx, id)
}

// Bookmarks lists bookmarked stories.
func (s *Store) Bookmarks(ctx context.Context) ([]models.Story, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return NewBookmarkRepository(s.db).GetAll(ctx)
}

// SavePendingStory enqueues a locally created story for later submission.
func (s *Store) SavePendingStory(ctx context.Context, story models.Story) error {
	if err := s.ready(); err != nil {
		return err
	}
	return NewPendingRepository(s.db).Save(ctx, story.Normalize())
}

// PendingStories lists the offline queue; every entry carries Offline=true.
func (s *Store) PendingStories(ctx context.Context) ([]models.Story, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return NewPendingRepository(s.db).GetAll(ctx)
}

// RemovePendingStory dequeues a story after a successful sync.
func (s *Store) RemovePendingStory(ctx context.Context, id string) error {
	if err := s.ready(); err != nil {
		return err
	}
	return NewPendingRepository(s.db).Remove(ctx, id)
}

// RegisterAccount stores an offline credential record with a bcrypt-hashed
// password. Returns ErrDuplicateAccount when the email is taken.
func (s *Store) RegisterAccount(ctx context.Context, name, email, password string) (*models.Account, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	a := models.Account{
		UserID:       "offline-" + normalizeEmail(email),
		Name:         name,
		Email:        normalizeEmail(email),
		PasswordHash: hash,
	}
	if err := NewAccountRepository(s.db).Insert(ctx, a); err != nil {
		return nil, err
	}
	return &a, nil
}

// Authenticate verifies an email/password pair against the offline accounts.
// bcrypt comparison keeps the check timing-independent of where the mismatch
// occurs. Returns ErrInvalidCredentials on any mismatch.
func (s *Store) Authenticate(ctx context.Context, email, password string) (*models.Account, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	a, err := NewAccountRepository(s.db).GetByEmail(ctx, email)
	if err == ErrNotFound {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword(a.PasswordHash, []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return a, nil
}

// SetPreference stores an arbitrary value under key.
func (s *Store) SetPreference(ctx context.Context, key string, value []byte) error {
	if err := s.ready(); err != nil {
		return err
	}
	return NewPreferenceRepository(s.db).Set(ctx, key, value)
}

// Preference returns the value for key, or nil when unset.
func (s *Store) Preference(ctx context.Context, key string) ([]byte, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return NewPreferenceRepository(s.db).Get(ctx, key)
}

// DeletePreference removes a single key.
func (s *Store) DeletePreference(ctx context.Context, key string) error {
	if err := s.ready(); err != nil {
		return err
	}
	return NewPreferenceRepository(s.db).Delete(ctx, key)
}

// ClearAll wipes every collection in one transaction. Used on logout: there
// is exactly one offline identity slot, so logging out removes the cache,
// bookmarks, the pending queue, offline accounts and preferences together.
func (s *Store) ClearAll(ctx context.Context) error {
	if err := s.ready(); err != nil {
		return err
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := NewBookmarkRepository(tx).Clear(ctx); err != nil {
			return err
		}
		if err := NewPendingRepository(tx).Clear(ctx); err != nil {
			return err
		}
		if err := NewStoryRepository(tx).Clear(ctx); err != nil {
			return err
		}
		if err := NewAccountRepository(tx).Clear(ctx); err != nil {
			return err
		}
		return NewPreferenceRepository(tx).Clear(ctx)
	})
}

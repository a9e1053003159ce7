// Package services contains the application services of the client: the
// story coordinator deciding between network and local paths, the auth
// session manager, and the pending-queue sync worker.
package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/dinostories/internal/client/api"
	"github.com/dmitrijs2005/dinostories/internal/client/models"
	"github.com/dmitrijs2005/dinostories/internal/client/store"
	"github.com/dmitrijs2005/dinostories/internal/logging"
	"github.com/google/uuid"
)

// CreateStoryInput is a form-like payload for story creation.
type CreateStoryInput struct {
	Description string
	Lat         *float64
	Lon         *float64
	PhotoName   string
	Photo       []byte
}

// ListResult carries a story listing plus where it came from. FromCache lets
// the presentation layer show an offline banner without the service guessing
// at connectivity.
type ListResult struct {
	Stories   []models.StoryView
	FromCache bool
}

// GetResult carries a single story lookup.
type GetResult struct {
	Story     models.StoryView
	FromCache bool
}

// CreateResult reports how a story creation ended. SavedOffline=true is a
// success from the user's point of view, never an error.
type CreateResult struct {
	Story        models.Story
	SavedOffline bool
}

// StoryService is the offline coordinator for story operations: each call
// attempts the network first and falls back to the local store, keeping the
// cache consistent with whichever path succeeds.
type StoryService interface {
	List(ctx context.Context) (*ListResult, error)
	Get(ctx context.Context, id string) (*GetResult, error)
	Create(ctx context.Context, in CreateStoryInput) (*CreateResult, error)
	ToggleBookmark(ctx context.Context, story models.Story) (bool, error)
	Bookmarks(ctx context.Context) ([]models.Story, error)
	PendingStories(ctx context.Context) ([]models.Story, error)
}

type storyService struct {
	client api.Client
	store  *store.Store
	log    logging.Logger
}

// NewStoryService constructs the coordinator bound to the given gateway and
// local store.
func NewStoryService(client api.Client, st *store.Store, log logging.Logger) StoryService {
	return &storyService{client: client, store: st, log: log}
}

// List fetches stories from the server and writes them through into the
// cache. On any network-level failure it serves the cache instead; an empty
// cache ends with ErrNoCachedData.
func (s *storyService) List(ctx context.Context) (*ListResult, error) {
	stories, err := s.client.Stories(ctx)
	if err == nil {
		if cacheErr := s.store.CacheStories(ctx, stories); cacheErr != nil {
			// serving the fresh result matters more than the cache write
			s.log.Warn(ctx, "failed to write stories through to cache", "error", cacheErr)
		}
		views, joinErr := s.joinBookmarks(ctx, stories)
		if joinErr != nil {
			return nil, joinErr
		}
		return &ListResult{Stories: views}, nil
	}

	s.log.Info(ctx, "stories request failed, falling back to cache", "error", err)

	cached, localErr := s.store.Stories(ctx)
	if localErr != nil {
		return nil, fmt.Errorf("listing stories: %w", localErr)
	}
	if len(cached) == 0 {
		return nil, fmt.Errorf("listing stories: %w: %w", ErrNoCachedData, err)
	}
	views, joinErr := s.joinBookmarks(ctx, cached)
	if joinErr != nil {
		return nil, joinErr
	}
	return &ListResult{Stories: views, FromCache: true}, nil
}

// Get fetches one story, write-through caching it on success. The local
// fallback searches the cache and the pending queue in one call.
func (s *storyService) Get(ctx context.Context, id string) (*GetResult, error) {
	remote, err := s.client.Story(ctx, id)
	if err == nil {
		if cacheErr := s.store.CacheStories(ctx, []models.Story{*remote}); cacheErr != nil {
			s.log.Warn(ctx, "failed to cache story", "id", id, "error", cacheErr)
		}
		view, joinErr := s.joinBookmark(ctx, *remote)
		if joinErr != nil {
			return nil, joinErr
		}
		return &GetResult{Story: view}, nil
	}

	s.log.Info(ctx, "story request failed, falling back to cache", "id", id, "error", err)

	local, localErr := s.store.StoryByID(ctx, id)
	if localErr != nil {
		return nil, fmt.Errorf("getting story %s: %w", id, localErr)
	}
	view, joinErr := s.joinBookmark(ctx, *local)
	if joinErr != nil {
		return nil, joinErr
	}
	return &GetResult{Story: view, FromCache: true}, nil
}

// Create submits a story to the server. When the request fails for any
// reason, the story is queued locally with a generated id and the call still
// succeeds with SavedOffline=true; only a failing local write surfaces an
// error (ErrLocalPersistence).
func (s *storyService) Create(ctx context.Context, in CreateStoryInput) (*CreateResult, error) {
	created, err := s.client.CreateStory(ctx, api.CreateStoryRequest{
		Description: in.Description,
		Lat:         in.Lat,
		Lon:         in.Lon,
		PhotoName:   in.PhotoName,
		Photo:       in.Photo,
	})
	if err == nil {
		return &CreateResult{Story: *created}, nil
	}

	s.log.Info(ctx, "create story failed, saving offline", "error", err)

	pending := models.Story{
		ID:          newLocalID(),
		Description: in.Description,
		Lat:         in.Lat,
		Lon:         in.Lon,
		PhotoURL:    encodePhotoDataURL(in.Photo),
		CreatedAt:   time.Now().UTC(),
		Offline:     true,
	}.Normalize()

	if saveErr := s.store.SavePendingStory(ctx, pending); saveErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrLocalPersistence, saveErr)
	}
	return &CreateResult{Story: pending, SavedOffline: true}, nil
}

// ToggleBookmark flips the bookmark state of a story and returns the new
// state.
func (s *storyService) ToggleBookmark(ctx context.Context, story models.Story) (bool, error) {
	bookmarked, err := s.store.IsBookmarked(ctx, story.ID)
	if err != nil {
		return false, err
	}
	if bookmarked {
		if err := s.store.RemoveBookmark(ctx, story.ID); err != nil {
			return false, err
		}
		return false, nil
	}
	if err := s.store.AddBookmark(ctx, story); err != nil {
		return false, err
	}
	return true, nil
}

func (s *storyService) Bookmarks(ctx context.Context) ([]models.Story, error) {
	return s.store.Bookmarks(ctx)
}

func (s *storyService) PendingStories(ctx context.Context) ([]models.Story, error) {
	return s.store.PendingStories(ctx)
}

// joinBookmarks derives the bookmarked flag by loading the bookmark ids once.
func (s *storyService) joinBookmarks(ctx context.Context, stories []models.Story) ([]models.StoryView, error) {
	bookmarks, err := s.store.Bookmarks(ctx)
	if err != nil {
		// degraded storage must not break listing
		s.log.Warn(ctx, "bookmarks unavailable", "error", err)
		bookmarks = nil
	}
	ids := make(map[string]struct{}, len(bookmarks))
	for _, b := range bookmarks {
		ids[b.ID] = struct{}{}
	}

	views := make([]models.StoryView, 0, len(stories))
	for _, st := range stories {
		_, ok := ids[st.ID]
		views = append(views, models.StoryView{Story: st, Bookmarked: ok})
	}
	return views, nil
}

func (s *storyService) joinBookmark(ctx context.Context, st models.Story) (models.StoryView, error) {
	bookmarked, err := s.store.IsBookmarked(ctx, st.ID)
	if err != nil {
		s.log.Warn(ctx, "bookmark check unavailable", "id", st.ID, "error", err)
		bookmarked = false
	}
	return models.StoryView{Story: st, Bookmarked: bookmarked}, nil
}

// newLocalID generates a collision-resistant id for offline records. There is
// no central sequence authority locally, so concurrent creates must not race.
func newLocalID() string {
	return "offline-" + uuid.NewString()
}

// encodePhotoDataURL inlines a captured photo so it survives in the pending
// queue without a file store.
func encodePhotoDataURL(photo []byte) string {
	if len(photo) == 0 {
		return ""
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(photo)
}

// decodePhotoDataURL restores the raw bytes from an inlined photo. Remote
// URLs and empty values yield nil.
func decodePhotoDataURL(url string) []byte {
	const marker = ";base64,"
	i := strings.Index(url, marker)
	if !strings.HasPrefix(url, "data:") || i < 0 {
		return nil
	}
	raw, err := base64.StdEncoding.DecodeString(url[i+len(marker):])
	if err != nil {
		return nil
	}
	return raw
}

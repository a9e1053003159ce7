package store

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/dinostories/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

var memCounter int

func setupStore(t *testing.T) *Store {
	t.Helper()
	memCounter++
	dsn := fmt.Sprintf("file:store_tests_%d?mode=memory&cache=shared", memCounter)
	s := New(dsn)
	require.NoError(t, s.Init(context.Background()))
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func f(v float64) *float64 { return &v }

func story(id, name string) models.Story {
	return models.Story{
		ID:          id,
		Name:        name,
		Description: "desc of " + id,
		CreatedAt:   time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestInit_Idempotent(t *testing.T) {
	s := setupStore(t)
	require.NoError(t, s.Init(context.Background()))
	require.NoError(t, s.Init(context.Background()))
}

func TestInit_ConcurrentCallers(t *testing.T) {
	memCounter++
	s := New(fmt.Sprintf("file:store_conc_%d?mode=memory&cache=shared", memCounter))
	t.Cleanup(func() { _ = s.Close() })

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = s.Init(context.Background())
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	// schema must exist exactly once and be usable
	require.NoError(t, s.CacheStories(context.Background(), []models.Story{story("1", "Rex")}))
}

func TestInit_FailureDegrades(t *testing.T) {
	s := New("file:/nonexistent-dir/sub/db.sqlite")
	err := s.Init(context.Background())
	require.ErrorIs(t, err, ErrStorageUnavailable)

	// every operation keeps reporting the same error instead of panicking
	_, err = s.Stories(context.Background())
	require.ErrorIs(t, err, ErrStorageUnavailable)
	require.ErrorIs(t, s.CacheStories(context.Background(), nil), ErrStorageUnavailable)
}

func TestCacheStories_AdditiveMerge(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.CacheStories(ctx, []models.Story{story("1", "Rex"), story("2", "Tricera")}))
	require.NoError(t, s.CacheStories(ctx, []models.Story{{
		ID: "2", Name: "Triceratops", Description: "updated",
		CreatedAt: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	}}))

	got, err := s.Stories(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2, "second batch must not delete absent ids")

	byID := map[string]models.Story{}
	for _, st := range got {
		byID[st.ID] = st
	}
	assert.Equal(t, "Rex", byID["1"].Name)
	assert.Equal(t, "Triceratops", byID["2"].Name, "last write wins per id")
	assert.Equal(t, "updated", byID["2"].Description)
}

func TestCacheStories_NormalizesOnWrite(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.CacheStories(ctx, []models.Story{
		{ID: "1", Description: "no name", Lat: f(95), Lon: f(10)},
	}))

	got, err := s.StoryByID(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, models.PlaceholderName, got.Name)
	assert.Nil(t, got.Lat, "out-of-range location dropped at the boundary")
	assert.False(t, got.CreatedAt.IsZero())
}

func TestStoryByID_NotFound(t *testing.T) {
	s := setupStore(t)
	_, err := s.StoryByID(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStoryByID_FallsBackToPendingQueue(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	pending := story("local-1", "Offline find")
	pending.Offline = true
	require.NoError(t, s.SavePendingStory(ctx, pending))

	got, err := s.StoryByID(ctx, "local-1")
	require.NoError(t, err)
	assert.True(t, got.Offline)
	assert.Equal(t, "Offline find", got.Name)
}

func TestBookmarks_AddRemoveExists(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	st := story("1", "Rex")
	require.NoError(t, s.AddBookmark(ctx, st))

	ok, err := s.IsBookmarked(ctx, "1")
	require.NoError(t, err)
	assert.True(t, ok)

	list, err := s.Bookmarks(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Rex", list[0].Name)

	require.NoError(t, s.RemoveBookmark(ctx, "1"))
	ok, err = s.IsBookmarked(ctx, "1")
	require.NoError(t, err)
	assert.False(t, ok)

	// removing again is not an error
	require.NoError(t, s.RemoveBookmark(ctx, "1"))
}

func TestPendingQueue_Lifecycle(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	st := story("local-1", "Offline")
	require.NoError(t, s.SavePendingStory(ctx, st))

	list, err := s.PendingStories(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Offline, "queue membership implies offline flag")

	require.NoError(t, s.RemovePendingStory(ctx, "local-1"))

	list, err = s.PendingStories(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	require.ErrorIs(t, s.RemovePendingStory(ctx, "local-1"), ErrNotFound)
}

func TestPendingQueue_IsolatedFromCache(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.SavePendingStory(ctx, story("local-1", "Offline")))

	cached, err := s.Stories(ctx)
	require.NoError(t, err)
	assert.Empty(t, cached, "pending stories must not leak into the cache")
}

func TestRegisterAccount_DuplicateEmail(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	_, err := s.RegisterAccount(ctx, "Alice", "a@b.com", "secret1")
	require.NoError(t, err)

	_, err = s.RegisterAccount(ctx, "Alice again", "a@b.com", "other")
	require.ErrorIs(t, err, ErrDuplicateAccount)

	// case-insensitive email key
	_, err = s.RegisterAccount(ctx, "Alice caps", "A@B.COM", "other")
	require.ErrorIs(t, err, ErrDuplicateAccount)

	_, err = s.RegisterAccount(ctx, "Bob", "b@c.com", "secret2")
	require.NoError(t, err)
}

func TestAuthenticate(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	_, err := s.RegisterAccount(ctx, "Alice", "a@b.com", "secret1")
	require.NoError(t, err)

	a, err := s.Authenticate(ctx, "a@b.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "Alice", a.Name)
	assert.NotContains(t, string(a.PasswordHash), "secret1", "password must not be stored in plain text")

	_, err = s.Authenticate(ctx, "a@b.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = s.Authenticate(ctx, "nobody@b.com", "secret1")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestPreferences_RoundTrip(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	got, err := s.Preference(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, s.SetPreference(ctx, "onlineUser", []byte(`{"name":"Alice"}`)))
	got, err = s.Preference(ctx, "onlineUser")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"name":"Alice"}`), got)

	require.NoError(t, s.DeletePreference(ctx, "onlineUser"))
	got, err = s.Preference(ctx, "onlineUser")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestClearAll_WipesEveryCollection(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	require.NoError(t, s.CacheStories(ctx, []models.Story{story("1", "Rex")}))
	require.NoError(t, s.AddBookmark(ctx, story("1", "Rex")))
	require.NoError(t, s.SavePendingStory(ctx, story("local-1", "Offline")))
	_, err := s.RegisterAccount(ctx, "Alice", "a@b.com", "secret1")
	require.NoError(t, err)
	require.NoError(t, s.SetPreference(ctx, "k", []byte("v")))

	require.NoError(t, s.ClearAll(ctx))

	stories, err := s.Stories(ctx)
	require.NoError(t, err)
	assert.Empty(t, stories)

	bookmarks, err := s.Bookmarks(ctx)
	require.NoError(t, err)
	assert.Empty(t, bookmarks)

	pending, err := s.PendingStories(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	_, err = s.Authenticate(ctx, "a@b.com", "secret1")
	require.ErrorIs(t, err, ErrInvalidCredentials, "no offline account survives logout")

	v, err := s.Preference(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, v)
}

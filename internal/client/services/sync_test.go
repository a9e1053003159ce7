package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/dinostories/internal/client/api"
	"github.com/dmitrijs2005/dinostories/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func queued(id string) models.Story {
	return models.Story{ID: id, Description: "queued " + id, CreatedAt: time.Now().UTC(), Offline: true}
}

func TestSyncPending_DrainsQueue(t *testing.T) {
	st := setupStore(t)
	ctx := context.Background()
	require.NoError(t, st.SavePendingStory(ctx, queued("local-1")))
	require.NoError(t, st.SavePendingStory(ctx, queued("local-2")))

	created := models.Story{ID: "srv-1", Description: "ok", CreatedAt: time.Now().UTC()}
	fc := &fakeClient{CreateRet: &created}

	syncer := NewSyncer(fc, st, testLogger())
	syncer.baseDelay = time.Millisecond

	n, err := syncer.SyncPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, fc.CreateCalls)

	pending, err := st.PendingStories(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending, "synced stories leave the queue")
}

func TestSyncPending_StopsWhenStillOffline(t *testing.T) {
	st := setupStore(t)
	ctx := context.Background()
	require.NoError(t, st.SavePendingStory(ctx, queued("local-1")))
	require.NoError(t, st.SavePendingStory(ctx, queued("local-2")))

	fc := &fakeClient{CreateErr: unavailable()}
	syncer := NewSyncer(fc, st, testLogger())
	syncer.maxRetries = 1
	syncer.baseDelay = time.Millisecond

	n, err := syncer.SyncPending(ctx)
	require.Error(t, err)
	assert.True(t, api.IsUnavailable(err))
	assert.Zero(t, n)

	pending, err := st.PendingStories(ctx)
	require.NoError(t, err)
	assert.Len(t, pending, 2, "queue is untouched while offline")
}

func TestSyncPending_RejectedEntryStaysQueued(t *testing.T) {
	st := setupStore(t)
	ctx := context.Background()
	require.NoError(t, st.SavePendingStory(ctx, queued("local-1")))

	fc := &fakeClient{CreateErr: &api.StatusError{Code: 400, Message: "description too short"}}
	syncer := NewSyncer(fc, st, testLogger())
	syncer.baseDelay = time.Millisecond

	n, err := syncer.SyncPending(ctx)
	require.NoError(t, err, "a rejection is logged, not fatal to the pass")
	assert.Zero(t, n)

	pending, err := st.PendingStories(ctx)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestSyncPending_SubmitsInlinedPhoto(t *testing.T) {
	st := setupStore(t)
	ctx := context.Background()

	s := queued("local-1")
	s.PhotoURL = encodePhotoDataURL([]byte{0xff, 0xd8})
	require.NoError(t, st.SavePendingStory(ctx, s))

	created := models.Story{ID: "srv-1", Description: "ok", CreatedAt: time.Now().UTC()}
	fc := &fakeClient{CreateRet: &created}
	syncer := NewSyncer(fc, st, testLogger())

	_, err := syncer.SyncPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xff, 0xd8}, fc.LastCreate.Photo, "photo bytes restored from the data URL")
}

package services

import (
	"context"
	"time"

	"github.com/dmitrijs2005/dinostories/internal/client/api"
	"github.com/dmitrijs2005/dinostories/internal/client/models"
	"github.com/dmitrijs2005/dinostories/internal/client/store"
	"github.com/dmitrijs2005/dinostories/internal/logging"
	"github.com/sethvargo/go-retry"
)

// Syncer drains the pending-story queue: each queued story is submitted to
// the server and removed from the queue once accepted. Transport hiccups are
// retried with exponential backoff; a server rejection leaves the entry
// queued and moves on, so one bad record cannot block the rest.
type Syncer struct {
	client api.Client
	store  *store.Store
	log    logging.Logger

	maxRetries uint64
	baseDelay  time.Duration
}

// NewSyncer constructs a Syncer with a bounded retry budget per story.
func NewSyncer(client api.Client, st *store.Store, log logging.Logger) *Syncer {
	return &Syncer{client: client, store: st, log: log, maxRetries: 3, baseDelay: 500 * time.Millisecond}
}

// SyncPending submits every queued story and returns how many synced.
func (s *Syncer) SyncPending(ctx context.Context) (int, error) {
	pending, err := s.store.PendingStories(ctx)
	if err != nil {
		return 0, err
	}

	synced := 0
	for _, story := range pending {
		if err := s.submit(ctx, story); err != nil {
			s.log.Warn(ctx, "pending story not synced", "id", story.ID, "error", err)
			if api.IsUnavailable(err) {
				// still offline, no point trying the rest now
				return synced, err
			}
			continue
		}
		if err := s.store.RemovePendingStory(ctx, story.ID); err != nil {
			return synced, err
		}
		synced++
		s.log.Info(ctx, "pending story synced", "id", story.ID)
	}
	return synced, nil
}

// submit pushes one story, retrying transport failures with backoff.
func (s *Syncer) submit(ctx context.Context, story models.Story) error {
	backoff := retry.WithMaxRetries(s.maxRetries, retry.NewExponential(s.baseDelay))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		_, err := s.client.CreateStory(ctx, api.CreateStoryRequest{
			Description: story.Description,
			Lat:         story.Lat,
			Lon:         story.Lon,
			Photo:       decodePhotoDataURL(story.PhotoURL),
		})
		if api.IsUnavailable(err) {
			return retry.RetryableError(err)
		}
		return err
	})
}

// Run drains the queue on every tick until the context is done. Intended to
// be started as a goroutine next to the online-status watcher.
func (s *Syncer) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n, err := s.SyncPending(ctx); err == nil && n > 0 {
				s.log.Info(ctx, "sync pass finished", "synced", n)
			}
		case <-ctx.Done():
			return
		}
	}
}

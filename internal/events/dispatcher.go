// Package events wires content mutations to cache invalidation and the
// asynchronous notification pipeline.
package events

import (
	"context"
	"log/slog"
	"time"

	"gazette/internal/cache"
	"gazette/internal/models"
	"gazette/internal/queue"
)

// Invalidator drops cached renderings of mutated content.
type Invalidator interface {
	InvalidatePost(ctx context.Context, postID uint) error
}

// CacheInvalidator adapts the shared Redis cache to the Invalidator hook.
type CacheInvalidator struct{}

func (CacheInvalidator) InvalidatePost(ctx context.Context, postID uint) error {
	return cache.InvalidatePost(ctx, postID)
}

// Dispatcher receives content-mutation events synchronously at the point of
// mutation. It is constructed with its collaborators rather than discovering
// them through any global registry.
//
// Neither hook ever returns an error: a notification or cache failure must
// not be allowed to fail the content write that triggered it.
type Dispatcher struct {
	queue          queue.Queue
	invalidator    Invalidator
	enqueueTimeout time.Duration
	logger         *slog.Logger
}

// NewDispatcher creates a dispatcher. enqueueTimeout bounds how long a
// content mutation may wait on the queue's submit call. A nil invalidator
// falls back to the shared cache.
func NewDispatcher(q queue.Queue, inv Invalidator, enqueueTimeout time.Duration, logger *slog.Logger) *Dispatcher {
	if inv == nil {
		inv = CacheInvalidator{}
	}
	if enqueueTimeout <= 0 {
		enqueueTimeout = 2 * time.Second
	}
	return &Dispatcher{
		queue:          q,
		invalidator:    inv,
		enqueueTimeout: enqueueTimeout,
		logger:         logger,
	}
}

// PostCreated invalidates the post's cached rendering and schedules the
// subscriber fan-out. If the queue is unavailable within the enqueue budget
// the notification is logged and dropped; losing a notification is
// acceptable, serving a stale cache entry is not.
func (d *Dispatcher) PostCreated(ctx context.Context, post *models.Post) {
	if err := d.invalidator.InvalidatePost(ctx, post.ID); err != nil {
		d.logger.WarnContext(ctx, "cache invalidation failed after post create",
			slog.Uint64("post_id", uint64(post.ID)),
			slog.String("error", err.Error()),
		)
	}

	enqCtx, cancel := context.WithTimeout(ctx, d.enqueueTimeout)
	defer cancel()

	job := queue.Job{Type: queue.TypeNotifyNewPost, PostID: post.ID}
	jobID, err := d.queue.Enqueue(enqCtx, job)
	if err != nil {
		d.logger.ErrorContext(ctx, "dropping new-post notification: queue unavailable",
			slog.Uint64("post_id", uint64(post.ID)),
			slog.String("error", err.Error()),
		)
		return
	}
	d.logger.InfoContext(ctx, "new-post notification enqueued",
		slog.Uint64("post_id", uint64(post.ID)),
		slog.String("job_id", jobID),
	)
}

// PostDeleted invalidates the post's cached rendering. Deletions never
// notify anyone.
func (d *Dispatcher) PostDeleted(ctx context.Context, post *models.Post) {
	if err := d.invalidator.InvalidatePost(ctx, post.ID); err != nil {
		d.logger.WarnContext(ctx, "cache invalidation failed after post delete",
			slog.Uint64("post_id", uint64(post.ID)),
			slog.String("error", err.Error()),
		)
	}
}

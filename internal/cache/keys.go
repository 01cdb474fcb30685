package cache

import (
	"context"
	"fmt"
	"time"

	"gazette/internal/observability"
)

const (
	PostKeyPrefix     = "post:%d"
	CategoryKeyPrefix = "category:%d"
)

const (
	PostTTL     = 30 * time.Minute
	CategoryTTL = 10 * time.Minute
)

// PostKey is the cache key for a single post's rendered representation.
func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

// CategoryKey is the cache key for a category listing.
func CategoryKey(categoryID uint) string {
	return fmt.Sprintf(CategoryKeyPrefix, categoryID)
}

// Invalidate deletes a key. Invalidation is best-effort but, unlike
// notification delivery, staleness is not acceptable: a failed delete is
// retried once before giving up.
func Invalidate(ctx context.Context, key string) error {
	if client == nil {
		return nil
	}
	err := client.Del(ctx, key).Err()
	if err != nil {
		err = client.Del(ctx, key).Err()
	}
	if err != nil {
		observability.CacheInvalidations.WithLabelValues("failed").Inc()
		return err
	}
	observability.CacheInvalidations.WithLabelValues("ok").Inc()
	return nil
}

// InvalidatePost drops the cached rendering for a post.
func InvalidatePost(ctx context.Context, postID uint) error {
	return Invalidate(ctx, PostKey(postID))
}

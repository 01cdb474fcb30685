package notify

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"gazette/internal/mailer"
	"gazette/internal/models"
	"gazette/internal/observability"
	"gazette/internal/repository"
)

// Summary reports what one digest run did. Operators see this; end users
// only ever see the mails themselves.
type Summary struct {
	PostsConsidered     int `json:"posts_considered"`
	SubscribersNotified int `json:"subscribers_notified"`
	SubscribersSkipped  int `json:"subscribers_skipped"`
	DeliveryFailures    int `json:"delivery_failures"`
}

// Digest is the periodic batch job that mails every subscriber a
// personalized roundup of the window's posts. It reads the content store and
// subscription registry directly; it does not go through the event
// dispatcher or the job queue.
type Digest struct {
	posts      repository.PostRepository
	categories repository.CategoryRepository
	mailer     mailer.Mailer
	period     time.Duration
	siteURL    string
	logger     *slog.Logger
}

// NewDigest creates a digest job covering the trailing period (one week by
// default).
func NewDigest(
	posts repository.PostRepository,
	categories repository.CategoryRepository,
	m mailer.Mailer,
	period time.Duration,
	siteURL string,
	logger *slog.Logger,
) *Digest {
	if period <= 0 {
		period = 7 * 24 * time.Hour
	}
	return &Digest{
		posts:      posts,
		categories: categories,
		mailer:     m,
		period:     period,
		siteURL:    siteURL,
		logger:     logger,
	}
}

// Run builds and sends one digest per subscriber for posts created in
// [now-period, now). It iterates distinct subscribers, not posts, so a
// subscriber of many categories is still handled exactly once. The run is
// interruptible between subscribers: recipients already mailed are not
// re-sent by this invocation.
func (d *Digest) Run(ctx context.Context, now time.Time) (Summary, error) {
	var summary Summary

	start := now.Add(-d.period)
	posts, err := d.posts.ListInWindow(ctx, start, now)
	if err != nil {
		return summary, models.NewUnavailableError("content store", err)
	}
	summary.PostsConsidered = len(posts)
	if len(posts) == 0 {
		d.logger.InfoContext(ctx, "digest: no posts in window, nothing to send")
		return summary, nil
	}

	// Index the window once: category -> posts, and the involved category set.
	postsByCategory := make(map[uint][]*models.Post)
	involved := make([]uint, 0)
	for _, p := range posts {
		for _, c := range p.Categories {
			if _, seen := postsByCategory[c.ID]; !seen {
				involved = append(involved, c.ID)
			}
			postsByCategory[c.ID] = append(postsByCategory[c.ID], p)
		}
	}
	if len(involved) == 0 {
		d.logger.InfoContext(ctx, "digest: window posts have no categories, nothing to send")
		return summary, nil
	}

	subs, err := d.categories.SubscriptionsIn(ctx, involved)
	if err != nil {
		return summary, models.NewUnavailableError("content store", err)
	}
	categoriesByUser := make(map[uint][]uint)
	for _, s := range subs {
		categoriesByUser[s.UserID] = append(categoriesByUser[s.UserID], s.CategoryID)
	}

	recipients, err := d.categories.SubscribersOf(ctx, involved)
	if err != nil {
		return summary, models.NewUnavailableError("content store", err)
	}

	for _, rcpt := range recipients {
		// Partial progress on cancellation: stop between subscribers.
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		userPosts := dedupeSortedPosts(categoriesByUser[rcpt.UserID], postsByCategory)
		if len(userPosts) == 0 || !rcpt.HasContactAddress() {
			summary.SubscribersSkipped++
			observability.DigestRecipients.WithLabelValues("skipped").Inc()
			continue
		}

		subject, body, err := RenderDigest(d.siteURL, userPosts)
		if err != nil {
			// One subscriber's rendering failure must not abort the batch.
			summary.DeliveryFailures++
			observability.DigestRecipients.WithLabelValues("failed").Inc()
			d.logger.ErrorContext(ctx, "digest render failed for recipient",
				slog.Uint64("recipient", uint64(rcpt.UserID)),
				slog.String("error", err.Error()),
			)
			continue
		}

		if err := d.mailer.Send(ctx, rcpt.Email, subject, body); err != nil {
			summary.DeliveryFailures++
			observability.DigestRecipients.WithLabelValues("failed").Inc()
			d.logger.WarnContext(ctx, "digest send failed for recipient",
				slog.Uint64("recipient", uint64(rcpt.UserID)),
				slog.String("error", err.Error()),
			)
			continue
		}
		summary.SubscribersNotified++
		observability.DigestRecipients.WithLabelValues("notified").Inc()
	}

	d.logger.InfoContext(ctx, "digest run finished",
		slog.Int("posts_considered", summary.PostsConsidered),
		slog.Int("subscribers_notified", summary.SubscribersNotified),
		slog.Int("subscribers_skipped", summary.SubscribersSkipped),
		slog.Int("delivery_failures", summary.DeliveryFailures),
	)
	return summary, nil
}

// dedupeSortedPosts unions the posts of the user's categories, keeps each
// post once even when it sits in several subscribed categories, and orders
// the result newest first.
func dedupeSortedPosts(categoryIDs []uint, postsByCategory map[uint][]*models.Post) []*models.Post {
	seen := make(map[uint]struct{})
	var result []*models.Post
	for _, cid := range categoryIDs {
		for _, p := range postsByCategory[cid] {
			if _, dup := seen[p.ID]; dup {
				continue
			}
			seen[p.ID] = struct{}{}
			result = append(result, p)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}

package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gazette/internal/mailer"
	"gazette/internal/middleware"
	"gazette/internal/models"
	"gazette/internal/observability"
	"gazette/internal/queue"
	"gazette/internal/repository"
)

// SubscriberResolver resolves the deduplicated recipient set for a set of
// categories. Satisfied by service.SubscriptionService.
type SubscriberResolver interface {
	SubscribersOf(ctx context.Context, categoryIDs []uint) ([]repository.Recipient, error)
}

// outcome is the terminal state of one processing attempt.
type outcome int

const (
	outcomeDelivered outcome = iota
	outcomeRetry
	outcomeDead
)

// WorkerConfig tunes the fan-out worker.
type WorkerConfig struct {
	SiteURL     string
	MaxAttempts int
	JobTimeout  time.Duration
	BackoffBase time.Duration
}

func (c *WorkerConfig) applyDefaults() {
	if c.MaxAttempts < 1 {
		c.MaxAttempts = 5
	}
	if c.JobTimeout <= 0 {
		c.JobTimeout = 30 * time.Second
	}
	if c.BackoffBase <= 0 {
		c.BackoffBase = 5 * time.Second
	}
}

// Worker consumes notify-new-post jobs and fans the message out to the
// deduplicated subscriber set of the post's categories.
//
// Delivery is at-least-once: under retry the same recipient can see the same
// notification twice. That duplicate is accepted; there is no dedup ledger.
type Worker struct {
	queue  queue.Queue
	posts  repository.PostRepository
	subs   SubscriberResolver
	mailer mailer.Mailer
	cfg    WorkerConfig
	logger *slog.Logger
}

// NewWorker creates a fan-out worker.
func NewWorker(
	q queue.Queue,
	posts repository.PostRepository,
	subs SubscriberResolver,
	m mailer.Mailer,
	cfg WorkerConfig,
	logger *slog.Logger,
) *Worker {
	cfg.applyDefaults()
	return &Worker{
		queue:  q,
		posts:  posts,
		subs:   subs,
		mailer: m,
		cfg:    cfg,
		logger: logger,
	}
}

const dequeueWait = 5 * time.Second

// Run consumes jobs until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		job, err := w.queue.Dequeue(ctx, dequeueWait)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			w.logger.ErrorContext(ctx, "dequeue failed, backing off",
				slog.String("error", err.Error()))
			select {
			case <-time.After(w.cfg.BackoffBase):
			case <-ctx.Done():
				return ctx.Err()
			}
			continue
		}
		if job == nil {
			continue
		}
		w.Handle(ctx, job)
	}
}

// Handle runs one job through the state machine:
// Pending -> InFlight -> {Delivered, Retry -> Pending, Dead}.
func (w *Worker) Handle(ctx context.Context, job *queue.Job) {
	ctx = middleware.WithJobID(ctx, job.ID)
	jobCtx, cancel := context.WithTimeout(ctx, w.cfg.JobTimeout)
	defer cancel()

	result, reason := w.process(jobCtx, job)

	// A job that ran out of its execution budget counts as a transient
	// failure and is requeued with backoff.
	if jobCtx.Err() != nil && result != outcomeDelivered {
		result, reason = outcomeRetry, "job timed out"
	}

	switch result {
	case outcomeDelivered:
		observability.JobsProcessed.WithLabelValues("delivered").Inc()
		if err := w.queue.Ack(ctx, *job); err != nil {
			// The processing copy lingers and will be requeued on the next
			// worker start; redelivery of a delivered job is tolerated.
			w.logger.WarnContext(ctx, "failed to ack delivered job",
				slog.String("error", err.Error()))
		}
	case outcomeRetry:
		if job.Attempts+1 >= w.cfg.MaxAttempts {
			w.bury(ctx, job, fmt.Sprintf("retries exhausted: %s", reason))
			return
		}
		delay := w.cfg.BackoffBase << uint(job.Attempts)
		if err := w.queue.Retry(ctx, *job, delay); err != nil {
			w.logger.ErrorContext(ctx, "failed to requeue job",
				slog.String("error", err.Error()))
			w.bury(ctx, job, fmt.Sprintf("requeue failed after %s: %v", reason, err))
			return
		}
		observability.JobsProcessed.WithLabelValues("retried").Inc()
		w.logger.WarnContext(ctx, "job scheduled for retry",
			slog.String("reason", reason),
			slog.Int("attempts", job.Attempts+1),
			slog.Duration("delay", delay),
		)
	case outcomeDead:
		w.bury(ctx, job, reason)
	}
}

func (w *Worker) bury(ctx context.Context, job *queue.Job, reason string) {
	observability.JobsProcessed.WithLabelValues("dead").Inc()
	w.logger.ErrorContext(ctx, "job dead-lettered", slog.String("reason", reason))
	if err := w.queue.Bury(ctx, *job, reason); err != nil {
		// The processing copy survives for RequeueOrphans; the job is
		// delayed, not lost.
		w.logger.ErrorContext(ctx, "failed to bury job",
			slog.String("error", err.Error()))
	}
}

func (w *Worker) process(ctx context.Context, job *queue.Job) (outcome, string) {
	if job.Type != queue.TypeNotifyNewPost {
		return outcomeDead, fmt.Sprintf("unknown job type %q", job.Type)
	}

	post, err := w.posts.GetByID(ctx, job.PostID)
	if err != nil {
		// The post may have been deleted between enqueue and processing;
		// that is a no-op, not an error.
		if models.IsNotFound(err) {
			observability.JobsProcessed.WithLabelValues("noop").Inc()
			w.logger.InfoContext(ctx, "post gone before notification, skipping",
				slog.Uint64("post_id", uint64(job.PostID)))
			return outcomeDelivered, ""
		}
		return outcomeRetry, fmt.Sprintf("load post: %v", err)
	}

	// A post with no categories has no audience: zero sends, no error.
	if len(post.Categories) == 0 {
		return outcomeDelivered, ""
	}

	recipients, err := w.subs.SubscribersOf(ctx, post.CategoryIDs())
	if err != nil {
		return outcomeRetry, fmt.Sprintf("resolve subscribers: %v", err)
	}

	subject, body, err := RenderNewPost(w.cfg.SiteURL, post)
	if err != nil {
		// A broken template cannot succeed on retry.
		return outcomeDead, fmt.Sprintf("render: %v", err)
	}

	var sent, transient, permanent int
	for _, rcpt := range recipients {
		if !rcpt.HasContactAddress() {
			continue
		}
		if err := w.mailer.Send(ctx, rcpt.Email, subject, body); err != nil {
			if mailer.IsPermanent(err) {
				permanent++
				w.logger.WarnContext(ctx, "permanent send failure for recipient",
					slog.Uint64("recipient", uint64(rcpt.UserID)),
					slog.String("error", err.Error()),
				)
				continue
			}
			transient++
			w.logger.WarnContext(ctx, "transient send failure for recipient",
				slog.Uint64("recipient", uint64(rcpt.UserID)),
				slog.String("error", err.Error()),
			)
			continue
		}
		sent++
	}

	w.logger.InfoContext(ctx, "fan-out finished",
		slog.Uint64("post_id", uint64(post.ID)),
		slog.Int("sent", sent),
		slog.Int("transient_failures", transient),
		slog.Int("permanent_failures", permanent),
	)

	// Any transient failure retries the whole job; duplicates to already
	// reached recipients are tolerated under the at-least-once contract.
	if transient > 0 {
		return outcomeRetry, fmt.Sprintf("%d transient send failures", transient)
	}
	if permanent > 0 && sent == 0 {
		return outcomeDead, fmt.Sprintf("all %d sends failed permanently", permanent)
	}
	return outcomeDelivered, ""
}

// Package queue provides the durable job queue feeding the notification
// fan-out worker.
package queue

import (
	"context"
	"time"
)

// Type identifies what a job asks the worker to do.
type Type string

// TypeNotifyNewPost asks the fan-out worker to notify subscribers about a
// freshly published post.
const TypeNotifyNewPost Type = "notify_new_post"

// Job is the unit of asynchronous work. Delivery is at-least-once: a job
// stays parked in a processing list from Dequeue until Ack/Retry/Bury, so a
// consumer crash mid-job means redelivery, and consumers must be idempotent.
type Job struct {
	ID         string    `json:"id"`
	Type       Type      `json:"type"`
	PostID     uint      `json:"post_id"`
	EnqueuedAt time.Time `json:"enqueued_at"`
	Attempts   int       `json:"attempts"`
}

// DeadJob wraps a buried job with the reason it was given up on.
type DeadJob struct {
	Job    Job       `json:"job"`
	Reason string    `json:"reason"`
	DiedAt time.Time `json:"died_at"`
}

// Queue is the contract between producers (the event dispatcher) and
// consumers (the fan-out worker).
type Queue interface {
	// Enqueue submits the job and returns its id. Callers bound the wait
	// with a context deadline; an expired deadline means the queue was
	// unavailable within budget.
	Enqueue(ctx context.Context, job Job) (string, error)

	// Dequeue blocks up to timeout for the next ready job. A nil job with a
	// nil error means nothing became ready before the timeout.
	Dequeue(ctx context.Context, timeout time.Duration) (*Job, error)

	// Ack drops the in-flight copy of a delivered job. Every dequeued job
	// must end in exactly one of Ack, Retry or Bury; a job that ends in
	// none of them stays in the processing list and is requeued on the
	// next worker start.
	Ack(ctx context.Context, job Job) error

	// Retry reschedules the job after delay with its attempt count bumped,
	// dropping the in-flight copy.
	Retry(ctx context.Context, job Job, delay time.Duration) error

	// Bury moves the job to the dead-letter list for operator inspection,
	// dropping the in-flight copy.
	Bury(ctx context.Context, job Job, reason string) error

	// DeadJobs returns up to limit most recently buried jobs.
	DeadJobs(ctx context.Context, limit int) ([]DeadJob, error)
}

// Package mailer defines the outbound message channel and its SMTP
// implementation.
package mailer

import (
	"context"

	"gazette/internal/models"
)

// Mailer delivers one message to one recipient. A nil error means the
// channel accepted the message; it is not an end-to-end delivery receipt.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// IsTransient reports whether the send failure is worth retrying with backoff.
func IsTransient(err error) bool {
	return models.HasCode(err, models.CodeSendTransient)
}

// IsPermanent reports whether the send failure must not be retried.
func IsPermanent(err error) bool {
	return models.HasCode(err, models.CodeSendPermanent)
}

package mailer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/smtp"
	"net/textproto"
	"strings"

	"gazette/internal/config"
	"gazette/internal/models"
	"gazette/internal/observability"
)

// SMTPMailer sends mail through a plain SMTP relay. When the relay is not
// configured the mailer runs disabled: sends are logged and reported as
// delivered, which keeps development environments quiet.
type SMTPMailer struct {
	host     string
	port     string
	username string
	password string
	from     string
	enabled  bool
	logger   *slog.Logger
}

// NewSMTPMailer builds a mailer from configuration.
func NewSMTPMailer(cfg *config.Config, logger *slog.Logger) *SMTPMailer {
	enabled := cfg.SMTPHost != "" && cfg.SMTPPort != "" && cfg.MailFrom != ""
	if !enabled {
		logger.Warn("SMTP mailer disabled: missing SMTP configuration")
	}
	return &SMTPMailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUser,
		password: cfg.SMTPPass,
		from:     cfg.MailFrom,
		enabled:  enabled,
		logger:   logger,
	}
}

// Send delivers one message. Failures are classified: a 5xx SMTP reply is
// permanent (bad address, rejected content). Connection errors, timeouts and
// 4xx replies are transient and retryable.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	if !m.enabled {
		m.logger.InfoContext(ctx, "mailer disabled, skipping send",
			slog.String("to", to),
			slog.String("subject", subject),
		)
		return nil
	}
	if err := ctx.Err(); err != nil {
		return models.NewTransientSendError(err)
	}

	addr := fmt.Sprintf("%s:%s", m.host, m.port)
	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	msg := []byte(strings.Join([]string{
		"To: " + to,
		"From: " + m.from,
		"Subject: " + subject,
		"MIME-version: 1.0",
		`Content-Type: text/plain; charset="UTF-8"`,
		"",
		body,
	}, "\r\n"))

	err := smtp.SendMail(addr, auth, m.from, []string{to}, msg)
	if err == nil {
		observability.MailsSent.WithLabelValues("delivered").Inc()
		return nil
	}

	var protoErr *textproto.Error
	if errors.As(err, &protoErr) && protoErr.Code >= 500 {
		observability.MailsSent.WithLabelValues("permanent").Inc()
		return models.NewPermanentSendError(err)
	}
	observability.MailsSent.WithLabelValues("transient").Inc()
	return models.NewTransientSendError(err)
}

package mailer

import (
	"context"

	"github.com/dmitrijs2005/smartnotes/internal/logging"
)

// LogSender records outgoing mail in the log instead of sending it. It is
// used when no SMTP host is configured. The body is never logged since it
// may carry credentials such as reset links.
type LogSender struct {
	logger logging.Logger
}

func NewLogSender(l logging.Logger) *LogSender {
	return &LogSender{logger: l.With("module", "mailer")}
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	s.logger.Info(ctx, "mail not sent, no SMTP host configured",
		"to", msg.To, "subject", msg.Subject, "body_bytes", len(msg.HTMLBody))
	return nil
}

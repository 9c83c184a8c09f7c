// Package mailer delivers outgoing e-mail. Callers hand over a rendered
// message; a Sender either delivers it or returns an error.
package mailer

import "context"

// Message is a single HTML e-mail to one recipient.
type Message struct {
	To       string
	Subject  string
	HTMLBody string
}

// Sender attempts delivery of a message. Implementations must not swallow
// failures: a nil error means the message was accepted for delivery.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Package notifier delivers outbound email-like notifications. Sends
// are best-effort: callers dispatch and move on, and delivery failures
// are logged at most.
package notifier

import "context"

// Message is an outbound notification
type Message struct {
	Subject    string
	Body       string
	Recipients []string
}

// Notifier sends a message to its recipients
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

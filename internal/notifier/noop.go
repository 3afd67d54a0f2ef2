package notifier

import "context"

// Noop discards all messages. Used when mail is disabled.
type Noop struct{}

// Send does nothing
func (Noop) Send(ctx context.Context, msg Message) error {
	return nil
}

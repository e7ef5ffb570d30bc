// Package notify is the outbound notification channel for digest messages.
package notify

import "context"

// Notifier sends a message and returns the channel's id for it. Failures
// surface as errors; callers decide whether the whole operation fails.
type Notifier interface {
	SendMessage(ctx context.Context, body string) (string, error)
}

package messaging

import "context"

// Sender delivers one outbound text and returns the channel's message id.
// No further contract: delivery is best-effort from the core's perspective.
type Sender interface {
	Send(ctx context.Context, toE164, text string) (string, error)
}

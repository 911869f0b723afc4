// Package messaging wraps the outbound message transport. The core treats the
// destination as opaque; whatever the shoutrrr URL template addresses (SMS,
// Telegram, ...) is the deployment's choice.
package messaging

import "context"

// Messenger is the outbound transport collaborator. Implementations must be
// safe for concurrent use; the dispatcher fans out sends in parallel.
type Messenger interface {
	Send(ctx context.Context, destination, message string) error
}

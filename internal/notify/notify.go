// Package notify delivers rendered posts to external webhook endpoints.
// Delivery failures are isolated per post: the caller decides whether a
// failed delivery aborts anything, and here it never does.
package notify

import (
	"context"
	"errors"

	"github.com/uniwatch/uniwatch/internal/domain"
)

// Errors returned by notifiers.
var (
	// ErrNoWebhook is returned when a delivery is attempted without a
	// configured endpoint.
	ErrNoWebhook = errors.New("no webhook configured")
	// ErrDeliveryFailed is returned when the endpoint rejects a message.
	ErrDeliveryFailed = errors.New("notification delivery failed")
)

// Destination describes where and as whom a message is sent.
type Destination struct {
	// WebhookURL is the endpoint receiving the message.
	WebhookURL string
	// Role is an optional role ID mentioned in the message content.
	Role string
	// Username is an optional sender display name.
	Username string
}

// Notifier sends rendered posts and operational failure reports.
type Notifier interface {
	// Deliver sends one post to the destination.
	Deliver(ctx context.Context, post domain.Post, dest Destination) error
	// Report sends a plain operational failure message.
	Report(ctx context.Context, dest Destination, message string) error
}

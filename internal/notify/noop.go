package notify

import (
	"context"

	"github.com/uniwatch/uniwatch/internal/domain"
)

// NoOp is a notifier that does nothing, used when sending is disabled.
// Cycles still render posts and maintain the cache; only delivery is
// suppressed.
type NoOp struct{}

// NewNoOp creates a no-op notifier.
func NewNoOp() Notifier {
	return &NoOp{}
}

// Deliver does nothing.
func (n *NoOp) Deliver(context.Context, domain.Post, Destination) error {
	return nil
}

// Report does nothing.
func (n *NoOp) Report(context.Context, Destination, string) error {
	return nil
}

// Package controller provides output adapters for presenting engine progress
// and results.
package controller

import (
	m "github.com/mapforge/levelsweep/internal/model"
)

// Notifier receives live diagnostics while an operation runs. Delivery is
// fire-and-forget: the engine never blocks on a consumer and never requires
// acknowledgment.
type Notifier interface {
	Notify(severity m.Severity, message string)
}

// UI defines how results are displayed. Implementations can use different
// output methods (plain text, interactive picker).
type UI interface {
	Notifier

	// DisplayCandidates renders the delete-candidate list.
	DisplayCandidates(candidates []m.DeleteCandidate) error

	// DisplayDiff renders a unified diff for a planned rewrite.
	DisplayDiff(diff string) error

	// DisplaySummary renders a one-line operation result.
	DisplaySummary(message string) error
}

// ChannelNotifier bridges the engine worker to a consumer goroutine. Sends
// never block: when the consumer lags, messages are dropped rather than
// stalling the operation.
type ChannelNotifier struct {
	ch chan m.Diagnostic
}

// NewChannelNotifier creates a notifier with the given buffer size.
func NewChannelNotifier(buffer int) *ChannelNotifier {
	return &ChannelNotifier{ch: make(chan m.Diagnostic, buffer)}
}

// Notify implements Notifier.
func (n *ChannelNotifier) Notify(severity m.Severity, message string) {
	select {
	case n.ch <- m.Diagnostic{Severity: severity, Message: message}:
	default:
	}
}

// C returns the consumer side of the channel.
func (n *ChannelNotifier) C() <-chan m.Diagnostic {
	return n.ch
}

// Close closes the channel once the producing operation has finished.
func (n *ChannelNotifier) Close() {
	close(n.ch)
}

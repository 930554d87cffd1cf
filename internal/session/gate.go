package session

import "time"

// DefaultDebounceWindow is the minimum spacing between accepted toggles.
// Global hotkey delivery can fire duplicate signals within tens of
// milliseconds; 150ms exceeds that jitter while staying well below any
// deliberate double-press.
const DefaultDebounceWindow = 150 * time.Millisecond

// ToggleGate deduplicates rapid repeated toggle signals. It is a pure
// debounce filter with no knowledge of session phases. Not safe for
// concurrent use; the controller serializes access.
type ToggleGate struct {
	window time.Duration
	last   time.Time
}

// NewToggleGate creates a gate with the given minimum inter-event interval.
// A non-positive window falls back to DefaultDebounceWindow.
func NewToggleGate(window time.Duration) *ToggleGate {
	if window <= 0 {
		window = DefaultDebounceWindow
	}
	return &ToggleGate{window: window}
}

// Accept reports whether the toggle stamped at now should be handled.
// Accepted signals update the gate's last-accepted timestamp; dropped
// signals have no effect at all.
func (g *ToggleGate) Accept(now time.Time) bool {
	if !g.last.IsZero() && now.Sub(g.last) < g.window {
		return false
	}
	g.last = now
	return true
}

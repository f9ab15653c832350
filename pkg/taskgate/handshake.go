package taskgate

import (
	"sync"
	"time"
)

// Outcome is how a readiness handshake resolved.
type Outcome int

const (
	// OutcomeReady means the partner UI signalled readiness in time.
	OutcomeReady Outcome = iota
	// OutcomeTimedOut means the countdown fired before the ready signal.
	OutcomeTimedOut
)

// String returns the string representation of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeReady:
		return "ready"
	case OutcomeTimedOut:
		return "timed_out"
	default:
		return "unknown"
	}
}

// handshake is a one-shot wait between "host dispatched the link" and
// "partner UI is visibly ready". It resolves exactly once: either the
// explicit ready signal or the countdown timer wins, and the loser is a
// no-op. A cancelled handshake resolves to neither and never invokes its
// continuation.
type handshake struct {
	startedAt time.Time

	mu       sync.Mutex
	timer    *time.Timer
	resolved bool

	// onResolve receives the resolving handshake itself so the owner can
	// tell a current resolution from a stale one that lost a replacement
	// race.
	onResolve func(*handshake, Outcome, time.Duration)
}

// newHandshake arms the countdown immediately.
func newHandshake(timeout time.Duration, clock func() time.Time, onResolve func(*handshake, Outcome, time.Duration)) *handshake {
	h := &handshake{
		startedAt: clock(),
		onResolve: onResolve,
	}
	h.timer = time.AfterFunc(timeout, func() {
		h.resolve(OutcomeTimedOut, clock)
	})
	return h
}

// ready resolves the handshake with OutcomeReady. Returns whether this
// call won the race; a late call after timeout or cancellation loses.
func (h *handshake) ready(clock func() time.Time) bool {
	return h.resolve(OutcomeReady, clock)
}

// cancel marks the handshake resolved without firing the continuation.
// Used when a new handoff replaces this one (last-session-wins).
func (h *handshake) cancel() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.resolved {
		return
	}
	h.resolved = true
	h.timer.Stop()
}

// resolve settles the handshake once. The continuation runs outside the
// lock so it may call back into the manager freely.
func (h *handshake) resolve(outcome Outcome, clock func() time.Time) bool {
	h.mu.Lock()
	if h.resolved {
		h.mu.Unlock()
		return false
	}
	h.resolved = true
	h.timer.Stop()
	waited := clock().Sub(h.startedAt)
	h.mu.Unlock()

	if h.onResolve != nil {
		h.onResolve(h, outcome, waited)
	}
	return true
}

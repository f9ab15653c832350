package taskgate

import "sync"

// EventType classifies handoff lifecycle events.
type EventType int

const (
	// EventTaskReceived fires when an inbound link parses successfully.
	// The payload is a snapshot of the new session.
	EventTaskReceived EventType = iota
	// EventHandshakeResolved fires when the readiness handshake settles,
	// whether by explicit ready signal or by timeout.
	EventHandshakeResolved
	// EventSessionCleared fires when the current session is discarded.
	EventSessionCleared
)

// String returns the string representation of the event type.
func (t EventType) String() string {
	switch t {
	case EventTaskReceived:
		return "task_received"
	case EventHandshakeResolved:
		return "handshake_resolved"
	case EventSessionCleared:
		return "session_cleared"
	default:
		return "unknown"
	}
}

// Session clear reasons carried on EventSessionCleared.
const (
	ClearReasonExplicit  = "explicit"
	ClearReasonCompleted = "completed"
	ClearReasonExpired   = "expired"
)

// Event carries a lifecycle notification to subscribers. Session is a
// snapshot, safe to retain.
type Event struct {
	Type    EventType
	Session TaskSession // valid for TaskReceived
	Outcome Outcome     // valid for HandshakeResolved
	Reason  string      // valid for SessionCleared
}

// Listener receives lifecycle events. Listeners run synchronously on the
// emitting goroutine; keep them short.
type Listener func(Event)

// bus is a minimal typed event emitter. The manager pushes through it;
// the UI layer pulls through accessors. Both read the same store.
type bus struct {
	mu        sync.RWMutex
	listeners []Listener
}

func (b *bus) subscribe(fn Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners = append(b.listeners, fn)
}

func (b *bus) emit(e Event) {
	b.mu.RLock()
	listeners := make([]Listener, len(b.listeners))
	copy(listeners, b.listeners)
	b.mu.RUnlock()

	for _, fn := range listeners {
		fn(e)
	}
}

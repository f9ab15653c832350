package taskgate

import "time"

// TaskSession is the sole stateful entity of a handoff: one attempt at
// redirecting the user from the host into this partner app, from link
// arrival to completion report. The manager owns the current session
// exclusively and only ever exposes copies.
type TaskSession struct {
	// TaskID is the opaque identifier of the requested micro-task.
	TaskID string

	// SessionID identifies this handoff attempt. Parsed from the inbound
	// link or synthesized locally; immutable for the life of the session.
	SessionID string

	// CallbackURL is the absolute URL invoked on completion.
	CallbackURL string

	// AppName is the display name of the host-blocked application, if the
	// host sent one.
	AppName string

	// AdditionalParams holds every inbound query parameter not claimed by
	// a named field, verbatim and untyped.
	AdditionalParams map[string]string

	// CreatedAt drives the staleness check.
	CreatedAt time.Time
}

// clone returns a deep copy so callers can never reach manager-internal
// state through the AdditionalParams map.
func (s TaskSession) clone() TaskSession {
	out := s
	if s.AdditionalParams != nil {
		out.AdditionalParams = make(map[string]string, len(s.AdditionalParams))
		for k, v := range s.AdditionalParams {
			out.AdditionalParams[k] = v
		}
	}
	return out
}

// staleAt reports whether the session is older than ttl at the given time.
func (s TaskSession) staleAt(now time.Time, ttl time.Duration) bool {
	return now.Sub(s.CreatedAt) > ttl
}

// CompletionStatus is the outcome the partner UI reports back to the host.
type CompletionStatus int

const (
	// StatusOpen means the user completed the task and wants to open the
	// host-blocked app.
	StatusOpen CompletionStatus = iota
	// StatusFocus means the user chose to stay focused and not open it.
	StatusFocus
	// StatusCancelled means the user abandoned the task.
	StatusCancelled
)

// String returns the wire representation carried on the completion URL.
func (s CompletionStatus) String() string {
	switch s {
	case StatusOpen:
		return "open"
	case StatusFocus:
		return "focus"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

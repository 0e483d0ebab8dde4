package toast

import "time"

// EventKind identifies a lifecycle transition.
type EventKind string

const (
	EventShown    EventKind = "shown"
	EventPaused   EventKind = "paused"
	EventResumed  EventKind = "resumed"
	EventRemoving EventKind = "removing"
	EventRemoved  EventKind = "removed"
)

// RemoveReason explains why a toast left the screen.
// Values line up with the freedesktop notification close reasons.
type RemoveReason uint32

const (
	// ReasonNone is set on events that are not removals.
	ReasonNone RemoveReason = 0
	// ReasonExpired means the dismiss timer elapsed.
	ReasonExpired RemoveReason = 1
	// ReasonDismissed means the user pressed the close control.
	ReasonDismissed RemoveReason = 2
	// ReasonClosed means the toast was removed programmatically.
	ReasonClosed RemoveReason = 3
)

// String returns the string representation of the reason.
func (r RemoveReason) String() string {
	switch r {
	case ReasonNone:
		return ""
	case ReasonExpired:
		return "expired"
	case ReasonDismissed:
		return "dismissed"
	case ReasonClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Event is published to observers on every lifecycle transition.
type Event struct {
	Kind   EventKind    `json:"kind"`
	Toast  Snapshot     `json:"toast"`
	Reason RemoveReason `json:"reason,omitempty"`
	At     time.Time    `json:"at"`
}

// Observer receives lifecycle events on the manager's goroutine.
// Observers must not block.
type Observer func(Event)

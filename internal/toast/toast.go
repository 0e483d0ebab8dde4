package toast

import (
	"fmt"
	"math"
	"time"
)

// State is a toast's position in its lifecycle.
type State int

const (
	// StateEntering is the initial state while the entry animation plays.
	StateEntering State = iota
	// StateActive means the toast is on screen and, if it has a duration,
	// counting down.
	StateActive
	// StatePaused means the dismiss timer is suspended by a hover.
	StatePaused
	// StateRemoving means the exit animation is playing.
	StateRemoving
	// StateRemoved is terminal; the node has been detached.
	StateRemoved
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateEntering:
		return "entering"
	case StateActive:
		return "active"
	case StatePaused:
		return "paused"
	case StateRemoving:
		return "removing"
	case StateRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *State) UnmarshalText(text []byte) error {
	for st := StateEntering; st <= StateRemoved; st++ {
		if st.String() == string(text) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown toast state %q", text)
}

// Snapshot is a point-in-time copy of a toast's public fields.
type Snapshot struct {
	ID        string        `json:"id" yaml:"id"`
	Type      Type          `json:"type" yaml:"type"`
	Title     string        `json:"title" yaml:"title"`
	Message   string        `json:"message" yaml:"message"`
	Position  Position      `json:"position" yaml:"position"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
	Remaining time.Duration `json:"remaining" yaml:"remaining"`
	State     State         `json:"state" yaml:"state"`
	CreatedAt time.Time     `json:"created_at" yaml:"created_at"`
}

// Persistent reports whether the toast never dismisses itself.
func (s Snapshot) Persistent() bool {
	return s.Duration <= 0
}

// toast is the lifecycle controller for one notification.
type toast struct {
	id        string
	typ       Type
	title     string
	message   string
	position  Position
	duration  time.Duration
	createdAt time.Time

	manager *Manager
	node    Node

	state     State
	remaining time.Duration
	startedAt time.Time
	timer     Timer
	gen       uint64 // bumped to invalidate stale timer callbacks
	removed   bool
	reason    RemoveReason
}

// start begins the countdown and the progress animation.
func (t *toast) start() {
	if t.duration <= 0 {
		t.node.HideProgress()
		return
	}
	t.node.SetProgress(0, t.duration)
	t.startTimer()
}

// startTimer schedules removal after the remaining time.
// There is never more than one pending timer per toast.
func (t *toast) startTimer() {
	if t.duration <= 0 || t.removed {
		return
	}
	t.stopTimer()

	t.gen++
	gen := t.gen
	t.startedAt = t.manager.sched.Now()
	t.timer = t.manager.sched.AfterFunc(t.remaining, func() {
		if t.gen != gen {
			return
		}
		t.timer = nil
		t.remove(ReasonExpired)
	})
}

func (t *toast) stopTimer() {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.gen++
}

// entered is called when the entry animation finishes.
func (t *toast) entered() {
	if t.state == StateEntering {
		t.state = StateActive
	}
}

// pause suspends the countdown. It reports whether the toast was timing.
func (t *toast) pause() bool {
	if t.removed || t.timer == nil {
		return false
	}
	t.stopTimer()

	t.remaining -= t.manager.sched.Now().Sub(t.startedAt)
	elapsed := t.duration - t.remaining
	if elapsed < 0 {
		elapsed = 0
	}
	ratio := math.Max(0, 1-float64(elapsed)/float64(t.duration))
	t.node.SetProgress(ratio, 0)

	t.state = StatePaused
	t.manager.emit(t, EventPaused, ReasonNone)
	return true
}

// resume restarts the countdown for the remaining time.
func (t *toast) resume() bool {
	if t.removed || t.state != StatePaused {
		return false
	}
	if t.remaining > 0 {
		t.node.SetProgress(0, t.remaining)
	}
	t.state = StateActive
	t.startTimer()
	t.manager.emit(t, EventResumed, ReasonNone)
	return true
}

// remove starts the exit animation. It runs at most once per toast no matter
// how many of timer expiry, the close control and Remove trigger it.
func (t *toast) remove(reason RemoveReason) bool {
	if t.removed {
		return false
	}
	t.removed = true
	t.reason = reason
	t.stopTimer()

	t.state = StateRemoving
	t.node.OnceAnimationEnd(t.finish)
	t.node.SetClass(ClassEnter, false)
	t.node.SetClass(ClassLeave, true)
	t.manager.emit(t, EventRemoving, reason)
	return true
}

// finish detaches the node once the exit animation is done.
func (t *toast) finish() {
	if t.state != StateRemoving {
		return
	}
	t.node.Detach()
	t.state = StateRemoved
	t.manager.forget(t)
	t.manager.emit(t, EventRemoved, t.reason)
}

// remainingAt returns the time left on the countdown at now.
func (t *toast) remainingAt(now time.Time) time.Duration {
	if t.duration <= 0 {
		return 0
	}
	rem := t.remaining
	if t.timer != nil {
		rem -= now.Sub(t.startedAt)
	}
	if rem < 0 {
		rem = 0
	}
	return rem
}

func (t *toast) snapshot(now time.Time) Snapshot {
	return Snapshot{
		ID:        t.id,
		Type:      t.typ,
		Title:     t.title,
		Message:   t.message,
		Position:  t.position,
		Duration:  t.duration,
		Remaining: t.remainingAt(now),
		State:     t.state,
		CreatedAt: t.createdAt,
	}
}

// Handle is returned to callers of Show. It exposes the rendered node and an
// explicit removal; the manager keeps ownership of the lifecycle.
type Handle struct {
	t *toast
}

// ID returns the toast identifier.
func (h *Handle) ID() string {
	return h.t.id
}

// Node returns the rendered element.
func (h *Handle) Node() Node {
	return h.t.node
}

// State returns the current lifecycle state.
func (h *Handle) State() State {
	return h.t.state
}

// Remove starts the exit animation. Calling it more than once, or after the
// toast expired, has no further effect.
func (h *Handle) Remove() {
	h.t.remove(ReasonClosed)
}

package toast

import (
	"crypto/rand"
	"io"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"
)

// Manager owns the per-position containers and every live toast.
type Manager struct {
	renderer Renderer
	sched    Scheduler
	logger   *slog.Logger
	settings Settings

	containers map[Position]Container
	stacks     map[Position][]*toast // container order, newest first for top positions
	toasts     map[string]*toast

	observers []Observer
	entropy   io.Reader
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithSettings sets the initial defaults.
func WithSettings(s Settings) ManagerOption {
	return func(m *Manager) {
		m.settings = normalizeSettings(s)
	}
}

// WithObserver subscribes o to lifecycle events.
func WithObserver(o Observer) ManagerOption {
	return func(m *Manager) {
		m.Subscribe(o)
	}
}

// NewManager creates a manager rendering through r and timing through s.
func NewManager(r Renderer, s Scheduler, opts ...ManagerOption) *Manager {
	m := &Manager{
		renderer:   r,
		sched:      s,
		logger:     slog.Default(),
		settings:   DefaultSettings(),
		containers: make(map[Position]Container),
		stacks:     make(map[Position][]*toast),
		toasts:     make(map[string]*toast),
		entropy:    ulid.Monotonic(rand.Reader, 0),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func normalizeSettings(s Settings) Settings {
	s.Position = ParsePosition(string(s.Position))
	if s.Titles == nil {
		s.Titles = TitlesFor(DefaultLocale)
	}
	if s.MaxPerPosition < 0 {
		s.MaxPerPosition = 0
	}
	return s
}

// Settings returns the current defaults.
func (m *Manager) Settings() Settings {
	return m.settings
}

// SetSettings replaces the defaults. Toasts already on screen are unaffected.
func (m *Manager) SetSettings(s Settings) {
	m.settings = normalizeSettings(s)
	m.logger.Debug("toast settings updated",
		"duration", m.settings.Duration,
		"position", m.settings.Position,
		"max_per_position", m.settings.MaxPerPosition,
	)
}

// Subscribe registers an observer for lifecycle events.
func (m *Manager) Subscribe(o Observer) {
	if o != nil {
		m.observers = append(m.observers, o)
	}
}

// Container returns the container for position, creating and attaching it on
// first use. Unknown positions resolve to DefaultPosition.
func (m *Manager) Container(position Position) Container {
	position = ParsePosition(string(position))
	if c, ok := m.containers[position]; ok {
		return c
	}

	c := m.renderer.NewContainer(position)
	m.containers[position] = c
	m.logger.Debug("created toast container", "position", position)
	return c
}

// Show displays a toast and returns its handle.
func (m *Manager) Show(message string, opts ...Option) *Handle {
	r := m.settings.resolve(message, opts)
	now := m.sched.Now()

	t := &toast{
		id:        m.newID(now),
		typ:       r.typ,
		title:     r.title,
		message:   r.message,
		position:  r.position,
		duration:  r.duration,
		createdAt: now,
		manager:   m,
		state:     StateEntering,
		remaining: r.duration,
	}

	m.enforceLimit(r.position)

	container := m.Container(r.position)
	t.node = m.renderer.NewNode(View{
		ID:      t.id,
		Type:    t.typ,
		Title:   t.title,
		Message: t.message,
		Icon:    t.typ.Icon(),
		Classes: []string{"toast", t.typ.ClassName(), ClassEnter},
		Attributes: map[string]string{
			"role":      "status",
			"aria-live": "polite",
		},
	})

	t.node.OnPointer(func() {
		if m.settings.PauseOnHover {
			t.pause()
		}
	}, func() {
		t.resume()
	})
	t.node.OnClose(func() {
		t.remove(ReasonDismissed)
	})
	t.node.OnceAnimationEnd(t.entered)

	if r.position.IsTop() {
		container.Prepend(t.node)
		m.stacks[r.position] = append([]*toast{t}, m.stacks[r.position]...)
	} else {
		container.Append(t.node)
		m.stacks[r.position] = append(m.stacks[r.position], t)
	}
	m.toasts[t.id] = t

	m.logger.Debug("showing toast",
		"id", t.id,
		"type", t.typ,
		"position", t.position,
		"duration", t.duration,
	)

	t.start()
	m.emit(t, EventShown, ReasonNone)

	return &Handle{t: t}
}

// Success shows a success toast.
func (m *Manager) Success(message string, opts ...Option) *Handle {
	return m.Show(message, append(opts, WithType(TypeSuccess))...)
}

// Error shows an error toast.
func (m *Manager) Error(message string, opts ...Option) *Handle {
	return m.Show(message, append(opts, WithType(TypeError))...)
}

// Info shows an info toast.
func (m *Manager) Info(message string, opts ...Option) *Handle {
	return m.Show(message, append(opts, WithType(TypeInfo))...)
}

// Warn shows a warning toast.
func (m *Manager) Warn(message string, opts ...Option) *Handle {
	return m.Show(message, append(opts, WithType(TypeWarning))...)
}

// enforceLimit closes the oldest toasts at position so a new one fits under
// MaxPerPosition. Toasts already leaving do not count.
func (m *Manager) enforceLimit(position Position) {
	limit := m.settings.MaxPerPosition
	if limit <= 0 {
		return
	}

	var live []*toast
	for _, t := range m.stacks[position] {
		if !t.removed {
			live = append(live, t)
		}
	}

	for len(live) >= limit {
		var oldest *toast
		if position.IsTop() {
			oldest = live[len(live)-1]
			live = live[:len(live)-1]
		} else {
			oldest = live[0]
			live = live[1:]
		}
		m.logger.Debug("closing oldest toast over limit", "id", oldest.id, "position", position, "limit", limit)
		oldest.remove(ReasonClosed)
	}
}

// Get returns a snapshot of the toast with id.
func (m *Manager) Get(id string) (Snapshot, bool) {
	t, ok := m.toasts[id]
	if !ok {
		return Snapshot{}, false
	}
	return t.snapshot(m.sched.Now()), true
}

// Node returns the rendered element of the toast with id.
func (m *Manager) Node(id string) (Node, bool) {
	t, ok := m.toasts[id]
	if !ok {
		return nil, false
	}
	return t.node, true
}

// Active returns snapshots of every toast still attached, grouped by position
// and in container order.
func (m *Manager) Active() []Snapshot {
	now := m.sched.Now()
	out := make([]Snapshot, 0, len(m.toasts))
	for _, p := range ValidPositions() {
		for _, t := range m.stacks[p] {
			out = append(out, t.snapshot(now))
		}
	}
	return out
}

// Count returns the number of toasts still attached.
func (m *Manager) Count() int {
	return len(m.toasts)
}

// Remove starts removal of the toast with id, as Handle.Remove does.
func (m *Manager) Remove(id string) bool {
	t, ok := m.toasts[id]
	if !ok {
		return false
	}
	return t.remove(ReasonClosed)
}

// Dismiss removes the toast with id as if its close control was pressed.
func (m *Manager) Dismiss(id string) bool {
	t, ok := m.toasts[id]
	if !ok {
		return false
	}
	return t.remove(ReasonDismissed)
}

// Pause suspends the dismiss timer of the toast with id.
func (m *Manager) Pause(id string) bool {
	t, ok := m.toasts[id]
	if !ok {
		return false
	}
	return t.pause()
}

// Resume restarts the dismiss timer of the toast with id.
func (m *Manager) Resume(id string) bool {
	t, ok := m.toasts[id]
	if !ok {
		return false
	}
	return t.resume()
}

// Clear removes every live toast.
func (m *Manager) Clear() int {
	n := 0
	for _, p := range ValidPositions() {
		for _, t := range append([]*toast(nil), m.stacks[p]...) {
			if t.remove(ReasonClosed) {
				n++
			}
		}
	}
	return n
}

// forget drops a detached toast from the registry.
func (m *Manager) forget(t *toast) {
	delete(m.toasts, t.id)

	stack := m.stacks[t.position]
	for i, s := range stack {
		if s == t {
			m.stacks[t.position] = append(stack[:i], stack[i+1:]...)
			break
		}
	}
}

func (m *Manager) emit(t *toast, kind EventKind, reason RemoveReason) {
	if len(m.observers) == 0 {
		return
	}
	now := m.sched.Now()
	ev := Event{
		Kind:   kind,
		Toast:  t.snapshot(now),
		Reason: reason,
		At:     now,
	}
	for _, o := range m.observers {
		o(ev)
	}
}

func (m *Manager) newID(now time.Time) string {
	id, err := ulid.New(ulid.Timestamp(now), m.entropy)
	if err != nil {
		m.logger.Warn("failed to generate monotonic toast id", "error", err)
		return ulid.Make().String()
	}
	return id.String()
}

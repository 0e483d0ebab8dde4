package toast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContainer_IdempotentPerPosition(t *testing.T) {
	m, r, _ := newTestManager()

	for _, p := range ValidPositions() {
		t.Run(string(p), func(t *testing.T) {
			first := m.Container(p)
			second := m.Container(p)
			assert.Same(t, first.(*fakeContainer), second.(*fakeContainer))
		})
	}
	assert.Equal(t, len(ValidPositions()), r.created)
}

func TestContainer_InvalidPositionFallsBack(t *testing.T) {
	m, r, _ := newTestManager()
	def := m.Container(PositionTopRight)

	for _, p := range []Position{"", "middle", "TOP-RIGHT", "top_right", "bottom"} {
		t.Run(string(p), func(t *testing.T) {
			assert.Same(t, def.(*fakeContainer), m.Container(p).(*fakeContainer))
		})
	}
	assert.Equal(t, 1, r.created)
}

func TestShow_Defaults(t *testing.T) {
	m, r, _ := newTestManager()

	h := m.Show("hello")
	snap, ok := m.Get(h.ID())
	require.True(t, ok)

	assert.Equal(t, TypeInfo, snap.Type)
	assert.Equal(t, "알림", snap.Title)
	assert.Equal(t, "hello", snap.Message)
	assert.Equal(t, PositionTopRight, snap.Position)
	assert.Equal(t, DefaultDuration, snap.Duration)
	assert.Equal(t, StateEntering, snap.State)

	n := nodeOf(h)
	assert.True(t, n.classes["toast"])
	assert.True(t, n.classes["toast--info"])
	assert.True(t, n.classes[ClassEnter])
	assert.Equal(t, "status", n.view.Attributes["role"])
	assert.Equal(t, "polite", n.view.Attributes["aria-live"])
	assert.Equal(t, "i", n.view.Icon)
	assert.Equal(t, []string{h.ID()}, r.containers[PositionTopRight].ids())
}

func TestShow_ProgressAnimatesOverDuration(t *testing.T) {
	m, _, _ := newTestManager()

	h := m.Show("x", WithDuration(2*time.Second))
	n := nodeOf(h)

	require.Len(t, n.progressCalls, 1)
	assert.Equal(t, progressCall{ratio: 0, transition: 2 * time.Second}, n.progressCalls[0])
	assert.True(t, n.progressVisible)
}

func TestShow_ExpiresAfterDuration(t *testing.T) {
	m, _, clock := newTestManager()

	h := m.Show("x", WithDuration(time.Second))
	n := nodeOf(h)

	clock.Advance(999 * time.Millisecond)
	assert.Equal(t, StateEntering, h.State())

	clock.Advance(time.Millisecond)
	assert.Equal(t, StateRemoving, h.State())
	assert.False(t, n.classes[ClassEnter])
	assert.True(t, n.classes[ClassLeave])
	assert.Equal(t, 0, n.detachCount, "detach waits for the exit animation")

	n.endAnimation()
	assert.Equal(t, StateRemoved, h.State())
	assert.Equal(t, 1, n.detachCount)
	assert.Equal(t, 0, m.Count())
}

func TestShow_PersistentNeverSchedules(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
	}{
		{"zero", 0},
		{"negative", -5 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _, clock := newTestManager()

			h := m.Show("x", WithDuration(tt.duration))
			n := nodeOf(h)

			assert.Equal(t, 0, clock.Pending())
			assert.False(t, n.progressVisible)
			assert.Empty(t, n.progressCalls)

			clock.Advance(24 * time.Hour)
			assert.NotEqual(t, StateRemoving, h.State())
			assert.Equal(t, 1, m.Count())

			h.Remove()
			assert.Equal(t, StateRemoving, h.State())
			n.endAnimation()
			assert.Equal(t, 1, n.detachCount)
		})
	}
}

func TestRemove_Idempotent(t *testing.T) {
	var removing, removed int
	m, _, clock := newTestManager(WithObserver(func(ev Event) {
		switch ev.Kind {
		case EventRemoving:
			removing++
		case EventRemoved:
			removed++
		}
	}))

	h := m.Show("x", WithDuration(time.Second))
	n := nodeOf(h)

	h.Remove()
	h.Remove()
	n.close()
	clock.Advance(10 * time.Second)
	n.endAnimation()
	n.endAnimation()
	h.Remove()

	assert.Equal(t, 1, removing)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, n.detachCount)
	assert.Equal(t, 2, n.classChanges, "one class swap")
}

func TestRemove_AfterExpiryIsNoop(t *testing.T) {
	m, _, clock := newTestManager()

	h := m.Show("x", WithDuration(time.Second))
	n := nodeOf(h)

	clock.Advance(time.Second)
	n.endAnimation()
	h.Remove()

	assert.Equal(t, 1, n.detachCount)
	assert.Equal(t, StateRemoved, h.State())
}

func TestPauseResume_PreservesLifetime(t *testing.T) {
	m, _, clock := newTestManager()

	h := m.Show("x", WithDuration(4*time.Second))
	n := nodeOf(h)

	clock.Advance(time.Second)
	n.enter()
	assert.Equal(t, StatePaused, h.State())
	assert.Equal(t, 0, clock.Pending())

	// The bar snaps to the remaining ratio without a transition.
	last := n.progressCalls[len(n.progressCalls)-1]
	assert.InDelta(t, 0.75, last.ratio, 1e-9)
	assert.Equal(t, time.Duration(0), last.transition)

	// Time spent hovering does not count.
	clock.Advance(time.Hour)
	assert.Equal(t, StatePaused, h.State())

	n.leave()
	assert.Equal(t, StateActive, h.State())
	last = n.progressCalls[len(n.progressCalls)-1]
	assert.Equal(t, progressCall{ratio: 0, transition: 3 * time.Second}, last)

	clock.Advance(3*time.Second - time.Millisecond)
	assert.Equal(t, StateActive, h.State())
	clock.Advance(time.Millisecond)
	assert.Equal(t, StateRemoving, h.State())
}

func TestPauseResume_Repeated(t *testing.T) {
	m, _, clock := newTestManager()

	h := m.Show("x", WithDuration(1000*time.Millisecond))
	n := nodeOf(h)

	active := time.Duration(0)
	for i := 0; i < 3; i++ {
		clock.Advance(200 * time.Millisecond)
		active += 200 * time.Millisecond
		n.enter()
		clock.Advance(time.Minute)
		n.leave()
		assert.LessOrEqual(t, clock.Pending(), 1, "never more than one pending timer")
	}

	snap, ok := m.Get(h.ID())
	require.True(t, ok)
	assert.Equal(t, 1000*time.Millisecond-active, snap.Remaining)

	clock.Advance(snap.Remaining)
	assert.Equal(t, StateRemoving, h.State())
}

func TestPause_Noops(t *testing.T) {
	t.Run("persistent", func(t *testing.T) {
		m, _, _ := newTestManager()
		h := m.Show("x", Persistent())
		assert.False(t, m.Pause(h.ID()))
		assert.False(t, m.Resume(h.ID()))
	})

	t.Run("resume without pause", func(t *testing.T) {
		m, _, clock := newTestManager()
		h := m.Show("x", WithDuration(time.Second))
		nodeOf(h).leave()
		assert.Equal(t, 1, clock.Pending())
	})

	t.Run("pause while removing", func(t *testing.T) {
		m, _, _ := newTestManager()
		h := m.Show("x", WithDuration(time.Second))
		h.Remove()
		assert.False(t, m.Pause(h.ID()))
	})

	t.Run("hover disabled", func(t *testing.T) {
		s := DefaultSettings()
		s.PauseOnHover = false
		m, _, clock := newTestManager(WithSettings(s))
		h := m.Show("x", WithDuration(time.Second))
		nodeOf(h).enter()
		assert.NotEqual(t, StatePaused, h.State())
		clock.Advance(time.Second)
		assert.Equal(t, StateRemoving, h.State())
	})
}

func TestEntered_TransitionsToActive(t *testing.T) {
	m, _, _ := newTestManager()

	h := m.Show("x")
	nodeOf(h).endAnimation()
	assert.Equal(t, StateActive, h.State())
}

func TestWrappers_ForceType(t *testing.T) {
	tests := []struct {
		name  string
		show  func(m *Manager) *Handle
		typ   Type
		title string
		icon  string
	}{
		{"success", func(m *Manager) *Handle { return m.Success("m", WithType(TypeError)) }, TypeSuccess, "완료", "✓"},
		{"error", func(m *Manager) *Handle { return m.Error("m") }, TypeError, "오류", "✕"},
		{"info", func(m *Manager) *Handle { return m.Info("m", WithType(TypeWarning)) }, TypeInfo, "알림", "i"},
		{"warn", func(m *Manager) *Handle { return m.Warn("m") }, TypeWarning, "경고", "!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _, _ := newTestManager()
			h := tt.show(m)
			snap, ok := m.Get(h.ID())
			require.True(t, ok)
			assert.Equal(t, tt.typ, snap.Type)
			assert.Equal(t, tt.title, snap.Title)
			assert.Equal(t, tt.icon, nodeOf(h).view.Icon)
		})
	}
}

func TestWrappers_ForwardOptions(t *testing.T) {
	m, _, _ := newTestManager()

	h := m.Error("m", WithTitle("Custom"), WithPosition(PositionBottomLeft), WithDuration(time.Second))
	snap, ok := m.Get(h.ID())
	require.True(t, ok)

	assert.Equal(t, "Custom", snap.Title)
	assert.Equal(t, PositionBottomLeft, snap.Position)
	assert.Equal(t, time.Second, snap.Duration)
}

func TestUnknownType_UsesInfoDefaults(t *testing.T) {
	m, _, _ := newTestManager()

	h := m.Show("m", WithType("Critical Alert"))
	snap, _ := m.Get(h.ID())
	n := nodeOf(h)

	assert.Equal(t, Type("Critical Alert"), snap.Type)
	assert.Equal(t, "알림", snap.Title)
	assert.Equal(t, "i", n.view.Icon)
	assert.True(t, n.classes["toast--critical-alert"])
}

func TestStacking_Order(t *testing.T) {
	m, r, _ := newTestManager()

	a := m.Show("a", WithPosition(PositionTopCenter))
	b := m.Show("b", WithPosition(PositionTopCenter))
	c := m.Show("c", WithPosition(PositionTopCenter))
	assert.Equal(t, []string{c.ID(), b.ID(), a.ID()}, r.containers[PositionTopCenter].ids())

	x := m.Show("x", WithPosition(PositionBottomRight))
	y := m.Show("y", WithPosition(PositionBottomRight))
	z := m.Show("z", WithPosition(PositionBottomRight))
	assert.Equal(t, []string{x.ID(), y.ID(), z.ID()}, r.containers[PositionBottomRight].ids())

	// Active mirrors container order.
	var ids []string
	for _, s := range m.Active() {
		if s.Position == PositionTopCenter {
			ids = append(ids, s.ID)
		}
	}
	assert.Equal(t, []string{c.ID(), b.ID(), a.ID()}, ids)
}

func TestSettings_Applied(t *testing.T) {
	s := DefaultSettings()
	s.Duration = 9 * time.Second
	s.Position = PositionBottomCenter
	s.Titles = TitlesFor("en")

	m, _, _ := newTestManager(WithSettings(s))
	h := m.Warn("m")
	snap, _ := m.Get(h.ID())

	assert.Equal(t, 9*time.Second, snap.Duration)
	assert.Equal(t, PositionBottomCenter, snap.Position)
	assert.Equal(t, "Warning", snap.Title)

	// Hot-reloaded settings apply to new toasts only.
	s.Duration = time.Second
	m.SetSettings(s)
	again, _ := m.Get(h.ID())
	assert.Equal(t, 9*time.Second, again.Duration)
}

func TestSettings_InvalidPositionNormalized(t *testing.T) {
	s := DefaultSettings()
	s.Position = "nowhere"
	m, _, _ := newTestManager(WithSettings(s))
	assert.Equal(t, PositionTopRight, m.Settings().Position)
}

func TestMaxPerPosition(t *testing.T) {
	s := DefaultSettings()
	s.MaxPerPosition = 2
	m, _, _ := newTestManager(WithSettings(s))

	a := m.Show("a")
	b := m.Show("b")
	c := m.Show("c")

	assert.Equal(t, StateRemoving, a.State())
	assert.Equal(t, StateEntering, b.State())
	assert.Equal(t, StateEntering, c.State())

	bottom1 := m.Show("1", WithPosition(PositionBottomLeft))
	m.Show("2", WithPosition(PositionBottomLeft))
	m.Show("3", WithPosition(PositionBottomLeft))
	assert.Equal(t, StateRemoving, bottom1.State())
}

func TestClear(t *testing.T) {
	m, _, _ := newTestManager()
	m.Show("a")
	m.Show("b", WithPosition(PositionBottomLeft))
	removing := m.Show("c")
	removing.Remove()

	assert.Equal(t, 2, m.Clear())
	for _, s := range m.Active() {
		assert.Equal(t, StateRemoving, s.State)
	}
}

func TestByID(t *testing.T) {
	m, _, clock := newTestManager()
	h := m.Show("x", WithDuration(time.Second))

	assert.True(t, m.Pause(h.ID()))
	assert.True(t, m.Resume(h.ID()))
	assert.True(t, m.Dismiss(h.ID()))
	assert.False(t, m.Remove(h.ID()))

	assert.False(t, m.Pause("missing"))
	assert.False(t, m.Resume("missing"))
	assert.False(t, m.Remove("missing"))
	assert.False(t, m.Dismiss("missing"))

	_, ok := m.Node(h.ID())
	assert.True(t, ok)
	clock.Advance(time.Hour)
}

func TestEvents_Sequence(t *testing.T) {
	var events []Event
	m, _, clock := newTestManager(WithObserver(func(ev Event) {
		events = append(events, ev)
	}))

	h := m.Show("x", WithDuration(time.Second))
	n := nodeOf(h)
	n.enter()
	n.leave()
	n.close()
	n.endAnimation()
	clock.Advance(time.Hour)

	var kinds []EventKind
	for _, ev := range events {
		kinds = append(kinds, ev.Kind)
		assert.Equal(t, h.ID(), ev.Toast.ID)
	}
	assert.Equal(t, []EventKind{EventShown, EventPaused, EventResumed, EventRemoving, EventRemoved}, kinds)
	assert.Equal(t, ReasonDismissed, events[3].Reason)
	assert.Equal(t, ReasonDismissed, events[4].Reason)
}

func TestIDs_Unique(t *testing.T) {
	m, _, _ := newTestManager()
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := m.Show("x").ID()
		assert.False(t, seen[id])
		seen[id] = true
	}
}

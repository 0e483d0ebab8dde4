package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/toastui/internal/config"
	"github.com/jmylchreest/toastui/internal/toast"
)

var start = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m
}

func newPlayground(t *testing.T) Model {
	t.Helper()
	cfg := config.DefaultConfig()
	m := New(cfg, start)
	return send(t, m, tea.WindowSizeMsg{Width: 150, Height: 40})
}

func at(d time.Duration) tickMsg {
	return tickMsg(start.Add(d))
}

func TestSpawnKeys(t *testing.T) {
	tests := []struct {
		key   string
		typ   toast.Type
		title string
	}{
		{"i", toast.TypeInfo, "알림"},
		{"s", toast.TypeSuccess, "완료"},
		{"e", toast.TypeError, "오류"},
		{"w", toast.TypeWarning, "경고"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			m := newPlayground(t)
			m = send(t, m, runes(tt.key))

			active := m.Manager().Active()
			require.Len(t, active, 1)
			assert.Equal(t, tt.typ, active[0].Type)
			assert.Equal(t, tt.title, active[0].Title)
			assert.Equal(t, toast.PositionTopRight, active[0].Position)
			assert.Contains(t, m.View(), tt.title)
		})
	}
}

func TestTicksDriveLifecycle(t *testing.T) {
	m := newPlayground(t)
	m = send(t, m, runes("s"))
	id := m.Manager().Active()[0].ID

	m = send(t, m, at(time.Second))
	snap, ok := m.Manager().Get(id)
	require.True(t, ok)
	assert.Equal(t, toast.StateActive, snap.State)
	assert.Equal(t, 3*time.Second, snap.Remaining)

	n, ok := m.node(id)
	require.True(t, ok)
	ratio, visible := n.ProgressAt(m.clock.Now())
	require.True(t, visible)
	assert.InDelta(t, 0.75, ratio, 1e-9)

	// Expiry at 4s, then the 300ms leave animation.
	m = send(t, m, at(4*time.Second))
	snap, ok = m.Manager().Get(id)
	require.True(t, ok)
	assert.Equal(t, toast.StateRemoving, snap.State)

	m = send(t, m, at(4300*time.Millisecond))
	assert.Zero(t, m.Manager().Count())
}

func TestSelectionPausesToast(t *testing.T) {
	m := newPlayground(t)
	m = send(t, m, runes("i"), at(time.Second), runes("j"))
	id := m.Manager().Active()[0].ID

	snap, _ := m.Manager().Get(id)
	assert.Equal(t, toast.StatePaused, snap.State)
	assert.Equal(t, 3*time.Second, snap.Remaining)

	// Time passes while hovered without consuming the lifetime.
	m = send(t, m, at(10*time.Second))
	snap, ok := m.Manager().Get(id)
	require.True(t, ok)
	assert.Equal(t, toast.StatePaused, snap.State)
	assert.Contains(t, m.View(), "⏸")

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	snap, _ = m.Manager().Get(id)
	assert.Equal(t, toast.StateActive, snap.State)

	m = send(t, m, at(13*time.Second), at(13300*time.Millisecond))
	assert.Zero(t, m.Manager().Count())
}

func TestSelectionFollowsToastNotIndex(t *testing.T) {
	m := newPlayground(t)
	m = send(t, m, runes("i"), runes("j"))
	first := m.selected
	require.NotEmpty(t, first)

	// A newer toast at a top position is prepended.
	m = send(t, m, runes("e"))
	assert.Equal(t, first, m.selected)
	assert.Equal(t, first, m.hovered)

	m = send(t, m, runes("k"))
	assert.NotEqual(t, first, m.selected)
	snap, _ := m.Manager().Get(first)
	assert.Equal(t, toast.StateActive, snap.State, "leaving the toast resumes it")
}

func TestCloseSelected(t *testing.T) {
	m := newPlayground(t)
	m = send(t, m, runes("w"), runes("j"), runes("x"))

	active := m.Manager().Active()
	require.Len(t, active, 1)
	assert.Equal(t, toast.StateRemoving, active[0].State)

	m = send(t, m, at(300*time.Millisecond))
	assert.Zero(t, m.Manager().Count())
	assert.Empty(t, m.selected)
	assert.Empty(t, m.hovered)
}

func TestPositionAndPersistentToggles(t *testing.T) {
	m := newPlayground(t)
	m = send(t, m, runes("p"), runes("t"), runes("i"))

	active := m.Manager().Active()
	require.Len(t, active, 1)
	assert.Equal(t, nextPosition(toast.PositionTopRight), active[0].Position)
	assert.True(t, active[0].Persistent())

	m = send(t, m, at(time.Hour))
	assert.Equal(t, 1, m.Manager().Count())
	assert.Contains(t, m.View(), "persistent")
}

func TestFreezeStopsClock(t *testing.T) {
	m := newPlayground(t)
	m = send(t, m, runes("i"), runes(" "), at(time.Minute))
	assert.Equal(t, start, m.clock.Now())
	assert.Equal(t, 1, m.Manager().Count())

	m = send(t, m, runes(" "), at(time.Minute+time.Second))
	assert.Equal(t, start.Add(time.Second), m.clock.Now())
}

func TestClearAll(t *testing.T) {
	m := newPlayground(t)
	m = send(t, m, runes("i"), runes("s"), runes("p"), runes("e"), runes("C"))
	for _, s := range m.Manager().Active() {
		assert.Equal(t, toast.StateRemoving, s.State)
	}

	m = send(t, m, at(time.Second))
	assert.Zero(t, m.Manager().Count())
}

func TestDetailMode(t *testing.T) {
	m := newPlayground(t)
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, ModePlayground, m.mode, "nothing selected")

	m = send(t, m, runes("e"), runes("j"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, ModeDetail, m.mode)
	view := m.View()
	assert.Contains(t, view, "Toast Detail")
	assert.Contains(t, view, "paused")

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ModePlayground, m.mode)
}

func TestHelpMode(t *testing.T) {
	m := newPlayground(t)
	m = send(t, m, runes("?"))
	assert.Equal(t, ModeHelp, m.mode)
	assert.Contains(t, m.View(), "Keyboard Shortcuts")

	m = send(t, m, runes("?"))
	assert.Equal(t, ModePlayground, m.mode)
}

func TestNextPosition(t *testing.T) {
	seen := make(map[toast.Position]bool)
	p := toast.DefaultPosition
	for range toast.ValidPositions() {
		p = nextPosition(p)
		seen[p] = true
	}
	assert.Len(t, seen, len(toast.ValidPositions()))
	assert.Equal(t, toast.ValidPositions()[0], nextPosition("nowhere"))
}

func TestKeybindBarFitsWidth(t *testing.T) {
	m := newPlayground(t)
	bar := m.buildKeybindBar(30)
	assert.Contains(t, bar, "quit")
	assert.NotContains(t, bar, "inspect")
}

func TestClipboardCommand(t *testing.T) {
	tests := []struct {
		name      string
		available []string
		want      []string
	}{
		{"wayland preferred", []string{"xclip", "wl-copy"}, []string{"wl-copy"}},
		{"xclip", []string{"xclip", "xsel"}, []string{"xclip", "-selection", "clipboard"}},
		{"xsel", []string{"xsel"}, []string{"xsel", "--clipboard", "--input"}},
		{"none", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lookPath := func(name string) (string, error) {
				for _, a := range tt.available {
					if a == name {
						return "/usr/bin/" + name, nil
					}
				}
				return "", errNoClipboard
			}
			assert.Equal(t, tt.want, clipboardCommand(lookPath))
		})
	}
}

package daemon

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/toastui/internal/dom"
	"github.com/jmylchreest/toastui/internal/toast"
)

func newTestNotifier() (*InternalNotifier, *[]Notice, *time.Time) {
	n := NewInternalNotifier(nil)
	now := time.Date(2026, 5, 6, 7, 8, 9, 0, time.UTC)
	n.now = func() time.Time { return now }

	var got []Notice
	n.SetNotifyHandler(func(notice Notice) { got = append(got, notice) })
	return n, &got, &now
}

func TestInternalNotifier_RateLimit(t *testing.T) {
	n, got, now := newTestNotifier()

	n.NotifyConfigReloaded()
	n.NotifyConfigReloaded()
	require.Len(t, *got, 1)

	*now = now.Add(5 * time.Second)
	n.NotifyConfigReloaded()
	assert.Len(t, *got, 2)
}

func TestInternalNotifier_KeysIndependent(t *testing.T) {
	n, got, _ := newTestNotifier()

	n.NotifyConfigReloaded()
	n.NotifyConfigError(errors.New("bad position"))
	n.NotifyThemeReloaded("nord")
	n.NotifyThemeError(errors.New("missing"))
	n.NotifyStartup("1.0.0")
	n.NotifyAudioError(errors.New("no device"))

	require.Len(t, *got, 6)

	tests := []struct {
		idx  int
		key  string
		typ  toast.Type
		body string
	}{
		{0, "config-reload", toast.TypeSuccess, "toastui configuration has been successfully reloaded."},
		{1, "config-error", toast.TypeError, "Failed to reload configuration: bad position"},
		{2, "theme-reload", toast.TypeInfo, "Theme 'nord' has been reloaded."},
		{3, "theme-error", toast.TypeWarning, "Failed to load theme: missing"},
		{4, "startup", toast.TypeInfo, "Toast daemon v1.0.0 is now running."},
		{5, "audio-error", toast.TypeWarning, "Failed to play notification sound: no device"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			notice := (*got)[tt.idx]
			assert.Equal(t, tt.key, notice.Key)
			assert.Equal(t, tt.typ, notice.Type)
			assert.Equal(t, tt.body, notice.Message)
			assert.Equal(t, DefaultNoticeDuration, notice.Duration)
		})
	}
}

func TestInternalNotifier_Disabled(t *testing.T) {
	n, got, _ := newTestNotifier()
	n.SetEnabled(false)
	n.NotifyStartup("1.0.0")
	assert.Empty(t, *got)
}

func TestInternalNotifier_NoHandler(t *testing.T) {
	n := NewInternalNotifier(nil)
	assert.NotPanics(t, func() { n.NotifyStartup("1.0.0") })
}

func TestManagerHandler(t *testing.T) {
	clock := toast.NewManualClock(time.Date(2026, 5, 6, 7, 8, 9, 0, time.UTC))
	m := toast.NewManager(dom.New(), clock)

	n := NewInternalNotifier(nil)
	n.SetNotifyHandler(ManagerHandler(m, func(fn func()) { fn() }))
	n.NotifyConfigError(errors.New("boom"))

	active := m.Active()
	require.Len(t, active, 1)
	assert.Equal(t, toast.TypeError, active[0].Type)
	assert.Equal(t, "Configuration Error", active[0].Title)
	assert.Equal(t, DefaultNoticeDuration, active[0].Duration)
}

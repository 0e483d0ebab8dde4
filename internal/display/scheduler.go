package display

import (
	"time"

	"github.com/diamondburned/gotk4/pkg/core/glib"

	"github.com/jmylchreest/toastui/internal/toast"
)

// Scheduler is a toast.Scheduler backed by GLib main loop timeouts, so every
// callback runs on the GTK main thread.
type Scheduler struct{}

var _ toast.Scheduler = Scheduler{}

// Now returns the wall clock time.
func (Scheduler) Now() time.Time {
	return time.Now()
}

// AfterFunc runs fn on the main loop after d.
func (Scheduler) AfterFunc(d time.Duration, fn func()) toast.Timer {
	if d < 0 {
		d = 0
	}
	t := &glibTimer{}
	t.handle = glib.TimeoutAdd(uint(d.Milliseconds()), func() bool {
		if t.done {
			return false
		}
		t.done = true
		fn()
		return false
	})
	return t
}

// Post queues fn on the main loop. It is safe to call from any goroutine.
func (Scheduler) Post(fn func()) {
	glib.IdleAdd(func() bool {
		fn()
		return false
	})
}

type glibTimer struct {
	handle glib.SourceHandle
	done   bool
}

// Stop removes the pending timeout. Removing a source that already ran makes
// GLib complain, so fired timers are tracked.
func (t *glibTimer) Stop() bool {
	if t.done {
		return false
	}
	t.done = true
	glib.SourceRemove(t.handle)
	return true
}

package dbus

import (
	"log/slog"
	"sync"

	"github.com/jmylchreest/toastui/internal/toast"
)

// Bridge connects a NotificationServer to a toast manager.
//
// Server callbacks arrive on D-Bus goroutines and are handed to post, which
// must run them on the goroutine owning the manager. The ID maps are guarded
// by mu, which is never held across a manager call since removals call back
// into Observe.
type Bridge struct {
	server  *NotificationServer
	manager *toast.Manager
	post    func(func())
	logger  *slog.Logger

	mu        sync.Mutex
	toastByID map[uint32]string
	idByToast map[string]uint32
}

// NewBridge wires server to manager. Register Observe with the manager to
// get NotificationClosed signals.
func NewBridge(server *NotificationServer, manager *toast.Manager, post func(func()), logger *slog.Logger) *Bridge {
	if logger == nil {
		logger = slog.Default()
	}
	b := &Bridge{
		server:    server,
		manager:   manager,
		post:      post,
		logger:    logger,
		toastByID: make(map[uint32]string),
		idByToast: make(map[string]uint32),
	}
	server.SetHandler(b)
	return b
}

// Show displays n as a toast, replacing the toast already bound to id.
func (b *Bridge) Show(n *DBusNotification, id uint32) {
	b.post(func() {
		// A replaced toast leaves silently; the ID lives on.
		b.mu.Lock()
		old, replaced := b.toastByID[id]
		if replaced {
			delete(b.idByToast, old)
		}
		b.mu.Unlock()
		if replaced {
			b.manager.Remove(old)
		}

		message, opts := n.Options()
		h := b.manager.Show(message, opts...)

		b.mu.Lock()
		b.toastByID[id] = h.ID()
		b.idByToast[h.ID()] = id
		b.mu.Unlock()

		b.logger.Debug("notification shown as toast",
			"id", id,
			"toast", h.ID(),
			"app_name", n.AppName,
		)
	})
}

// Close removes the toast bound to id.
func (b *Bridge) Close(id uint32) {
	b.post(func() {
		b.mu.Lock()
		tid, ok := b.toastByID[id]
		b.mu.Unlock()
		if ok {
			b.manager.Remove(tid)
		}
	})
}

// ToastID returns the toast shown for a notification ID. It is safe to call
// from any goroutine.
func (b *Bridge) ToastID(id uint32) (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	tid, ok := b.toastByID[id]
	return tid, ok
}

// Observe is a toast.Observer that emits NotificationClosed when a toast
// starts leaving the screen.
func (b *Bridge) Observe(ev toast.Event) {
	if ev.Kind != toast.EventRemoving {
		return
	}
	b.mu.Lock()
	id, ok := b.idByToast[ev.Toast.ID]
	if ok {
		delete(b.idByToast, ev.Toast.ID)
		delete(b.toastByID, id)
	}
	b.mu.Unlock()
	if !ok {
		return
	}

	if err := b.server.CloseWithReason(id, CloseReasonFor(ev.Reason)); err != nil {
		b.logger.Warn("failed to emit NotificationClosed signal", "id", id, "error", err)
	}
}

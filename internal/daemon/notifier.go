package daemon

import (
	"log/slog"
	"sync"
	"time"

	"github.com/jmylchreest/toastui/internal/toast"
)

// DefaultNoticeDuration is how long internal notices stay on screen.
const DefaultNoticeDuration = 5 * time.Second

// Notice is an internal notification about the daemon itself.
type Notice struct {
	Key      string
	Type     toast.Type
	Title    string
	Message  string
	Duration time.Duration
}

// InternalNotifier handles sending notifications about internal events.
// It uses rate limiting to prevent notification floods.
type InternalNotifier struct {
	mu     sync.Mutex
	logger *slog.Logger
	now    func() time.Time

	// Handler for showing notices
	notifyHandler func(Notice)

	// Rate limiting
	lastNotifyTime map[string]time.Time // key -> last notification time
	minInterval    time.Duration        // minimum time between same notifications

	// Enabled flag
	enabled bool
}

// NewInternalNotifier creates a new InternalNotifier.
func NewInternalNotifier(logger *slog.Logger) *InternalNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &InternalNotifier{
		logger:         logger,
		now:            time.Now,
		lastNotifyTime: make(map[string]time.Time),
		minInterval:    5 * time.Second, // Don't repeat same notification within 5 seconds
		enabled:        true,
	}
}

// SetNotifyHandler sets the function to call when showing a notice.
func (n *InternalNotifier) SetNotifyHandler(handler func(Notice)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notifyHandler = handler
}

// SetEnabled enables or disables internal notifications.
func (n *InternalNotifier) SetEnabled(enabled bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.enabled = enabled
}

// SetMinInterval sets the minimum interval between duplicate notifications.
func (n *InternalNotifier) SetMinInterval(interval time.Duration) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.minInterval = interval
}

// Notify sends an internal notice if not rate-limited.
// The key is used for rate limiting - same key won't notify again within minInterval.
func (n *InternalNotifier) Notify(key, title, message string, typ toast.Type) {
	n.mu.Lock()

	if !n.enabled {
		n.mu.Unlock()
		return
	}

	handler := n.notifyHandler
	if handler == nil {
		n.mu.Unlock()
		n.logger.Debug("internal notification skipped: no handler", "title", title)
		return
	}

	now := n.now()
	if lastTime, ok := n.lastNotifyTime[key]; ok && now.Sub(lastTime) < n.minInterval {
		n.mu.Unlock()
		n.logger.Debug("internal notification rate-limited", "key", key, "title", title)
		return
	}
	n.lastNotifyTime[key] = now
	n.mu.Unlock()

	n.logger.Debug("sending internal notification", "key", key, "title", title, "type", typ)

	handler(Notice{
		Key:      key,
		Type:     typ,
		Title:    title,
		Message:  message,
		Duration: DefaultNoticeDuration,
	})
}

// NotifyConfigReloaded sends a notification about config being reloaded.
func (n *InternalNotifier) NotifyConfigReloaded() {
	n.Notify(
		"config-reload",
		"Configuration Reloaded",
		"toastui configuration has been successfully reloaded.",
		toast.TypeSuccess,
	)
}

// NotifyConfigError sends a notification about config validation error.
func (n *InternalNotifier) NotifyConfigError(err error) {
	n.Notify(
		"config-error",
		"Configuration Error",
		"Failed to reload configuration: "+err.Error(),
		toast.TypeError,
	)
}

// NotifyThemeReloaded sends a notification about theme being reloaded.
func (n *InternalNotifier) NotifyThemeReloaded(themeName string) {
	n.Notify(
		"theme-reload",
		"Theme Reloaded",
		"Theme '"+themeName+"' has been reloaded.",
		toast.TypeInfo,
	)
}

// NotifyThemeError sends a notification about theme loading error.
func (n *InternalNotifier) NotifyThemeError(err error) {
	n.Notify(
		"theme-error",
		"Theme Error",
		"Failed to load theme: "+err.Error(),
		toast.TypeWarning,
	)
}

// NotifyStartup sends a notification that the daemon has started.
func (n *InternalNotifier) NotifyStartup(version string) {
	n.Notify(
		"startup",
		"toastd Started",
		"Toast daemon v"+version+" is now running.",
		toast.TypeInfo,
	)
}

// NotifyAudioError sends a notification about audio playback error.
func (n *InternalNotifier) NotifyAudioError(err error) {
	n.Notify(
		"audio-error",
		"Audio Error",
		"Failed to play notification sound: "+err.Error(),
		toast.TypeWarning,
	)
}

// ManagerHandler returns a notify handler that shows notices on m. post must
// run its argument on the goroutine that owns m.
func ManagerHandler(m *toast.Manager, post func(func())) func(Notice) {
	return func(notice Notice) {
		post(func() {
			m.Show(notice.Message,
				toast.WithType(notice.Type),
				toast.WithTitle(notice.Title),
				toast.WithDuration(notice.Duration),
			)
		})
	}
}

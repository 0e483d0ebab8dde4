package dbus

import (
	"strings"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/jmylchreest/toastui/internal/toast"
)

// Hint keys understood in addition to the freedesktop ones.
const (
	HintType     = "x-toastui-type"
	HintPosition = "x-toastui-position"
)

// Urgency levels defined by the notification specification.
const (
	UrgencyLow      = 0
	UrgencyNormal   = 1
	UrgencyCritical = 2
)

// CloseReason represents the reason for closing a notification.
// These values are defined by the freedesktop.org notification specification.
type CloseReason uint32

const (
	// CloseReasonExpired indicates the notification expired (timeout reached).
	CloseReasonExpired CloseReason = 1
	// CloseReasonDismissed indicates the user dismissed the notification.
	CloseReasonDismissed CloseReason = 2
	// CloseReasonClosed indicates the notification was closed via CloseNotification.
	CloseReasonClosed CloseReason = 3
	// CloseReasonUndefined is reserved by the freedesktop protocol.
	CloseReasonUndefined CloseReason = 4
)

// String returns the string representation of the close reason.
func (r CloseReason) String() string {
	switch r {
	case CloseReasonExpired:
		return "expired"
	case CloseReasonDismissed:
		return "dismissed"
	case CloseReasonClosed:
		return "closed"
	case CloseReasonUndefined:
		return "undefined"
	default:
		return "unknown"
	}
}

// CloseReasonFor maps a toast removal reason to its D-Bus close reason.
func CloseReasonFor(r toast.RemoveReason) CloseReason {
	switch r {
	case toast.ReasonExpired:
		return CloseReasonExpired
	case toast.ReasonDismissed:
		return CloseReasonDismissed
	case toast.ReasonClosed:
		return CloseReasonClosed
	default:
		return CloseReasonUndefined
	}
}

// DBusNotification represents an incoming D-Bus Notify call.
// It contains the raw parameters from the org.freedesktop.Notifications.Notify method.
type DBusNotification struct {
	AppName       string
	ReplacesID    uint32
	AppIcon       string
	Summary       string
	Body          string
	Actions       []string // Alternating key, label pairs
	Hints         map[string]dbus.Variant
	ExpireTimeout int32 // -1 = server default, 0 = never expire
}

func (n *DBusNotification) stringHint(key string) string {
	if v, ok := n.Hints[key]; ok {
		if s, ok := v.Value().(string); ok {
			return s
		}
	}
	return ""
}

func (n *DBusNotification) boolHint(key string) bool {
	if v, ok := n.Hints[key]; ok {
		if b, ok := v.Value().(bool); ok {
			return b
		}
	}
	return false
}

// Urgency extracts the urgency hint from the notification.
// Returns UrgencyNormal if not specified.
func (n *DBusNotification) Urgency() int {
	if v, ok := n.Hints["urgency"]; ok {
		if b, ok := v.Value().(byte); ok {
			return int(b)
		}
	}
	return UrgencyNormal
}

// Category extracts the category hint from the notification.
// Returns empty string if not specified.
func (n *DBusNotification) Category() string {
	return n.stringHint("category")
}

// SuppressSound returns true if the suppress-sound hint is set.
func (n *DBusNotification) SuppressSound() bool {
	return n.boolHint("suppress-sound")
}

// Transient returns true if the transient hint is set.
func (n *DBusNotification) Transient() bool {
	return n.boolHint("transient")
}

// ToastType resolves the toast type. The x-toastui-type hint wins, then
// critical urgency, then the category suffix (".error", ".complete").
func (n *DBusNotification) ToastType() toast.Type {
	if t := strings.TrimSpace(n.stringHint(HintType)); t != "" {
		return toast.Type(strings.ToLower(t))
	}
	if n.Urgency() == UrgencyCritical {
		return toast.TypeError
	}

	category := n.Category()
	switch {
	case strings.HasSuffix(category, ".error"):
		return toast.TypeError
	case strings.HasSuffix(category, ".complete"):
		return toast.TypeSuccess
	case strings.HasSuffix(category, ".warning"):
		return toast.TypeWarning
	}
	return toast.TypeInfo
}

// Position returns the x-toastui-position hint, or "" for the default.
func (n *DBusNotification) Position() toast.Position {
	return toast.Position(n.stringHint(HintPosition))
}

// Options converts the notification into toast options. The summary is the
// title and the body the message; a notification with only a summary shows
// it as the message under the default title.
func (n *DBusNotification) Options() (string, []toast.Option) {
	message := n.Body
	var opts []toast.Option
	if message == "" {
		message = n.Summary
	} else if n.Summary != "" {
		opts = append(opts, toast.WithTitle(n.Summary))
	}

	opts = append(opts, toast.WithType(n.ToastType()))
	if p := n.Position(); p != "" {
		opts = append(opts, toast.WithPosition(p))
	}

	// -1 (or any negative value) keeps the configured default.
	if n.ExpireTimeout >= 0 {
		opts = append(opts, toast.WithDuration(time.Duration(n.ExpireTimeout)*time.Millisecond))
	}
	return message, opts
}

// ServerCapabilities lists the capabilities advertised by toastd.
var ServerCapabilities = []string{
	"body",       // Support body text
	"sound",      // Play sounds
	HintType,     // Toast type hint
	HintPosition, // Toast position hint
}

// ServerInfo contains information about the notification server.
type ServerInfo struct {
	Name        string // "toastd"
	Vendor      string // "toastui"
	Version     string // Build version
	SpecVersion string // "1.2"
}

// DefaultServerInfo returns the default server information.
func DefaultServerInfo() ServerInfo {
	return ServerInfo{
		Name:        "toastd",
		Vendor:      "toastui",
		Version:     "0.0.1", // Will be replaced by build-time version
		SpecVersion: "1.2",
	}
}

package dbus

import (
	"testing"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"

	"github.com/jmylchreest/toastui/internal/toast"
)

func TestCloseReasonString(t *testing.T) {
	tests := []struct {
		reason   CloseReason
		expected string
	}{
		{CloseReasonExpired, "expired"},
		{CloseReasonDismissed, "dismissed"},
		{CloseReasonClosed, "closed"},
		{CloseReasonUndefined, "undefined"},
		{CloseReason(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.reason.String())
		})
	}
}

func TestCloseReasonFor(t *testing.T) {
	assert.Equal(t, CloseReasonExpired, CloseReasonFor(toast.ReasonExpired))
	assert.Equal(t, CloseReasonDismissed, CloseReasonFor(toast.ReasonDismissed))
	assert.Equal(t, CloseReasonClosed, CloseReasonFor(toast.ReasonClosed))
	assert.Equal(t, CloseReasonUndefined, CloseReasonFor(toast.ReasonNone))
}

func TestUrgency(t *testing.T) {
	tests := []struct {
		name     string
		hints    map[string]dbus.Variant
		expected int
	}{
		{"no hint", nil, UrgencyNormal},
		{"low", map[string]dbus.Variant{"urgency": dbus.MakeVariant(byte(0))}, UrgencyLow},
		{"critical", map[string]dbus.Variant{"urgency": dbus.MakeVariant(byte(2))}, UrgencyCritical},
		{"wrong type", map[string]dbus.Variant{"urgency": dbus.MakeVariant("high")}, UrgencyNormal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &DBusNotification{Hints: tt.hints}
			assert.Equal(t, tt.expected, n.Urgency())
		})
	}
}

func TestToastType(t *testing.T) {
	tests := []struct {
		name     string
		hints    map[string]dbus.Variant
		expected toast.Type
	}{
		{"default", nil, toast.TypeInfo},
		{"low urgency", map[string]dbus.Variant{"urgency": dbus.MakeVariant(byte(0))}, toast.TypeInfo},
		{"critical urgency", map[string]dbus.Variant{"urgency": dbus.MakeVariant(byte(2))}, toast.TypeError},
		{"error category", map[string]dbus.Variant{"category": dbus.MakeVariant("network.error")}, toast.TypeError},
		{"complete category", map[string]dbus.Variant{"category": dbus.MakeVariant("transfer.complete")}, toast.TypeSuccess},
		{"other category", map[string]dbus.Variant{"category": dbus.MakeVariant("email.arrived")}, toast.TypeInfo},
		{"explicit hint", map[string]dbus.Variant{
			HintType:  dbus.MakeVariant("Warning"),
			"urgency": dbus.MakeVariant(byte(2)),
		}, toast.TypeWarning},
		{"blank hint", map[string]dbus.Variant{HintType: dbus.MakeVariant("  ")}, toast.TypeInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &DBusNotification{Hints: tt.hints}
			assert.Equal(t, tt.expected, n.ToastType())
		})
	}
}

func TestSuppressAndTransient(t *testing.T) {
	n := &DBusNotification{Hints: map[string]dbus.Variant{
		"suppress-sound": dbus.MakeVariant(true),
		"transient":      dbus.MakeVariant(true),
	}}
	assert.True(t, n.SuppressSound())
	assert.True(t, n.Transient())
	assert.False(t, (&DBusNotification{}).SuppressSound())
}

func TestSendRequest_RoundTrip(t *testing.T) {
	five := 5 * time.Second
	zero := time.Duration(0)

	tests := []struct {
		name       string
		req        SendRequest
		wantExpire int32
		wantType   toast.Type
	}{
		{"defaults", SendRequest{Message: "hi"}, -1, toast.TypeInfo},
		{"timed", SendRequest{Message: "hi", Duration: &five, Type: toast.TypeSuccess}, 5000, toast.TypeSuccess},
		{"persistent", SendRequest{Message: "hi", Duration: &zero, Type: toast.TypeError}, 0, toast.TypeError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := tt.req.Notification()
			assert.Equal(t, "toastui", n.AppName)
			assert.Equal(t, tt.wantExpire, n.ExpireTimeout)
			assert.Equal(t, tt.wantType, n.ToastType())
		})
	}

	n := SendRequest{Message: "m", Position: toast.PositionBottomLeft}.Notification()
	assert.Equal(t, toast.PositionBottomLeft, n.Position())
}

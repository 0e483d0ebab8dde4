package dbus

import (
	"errors"
	"fmt"

	"github.com/godbus/dbus/v5"
)

// errNotConnected is returned when a signal is emitted before Start.
var errNotConnected = errors.New("not connected to D-Bus")

func (s *NotificationServer) emitOnBus(member string, args ...any) error {
	if s.conn == nil {
		return errNotConnected
	}
	return s.conn.Emit(DBusPath, DBusInterface+"."+member, args...)
}

// EmitNotificationClosed emits the NotificationClosed signal.
// This signal is emitted when a notification is closed, either by timeout,
// user dismissal, or explicit close request.
func (s *NotificationServer) EmitNotificationClosed(id uint32, reason CloseReason) error {
	if err := s.emit("NotificationClosed", id, uint32(reason)); err != nil {
		return fmt.Errorf("failed to emit NotificationClosed signal: %w", err)
	}

	s.logger.Debug("emitted NotificationClosed signal", "id", id, "reason", reason.String())
	return nil
}

// CloseWithReason closes a notification and emits the appropriate signal.
// It does nothing if the notification was already closed.
func (s *NotificationServer) CloseWithReason(id uint32, reason CloseReason) error {
	if !s.live.release(id) {
		return nil
	}
	return s.EmitNotificationClosed(id, reason)
}

// Connection returns the underlying D-Bus connection.
func (s *NotificationServer) Connection() *dbus.Conn {
	return s.conn
}

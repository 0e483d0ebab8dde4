// Package dbus implements the org.freedesktop.Notifications D-Bus interface
// on top of the toast manager. Notify calls become toasts, CloseNotification
// removes them, and NotificationClosed is emitted when a toast leaves the
// screen. A Client is provided for sending toasts from the command line.
package dbus

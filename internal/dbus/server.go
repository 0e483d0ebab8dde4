package dbus

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
)

const (
	// DBusInterface is the notification interface name.
	DBusInterface = "org.freedesktop.Notifications"
	// DBusPath is the notification object path.
	DBusPath = "/org/freedesktop/Notifications"
	// DBusBusName is the bus name to claim.
	DBusBusName = "org.freedesktop.Notifications"
)

// introspectXML describes the exported object. Only NotificationClosed is
// advertised since toasts carry no actions.
const introspectXML = `
<node>
	<interface name="` + DBusInterface + `">
		<method name="GetCapabilities">
			<arg name="capabilities" type="as" direction="out"/>
		</method>
		<method name="GetServerInformation">
			<arg name="name" type="s" direction="out"/>
			<arg name="vendor" type="s" direction="out"/>
			<arg name="version" type="s" direction="out"/>
			<arg name="spec_version" type="s" direction="out"/>
		</method>
		<method name="Notify">
			<arg name="app_name" type="s" direction="in"/>
			<arg name="replaces_id" type="u" direction="in"/>
			<arg name="app_icon" type="s" direction="in"/>
			<arg name="summary" type="s" direction="in"/>
			<arg name="body" type="s" direction="in"/>
			<arg name="actions" type="as" direction="in"/>
			<arg name="hints" type="a{sv}" direction="in"/>
			<arg name="expire_timeout" type="i" direction="in"/>
			<arg name="id" type="u" direction="out"/>
		</method>
		<method name="CloseNotification">
			<arg name="id" type="u" direction="in"/>
		</method>
		<signal name="NotificationClosed">
			<arg name="id" type="u"/>
			<arg name="reason" type="u"/>
		</signal>
	</interface>` + introspect.IntrospectDataString + `</node>`

// Handler receives the requests a NotificationServer accepts.
// Both methods run on the D-Bus goroutine that delivered the call.
type Handler interface {
	// Show is called for every Notify with the ID the caller was given.
	Show(n *DBusNotification, id uint32)
	// Close is called when a caller closes a notification that is still live.
	Close(id uint32)
}

// liveSet hands out notification IDs and remembers which are on screen.
type liveSet struct {
	mu   sync.Mutex
	last uint32
	ids  map[uint32]struct{}
}

func newLiveSet() *liveSet {
	return &liveSet{ids: make(map[uint32]struct{})}
}

// claim returns replaces when it is still live, otherwise a fresh ID.
func (l *liveSet) claim(replaces uint32) uint32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.ids[replaces]; ok && replaces != 0 {
		return replaces
	}
	l.last++
	if l.last == 0 {
		l.last = 1
	}
	l.ids[l.last] = struct{}{}
	return l.last
}

// release forgets id and reports whether it was live.
func (l *liveSet) release(id uint32) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.ids[id]
	delete(l.ids, id)
	return ok
}

func (l *liveSet) has(id uint32) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.ids[id]
	return ok
}

// NotificationServer serves org.freedesktop.Notifications and turns each
// call into a toast via its Handler.
type NotificationServer struct {
	conn    *dbus.Conn
	logger  *slog.Logger
	handler Handler
	info    ServerInfo
	live    *liveSet

	// emit sends a signal; replaced in tests
	emit func(member string, args ...any) error

	mu      sync.Mutex
	running bool
}

// NewNotificationServer creates a server that is not yet on the bus.
func NewNotificationServer(logger *slog.Logger) *NotificationServer {
	if logger == nil {
		logger = slog.Default()
	}
	s := &NotificationServer{
		logger: logger,
		info:   DefaultServerInfo(),
		live:   newLiveSet(),
	}
	s.emit = s.emitOnBus
	return s
}

// SetHandler sets the receiver for Notify and CloseNotification.
func (s *NotificationServer) SetHandler(h Handler) {
	s.handler = h
}

// SetServerInfo sets the values reported by GetServerInformation.
func (s *NotificationServer) SetServerInfo(info ServerInfo) {
	s.info = info
}

// Start exports the server on the session bus and claims DBusBusName.
func (s *NotificationServer) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return fmt.Errorf("server already running")
	}

	conn, err := dbus.SessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}
	if err := s.export(conn); err != nil {
		return err
	}

	reply, err := conn.RequestName(DBusBusName, dbus.NameFlagDoNotQueue|dbus.NameFlagReplaceExisting)
	if err != nil {
		return fmt.Errorf("failed to request bus name: %w", err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return fmt.Errorf("bus name %s already taken", DBusBusName)
	}

	s.conn = conn
	s.running = true
	s.logger.Info("D-Bus notification server started", "name", DBusBusName, "path", DBusPath)
	return nil
}

func (s *NotificationServer) export(conn *dbus.Conn) error {
	if err := conn.Export(s, DBusPath, DBusInterface); err != nil {
		return fmt.Errorf("failed to export object: %w", err)
	}
	if err := conn.Export(introspect.Introspectable(introspectXML), DBusPath,
		"org.freedesktop.DBus.Introspectable"); err != nil {
		return fmt.Errorf("failed to export introspectable: %w", err)
	}
	return nil
}

// Stop gives up the bus name. The shared session connection stays open.
func (s *NotificationServer) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return nil
	}
	s.running = false

	if _, err := s.conn.ReleaseName(DBusBusName); err != nil {
		s.logger.Warn("failed to release bus name", "error", err)
	}
	s.logger.Info("D-Bus notification server stopped")
	return nil
}

// GetCapabilities implements GetCapabilities() -> as.
func (s *NotificationServer) GetCapabilities() ([]string, *dbus.Error) {
	return ServerCapabilities, nil
}

// GetServerInformation implements GetServerInformation() -> (ssss).
func (s *NotificationServer) GetServerInformation() (string, string, string, string, *dbus.Error) {
	return s.info.Name, s.info.Vendor, s.info.Version, s.info.SpecVersion, nil
}

// Notify implements Notify(susssasa{sv}i) -> u.
//
// replacesID is honoured only while that toast is still live; otherwise the
// caller gets a new ID.
func (s *NotificationServer) Notify(
	appName string,
	replacesID uint32,
	appIcon string,
	summary string,
	body string,
	actions []string,
	hints map[string]dbus.Variant,
	expireTimeout int32,
) (uint32, *dbus.Error) {
	id := s.live.claim(replacesID)
	s.logger.Debug("Notify called",
		"app_name", appName,
		"replaces_id", replacesID,
		"id", id,
		"summary", summary,
	)

	if s.handler != nil {
		s.handler.Show(&DBusNotification{
			AppName:       appName,
			ReplacesID:    replacesID,
			AppIcon:       appIcon,
			Summary:       summary,
			Body:          body,
			Actions:       actions,
			Hints:         hints,
			ExpireTimeout: expireTimeout,
		}, id)
	}
	return id, nil
}

// CloseNotification implements CloseNotification(u). Unknown IDs are ignored.
func (s *NotificationServer) CloseNotification(id uint32) *dbus.Error {
	if !s.live.release(id) {
		return nil
	}
	if s.handler != nil {
		s.handler.Close(id)
	}
	if err := s.EmitNotificationClosed(id, CloseReasonClosed); err != nil {
		s.logger.Warn("failed to emit NotificationClosed signal", "id", id, "error", err)
	}
	return nil
}

// MarkClosed forgets id without emitting a signal.
func (s *NotificationServer) MarkClosed(id uint32) {
	s.live.release(id)
}

// IsActive reports whether id belongs to a toast still on screen.
func (s *NotificationServer) IsActive(id uint32) bool {
	return s.live.has(id)
}

package dbus

import (
	"context"
	"fmt"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/jmylchreest/toastui/internal/toast"
)

// SendRequest describes a toast to send to a running notification server.
type SendRequest struct {
	AppName  string
	Title    string
	Message  string
	Type     toast.Type
	Position toast.Position
	// Duration is nil for the server default. Zero keeps the toast until it
	// is closed.
	Duration   *time.Duration
	ReplacesID uint32
}

// Notification builds the Notify arguments for r.
func (r SendRequest) Notification() *DBusNotification {
	hints := map[string]dbus.Variant{}
	if r.Type != "" {
		hints[HintType] = dbus.MakeVariant(string(r.Type))
		if r.Type == toast.TypeError {
			hints["urgency"] = dbus.MakeVariant(byte(UrgencyCritical))
		}
	}
	if r.Position != "" {
		hints[HintPosition] = dbus.MakeVariant(string(r.Position))
	}

	expire := int32(-1)
	if r.Duration != nil {
		expire = int32(max(0, r.Duration.Milliseconds()))
	}

	appName := r.AppName
	if appName == "" {
		appName = "toastui"
	}

	return &DBusNotification{
		AppName:       appName,
		ReplacesID:    r.ReplacesID,
		Summary:       r.Title,
		Body:          r.Message,
		Actions:       []string{},
		Hints:         hints,
		ExpireTimeout: expire,
	}
}

// Client calls a notification server on the session bus.
type Client struct {
	conn *dbus.Conn
	obj  dbus.BusObject
}

// NewClient connects to the session bus.
func NewClient() (*Client, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}
	return &Client{
		conn: conn,
		obj:  conn.Object(DBusBusName, DBusPath),
	}, nil
}

// Send shows a toast and returns its notification ID.
func (c *Client) Send(ctx context.Context, r SendRequest) (uint32, error) {
	n := r.Notification()

	var id uint32
	call := c.obj.CallWithContext(ctx, DBusInterface+".Notify", 0,
		n.AppName, n.ReplacesID, n.AppIcon, n.Summary, n.Body, n.Actions, n.Hints, n.ExpireTimeout)
	if err := call.Store(&id); err != nil {
		return 0, fmt.Errorf("notify failed: %w", err)
	}
	return id, nil
}

// CloseNotification closes a toast by notification ID.
func (c *Client) CloseNotification(ctx context.Context, id uint32) error {
	if err := c.obj.CallWithContext(ctx, DBusInterface+".CloseNotification", 0, id).Err; err != nil {
		return fmt.Errorf("close notification failed: %w", err)
	}
	return nil
}

// ServerInformation queries the running server.
func (c *Client) ServerInformation(ctx context.Context) (ServerInfo, error) {
	var info ServerInfo
	call := c.obj.CallWithContext(ctx, DBusInterface+".GetServerInformation", 0)
	if err := call.Store(&info.Name, &info.Vendor, &info.Version, &info.SpecVersion); err != nil {
		return ServerInfo{}, fmt.Errorf("get server information failed: %w", err)
	}
	return info, nil
}

// Close closes the bus connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

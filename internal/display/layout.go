package display

import (
	"log/slog"
	"unsafe"

	layershell "github.com/diamondburned/gotk4-layer-shell/pkg/gtk4layershell"
	"github.com/diamondburned/gotk4/pkg/core/glib"
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/toastui/internal/config"
	"github.com/jmylchreest/toastui/internal/toast"
)

// LayoutManager places the per-position windows and handles multi-monitor
// selection.
type LayoutManager struct {
	config  config.DisplayConfig
	display *gdk.Display
	logger  *slog.Logger
}

// NewLayoutManager creates a new layout manager.
func NewLayoutManager(cfg config.DisplayConfig, logger *slog.Logger) *LayoutManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &LayoutManager{
		config:  cfg,
		display: gdk.DisplayGetDefault(),
		logger:  logger,
	}
}

// SetConfig replaces the display settings. Existing windows are re-anchored
// by the renderer.
func (l *LayoutManager) SetConfig(cfg config.DisplayConfig) {
	l.config = cfg
}

// InitWindow turns window into a layer-shell surface for position.
func (l *LayoutManager) InitWindow(window *gtk.Window, position toast.Position) {
	layershell.InitForWindow(window)
	layershell.SetLayer(window, layershell.LayerShellLayerOverlay)
	layershell.SetExclusiveZone(window, 0) // Don't reserve space
	layershell.SetKeyboardMode(window, layershell.LayerShellKeyboardModeNone)
	layershell.SetNamespace(window, "toastui-"+string(position))

	l.SetMonitor(window, l.GetMonitor())
	l.Anchor(window, position)
}

// Anchor sets the layer-shell anchors and margins for position.
func (l *LayoutManager) Anchor(window *gtk.Window, position toast.Position) {
	e := anchorsFor(position)

	layershell.SetAnchor(window, layershell.LayerShellEdgeTop, e.Top)
	layershell.SetAnchor(window, layershell.LayerShellEdgeBottom, e.Bottom)
	layershell.SetAnchor(window, layershell.LayerShellEdgeLeft, e.Left)
	layershell.SetAnchor(window, layershell.LayerShellEdgeRight, e.Right)

	if e.Top {
		layershell.SetMargin(window, layershell.LayerShellEdgeTop, l.config.OffsetY)
	}
	if e.Bottom {
		layershell.SetMargin(window, layershell.LayerShellEdgeBottom, l.config.OffsetY)
	}
	if e.Left {
		layershell.SetMargin(window, layershell.LayerShellEdgeLeft, l.config.OffsetX)
	}
	if e.Right {
		layershell.SetMargin(window, layershell.LayerShellEdgeRight, l.config.OffsetX)
	}
}

// GetMonitor returns the monitor to display toasts on based on config.
// Config values:
// - 0: Compositor default (returns nil)
// - 1+: Specific monitor (1-indexed)
//
// Returns the first monitor if the configured one is not available.
func (l *LayoutManager) GetMonitor() *gdk.Monitor {
	if l.display == nil {
		return nil
	}

	monitorNum := l.config.Monitor
	if monitorNum <= 0 {
		return nil
	}

	monitors := l.display.Monitors()
	if monitors == nil {
		l.logger.Warn("no monitors list available")
		return nil
	}

	index := uint(monitorNum - 1)
	if index >= monitors.NItems() {
		l.logger.Warn("configured monitor not available, using primary",
			"configured", monitorNum,
			"available", monitors.NItems(),
		)
		return getPrimaryMonitor(l.display)
	}

	return wrapMonitor(monitors.Item(index))
}

// getPrimaryMonitor returns the first available monitor. GTK4 has no
// primary monitor concept.
func getPrimaryMonitor(display *gdk.Display) *gdk.Monitor {
	monitors := display.Monitors()
	if monitors == nil || monitors.NItems() == 0 {
		return nil
	}
	return wrapMonitor(monitors.Item(0))
}

// wrapMonitor wraps a glib.Object as a gdk.Monitor.
// gotk4 doesn't expose its own wrapMonitor, but gdk.Monitor only embeds the
// object pointer, so the cast mirrors what the bindings do internally.
func wrapMonitor(obj *glib.Object) *gdk.Monitor {
	if obj == nil {
		return nil
	}
	type monitor struct {
		_ [0]func()
		*glib.Object
	}
	m := &monitor{Object: obj}
	return (*gdk.Monitor)(unsafe.Pointer(m))
}

// SetMonitor configures a window to appear on the specified monitor.
func (l *LayoutManager) SetMonitor(window *gtk.Window, monitor *gdk.Monitor) {
	if monitor == nil {
		return
	}
	layershell.SetMonitor(window, monitor)
}

// HandleMonitorChange should be called when monitors change.
func (l *LayoutManager) HandleMonitorChange() {
	l.display = gdk.DisplayGetDefault()
	if l.display == nil {
		l.logger.Warn("no display available after monitor change")
		return
	}

	if monitors := l.display.Monitors(); monitors != nil {
		l.logger.Info("monitor configuration changed", "count", monitors.NItems())
	}
}

package display

import (
	"log/slog"
	"time"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/toastui/internal/config"
	"github.com/jmylchreest/toastui/internal/toast"
)

// Renderer is a toast.Renderer that draws toasts into layer-shell windows.
type Renderer struct {
	app    *gtk.Application
	logger *slog.Logger
	sched  Scheduler
	layout *LayoutManager

	cfg        *config.Config
	containers map[toast.Position]*Container
}

var _ toast.Renderer = (*Renderer)(nil)

// NewRenderer creates a renderer for app. It fails if there is no display.
func NewRenderer(app *gtk.Application, cfg *config.Config, logger *slog.Logger) (*Renderer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if gdk.DisplayGetDefault() == nil {
		return nil, &DisplayError{Message: "no display available"}
	}

	return &Renderer{
		app:        app,
		logger:     logger,
		layout:     NewLayoutManager(cfg.Display, logger),
		cfg:        cfg,
		containers: make(map[toast.Position]*Container),
	}, nil
}

// Scheduler returns the GLib scheduler the renderer's animations run on.
func (r *Renderer) Scheduler() Scheduler {
	return r.sched
}

// UpdateConfig applies new display and animation settings. Windows are
// re-anchored; toasts already on screen keep their animations.
func (r *Renderer) UpdateConfig(cfg *config.Config) {
	r.cfg = cfg
	r.layout.SetConfig(cfg.Display)
	for position, c := range r.containers {
		r.layout.Anchor(c.window, position)
		c.box.SetSpacing(cfg.Display.Gap)
		c.window.SetDefaultSize(cfg.Display.Width, -1)
	}
}

// HandleMonitorChange re-targets every window after a monitor hotplug.
func (r *Renderer) HandleMonitorChange() {
	r.layout.HandleMonitorChange()
	monitor := r.layout.GetMonitor()
	for _, c := range r.containers {
		r.layout.SetMonitor(c.window, monitor)
	}
}

// Close destroys every window.
func (r *Renderer) Close() {
	for position, c := range r.containers {
		c.window.Destroy()
		delete(r.containers, position)
	}
}

// NewContainer creates the window for position. The window stays hidden
// while it holds no toasts.
func (r *Renderer) NewContainer(position toast.Position) toast.Container {
	window := gtk.NewWindow()
	window.SetApplication(r.app)
	window.SetDecorated(false)
	window.SetResizable(false)
	window.SetDefaultSize(r.cfg.Display.Width, -1)
	window.AddCSSClass("toast-window")
	window.AddCSSClass(string(position))
	window.AddCSSClass(r.colorSchemeClass())

	r.layout.InitWindow(window, position)

	box := gtk.NewBox(gtk.OrientationVertical, r.cfg.Display.Gap)
	box.AddCSSClass("toast-container")
	box.AddCSSClass(string(position))
	window.SetChild(box)

	c := &Container{position: position, window: window, box: box, logger: r.logger}
	r.containers[position] = c

	r.logger.Debug("created toast window", "position", position)
	return c
}

// NewNode builds the widgets for a toast.
func (r *Renderer) NewNode(view toast.View) toast.Node {
	return newNode(r, view)
}

func (r *Renderer) animation(class string) time.Duration {
	switch class {
	case toast.ClassEnter:
		return r.cfg.Animation.Enter.Duration()
	case toast.ClassLeave:
		return r.cfg.Animation.Leave.Duration()
	default:
		return 0
	}
}

// colorSchemeClass returns "light" or "dark" based on config or system preference.
func (r *Renderer) colorSchemeClass() string {
	switch config.ColorScheme(r.cfg.Theme.ColorScheme) {
	case config.ColorSchemeLight:
		return "light"
	case config.ColorSchemeDark:
		return "dark"
	default:
		return detectSystemColorScheme()
	}
}

// detectSystemColorScheme checks libadwaita for system dark mode preference.
func detectSystemColorScheme() string {
	if adw.StyleManagerGetDefault().Dark() {
		return "dark"
	}
	return "light"
}

// Container is the window and box stacking the toasts of one position.
type Container struct {
	position toast.Position
	window   *gtk.Window
	box      *gtk.Box
	logger   *slog.Logger
	count    int
}

// Prepend inserts node at the top of the stack.
func (c *Container) Prepend(node toast.Node) {
	n := node.(*Node)
	c.box.Prepend(n.root)
	c.attached(n)
}

// Append inserts node at the bottom of the stack.
func (c *Container) Append(node toast.Node) {
	n := node.(*Node)
	c.box.Append(n.root)
	c.attached(n)
}

func (c *Container) attached(n *Node) {
	n.container = c
	c.count++
	if c.count == 1 {
		c.window.SetVisible(true)
		c.window.Present()
	}
}

func (c *Container) detached(n *Node) {
	c.box.Remove(n.root)
	c.count--
	if c.count <= 0 {
		c.count = 0
		// An empty layer-shell window would still take input.
		c.window.SetVisible(false)
	}
}

package display

import (
	"context"
	"log/slog"

	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/glib/v2"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/toastui/internal/theme"
)

// ThemeLoader applies the gtk surface stylesheet to a GDK display.
// All methods must be called on the GTK main thread; hot-reloaded CSS is
// marshalled back onto it with glib.IdleAdd.
type ThemeLoader struct {
	logger   *slog.Logger
	sheet    *theme.Stylesheet
	provider *gtk.CSSProvider
	display  *gdk.Display
}

// NewThemeLoader creates a loader for the bundled or user gtk themes.
func NewThemeLoader(logger *slog.Logger) *ThemeLoader {
	if logger == nil {
		logger = slog.Default()
	}

	l := &ThemeLoader{
		logger:   logger,
		sheet:    theme.NewStylesheet(theme.SurfaceGTK, logger),
		provider: gtk.NewCSSProvider(),
	}
	l.provider.LoadFromString(l.sheet.CSS())
	l.sheet.OnChange(func(css string) {
		glib.IdleAdd(func() {
			l.provider.LoadFromString(css)
		})
	})
	return l
}

// Stylesheet returns the toolkit-independent stylesheet behind the loader.
func (l *ThemeLoader) Stylesheet() *theme.Stylesheet {
	return l.sheet
}

// LoadTheme loads a theme by name. See theme.Resolve for the lookup order.
func (l *ThemeLoader) LoadTheme(name string) {
	t := l.sheet.Load(name)
	l.provider.LoadFromString(t.CSS)
}

// Apply applies the loaded theme to a display.
// This should be called after the GTK application is initialized.
func (l *ThemeLoader) Apply(display *gdk.Display) {
	if display == nil {
		display = gdk.DisplayGetDefault()
	}
	if display == nil {
		l.logger.Warn("no display available, cannot apply theme")
		return
	}

	l.display = display
	gtk.StyleContextAddProviderForDisplay(
		display,
		l.provider,
		gtk.STYLE_PROVIDER_PRIORITY_APPLICATION,
	)
	l.logger.Debug("applied theme to display", "name", l.sheet.Theme().Name)
}

// StartHotReload starts watching the current theme for changes.
func (l *ThemeLoader) StartHotReload(ctx context.Context) {
	if err := l.sheet.StartHotReload(ctx); err != nil {
		l.logger.Warn("failed to start theme watcher", "error", err)
	}
}

// StopHotReload stops watching the theme for changes.
func (l *ThemeLoader) StopHotReload() {
	l.sheet.StopHotReload()
}

// CurrentTheme returns the name of the currently loaded theme.
func (l *ThemeLoader) CurrentTheme() string {
	return l.sheet.Theme().Name
}

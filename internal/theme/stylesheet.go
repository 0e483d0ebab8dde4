package theme

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Stylesheet holds the active theme of one surface and keeps it current while
// hot-reload is running. It has no toolkit dependency; the web server serves
// CSS from it and display.ThemeLoader feeds it to a CSS provider.
type Stylesheet struct {
	mu        sync.RWMutex
	logger    *slog.Logger
	surface   Surface
	themesDir string
	theme     *Theme
	css       string
	version   time.Time
	watcher   *Watcher
	listeners []func(css string)
}

// NewStylesheet creates a stylesheet for surface using the user's themes
// directory. The bundled default theme is active until Load is called.
func NewStylesheet(surface Surface, logger *slog.Logger) *Stylesheet {
	if logger == nil {
		logger = slog.Default()
	}

	themesDir, err := ThemesDir(surface)
	if err != nil {
		logger.Warn("failed to get themes directory", "error", err)
		themesDir = ""
	}

	theme := NewDefaultTheme(surface)
	return &Stylesheet{
		logger:    logger,
		surface:   surface,
		themesDir: themesDir,
		theme:     theme,
		css:       theme.CSS,
		version:   time.Now(),
	}
}

// SetThemesDir overrides the directory user themes are read from.
func (s *Stylesheet) SetThemesDir(dir string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.themesDir = dir
}

// Load resolves and activates the theme called name, notifying listeners.
func (s *Stylesheet) Load(name string) *Theme {
	s.mu.RLock()
	dir := s.themesDir
	s.mu.RUnlock()

	theme := Resolve(s.surface, name, dir, s.logger)
	s.set(theme, theme.CSS)
	return theme
}

// Theme returns the active theme. Its CSS field is owned by the hot-reload
// watcher; use CSS for the current content.
func (s *Stylesheet) Theme() *Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.theme
}

// CSS returns the active theme's CSS.
func (s *Stylesheet) CSS() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.css
}

// Version returns when the CSS last changed, for cache validation.
func (s *Stylesheet) Version() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// OnChange registers fn to receive the CSS after every load or reload.
func (s *Stylesheet) OnChange(fn func(css string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Stylesheet) set(theme *Theme, css string) {
	s.mu.Lock()
	s.theme = theme
	s.css = css
	s.version = time.Now()
	listeners := append([]func(string){}, s.listeners...)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(css)
	}
}

// StartHotReload starts watching the active theme for changes.
// Bundled themes are never watched.
func (s *Stylesheet) StartHotReload(ctx context.Context) error {
	s.StopHotReload()

	s.mu.Lock()
	theme := s.theme
	if theme.Bundled() {
		s.mu.Unlock()
		s.logger.Debug("not starting hot-reload for bundled theme", "name", theme.Name)
		return nil
	}
	watcher := NewWatcher(theme, s.logger)
	watcher.SetChangeCallback(func(css string) {
		s.set(theme, css)
		s.logger.Info("hot-reloaded theme", "surface", s.surface, "name", theme.Name)
	})
	s.watcher = watcher
	s.mu.Unlock()

	return watcher.Start(ctx)
}

// StopHotReload stops watching the theme for changes.
func (s *Stylesheet) StopHotReload() {
	s.mu.Lock()
	watcher := s.watcher
	s.watcher = nil
	s.mu.Unlock()

	if watcher != nil {
		watcher.Stop()
	}
}

package audio

import (
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches sound files for changes and invalidates the player cache.
type Watcher struct {
	mu     sync.Mutex
	logger *slog.Logger
	player *Player

	watcher *fsnotify.Watcher
	paths   map[string]bool // watched sound files
	dirs    map[string]int  // watched directories, by number of files in them
	done    chan struct{}

	running bool
}

// NewWatcher creates a new sound file watcher.
func NewWatcher(player *Player, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}

	return &Watcher{
		logger: logger,
		player: player,
		paths:  make(map[string]bool),
		dirs:   make(map[string]int),
	}
}

// Start begins watching. Paths added before Start are watched from now on.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	w.watcher = watcher
	w.done = make(chan struct{})
	w.running = true

	for dir := range w.dirs {
		if err := watcher.Add(dir); err != nil {
			w.logger.Warn("failed to watch sound directory", "dir", dir, "error", err)
		}
	}

	go w.watch(watcher, w.done)

	w.logger.Debug("audio watcher started", "files", len(w.paths))
	return nil
}

// Watch adds a sound file to the watch list.
func (w *Watcher) Watch(path string) {
	if path == "" {
		return
	}
	path = filepath.Clean(path)

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.paths[path] {
		return
	}
	w.paths[path] = true

	// Watch the directory containing the file (more reliable for writes)
	dir := filepath.Dir(path)
	w.dirs[dir]++
	if w.dirs[dir] == 1 && w.running {
		if err := w.watcher.Add(dir); err != nil {
			w.logger.Warn("failed to watch sound directory", "dir", dir, "error", err)
		}
	}
}

// Unwatch removes a sound file from the watch list.
func (w *Watcher) Unwatch(path string) {
	path = filepath.Clean(path)

	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.paths[path] {
		return
	}
	delete(w.paths, path)

	dir := filepath.Dir(path)
	w.dirs[dir]--
	if w.dirs[dir] <= 0 {
		delete(w.dirs, dir)
		if w.running {
			_ = w.watcher.Remove(dir)
		}
	}
}

// UnwatchAll clears the watch list.
func (w *Watcher) UnwatchAll() {
	w.mu.Lock()
	paths := make([]string, 0, len(w.paths))
	for p := range w.paths {
		paths = append(paths, p)
	}
	w.mu.Unlock()

	for _, p := range paths {
		w.Unwatch(p)
	}
}

// watch is the main watch loop.
func (w *Watcher) watch(watcher *fsnotify.Watcher, done chan struct{}) {
	defer close(done)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) {
				continue
			}

			w.mu.Lock()
			watched := w.paths[event.Name]
			w.mu.Unlock()

			if watched {
				w.logger.Debug("sound file changed, invalidating cache", "path", event.Name)
				w.player.InvalidateCache(event.Name)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("audio watcher error", "error", err)
		}
	}
}

// Stop stops watching sound files.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	watcher := w.watcher
	done := w.done
	w.mu.Unlock()

	_ = watcher.Close()
	<-done
	w.logger.Debug("audio watcher stopped")
}

// IsRunning returns whether the watcher is currently running.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

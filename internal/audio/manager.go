package audio

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/jmylchreest/toastui/internal/config"
	"github.com/jmylchreest/toastui/internal/toast"
)

// Manager plays the configured sound when a toast is shown.
type Manager struct {
	mu      sync.RWMutex
	logger  *slog.Logger
	player  *Player
	watcher *Watcher
	enabled bool

	// Toast type to sound path mapping
	sounds map[toast.Type]string

	onError func(err error)
}

// NewManager creates a new audio manager.
func NewManager(cfg *config.Config, logger *slog.Logger, opts ...PlayerOption) *Manager {
	if logger == nil {
		logger = slog.Default()
	}

	player := NewPlayer(logger, opts...)

	m := &Manager{
		logger:  logger,
		player:  player,
		watcher: NewWatcher(player, logger),
		sounds:  make(map[toast.Type]string),
	}
	m.loadSoundConfig(cfg)

	return m
}

// SetErrorCallback sets the callback invoked when playback fails.
func (m *Manager) SetErrorCallback(fn func(err error)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onError = fn
}

// loadSoundConfig loads sounds from the configuration.
func (m *Manager) loadSoundConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}

	// Config uses 0-100, player uses 0.0-1.0
	m.player.SetVolume(float64(cfg.Audio.Volume) / 100.0)

	sounds := make(map[toast.Type]string)
	for _, typ := range toast.Types() {
		path := cfg.GetSoundForType(typ)
		if path == "" {
			continue
		}
		path = filepath.Clean(path)

		if _, err := os.Stat(path); err != nil {
			m.logger.Warn("sound file not found", "type", typ, "path", path)
			continue
		}

		sounds[typ] = path
		m.logger.Debug("loaded sound", "type", typ, "path", path)
	}

	m.mu.Lock()
	m.enabled = cfg.Audio.Enabled
	m.sounds = sounds
	m.mu.Unlock()
}

// Start preloads every configured sound and starts the file watcher.
func (m *Manager) Start() error {
	m.preload()

	if err := m.watcher.Start(); err != nil {
		return err
	}

	m.mu.RLock()
	n := len(m.sounds)
	m.mu.RUnlock()
	m.logger.Info("audio manager started", "sounds", n)
	return nil
}

func (m *Manager) preload() {
	m.mu.RLock()
	paths := make([]string, 0, len(m.sounds))
	for _, p := range m.sounds {
		paths = append(paths, p)
	}
	m.mu.RUnlock()

	for _, path := range paths {
		if err := m.player.Preload(path); err != nil {
			m.logger.Warn("failed to preload sound", "path", path, "error", err)
		}
		m.watcher.Watch(path)
	}
}

// Stop shuts down the audio manager.
func (m *Manager) Stop() {
	m.watcher.Stop()
	m.player.Close()
	m.logger.Debug("audio manager stopped")
}

// SoundFor returns the sound configured for a toast type. Types without a
// sound of their own use the info sound.
func (m *Manager) SoundFor(t toast.Type) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if path, ok := m.sounds[t]; ok {
		return path, true
	}
	if t.Known() {
		return "", false
	}
	path, ok := m.sounds[toast.TypeInfo]
	return path, ok
}

// PlayForType plays the sound configured for the given toast type.
func (m *Manager) PlayForType(t toast.Type) error {
	m.mu.RLock()
	enabled := m.enabled
	m.mu.RUnlock()

	if !enabled {
		return nil
	}

	path, ok := m.SoundFor(t)
	if !ok {
		m.logger.Debug("no sound configured for type", "type", t)
		return nil
	}

	return m.player.Play(path)
}

// Observe is a toast.Observer that plays a sound for every shown toast.
// Playback happens off the manager goroutine.
func (m *Manager) Observe(ev toast.Event) {
	if ev.Kind != toast.EventShown {
		return
	}
	go func() {
		if err := m.PlayForType(ev.Toast.Type); err != nil {
			m.mu.RLock()
			onError := m.onError
			m.mu.RUnlock()
			if onError != nil {
				onError(err)
			}
		}
	}()
}

// SetVolume sets the playback volume (0.0 to 1.0).
func (m *Manager) SetVolume(volume float64) {
	m.player.SetVolume(volume)
}

// GetVolume returns the current volume.
func (m *Manager) GetVolume() float64 {
	return m.player.GetVolume()
}

// UpdateConfig reloads sounds from cfg.
// This is called when the config file is hot-reloaded.
func (m *Manager) UpdateConfig(cfg *config.Config) {
	m.watcher.UnwatchAll()
	m.player.ClearCache()
	m.loadSoundConfig(cfg)
	m.preload()

	m.logger.Debug("audio manager config updated")
}

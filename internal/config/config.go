// Package config handles configuration file loading and parsing.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/toastui/internal/toast"
)

// Default configuration values.
const (
	DefaultEnterAnimation = 300 * time.Millisecond
	DefaultLeaveAnimation = 300 * time.Millisecond
	DefaultServerAddr     = "127.0.0.1:8642"
	DefaultThemeName      = "default"
	DefaultHistoryLimit   = 1000
)

// Config represents the toastui configuration.
// Loaded from ~/.config/toastui/config.toml
type Config struct {
	Toast     ToastConfig             `toml:"toast" yaml:"toast"`
	Titles    map[string]TitlesConfig `toml:"titles" yaml:"titles"`
	Animation AnimationConfig         `toml:"animation" yaml:"animation"`
	Display   DisplayConfig           `toml:"display" yaml:"display"`
	Behavior  BehaviorConfig          `toml:"behavior" yaml:"behavior"`
	Audio     AudioConfig             `toml:"audio" yaml:"audio"`
	Theme     ThemeConfig             `toml:"theme" yaml:"theme"`
	Server    ServerConfig            `toml:"server" yaml:"server"`
	History   HistoryConfig           `toml:"history" yaml:"history"`
}

// ToastConfig holds the defaults applied to new toasts.
type ToastConfig struct {
	Duration Duration `toml:"duration" yaml:"duration"` // "4s", "0" = persistent
	Position string   `toml:"position" yaml:"position"` // "top-right", "bottom-left", etc.
	Locale   string   `toml:"locale" yaml:"locale"`     // Title catalog, "ko" or "en"
}

// TitlesConfig overrides the default title per toast type.
// Empty fields keep the built-in title for the locale.
type TitlesConfig struct {
	Info    string `toml:"info,omitempty" yaml:"info,omitempty"`
	Success string `toml:"success,omitempty" yaml:"success,omitempty"`
	Error   string `toml:"error,omitempty" yaml:"error,omitempty"`
	Warning string `toml:"warning,omitempty" yaml:"warning,omitempty"`
}

// AnimationConfig holds the entry and exit animation lengths.
type AnimationConfig struct {
	Enter Duration `toml:"enter" yaml:"enter"`
	Leave Duration `toml:"leave" yaml:"leave"`
}

// DisplayConfig contains desktop placement settings.
type DisplayConfig struct {
	OffsetX int `toml:"offset_x" yaml:"offset_x"` // Pixels from screen edge
	OffsetY int `toml:"offset_y" yaml:"offset_y"` // Pixels from screen edge
	Width   int `toml:"width" yaml:"width"`       // Toast width in pixels
	Gap     int `toml:"gap" yaml:"gap"`           // Gap between stacked toasts
	Monitor int `toml:"monitor" yaml:"monitor"`   // 0 = default, 1+ = specific monitor
}

// BehaviorConfig contains behavior settings.
type BehaviorConfig struct {
	PauseOnHover   bool `toml:"pause_on_hover" yaml:"pause_on_hover"`
	MaxPerPosition int  `toml:"max_per_position" yaml:"max_per_position"` // 0 = unlimited
}

// AudioConfig contains audio settings.
type AudioConfig struct {
	Enabled bool        `toml:"enabled" yaml:"enabled"`
	Volume  int         `toml:"volume" yaml:"volume"` // 0-100
	Sounds  SoundConfig `toml:"sounds" yaml:"sounds"`
}

// SoundConfig contains per-type sound file paths.
type SoundConfig struct {
	Info    string `toml:"info" yaml:"info"`
	Success string `toml:"success" yaml:"success"`
	Error   string `toml:"error" yaml:"error"`
	Warning string `toml:"warning" yaml:"warning"`
}

// ThemeConfig contains theme settings.
type ThemeConfig struct {
	Name        string `toml:"name" yaml:"name"`                 // Theme name without .css extension
	ColorScheme string `toml:"color_scheme" yaml:"color_scheme"` // "system", "light", or "dark"
}

// ServerConfig contains web surface settings.
type ServerConfig struct {
	Addr    string `toml:"addr" yaml:"addr"`
	Metrics bool   `toml:"metrics" yaml:"metrics"`
}

// HistoryConfig controls the record of removed toasts kept by the web server.
type HistoryConfig struct {
	Enabled    bool   `toml:"enabled" yaml:"enabled"`
	Path       string `toml:"path,omitempty" yaml:"path,omitempty"` // Default: $XDG_DATA_HOME/toastui/history.jsonl
	MaxEntries int    `toml:"max_entries" yaml:"max_entries"`       // 0 = unlimited
}

// ColorScheme represents the color scheme preference.
type ColorScheme string

const (
	ColorSchemeSystem ColorScheme = "system"
	ColorSchemeLight  ColorScheme = "light"
	ColorSchemeDark   ColorScheme = "dark"
)

// ValidColorSchemes returns all valid color scheme values.
func ValidColorSchemes() []ColorScheme {
	return []ColorScheme{ColorSchemeSystem, ColorSchemeLight, ColorSchemeDark}
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Toast: ToastConfig{
			Duration: Duration(toast.DefaultDuration),
			Position: string(toast.DefaultPosition),
			Locale:   toast.DefaultLocale,
		},
		Titles: make(map[string]TitlesConfig),
		Animation: AnimationConfig{
			Enter: Duration(DefaultEnterAnimation),
			Leave: Duration(DefaultLeaveAnimation),
		},
		Display: DisplayConfig{
			OffsetX: 10,
			OffsetY: 10,
			Width:   350,
			Gap:     5,
			Monitor: 0,
		},
		Behavior: BehaviorConfig{
			PauseOnHover:   true,
			MaxPerPosition: 0,
		},
		Audio: AudioConfig{
			Enabled: true,
			Volume:  80,
			Sounds:  SoundConfig{},
		},
		Theme: ThemeConfig{
			Name:        DefaultThemeName,
			ColorScheme: string(ColorSchemeSystem),
		},
		Server: ServerConfig{
			Addr:    DefaultServerAddr,
			Metrics: true,
		},
		History: HistoryConfig{
			Enabled:    true,
			MaxEntries: DefaultHistoryLimit,
		},
	}
}

// ConfigPath returns the path to the config file.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config.
func ConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "toastui", "config.toml")
}

// LoadConfig loads configuration from the specified path.
// If path is empty, uses the default config path.
// Returns default config if file doesn't exist.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults, then overlay with file contents
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the specified path.
// Creates parent directories if needed.
func (c *Config) Save(path string) error {
	if path == "" {
		path = ConfigPath()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write atomically via temp file
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return os.Rename(tmpPath, path)
}

// Encode writes the configuration to w as "toml" or "yaml".
func (c *Config) Encode(w io.Writer, format string) error {
	switch strings.ToLower(format) {
	case "", "toml":
		enc := toml.NewEncoder(w)
		enc.SetIndentTables(true)
		return enc.Encode(c)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(c)
	default:
		return fmt.Errorf("unknown format %q, must be toml or yaml", format)
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if !toast.Position(c.Toast.Position).Valid() {
		return fmt.Errorf("invalid position %q, must be one of: %v", c.Toast.Position, toast.ValidPositions())
	}

	if _, ok := toast.Locales[c.Toast.Locale]; !ok {
		if _, custom := c.Titles[c.Toast.Locale]; !custom {
			return fmt.Errorf("unknown locale %q: add a [titles.%s] table", c.Toast.Locale, c.Toast.Locale)
		}
	}

	if c.Animation.Enter < 0 || c.Animation.Leave < 0 {
		return errors.New("animation durations must not be negative")
	}

	if c.Display.Width < 100 || c.Display.Width > 1000 {
		return fmt.Errorf("width must be between 100 and 1000, got %d", c.Display.Width)
	}
	if c.Display.Gap < 0 {
		return fmt.Errorf("gap must not be negative, got %d", c.Display.Gap)
	}

	if c.Behavior.MaxPerPosition < 0 || c.Behavior.MaxPerPosition > 50 {
		return fmt.Errorf("max_per_position must be between 0 and 50, got %d", c.Behavior.MaxPerPosition)
	}

	if c.Audio.Volume < 0 || c.Audio.Volume > 100 {
		return fmt.Errorf("volume must be between 0 and 100, got %d", c.Audio.Volume)
	}

	if c.History.MaxEntries < 0 {
		return fmt.Errorf("history max_entries must not be negative, got %d", c.History.MaxEntries)
	}

	validScheme := false
	for _, s := range ValidColorSchemes() {
		if c.Theme.ColorScheme == string(s) {
			validScheme = true
			break
		}
	}
	if !validScheme {
		return fmt.Errorf("invalid color_scheme %q, must be one of: %v", c.Theme.ColorScheme, ValidColorSchemes())
	}

	return nil
}

// ToastTitles returns the title catalog for the configured locale with any
// [titles.<locale>] overrides applied.
func (c *Config) ToastTitles() toast.Titles {
	titles := toast.TitlesFor(c.Toast.Locale)
	override, ok := c.Titles[c.Toast.Locale]
	if !ok {
		return titles
	}
	for typ, s := range map[toast.Type]string{
		toast.TypeInfo:    override.Info,
		toast.TypeSuccess: override.Success,
		toast.TypeError:   override.Error,
		toast.TypeWarning: override.Warning,
	} {
		if s != "" {
			titles[typ] = s
		}
	}
	return titles
}

// ToastSettings converts the configuration into manager defaults.
func (c *Config) ToastSettings() toast.Settings {
	return toast.Settings{
		Duration:       c.Toast.Duration.Duration(),
		Position:       toast.ParsePosition(c.Toast.Position),
		Titles:         c.ToastTitles(),
		PauseOnHover:   c.Behavior.PauseOnHover,
		MaxPerPosition: c.Behavior.MaxPerPosition,
	}
}

// GetSoundForType returns the sound file path for the given toast type.
// Unknown types use the info sound. Expands ~ to home directory.
func (c *Config) GetSoundForType(t toast.Type) string {
	var path string
	switch t {
	case toast.TypeSuccess:
		path = c.Audio.Sounds.Success
	case toast.TypeError:
		path = c.Audio.Sounds.Error
	case toast.TypeWarning:
		path = c.Audio.Sounds.Warning
	default:
		path = c.Audio.Sounds.Info
	}
	return expandPath(path)
}

// HistoryFile returns the configured history path with ~ expanded, or ""
// for the default location.
func (c *Config) HistoryFile() string {
	return expandPath(c.History.Path)
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

package theme

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// importRegex matches @import "file.css"; or @import 'file.css'; or @import url("file.css");
var importRegex = regexp.MustCompile(`@import\s+(?:url\s*\(\s*)?["']([^"']+)["']\s*\)?;?`)

// Theme represents a CSS theme with metadata.
type Theme struct {
	Name      string    // Theme name (without .css extension)
	Surface   Surface   // What the theme styles
	Path      string    // Full path to the CSS file (empty when bundled)
	CSS       string    // The CSS content with imports inlined
	ModTime   time.Time // Last modification time
	IsDefault bool      // True if this is the embedded default theme
}

// Bundled reports whether the theme comes from the binary.
func (t *Theme) Bundled() bool {
	return t.Path == ""
}

// NewTheme creates a new Theme by loading a CSS file.
// CSS @import statements are resolved and inlined.
func NewTheme(surface Surface, name, path string) (*Theme, error) {
	css, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading theme %s: %w", name, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat theme %s: %w", name, err)
	}

	return &Theme{
		Name:    name,
		Surface: surface,
		Path:    path,
		CSS:     ProcessImports(string(css), filepath.Dir(path), surface, nil),
		ModTime: info.ModTime(),
	}, nil
}

// newEmbeddedTheme builds a bundled theme, or returns nil if there is none.
func newEmbeddedTheme(surface Surface, name string) *Theme {
	css, found := GetEmbeddedTheme(surface, name)
	if !found {
		return nil
	}
	return &Theme{
		Name:      name,
		Surface:   surface,
		CSS:       ProcessImports(css, "", surface, nil),
		IsDefault: name == DefaultThemeName,
	}
}

// ProcessImports resolves and inlines @import statements in CSS.
// Imports are resolved relative to baseDir, then against the bundled partials
// and themes of surface. The seen map prevents circular imports.
func ProcessImports(css string, baseDir string, surface Surface, seen map[string]bool) string {
	if seen == nil {
		seen = make(map[string]bool)
	}

	return importRegex.ReplaceAllStringFunc(css, func(match string) string {
		submatch := importRegex.FindStringSubmatch(match)
		if len(submatch) < 2 {
			return match
		}

		importPath := submatch[1]

		fullPath := importPath
		if !filepath.IsAbs(importPath) {
			fullPath = filepath.Join(baseDir, importPath)
		}

		if seen[fullPath] {
			return "/* circular import prevented: " + importPath + " */"
		}
		seen[fullPath] = true

		var importedCSS []byte
		var err error
		if baseDir != "" || filepath.IsAbs(importPath) {
			importedCSS, err = os.ReadFile(fullPath)
		} else {
			err = os.ErrNotExist
		}
		if err != nil {
			baseName := filepath.Base(importPath)
			if strings.HasPrefix(baseName, "_") {
				if embeddedCSS, found := GetEmbeddedPartial(surface, baseName); found {
					return "/* imported (embedded): " + importPath + " */\n" + embeddedCSS
				}
			}
			if embeddedCSS, found := GetEmbeddedTheme(surface, strings.TrimSuffix(baseName, ".css")); found {
				return "/* imported (embedded): " + importPath + " */\n" + embeddedCSS
			}
			return "/* import failed: " + importPath + " - " + err.Error() + " */"
		}

		processed := ProcessImports(string(importedCSS), filepath.Dir(fullPath), surface, seen)
		return "/* imported: " + importPath + " */\n" + processed
	})
}

// NewDefaultTheme creates the embedded default theme for surface.
func NewDefaultTheme(surface Surface) *Theme {
	if t := newEmbeddedTheme(surface, DefaultThemeName); t != nil {
		return t
	}
	return &Theme{Name: DefaultThemeName, Surface: surface, IsDefault: true}
}

// Reload rereads the theme and its imports from disk.
// Returns true if the resulting CSS changed. Bundled themes never change.
func (t *Theme) Reload() (bool, error) {
	if t.Bundled() {
		return false, nil
	}

	info, err := os.Stat(t.Path)
	if err != nil {
		return false, err
	}

	css, err := os.ReadFile(t.Path)
	if err != nil {
		return false, err
	}

	processed := ProcessImports(string(css), filepath.Dir(t.Path), t.Surface, nil)
	changed := processed != t.CSS
	t.CSS = processed
	t.ModTime = info.ModTime()

	return changed, nil
}

// ThemesDir returns the path to the user's themes directory for surface.
func ThemesDir(surface Surface) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "toastui", "themes", string(surface)), nil
}

// Resolve loads a theme by name from themesDir or the bundled set.
// Theme resolution order:
//  1. User themes directory (~/.config/toastui/themes/<surface>/)
//  2. Embedded/bundled themes
//  3. The bundled default theme
//
// Resolve never fails; problems are logged and the next source is tried.
func Resolve(surface Surface, name, themesDir string, logger *slog.Logger) *Theme {
	if logger == nil {
		logger = slog.Default()
	}
	if name == "" {
		name = DefaultThemeName
	}

	if themesDir != "" {
		themePath := filepath.Join(themesDir, name+".css")
		if _, err := os.Stat(themePath); err == nil {
			theme, err := NewTheme(surface, name, themePath)
			if err == nil {
				logger.Info("loaded user theme", "surface", surface, "name", name, "path", themePath)
				return theme
			}
			logger.Warn("failed to load user theme, trying bundled", "theme", name, "error", err)
		}
	}

	if theme := newEmbeddedTheme(surface, name); theme != nil {
		logger.Info("loaded bundled theme", "surface", surface, "name", name)
		return theme
	}

	logger.Warn("theme not found, using default", "surface", surface, "theme", name)
	return NewDefaultTheme(surface)
}

// ThemeInfo provides basic theme information for listing.
type ThemeInfo struct {
	Name      string
	Path      string
	IsDefault bool
	IsBundled bool // True if this is a bundled/embedded theme
}

// ListAvailableThemes lists all available themes (bundled + user) in themesDir.
// User themes that override a bundled one are reported once with their path.
func ListAvailableThemes(surface Surface, themesDir string) ([]ThemeInfo, error) {
	index := make(map[string]int)
	var themes []ThemeInfo

	for _, name := range ListEmbeddedThemes(surface) {
		index[name] = len(themes)
		themes = append(themes, ThemeInfo{
			Name:      name,
			IsDefault: name == DefaultThemeName,
			IsBundled: true,
		})
	}

	if themesDir == "" {
		return themes, nil
	}

	entries, err := os.ReadDir(themesDir)
	if err != nil {
		if os.IsNotExist(err) {
			return themes, nil
		}
		return themes, err
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, "_") || filepath.Ext(name) != ".css" {
			continue
		}
		themeName := strings.TrimSuffix(name, ".css")
		info := ThemeInfo{Name: themeName, Path: filepath.Join(themesDir, name)}
		if i, ok := index[themeName]; ok {
			themes[i].Path = info.Path
			continue
		}
		index[themeName] = len(themes)
		themes = append(themes, info)
	}

	return themes, nil
}

// CreateThemesDir creates the themes directory for surface if it doesn't exist.
func CreateThemesDir(surface Surface) (string, error) {
	themesDir, err := ThemesDir(surface)
	if err != nil {
		return "", err
	}
	return themesDir, os.MkdirAll(themesDir, 0o755)
}

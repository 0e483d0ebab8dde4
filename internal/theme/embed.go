package theme

import (
	"embed"
	"io/fs"
	"path"
	"strings"
)

// EmbeddedThemes contains all bundled theme CSS files, one directory per
// surface.
//
//go:embed themes
var EmbeddedThemes embed.FS

// Surface identifies what a theme styles.
type Surface string

const (
	// SurfaceWeb styles the HTML markup of the dom renderer.
	SurfaceWeb Surface = "web"
	// SurfaceGTK styles the toastd layer-shell windows.
	SurfaceGTK Surface = "gtk"
)

// DefaultThemeName is the name of the built-in default theme.
const DefaultThemeName = "default"

// BundledThemes lists the embedded theme names available on every surface.
var BundledThemes = []string{"default", "minimal"}

// Surfaces returns every known surface.
func Surfaces() []Surface {
	return []Surface{SurfaceWeb, SurfaceGTK}
}

// GetEmbeddedTheme retrieves a bundled theme by surface and name.
// Imports are not processed here; use Resolve for a ready-to-use theme.
func GetEmbeddedTheme(surface Surface, name string) (string, bool) {
	if name == "" || strings.HasPrefix(name, "_") {
		return "", false
	}
	data, err := EmbeddedThemes.ReadFile(path.Join("themes", string(surface), name+".css"))
	if err != nil {
		return "", false
	}
	return string(data), true
}

// GetEmbeddedPartial retrieves a bundled partial (files starting with _).
func GetEmbeddedPartial(surface Surface, name string) (string, bool) {
	if !strings.HasPrefix(name, "_") {
		name = "_" + name
	}
	if !strings.HasSuffix(name, ".css") {
		name += ".css"
	}
	data, err := EmbeddedThemes.ReadFile(path.Join("themes", string(surface), name))
	if err != nil {
		return "", false
	}
	return string(data), true
}

// ListEmbeddedThemes returns the names of all embedded themes for surface.
// Partials are excluded.
func ListEmbeddedThemes(surface Surface) []string {
	entries, err := fs.ReadDir(EmbeddedThemes, path.Join("themes", string(surface)))
	if err != nil {
		return nil
	}

	var themes []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, "_") || path.Ext(name) != ".css" {
			continue
		}
		themes = append(themes, strings.TrimSuffix(name, ".css"))
	}
	return themes
}

// IsEmbeddedTheme checks if a theme name is bundled for surface.
func IsEmbeddedTheme(surface Surface, name string) bool {
	_, found := GetEmbeddedTheme(surface, name)
	return found
}

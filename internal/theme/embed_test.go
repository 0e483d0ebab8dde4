package theme

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEmbeddedTheme_WebDefault(t *testing.T) {
	css, found := GetEmbeddedTheme(SurfaceWeb, "default")
	require.True(t, found, "default web theme should be found")
	assert.Contains(t, css, ".toast-container.top-right")
	assert.Contains(t, css, ".toast .progress i")
	assert.Contains(t, css, "transform-origin: left center")
	assert.Contains(t, css, `@import "_animations.css"`)
}

func TestGetEmbeddedTheme_GTKDefault(t *testing.T) {
	css, found := GetEmbeddedTheme(SurfaceGTK, "default")
	require.True(t, found, "default gtk theme should be found")
	// Should use Adwaita variables
	assert.Contains(t, css, "@window_bg_color")
	assert.Contains(t, css, "@window_fg_color")
	assert.Contains(t, css, ".toast--error")
}

func TestGetEmbeddedTheme_GTKMinimal(t *testing.T) {
	css, found := GetEmbeddedTheme(SurfaceGTK, "minimal")
	require.True(t, found)
	// Should hide icons
	assert.Contains(t, css, "-gtk-icon-size: 0")
}

func TestGetEmbeddedTheme_NotFound(t *testing.T) {
	tests := []struct {
		name    string
		surface Surface
		theme   string
	}{
		{"missing theme", SurfaceWeb, "nonexistent"},
		{"empty name", SurfaceGTK, ""},
		{"partial is not a theme", SurfaceWeb, "_animations"},
		{"unknown surface", Surface("qt"), "default"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			css, found := GetEmbeddedTheme(tt.surface, tt.theme)
			assert.False(t, found)
			assert.Empty(t, css)
		})
	}
}

func TestGetEmbeddedPartial(t *testing.T) {
	for _, name := range []string{"_animations.css", "animations", "_animations"} {
		t.Run(name, func(t *testing.T) {
			css, found := GetEmbeddedPartial(SurfaceWeb, name)
			require.True(t, found)
			assert.Contains(t, css, "@keyframes toast-in")
		})
	}

	_, found := GetEmbeddedPartial(SurfaceGTK, "_animations.css")
	assert.False(t, found, "partials are per surface")
}

func TestListEmbeddedThemes(t *testing.T) {
	for _, surface := range Surfaces() {
		t.Run(string(surface), func(t *testing.T) {
			themes := ListEmbeddedThemes(surface)
			assert.ElementsMatch(t, BundledThemes, themes)
			for _, name := range themes {
				assert.False(t, strings.HasPrefix(name, "_"),
					"theme list should not include partials, found: %s", name)
			}
		})
	}
}

func TestIsEmbeddedTheme(t *testing.T) {
	tests := []struct {
		surface  Surface
		name     string
		expected bool
	}{
		{SurfaceWeb, "default", true},
		{SurfaceWeb, "minimal", true},
		{SurfaceGTK, "default", true},
		{SurfaceGTK, "catppuccin", false},
		{SurfaceWeb, "", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.surface)+"/"+tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsEmbeddedTheme(tt.surface, tt.name))
		})
	}
}

func TestBundledWebThemes_HaveRequiredClasses(t *testing.T) {
	requiredClasses := []string{
		".toast-container",
		".top-left",
		".top-center",
		".top-right",
		".bottom-left",
		".bottom-center",
		".bottom-right",
		".toast",
		".close-btn",
		".progress",
		".toast-enter",
		".toast-leave",
	}

	for _, themeName := range BundledThemes {
		t.Run(themeName, func(t *testing.T) {
			theme := Resolve(SurfaceWeb, themeName, "", nil)
			for _, class := range requiredClasses {
				assert.Contains(t, theme.CSS, class, "theme %s should contain %s", themeName, class)
			}
		})
	}
}

func TestBundledThemes_ValidCSS(t *testing.T) {
	for _, surface := range Surfaces() {
		for _, themeName := range BundledThemes {
			t.Run(string(surface)+"/"+themeName, func(t *testing.T) {
				css, found := GetEmbeddedTheme(surface, themeName)
				require.True(t, found)

				assert.Equal(t, strings.Count(css, "{"), strings.Count(css, "}"),
					"theme %s should have balanced braces", themeName)
				assert.NotContains(t, css, "{{")
				assert.NotContains(t, css, "}}")
			})
		}
	}
}

package toast

import "strings"

// Type is the toast notification type.
type Type string

const (
	TypeInfo    Type = "info"
	TypeSuccess Type = "success"
	TypeError   Type = "error"
	TypeWarning Type = "warning"
)

// Types returns the recognized toast types.
func Types() []Type {
	return []Type{TypeInfo, TypeSuccess, TypeError, TypeWarning}
}

// Known reports whether t is one of the recognized types.
func (t Type) Known() bool {
	switch t {
	case TypeInfo, TypeSuccess, TypeError, TypeWarning:
		return true
	default:
		return false
	}
}

// Icon returns the glyph shown for t. Unrecognized types use the info glyph.
func (t Type) Icon() string {
	switch t {
	case TypeSuccess:
		return "✓"
	case TypeError:
		return "✕"
	case TypeWarning:
		return "!"
	default:
		return "i"
	}
}

// ClassName returns the modifier class for t, e.g. "toast--error".
func (t Type) ClassName() string {
	name := sanitizeClassName(string(t))
	if name == "" {
		name = string(TypeInfo)
	}
	return "toast--" + name
}

// Titles maps toast types to their default title.
type Titles map[Type]string

// DefaultLocale is the locale used when none is configured.
const DefaultLocale = "ko"

// Locales holds the built-in title catalogs.
var Locales = map[string]Titles{
	"ko": {
		TypeInfo:    "알림",
		TypeSuccess: "완료",
		TypeError:   "오류",
		TypeWarning: "경고",
	},
	"en": {
		TypeInfo:    "Notice",
		TypeSuccess: "Done",
		TypeError:   "Error",
		TypeWarning: "Warning",
	},
}

// TitlesFor returns a copy of the built-in catalog for locale, falling back to
// DefaultLocale.
func TitlesFor(locale string) Titles {
	src, ok := Locales[strings.ToLower(locale)]
	if !ok {
		src = Locales[DefaultLocale]
	}
	out := make(Titles, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

// Title returns the default title for t. Types without an entry use the info
// title, and an empty catalog uses the built-in default locale.
func (ts Titles) Title(t Type) string {
	if s, ok := ts[t]; ok && s != "" {
		return s
	}
	if s, ok := ts[TypeInfo]; ok && s != "" {
		return s
	}
	return Locales[DefaultLocale][TypeInfo]
}

// sanitizeClassName converts a string to a valid CSS class name.
// Replaces spaces and special characters with hyphens, lowercases.
func sanitizeClassName(name string) string {
	var result strings.Builder
	prevHyphen := false

	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			result.WriteRune(r)
			prevHyphen = false
		case r == '-' || r == '_' || r == ' ' || r == '.' || r == '/':
			if !prevHyphen && result.Len() > 0 {
				result.WriteRune('-')
				prevHyphen = true
			}
		}
	}

	return strings.TrimSuffix(result.String(), "-")
}

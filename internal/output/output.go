// Package output provides output formatters for toast snapshots.
package output

import (
	"io"
	"time"

	"github.com/jmylchreest/toastui/internal/toast"
)

// Formatter formats toasts for output.
type Formatter interface {
	// Format writes formatted toasts to the writer.
	Format(w io.Writer, toasts []toast.Snapshot) error
}

// FormatType represents an output format type.
type FormatType string

const (
	FormatDmenu FormatType = "dmenu"
	FormatJSON  FormatType = "json"
	FormatPlain FormatType = "plain"
	FormatIDs   FormatType = "ids"
)

// FormatTypes returns every supported format.
func FormatTypes() []FormatType {
	return []FormatType{FormatPlain, FormatDmenu, FormatJSON, FormatIDs}
}

// NewFormatter creates a formatter for the specified format type.
func NewFormatter(format FormatType, opts FormatterOptions) Formatter {
	switch format {
	case FormatJSON:
		return NewJSONFormatter(opts)
	case FormatDmenu:
		return NewDmenuFormatter(opts)
	case FormatIDs:
		return NewIDsFormatter()
	case FormatPlain:
		fallthrough
	default:
		return NewPlainFormatter(opts)
	}
}

// FormatterOptions configures formatter behavior.
type FormatterOptions struct {
	Template       string    // Custom template for dmenu/plain format
	ShowIndex      bool      // Show 1-based index prefix
	ShowTime       bool      // Show relative creation time
	ShowState      bool      // Show lifecycle state and time left
	MessageMaxLen  int       // Maximum message length (0 = unlimited)
	Separator      string    // Field separator for dmenu format
	IncludeNewline bool      // Include newlines in message (default: replace with space)
	Now            time.Time // Reference time for relative times (zero = time.Now)
}

// DefaultFormatterOptions returns sensible defaults for plain output.
func DefaultFormatterOptions() FormatterOptions {
	return FormatterOptions{
		ShowIndex:     true,
		ShowTime:      true,
		ShowState:     true,
		MessageMaxLen: 80,
		Separator:     " | ",
	}
}

func (o FormatterOptions) now() time.Time {
	if o.Now.IsZero() {
		return time.Now()
	}
	return o.Now
}

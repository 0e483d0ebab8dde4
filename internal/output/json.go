package output

import (
	"encoding/json"
	"io"

	"github.com/jmylchreest/toastui/internal/toast"
)

// JSONFormatter formats toasts as JSON.
type JSONFormatter struct {
	opts FormatterOptions
}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter(opts FormatterOptions) *JSONFormatter {
	return &JSONFormatter{opts: opts}
}

// Format writes toasts as a JSON array. An empty list is written as [].
func (f *JSONFormatter) Format(w io.Writer, toasts []toast.Snapshot) error {
	if toasts == nil {
		toasts = []toast.Snapshot{}
	}
	return f.Encode(w, toasts)
}

// FormatSingle writes a single toast as JSON.
func (f *JSONFormatter) FormatSingle(w io.Writer, t toast.Snapshot) error {
	return f.Encode(w, t)
}

// Encode writes any value with the formatter's indentation, for records
// that carry more than a snapshot.
func (f *JSONFormatter) Encode(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

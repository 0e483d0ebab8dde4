package output

import (
	"fmt"
	"io"

	"github.com/jmylchreest/toastui/internal/toast"
)

// IDsFormatter outputs just the toast IDs, one per line.
// Useful for piping to other commands (e.g., xargs toastui remove).
type IDsFormatter struct{}

// NewIDsFormatter creates a new IDs formatter.
func NewIDsFormatter() *IDsFormatter {
	return &IDsFormatter{}
}

// Format writes toast IDs to the writer, one per line.
func (f *IDsFormatter) Format(w io.Writer, toasts []toast.Snapshot) error {
	for _, t := range toasts {
		if _, err := fmt.Fprintln(w, t.ID); err != nil {
			return err
		}
	}
	return nil
}

package output

import (
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/jmylchreest/toastui/internal/toast"
)

// PlainFormatter formats toasts as plain text.
type PlainFormatter struct {
	opts     FormatterOptions
	template *template.Template
}

// NewPlainFormatter creates a new plain text formatter.
func NewPlainFormatter(opts FormatterOptions) *PlainFormatter {
	f := &PlainFormatter{opts: opts}

	// Parse custom template if provided
	if opts.Template != "" {
		tmpl, err := template.New("plain").Funcs(templateFuncs(opts.now())).Parse(opts.Template)
		if err == nil {
			f.template = tmpl
		}
	}

	return f
}

// Format writes toasts as plain text.
func (f *PlainFormatter) Format(w io.Writer, toasts []toast.Snapshot) error {
	now := f.opts.now()
	for i, t := range toasts {
		if err := f.formatToast(w, i+1, t, now); err != nil {
			return err
		}
	}
	return nil
}

// formatToast formats a single toast.
func (f *PlainFormatter) formatToast(w io.Writer, index int, t toast.Snapshot, now time.Time) error {
	if f.template != nil {
		return f.template.Execute(w, newTemplateData(index, t, now))
	}

	var sb strings.Builder

	if f.opts.ShowIndex {
		sb.WriteString(fmt.Sprintf("[%d] ", index))
	}

	sb.WriteString(fmt.Sprintf("%s %s <%s>", t.Type.Icon(), t.Title, t.Position))

	if f.opts.ShowTime {
		sb.WriteString(fmt.Sprintf(" (%s)", relativeTime(t.CreatedAt, now)))
	}

	if f.opts.ShowState {
		sb.WriteString(" [" + stateLabel(t) + "]")
	}

	sb.WriteString("\n")

	if t.Message != "" {
		msg := t.Message
		if !f.opts.IncludeNewline {
			msg = strings.ReplaceAll(msg, "\n", " ")
		}
		sb.WriteString("    " + truncate(msg, f.opts.MessageMaxLen) + "\n")
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// FormatField outputs a specific field from a toast.
func FormatField(t toast.Snapshot, field string) string {
	switch strings.ToLower(field) {
	case "id":
		return t.ID
	case "type":
		return string(t.Type)
	case "title":
		return t.Title
	case "message", "body":
		return t.Message
	case "position":
		return string(t.Position)
	case "state":
		return t.State.String()
	case "all", "full":
		return fmt.Sprintf("%s\n%s", t.Title, t.Message)
	default:
		return t.Title
	}
}

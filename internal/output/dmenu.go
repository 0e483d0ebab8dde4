package output

import (
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/jmylchreest/toastui/internal/toast"
)

// DmenuFormatter formats toasts for dmenu/rofi/fuzzel, one per line.
type DmenuFormatter struct {
	opts     FormatterOptions
	template *template.Template
}

// NewDmenuFormatter creates a new dmenu formatter.
func NewDmenuFormatter(opts FormatterOptions) *DmenuFormatter {
	f := &DmenuFormatter{opts: opts}

	// Parse custom template if provided
	if opts.Template != "" {
		tmpl, err := template.New("dmenu").Funcs(templateFuncs(opts.now())).Parse(opts.Template)
		if err == nil {
			f.template = tmpl
		}
	}

	return f
}

// Format writes toasts in dmenu format (one per line).
func (f *DmenuFormatter) Format(w io.Writer, toasts []toast.Snapshot) error {
	now := f.opts.now()
	for i, t := range toasts {
		line := f.formatLine(i+1, t, now)
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// formatLine formats a single toast line.
func (f *DmenuFormatter) formatLine(index int, t toast.Snapshot, now time.Time) string {
	if f.template != nil {
		var buf strings.Builder
		if err := f.template.Execute(&buf, newTemplateData(index, t, now)); err == nil {
			return buf.String()
		}
	}

	// Default format: index | time | icon title: message
	var parts []string
	sep := f.opts.Separator
	if sep == "" {
		sep = " | "
	}

	if f.opts.ShowIndex {
		parts = append(parts, fmt.Sprintf("%d", index))
	}

	if f.opts.ShowTime {
		parts = append(parts, relativeTime(t.CreatedAt, now))
	}

	if f.opts.ShowState {
		parts = append(parts, stateLabel(t))
	}

	content := t.Type.Icon() + " " + t.Title
	if msg := sanitizeMessage(t.Message, f.opts.MessageMaxLen, f.opts.IncludeNewline); msg != "" {
		content += ": " + msg
	}
	parts = append(parts, content)

	return strings.Join(parts, sep)
}

// templateData provides data for custom templates.
type templateData struct {
	Index        int
	Toast        toast.Snapshot
	RelativeTime string
	Icon         string
}

func newTemplateData(index int, t toast.Snapshot, now time.Time) templateData {
	return templateData{
		Index:        index,
		Toast:        t,
		RelativeTime: relativeTime(t.CreatedAt, now),
		Icon:         t.Type.Icon(),
	}
}

// templateFuncs returns template helper functions.
func templateFuncs(now time.Time) template.FuncMap {
	return template.FuncMap{
		"truncate": func(s string, maxLen int) string {
			return truncate(s, maxLen)
		},
		"reltime": func(t time.Time) string {
			return relativeTime(t, now)
		},
		"upper": strings.ToUpper,
	}
}

// relativeTime returns a human-readable relative time string.
func relativeTime(t, now time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	if now.Sub(t) < time.Second {
		return "now"
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// stateLabel describes the lifecycle state and, for timed toasts, the time
// left.
func stateLabel(t toast.Snapshot) string {
	if t.State == toast.StateRemoved {
		return t.State.String()
	}
	if t.Persistent() {
		return t.State.String() + ", persistent"
	}
	return t.State.String() + ", " + t.Remaining.Round(100*time.Millisecond).String() + " left"
}

// sanitizeMessage cleans up message text for single-line display.
func sanitizeMessage(msg string, maxLen int, includeNewline bool) string {
	// Replace newlines with spaces unless explicitly included
	if !includeNewline {
		msg = strings.ReplaceAll(msg, "\n", " ")
		msg = strings.ReplaceAll(msg, "\r", "")
	}

	// Collapse multiple spaces
	msg = strings.Join(strings.FieldsFunc(msg, func(r rune) bool { return r == ' ' }), " ")

	return truncate(strings.TrimSpace(msg), maxLen)
}

// truncate shortens s to at most maxLen runes, marking the cut with "...".
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if maxLen <= 0 || len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

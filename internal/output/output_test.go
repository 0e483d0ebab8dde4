package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/toastui/internal/toast"
)

var now = time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)

func testToasts() []toast.Snapshot {
	return []toast.Snapshot{
		{
			ID:        "01J0000000000000000000000A",
			Type:      toast.TypeSuccess,
			Title:     "완료",
			Message:   "myfile.zip has finished downloading",
			Position:  toast.PositionTopRight,
			Duration:  4 * time.Second,
			Remaining: 2500 * time.Millisecond,
			State:     toast.StateActive,
			CreatedAt: now.Add(-5 * time.Minute),
		},
		{
			ID:        "01J0000000000000000000000B",
			Type:      toast.TypeError,
			Title:     "오류",
			Message:   "Build failed",
			Position:  toast.PositionBottomLeft,
			State:     toast.StatePaused,
			CreatedAt: now.Add(-2 * time.Hour),
		},
	}
}

func testOptions() FormatterOptions {
	opts := DefaultFormatterOptions()
	opts.Now = now
	return opts
}

func TestDmenuFormatter_Format(t *testing.T) {
	var buf bytes.Buffer

	formatter := NewDmenuFormatter(testOptions())
	require.NoError(t, formatter.Format(&buf, testToasts()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	assert.Equal(t, "1 | 5 minutes ago | active, 2.5s left | ✓ 완료: myfile.zip has finished downloading", lines[0])
	assert.Equal(t, "2 | 2 hours ago | paused, persistent | ✕ 오류: Build failed", lines[1])
}

func TestDmenuFormatter_NoIndex(t *testing.T) {
	var buf bytes.Buffer

	opts := testOptions()
	opts.ShowIndex = false
	opts.ShowState = false
	require.NoError(t, NewDmenuFormatter(opts).Format(&buf, testToasts()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.True(t, strings.HasPrefix(lines[0], "5 minutes ago"))
}

func TestDmenuFormatter_CustomTemplate(t *testing.T) {
	var buf bytes.Buffer

	opts := testOptions()
	opts.Template = "{{.Index}}: {{.Icon}} {{.Toast.Title}} - {{upper (printf \"%s\" .Toast.Type)}} {{reltime .Toast.CreatedAt}}"
	require.NoError(t, NewDmenuFormatter(opts).Format(&buf, testToasts()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, "1: ✓ 완료 - SUCCESS 5 minutes ago", lines[0])
	assert.Equal(t, "2: ✕ 오류 - ERROR 2 hours ago", lines[1])
}

func TestDmenuFormatter_InvalidTemplateFallsBack(t *testing.T) {
	var buf bytes.Buffer

	opts := testOptions()
	opts.Template = "{{.Index"
	require.NoError(t, NewDmenuFormatter(opts).Format(&buf, testToasts()))
	assert.Contains(t, buf.String(), "✓ 완료: ")
}

func TestDmenuFormatter_TruncateMessage(t *testing.T) {
	toasts := []toast.Snapshot{{
		ID:        "x",
		Type:      toast.TypeInfo,
		Title:     "Test",
		Message:   "This is a very long message that should be truncated when the max length is set",
		CreatedAt: now,
	}}
	var buf bytes.Buffer

	opts := testOptions()
	opts.MessageMaxLen = 20
	require.NoError(t, NewDmenuFormatter(opts).Format(&buf, toasts))

	out := buf.String()
	assert.Contains(t, out, "...")
	assert.NotContains(t, out, "truncated when the max length is set")
}

func TestJSONFormatter_Format(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, NewJSONFormatter(testOptions()).Format(&buf, testToasts()))

	var result []toast.Snapshot
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
	require.Len(t, result, 2)
	assert.Equal(t, toast.TypeSuccess, result[0].Type)
	assert.Equal(t, toast.StatePaused, result[1].State)
	assert.True(t, result[1].Persistent())
}

func TestJSONFormatter_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter(testOptions()).Format(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestJSONFormatter_FormatSingle(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, NewJSONFormatter(testOptions()).FormatSingle(&buf, testToasts()[0]))

	var result toast.Snapshot
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
	assert.Equal(t, "완료", result.Title)
}

func TestPlainFormatter_Format(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, NewPlainFormatter(testOptions()).Format(&buf, testToasts()))

	out := buf.String()
	assert.Contains(t, out, "[1] ✓ 완료 <top-right> (5 minutes ago) [active, 2.5s left]\n")
	assert.Contains(t, out, "    myfile.zip has finished downloading\n")
	assert.Contains(t, out, "[2] ✕ 오류 <bottom-left>")
}

func TestIDsFormatter_Format(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, NewIDsFormatter().Format(&buf, testToasts()))
	assert.Equal(t, "01J0000000000000000000000A\n01J0000000000000000000000B\n", buf.String())
}

func TestFormatField(t *testing.T) {
	s := testToasts()[0]

	tests := []struct {
		field    string
		expected string
	}{
		{"id", s.ID},
		{"type", "success"},
		{"title", "완료"},
		{"message", s.Message},
		{"body", s.Message},
		{"position", "top-right"},
		{"state", "active"},
		{"all", "완료\n" + s.Message},
		{"unknown", "완료"}, // defaults to title
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatField(s, tt.field))
		})
	}
}

func TestNewFormatter(t *testing.T) {
	opts := DefaultFormatterOptions()

	tests := []struct {
		format FormatType
		check  func(Formatter) bool
	}{
		{FormatDmenu, func(f Formatter) bool { _, ok := f.(*DmenuFormatter); return ok }},
		{FormatJSON, func(f Formatter) bool { _, ok := f.(*JSONFormatter); return ok }},
		{FormatPlain, func(f Formatter) bool { _, ok := f.(*PlainFormatter); return ok }},
		{FormatIDs, func(f Formatter) bool { _, ok := f.(*IDsFormatter); return ok }},
		{"unknown", func(f Formatter) bool { _, ok := f.(*PlainFormatter); return ok }},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			assert.True(t, tt.check(NewFormatter(tt.format, opts)))
		})
	}
}

func TestSanitizeMessage(t *testing.T) {
	tests := []struct {
		name           string
		msg            string
		maxLen         int
		includeNewline bool
		expected       string
	}{
		{"simple", "hello world", 0, false, "hello world"},
		{"with newlines", "hello\nworld", 0, false, "hello world"},
		{"preserve newlines", "hello\nworld", 0, true, "hello\nworld"},
		{"truncate", "hello world", 8, false, "hello..."},
		{"truncate runes", "저장되었습니다", 5, false, "저장..."},
		{"multiple spaces", "hello   world", 0, false, "hello world"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeMessage(tt.msg, tt.maxLen, tt.includeNewline))
		})
	}
}

func TestRelativeTime(t *testing.T) {
	tests := []struct {
		name     string
		at       time.Time
		expected string
	}{
		{"zero", time.Time{}, "unknown"},
		{"now", now, "now"},
		{"30 seconds", now.Add(-30 * time.Second), "30 seconds ago"},
		{"5 minutes", now.Add(-5 * time.Minute), "5 minutes ago"},
		{"2 hours", now.Add(-2 * time.Hour), "2 hours ago"},
		{"3 days", now.Add(-72 * time.Hour), "3 days ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, relativeTime(tt.at, now))
		})
	}
}

func TestStateLabel(t *testing.T) {
	tests := []struct {
		name     string
		toast    toast.Snapshot
		expected string
	}{
		{"timed", toast.Snapshot{State: toast.StateActive, Duration: 4 * time.Second, Remaining: 1234 * time.Millisecond}, "active, 1.2s left"},
		{"persistent", toast.Snapshot{State: toast.StatePaused}, "paused, persistent"},
		{"removed", toast.Snapshot{State: toast.StateRemoved, Duration: 4 * time.Second}, "removed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, stateLabel(tt.toast))
		})
	}
}

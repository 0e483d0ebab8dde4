package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/toastui/internal/config"
	"github.com/jmylchreest/toastui/internal/input"
	"github.com/jmylchreest/toastui/internal/store"
	"github.com/jmylchreest/toastui/internal/toast"
)

func TestParseSelection(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"01JD5X", "01JD5X"},
		{"  3 ", "3"},
		{"2 | now | active, 3s left | ℹ 알림: Saved", "2"},
		{"no index here", "no index here"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseSelection(tt.in))
		})
	}
}

func TestMergeRequest(t *testing.T) {
	d := config.Duration(2 * time.Second)
	defaults := input.Request{
		Title:    "Build",
		Type:     toast.TypeError,
		Position: toast.PositionBottomLeft,
		Duration: &d,
	}

	t.Run("fills empty fields", func(t *testing.T) {
		got := mergeRequest(input.Request{Message: "failed"}, defaults)
		assert.Equal(t, "failed", got.Message)
		assert.Equal(t, "Build", got.Title)
		assert.Equal(t, toast.TypeError, got.Type)
		assert.Equal(t, toast.PositionBottomLeft, got.Position)
		require.NotNil(t, got.Duration)
		assert.Equal(t, 2*time.Second, got.Duration.Duration())
	})

	t.Run("keeps request fields", func(t *testing.T) {
		got := mergeRequest(input.Request{
			Message:    "ok",
			Type:       toast.TypeSuccess,
			Persistent: true,
		}, defaults)
		assert.Equal(t, toast.TypeSuccess, got.Type)
		assert.True(t, got.Persistent)
		assert.Nil(t, got.Duration)
	})
}

func TestGenerateStatus(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		s := generateStatus(nil)
		assert.Equal(t, "empty", s.Class)
		assert.Empty(t, s.Text)
	})

	t.Run("most severe type wins", func(t *testing.T) {
		s := generateStatus([]toast.Snapshot{
			{Type: toast.TypeInfo},
			{Type: toast.TypeWarning},
			{Type: toast.TypeInfo},
		})
		assert.Equal(t, "3", s.Text)
		assert.Equal(t, "warning", s.Class)
		assert.Equal(t, "warning", s.Alt)
		assert.Contains(t, s.Tooltip, "3 active")
		assert.Contains(t, s.Tooltip, "info: 2")
		assert.Equal(t, 3, s.Percentage)
	})
}

func TestSelectTargets(t *testing.T) {
	toasts := []toast.Snapshot{
		{ID: "AB1", Type: toast.TypeInfo},
		{ID: "AB2", Type: toast.TypeError},
		{ID: "CD3", Type: toast.TypeInfo},
	}
	reset := func() { removeOpts.all, removeOpts.filter = false, "" }
	t.Cleanup(reset)

	t.Run("by index and prefix", func(t *testing.T) {
		reset()
		got, err := selectTargets(toasts, []string{"1", "CD", "AB1"}, time.Now())
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "AB1", got[0].ID)
		assert.Equal(t, "CD3", got[1].ID)
	})

	t.Run("filter", func(t *testing.T) {
		reset()
		removeOpts.filter = "type=info"
		got, err := selectTargets(toasts, nil, time.Now())
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("all", func(t *testing.T) {
		reset()
		removeOpts.all = true
		got, err := selectTargets(toasts, nil, time.Now())
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})

	t.Run("ambiguous prefix", func(t *testing.T) {
		reset()
		_, err := selectTargets(toasts, []string{"AB"}, time.Now())
		assert.Error(t, err)
	})
}

func TestFilterRecords(t *testing.T) {
	now := time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)
	records := []store.Record{
		{Snapshot: toast.Snapshot{ID: "a", Type: toast.TypeError, CreatedAt: now.Add(-time.Hour)}, Reason: toast.ReasonExpired},
		{Snapshot: toast.Snapshot{ID: "b", Type: toast.TypeInfo, CreatedAt: now.Add(-time.Minute)}, Reason: toast.ReasonClosed},
	}

	got, err := filterRecords(records, "", now)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = filterRecords(records, "type=error", now)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)

	got, err = filterRecords(records, "age<10m", now)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].ID)

	_, err = filterRecords(records, "colour=red", now)
	assert.Error(t, err)
}

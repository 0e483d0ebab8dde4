package toast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePosition(t *testing.T) {
	tests := []struct {
		input string
		want  Position
	}{
		{"top-right", PositionTopRight},
		{"top-left", PositionTopLeft},
		{"bottom-right", PositionBottomRight},
		{"bottom-left", PositionBottomLeft},
		{"top-center", PositionTopCenter},
		{"bottom-center", PositionBottomCenter},
		{"  bottom-left ", PositionBottomLeft},
		{"", PositionTopRight},
		{"center", PositionTopRight},
		{"Top-Left", PositionTopRight},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParsePosition(tt.input))
		})
	}
}

func TestPosition_IsTop(t *testing.T) {
	assert.True(t, PositionTopCenter.IsTop())
	assert.True(t, PositionTopLeft.IsTop())
	assert.False(t, PositionBottomRight.IsTop())
	assert.False(t, PositionBottomCenter.IsTop())
}

func TestType_ClassName(t *testing.T) {
	tests := []struct {
		typ  Type
		want string
	}{
		{TypeInfo, "toast--info"},
		{TypeError, "toast--error"},
		{"Build Failed", "toast--build-failed"},
		{"a/b.c", "toast--a-b-c"},
		{"", "toast--info"},
		{"!!!", "toast--info"},
	}

	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.typ.ClassName())
		})
	}
}

func TestTitles(t *testing.T) {
	ko := TitlesFor("ko")
	assert.Equal(t, "오류", ko.Title(TypeError))
	assert.Equal(t, "알림", ko.Title("custom"))

	en := TitlesFor("EN")
	assert.Equal(t, "Done", en.Title(TypeSuccess))

	assert.Equal(t, ko, TitlesFor("fr"))

	// Copies are independent of the built-in catalog.
	ko[TypeError] = "changed"
	assert.Equal(t, "오류", Locales["ko"][TypeError])

	var empty Titles
	assert.Equal(t, "알림", empty.Title(TypeWarning))
}

func TestState_UnmarshalText(t *testing.T) {
	var s State
	require.NoError(t, s.UnmarshalText([]byte("paused")))
	assert.Equal(t, StatePaused, s)

	assert.Error(t, s.UnmarshalText([]byte("sleeping")))
	assert.Equal(t, StatePaused, s, "failed parse leaves the value alone")
}

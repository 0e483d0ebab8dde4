package input

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/toastui/internal/toast"
)

func read(t *testing.T, s string) ([]Request, error) {
	t.Helper()
	return NewStreamReader(strings.NewReader(s)).Read(context.Background())
}

func TestRead_PlainLines(t *testing.T) {
	reqs, err := read(t, "first\n\n  second  \n")
	require.NoError(t, err)
	require.Len(t, reqs, 2)
	assert.Equal(t, "first", reqs[0].Message)
	assert.Equal(t, "second", reqs[1].Message)
	assert.Nil(t, reqs[0].Timeout())
}

func TestRead_JSONLines(t *testing.T) {
	input := `{"message":"built","type":"success","duration":"2s"}
plain text
{"message":"pinned","position":"bottom-left","persistent":true}
`
	reqs, err := read(t, input)
	require.NoError(t, err)
	require.Len(t, reqs, 3)

	assert.Equal(t, toast.TypeSuccess, reqs[0].Type)
	require.NotNil(t, reqs[0].Timeout())
	assert.Equal(t, 2*time.Second, *reqs[0].Timeout())

	assert.Equal(t, "plain text", reqs[1].Message)

	assert.Equal(t, toast.PositionBottomLeft, reqs[2].Position)
	require.NotNil(t, reqs[2].Timeout())
	assert.Zero(t, *reqs[2].Timeout())
}

func TestRead_JSONArray(t *testing.T) {
	reqs, err := read(t, `[{"message":"a","title":"A"},{"message":"b","type":"error"}]`)
	require.NoError(t, err)
	require.Len(t, reqs, 2)
	assert.Equal(t, "A", reqs[0].Title)
	assert.Equal(t, toast.TypeError, reqs[1].Type)
}

func TestRead_Empty(t *testing.T) {
	reqs, err := read(t, " \n\n")
	require.NoError(t, err)
	assert.Empty(t, reqs)
}

func TestRead_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		line  int
		want  string
	}{
		{"broken json line", "ok\n{\"message\":", 2, "invalid JSON"},
		{"missing message", `{"title":"x"}`, 1, "message is required"},
		{"bad array", `[{"message":1}]`, 0, "failed to parse JSON array"},
		{"array entry", `[{"message":"ok"},{"message":""}]`, 0, "entry 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := read(t, tt.input)
			require.Error(t, err)

			var inErr *InputError
			require.True(t, errors.As(err, &inErr))
			assert.Equal(t, tt.line, inErr.Line)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestRead_PassesThroughUnknownValues(t *testing.T) {
	reqs, err := read(t, `{"message":"x","type":"notice","position":"middle"}
plain`)
	require.NoError(t, err)
	require.Len(t, reqs, 2)
	assert.Equal(t, toast.Type("notice"), reqs[0].Type)
	assert.Equal(t, toast.Position("middle"), reqs[0].Position)
	assert.NoError(t, reqs[0].Validate())
}

func TestRead_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewStreamReader(strings.NewReader("a\nb\n")).Read(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/toastui/internal/toast"
)

func TestLookupByID(t *testing.T) {
	toasts := sampleToasts()

	tests := []struct {
		name string
		id   string
		want string
	}{
		{"exact", "01B", "01B"},
		{"unique prefix", "02", "02C"},
		{"ambiguous prefix", "01", ""},
		{"not found", "99", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LookupByID(toasts, tt.id)
			if tt.want == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.ID)
		})
	}
}

func TestLookupByIndex(t *testing.T) {
	toasts := sampleToasts()

	got := LookupByIndex(toasts, 2)
	require.NotNil(t, got)
	assert.Equal(t, "01B", got.ID)

	assert.Nil(t, LookupByIndex(toasts, 0))
	assert.Nil(t, LookupByIndex(toasts, 4))
	assert.Nil(t, LookupByIndex(nil, 1))
}

func TestSearch(t *testing.T) {
	toasts := sampleToasts()

	assert.Len(t, Search(toasts, ""), 3)
	assert.Equal(t, []string{"01B"}, ids(Search(toasts, "disk")))
	assert.Equal(t, []string{"02C"}, ids(Search(toasts, "경고")))
	assert.Empty(t, Search(toasts, "nothing"))
}

func TestCountByType(t *testing.T) {
	counts := CountByType(sampleToasts())
	assert.Equal(t, map[toast.Type]int{
		toast.TypeInfo:    1,
		toast.TypeError:   1,
		toast.TypeWarning: 1,
	}, counts)
}

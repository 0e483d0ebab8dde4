package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/toastui/internal/toast"
)

func TestNewJSONLPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.jsonl")

	p, err := NewJSONLPersistence(path)
	require.NoError(t, err)
	defer p.Close()

	assert.Equal(t, path, p.Path())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "toastui_schema_version")
}

func TestNewJSONLPersistence_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subdir", "nested", "test.jsonl")

	p, err := NewJSONLPersistence(path)
	require.NoError(t, err)
	defer p.Close()

	_, err = os.Stat(filepath.Dir(path))
	require.NoError(t, err)
}

func TestJSONLPersistence_AppendAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.jsonl")

	p, err := NewJSONLPersistence(path)
	require.NoError(t, err)
	defer p.Close()

	r1 := testRecord("persist1", epoch)
	r1.Reason = toast.ReasonClosed
	require.NoError(t, p.Append(r1))
	require.NoError(t, p.Append(testRecord("persist2", epoch)))

	records, err := p.Load()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "persist1", records[0].ID)
	assert.Equal(t, toast.ReasonClosed, records[0].Reason)
	assert.Equal(t, toast.StateRemoved, records[0].State)
	assert.True(t, records[0].RemovedAt.Equal(epoch))
	assert.Equal(t, 4*time.Second, records[0].Duration)
	assert.Equal(t, "persist2", records[1].ID)
}

func TestJSONLPersistence_Rewrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.jsonl")

	p, err := NewJSONLPersistence(path)
	require.NoError(t, err)
	defer p.Close()

	require.NoError(t, p.AppendBatch([]Record{
		testRecord("old1", epoch),
		testRecord("old2", epoch),
		testRecord("old3", epoch),
	}))

	require.NoError(t, p.Rewrite([]Record{
		testRecord("new1", epoch),
		testRecord("new2", epoch),
	}))

	records, err := p.Load()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "new1", records[0].ID)
	assert.Equal(t, "new2", records[1].ID)

	// Nothing but the history file is left behind
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	// Appends after a rewrite land at the end
	require.NoError(t, p.Append(testRecord("new3", epoch)))
	records, err = p.Load()
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestJSONLPersistence_Clear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.jsonl")

	p, err := NewJSONLPersistence(path)
	require.NoError(t, err)
	defer p.Close()

	require.NoError(t, p.Append(testRecord("clear1", epoch)))
	require.NoError(t, p.Clear())

	records, err := p.Load()
	require.NoError(t, err)
	assert.Empty(t, records)

	// File should still have header
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "toastui_schema_version")
}

func TestJSONLPersistence_Closed(t *testing.T) {
	p, err := NewJSONLPersistence(filepath.Join(t.TempDir(), "test.jsonl"))
	require.NoError(t, err)
	require.NoError(t, p.Close())
	require.NoError(t, p.Close())

	_, err = p.Load()
	assert.ErrorIs(t, err, ErrPersistenceClosed)
	assert.ErrorIs(t, p.Append(testRecord("a", epoch)), ErrPersistenceClosed)
	assert.ErrorIs(t, p.Clear(), ErrPersistenceClosed)
}

func TestJSONLPersistence_FilePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.jsonl")

	p, err := NewJSONLPersistence(path)
	require.NoError(t, err)
	p.Close()

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestJSONLPersistence_SkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.jsonl")

	content := `{"toastui_schema_version":1,"created_at":1703577600}
{"id":"valid1","type":"info","title":"알림","message":"a","state":"removed","reason":1}
{invalid json}
{"type":"info","message":"no id"}
{"id":"valid2","type":"error","title":"오류","message":"b","state":"removed","reason":3}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	p, err := NewJSONLPersistence(path)
	require.NoError(t, err)
	defer p.Close()

	records, err := p.Load()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, toast.ReasonClosed, records[1].Reason)
}

func TestJSONLPersistence_SchemaVersionCheck(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.jsonl")

	content := `{"toastui_schema_version":999,"created_at":1703577600}
{"id":"test1","type":"info","message":"a","state":"removed"}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	p, err := NewJSONLPersistence(path)
	require.NoError(t, err)
	defer p.Close()

	_, err = p.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported schema version")
}

func TestStoreWithPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.jsonl")

	p, err := NewJSONLPersistence(path)
	require.NoError(t, err)

	s := NewStore(p)
	require.NoError(t, s.Add(testRecord("persist1", epoch)))
	require.NoError(t, s.Add(testRecord("persist2", epoch.Add(time.Hour))))
	require.NoError(t, s.Close())

	p2, err := NewJSONLPersistence(path)
	require.NoError(t, err)

	s2 := NewStore(p2)
	defer s2.Close()
	require.NoError(t, s2.Hydrate())
	assert.Equal(t, 2, s2.Count())

	n, err := s2.Prune(epoch.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	records, err := p2.Load()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "persist2", records[0].ID)
}

func TestRecoverFromCorruption(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.jsonl")

	content := `{"toastui_schema_version":1,"created_at":1703577600}
{"id":"valid1","type":"info","message":"a","state":"removed"}
corrupt line that will break things
{"id":"valid2","type":"info","message":"b","state":"removed"}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	require.NoError(t, RecoverFromCorruption(path))

	p, err := NewJSONLPersistence(path)
	require.NoError(t, err)
	defer p.Close()

	records, err := p.Load()
	require.NoError(t, err)
	assert.Len(t, records, 2)

	matches, _ := filepath.Glob(path + ".corrupted.*")
	assert.Len(t, matches, 1)
}

func TestHistoryPath(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg-data")

	path, err := HistoryPath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/xdg-data/toastui/history.jsonl", path)
}

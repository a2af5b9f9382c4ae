package monitoring

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sam16vis/go-replay-inspector/internal/core/model"
)

func waitForEvent(t *testing.T, events <-chan model.FileEvent, timeout time.Duration) (model.FileEvent, bool) {
	t.Helper()
	select {
	case ev := <-events:
		return ev, true
	case <-time.After(timeout):
		return model.FileEvent{}, false
	}
}

func TestFileWatcherReportsSegmentWrites(t *testing.T) {
	dir := t.TempDir()

	fw, err := NewFileWatcher([]string{dir})
	require.NoError(t, err)
	defer fw.Close()

	path := filepath.Join(dir, "3.json")
	require.NoError(t, os.WriteFile(path, []byte("[]"), 0644))

	ev, ok := waitForEvent(t, fw.Events(), 2*time.Second)
	require.True(t, ok, "expected an event for a new segment file")
	assert.Equal(t, path, ev.Path)
}

func TestFileWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()

	fw, err := NewFileWatcher([]string{dir})
	require.NoError(t, err)
	defer fw.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	_, ok := waitForEvent(t, fw.Events(), 300*time.Millisecond)
	assert.False(t, ok, "non-segment files should not produce events")
}

func TestFileWatcherWatchesFileParent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "0.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0644))

	fw, err := NewFileWatcher([]string{path})
	require.NoError(t, err)
	defer fw.Close()

	// Appends arrive through the watched parent directory.
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	require.NoError(t, err)
	_, err = f.WriteString("{}\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	ev, ok := waitForEvent(t, fw.Events(), 2*time.Second)
	require.True(t, ok)
	assert.Equal(t, path, ev.Path)
}

func TestFileWatcherWatchesNestedDirectories(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "segments")
	require.NoError(t, os.MkdirAll(sub, 0755))

	fw, err := NewFileWatcher([]string{dir})
	require.NoError(t, err)
	defer fw.Close()

	path := filepath.Join(sub, "1.json")
	require.NoError(t, os.WriteFile(path, []byte("[]"), 0644))

	ev, ok := waitForEvent(t, fw.Events(), 2*time.Second)
	require.True(t, ok, "expected an event from the nested directory")
	assert.Equal(t, path, ev.Path)
}

func TestFileWatcherMissingPath(t *testing.T) {
	_, err := NewFileWatcher([]string{filepath.Join(t.TempDir(), "missing")})
	assert.Error(t, err)
}

func TestIsSegmentFile(t *testing.T) {
	assert.True(t, isSegmentFile("/replays/a/0.json"))
	assert.True(t, isSegmentFile("/replays/a/1.JSONL"))
	assert.False(t, isSegmentFile("/replays/a/meta.txt"))
	assert.False(t, isSegmentFile("/replays/a/0.json.bak"))
}

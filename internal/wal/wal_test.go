package wal

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(id string) Entry {
	return Entry{ID: id, Payload: json.RawMessage(`{"id":"` + id + `"}`), Timestamp: time.Now()}
}

func ids(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

func openTestWAL(t *testing.T) (*WAL, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "events.wal")
	w, err := New(path)
	require.NoError(t, err)
	t.Cleanup(func() { w.Close() })
	return w, path
}

func TestWAL_WriteAfterCleanup(t *testing.T) {
	w, _ := openTestWAL(t)

	for _, id := range []string{"e1", "e2", "e3"} {
		require.NoError(t, w.Write(entry(id)))
	}

	all, err := w.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"e1", "e2", "e3"}, ids(all))

	require.NoError(t, w.Cleanup([]string{"e1", "e2"}))

	remaining, err := w.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"e3"}, ids(remaining))

	// Writes after a cleanup must land in the rewritten file.
	require.NoError(t, w.Write(entry("e4")))
	require.NoError(t, w.Write(entry("e5")))

	final, err := w.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"e3", "e4", "e5"}, ids(final))
	assert.JSONEq(t, `{"id":"e4"}`, string(final[1].Payload))
}

func TestWAL_MultipleCleanups(t *testing.T) {
	w, _ := openTestWAL(t)

	for _, id := range []string{"e1", "e2", "e3", "e4", "e5"} {
		require.NoError(t, w.Write(entry(id)))
	}

	require.NoError(t, w.Cleanup([]string{"e1", "e2"}))
	require.NoError(t, w.Write(entry("e6")))
	require.NoError(t, w.Cleanup([]string{"e3", "e4"}))
	require.NoError(t, w.Write(entry("e7")))

	final, err := w.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"e5", "e6", "e7"}, ids(final))
}

func TestWAL_SurvivesReopen(t *testing.T) {
	w, path := openTestWAL(t)
	require.NoError(t, w.Write(entry("kept")))
	require.NoError(t, w.Close())

	reopened, err := New(path)
	require.NoError(t, err)
	defer reopened.Close()

	all, err := reopened.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"kept"}, ids(all))
}

func TestWAL_SkipsCorruptLines(t *testing.T) {
	w, path := openTestWAL(t)
	require.NoError(t, w.Write(entry("good")))

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("{torn write\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	all, err := w.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"good"}, ids(all))
}

func TestWAL_CleanupNothing(t *testing.T) {
	w, _ := openTestWAL(t)
	require.NoError(t, w.Write(entry("only")))

	require.NoError(t, w.Cleanup(nil))
	require.NoError(t, w.Cleanup([]string{"unknown"}))

	all, err := w.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"only"}, ids(all))
}

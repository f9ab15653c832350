package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRoundTrip(t *testing.T) {
	m := NewMemory()

	_, ok := m.Get("pending_task_id")
	assert.False(t, ok)

	require.NoError(t, m.Set("pending_task_id", "breathing_30s"))
	v, ok := m.Get("pending_task_id")
	require.True(t, ok)
	assert.Equal(t, "breathing_30s", v)

	require.NoError(t, m.Delete("pending_task_id"))
	_, ok = m.Get("pending_task_id")
	assert.False(t, ok)
}

func TestMemoryDeleteMissingKey(t *testing.T) {
	m := NewMemory()
	assert.NoError(t, m.Delete("never_set"))
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	f, err := NewFile(path)
	require.NoError(t, err)

	require.NoError(t, f.Set("pending_session_id", "abc123"))
	require.NoError(t, f.Set("pending_timestamp", "1724400000000"))

	v, ok := f.Get("pending_session_id")
	require.True(t, ok)
	assert.Equal(t, "abc123", v)
}

func TestFileSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	f, err := NewFile(path)
	require.NoError(t, err)
	require.NoError(t, f.Set("pending_task_id", "breathing_30s"))
	require.NoError(t, f.Set("pending_app_name", "Instagram"))
	require.NoError(t, f.Delete("pending_app_name"))

	reopened, err := NewFile(path)
	require.NoError(t, err)

	v, ok := reopened.Get("pending_task_id")
	require.True(t, ok)
	assert.Equal(t, "breathing_30s", v)

	_, ok = reopened.Get("pending_app_name")
	assert.False(t, ok)
}

func TestFileMissingStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.json")

	f, err := NewFile(path)
	require.NoError(t, err)

	_, ok := f.Get("anything")
	assert.False(t, ok)
}

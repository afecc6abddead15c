package identity

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "task-map.json"))
}

func TestResolveEmptyStore(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	_, found, err := s.Resolve("task_42", "42")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRegisterAndResolve(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	conflicts, err := s.Register("T010", "toolu_abc", "sessA_task_7", "task_7")
	require.NoError(t, err)
	assert.Empty(t, conflicts)

	for _, key := range []string{"toolu_abc", "sessA_task_7", "task_7"} {
		id, found, err := s.Resolve(key)
		require.NoError(t, err)
		require.True(t, found, "key %s should resolve", key)
		assert.Equal(t, "T010", id)
	}
}

func TestResolveReturnsFirstHit(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	_, err := s.Register("T001", "sessA_task_7")
	require.NoError(t, err)
	_, err = s.Register("T002", "task_7")
	require.NoError(t, err)

	// Session-scoped candidate listed first wins over the legacy key.
	id, found, err := s.Resolve("sessA_task_7", "task_7")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "T001", id)
}

func TestMappingIsImmutable(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	_, err := s.Register("T010", "task_7")
	require.NoError(t, err)

	conflicts, err := s.Register("T099", "task_7")
	require.NoError(t, err)
	assert.Equal(t, []string{"task_7"}, conflicts)

	id, found, err := s.Resolve("task_7")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "T010", id, "first writer wins")
}

func TestReRegisterSameMappingIsNotAConflict(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	_, err := s.Register("T010", "task_7")
	require.NoError(t, err)

	conflicts, err := s.Register("T010", "task_7", "sessA_task_7")
	require.NoError(t, err)
	assert.Empty(t, conflicts)
}

func TestManyKeysToOneDurableID(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	_, err := s.Register("T005", "toolu_x", "sessA_task_3", "task_3")
	require.NoError(t, err)

	entries, err := s.Entries()
	require.NoError(t, err)
	assert.Len(t, entries, 3)
	for _, id := range entries {
		assert.Equal(t, "T005", id)
	}
}

func TestFreshReadAcrossInstances(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "task-map.json")

	writer := NewStore(path)
	reader := NewStore(path)

	// The reader existed before the write; it must still see it, since
	// every call re-reads the file.
	_, err := writer.Register("T001", "task_1")
	require.NoError(t, err)

	id, found, err := reader.Resolve("task_1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "T001", id)
}

func TestRegisterSkipsEmptyKeys(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	_, err := s.Register("T001", "", "task_1", "")
	require.NoError(t, err)

	entries, err := s.Entries()
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestCorruptFileIsAnError(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "task-map.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0644))

	s := NewStore(path)
	_, _, err := s.Resolve("task_1")
	assert.Error(t, err)
}

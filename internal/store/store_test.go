package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "zhiling", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAppendAndMessages(t *testing.T) {
	s := testStore(t)

	require.NoError(t, s.Append("sess-1", "user", "打开记事本"))
	require.NoError(t, s.Append("sess-1", "assistant", "[TASK:OPEN_APP]记事本[/TASK]好的"))
	require.NoError(t, s.Append("sess-2", "user", "其他会话"))

	records, err := s.Messages("sess-1")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "user", records[0].Role)
	assert.Equal(t, "打开记事本", records[0].Content)
	assert.Equal(t, "assistant", records[1].Role)
	assert.NotEmpty(t, records[0].ID)
}

func TestMessages_UnknownSessionIsEmpty(t *testing.T) {
	s := testStore(t)

	records, err := s.Messages("ghost")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSessions(t *testing.T) {
	s := testStore(t)

	require.NoError(t, s.Append("a", "user", "1"))
	require.NoError(t, s.Append("a", "assistant", "2"))
	require.NoError(t, s.Append("b", "user", "3"))

	sessions, err := s.Sessions(10)
	require.NoError(t, err)
	require.Len(t, sessions, 2)

	byID := map[string]int{}
	for _, sum := range sessions {
		byID[sum.SessionID] = sum.Messages
	}
	assert.Equal(t, 2, byID["a"])
	assert.Equal(t, 1, byID["b"])
}

func TestNew_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	s, err := New(path)
	require.NoError(t, err)
	require.NoError(t, s.Append("sess", "user", "hello"))
	require.NoError(t, s.Close())

	s2, err := New(path)
	require.NoError(t, err)
	defer s2.Close()

	records, err := s2.Messages("sess")
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

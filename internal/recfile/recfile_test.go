package recfile

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRecLen = 64

func TestStore_PutGet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.db")

	s, err := Open(path, Create|Excl, testRecLen)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	rec := make([]byte, testRecLen)
	copy(rec, "record one")
	require.NoError(t, s.Put(1, rec))

	got, err := s.Get(1)
	require.NoError(t, err)
	assert.Equal(t, rec, got)

	// a never-written record reads back zeroed
	got, err = s.Get(2)
	require.NoError(t, err)
	assert.Equal(t, make([]byte, testRecLen), got)
}

func TestStore_WrongRecordLength(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.db")

	s, err := Open(path, Create, testRecLen)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	require.ErrorIs(t, s.Put(1, []byte("short")), ErrBackingStore)
	require.ErrorIs(t, s.Put(0, make([]byte, testRecLen)), ErrBackingStore)
}

func TestStore_Stat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.db")

	s, err := Open(path, Create, testRecLen)
	require.NoError(t, err)

	st, err := s.Stat()
	require.NoError(t, err)
	assert.Equal(t, uint32(0), st.RecordCount)

	rec := make([]byte, testRecLen)
	require.NoError(t, s.Put(1, rec))
	require.NoError(t, s.Put(2, rec))

	st, err = s.Stat()
	require.NoError(t, err)
	assert.Equal(t, uint32(2), st.RecordCount)
	require.NoError(t, s.Close())

	// reopen sees the same count
	s2, err := Open(path, 0, testRecLen)
	require.NoError(t, err)
	defer func() { _ = s2.Close() }()
	st, err = s2.Stat()
	require.NoError(t, err)
	assert.Equal(t, uint32(2), st.RecordCount)
}

func TestStore_ExclAndRemove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.db")

	s, err := Open(path, Create|Excl, testRecLen)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = Open(path, Create|Excl, testRecLen)
	require.ErrorIs(t, err, ErrBackingStore)

	require.NoError(t, Remove(path))
	require.ErrorIs(t, Remove(path), ErrBackingStore)

	// plain open of a missing file fails
	_, err = Open(path, 0, testRecLen)
	require.ErrorIs(t, err, ErrBackingStore)
}

package index

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBTreeIndex_Lifecycle(t *testing.T) {
	dir := t.TempDir()

	ix := NewBTreeIndex(dir, "foo", "fx")
	require.NoError(t, ix.Create())

	path := filepath.Join(dir, "foo-fx.db")
	_, err := os.Stat(path)
	require.NoError(t, err)

	require.NoError(t, ix.Drop())
	_, err = os.Stat(path)
	require.ErrorIs(t, err, os.ErrNotExist)
}

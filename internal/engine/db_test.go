package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuannm99/minirel/internal/record"
	"github.com/tuannm99/minirel/internal/sql/executor"
)

func TestDatabase_EndToEnd(t *testing.T) {
	dir := t.TempDir()

	db, err := NewDatabase(dir)
	require.NoError(t, err)

	_, err = db.ExecSQL("CREATE TABLE users (id INT, name TEXT);")
	require.NoError(t, err)

	res, err := db.ExecSQL("SHOW TABLES;")
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, record.TextValue("users"), res.Rows[0]["table_name"])

	require.NoError(t, db.Close())

	// the environment persists across reopen
	db2, err := NewDatabase(dir)
	require.NoError(t, err)
	defer func() { _ = db2.Close() }()

	res, err = db2.ExecSQL("SHOW COLUMNS FROM users;")
	require.NoError(t, err)
	require.Len(t, res.Rows, 2)

	_, err = db2.ExecSQL("DROP TABLE users;")
	require.NoError(t, err)

	res, err = db2.ExecSQL("SHOW TABLES;")
	require.NoError(t, err)
	assert.Empty(t, res.Rows)
}

func TestDatabase_ParseErrorsSurface(t *testing.T) {
	db, err := NewDatabase(t.TempDir())
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	_, err = db.ExecSQL("SELECT * FROM users;")
	require.Error(t, err)

	_, err = db.ExecSQL("SHOW TABLES")
	require.Error(t, err)
}

func TestDatabase_DropSchemaTableRefused(t *testing.T) {
	db, err := NewDatabase(t.TempDir())
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	_, err = db.ExecSQL("DROP TABLE _tables;")
	require.ErrorIs(t, err, executor.ErrCatalogConflict)
}

func TestDatabase_SelfTest(t *testing.T) {
	db, err := NewDatabase(t.TempDir())
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	require.NoError(t, db.SelfTest())
}

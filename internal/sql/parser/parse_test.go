package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_CreateTable(t *testing.T) {
	stmt, err := Parse("CREATE TABLE foo (x INT, y TEXT);")
	require.NoError(t, err)

	ct, ok := stmt.(*CreateTableStmt)
	require.True(t, ok)
	assert.Equal(t, "foo", ct.TableName)
	assert.False(t, ct.IfNotExists)
	assert.Equal(t, []ColumnDef{{Name: "x", Type: "INT"}, {Name: "y", Type: "TEXT"}}, ct.Columns)
}

func TestParse_CreateTableIfNotExists(t *testing.T) {
	stmt, err := Parse("create table if not exists foo (x int);")
	require.NoError(t, err)

	ct := stmt.(*CreateTableStmt)
	assert.True(t, ct.IfNotExists)
	assert.Equal(t, "foo", ct.TableName)
	assert.Equal(t, []ColumnDef{{Name: "x", Type: "INT"}}, ct.Columns)
}

func TestParse_CreateTableDouble(t *testing.T) {
	// DOUBLE parses; rejecting it is the executor's job
	stmt, err := Parse("CREATE TABLE foo (x DOUBLE);")
	require.NoError(t, err)
	assert.Equal(t, "DOUBLE", stmt.(*CreateTableStmt).Columns[0].Type)
}

func TestParse_CreateIndex(t *testing.T) {
	stmt, err := Parse("CREATE INDEX ix ON foo (x, y);")
	require.NoError(t, err)

	ci := stmt.(*CreateIndexStmt)
	assert.Equal(t, "ix", ci.IndexName)
	assert.Equal(t, "foo", ci.TableName)
	assert.Equal(t, []string{"x", "y"}, ci.Columns)
}

func TestParse_DropTable(t *testing.T) {
	stmt, err := Parse("DROP TABLE foo;")
	require.NoError(t, err)
	assert.Equal(t, "foo", stmt.(*DropTableStmt).TableName)
}

func TestParse_DropIndex(t *testing.T) {
	stmt, err := Parse("DROP INDEX ix ON foo;")
	require.NoError(t, err)

	di := stmt.(*DropIndexStmt)
	assert.Equal(t, "ix", di.IndexName)
	assert.Equal(t, "foo", di.TableName)
}

func TestParse_Show(t *testing.T) {
	stmt, err := Parse("SHOW TABLES;")
	require.NoError(t, err)
	assert.IsType(t, &ShowTablesStmt{}, stmt)

	stmt, err = Parse("SHOW COLUMNS FROM foo;")
	require.NoError(t, err)
	assert.Equal(t, "foo", stmt.(*ShowColumnsStmt).TableName)

	stmt, err = Parse("SHOW INDEX FROM foo;")
	require.NoError(t, err)
	assert.Equal(t, "foo", stmt.(*ShowIndexStmt).TableName)
}

func TestParse_Errors(t *testing.T) {
	for _, sql := range []string{
		"",
		"   ",
		"SHOW TABLES", // missing terminator
		"CREATE TABLE foo ();",
		"CREATE TABLE (x INT);",
		"CREATE TABLE foo (x);",
		"CREATE INDEX ix foo (x);",
		"DROP INDEX ix;",
		"SELECT * FROM foo;",
	} {
		_, err := Parse(sql)
		assert.Error(t, err, "sql: %q", sql)
	}
}

func TestParse_CatalogIdentifiers(t *testing.T) {
	// leading underscore names are valid identifiers
	stmt, err := Parse("SHOW COLUMNS FROM _tables;")
	require.NoError(t, err)
	assert.Equal(t, "_tables", stmt.(*ShowColumnsStmt).TableName)
}

// Package engine wires the pieces into one database environment: a
// directory of heap files plus the two catalog singletons living for the
// process lifetime.
package engine

import (
	"fmt"
	"os"

	"go.uber.org/multierr"

	"github.com/tuannm99/minirel/internal/catalog"
	"github.com/tuannm99/minirel/internal/heap"
	"github.com/tuannm99/minirel/internal/sql/executor"
	"github.com/tuannm99/minirel/internal/sql/parser"
)

type Database struct {
	DataDir string
	Tables  *catalog.Tables
	Indices *catalog.Indices

	ex *executor.Executor
}

// NewDatabase opens (bootstrapping if needed) the environment at dataDir.
// This is the one explicit init step: the catalogs it builds are shared
// by every statement until Close.
func NewDatabase(dataDir string) (*Database, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("engine: create data dir: %w", err)
	}

	tables, err := catalog.NewTables(dataDir)
	if err != nil {
		return nil, err
	}
	indices, err := catalog.NewIndices(dataDir)
	if err != nil {
		_ = tables.CloseAll()
		return nil, err
	}

	return &Database{
		DataDir: dataDir,
		Tables:  tables,
		Indices: indices,
		ex:      executor.New(tables, indices),
	}, nil
}

// Exec runs one pre-parsed statement.
func (db *Database) Exec(stmt parser.Statement) (*executor.QueryResult, error) {
	return db.ex.Execute(stmt)
}

// ExecSQL parses and runs one statement of SQL text.
func (db *Database) ExecSQL(sql string) (*executor.QueryResult, error) {
	stmt, err := parser.Parse(sql)
	if err != nil {
		return nil, err
	}
	return db.Exec(stmt)
}

// SelfTest runs the storage engine smoke test inside this environment.
func (db *Database) SelfTest() error {
	return heap.SelfTest(db.DataDir)
}

// Close flushes and closes every open relation. The environment can be
// reopened with NewDatabase.
func (db *Database) Close() error {
	return multierr.Append(db.Tables.CloseAll(), db.Indices.Close())
}

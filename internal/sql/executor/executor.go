// Package executor dispatches CREATE / DROP / SHOW statements against the
// schema catalog, keeping the three catalog tables referentially
// consistent with each other and with the backing files.
package executor

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/tuannm99/minirel/internal/catalog"
	"github.com/tuannm99/minirel/internal/heap"
	"github.com/tuannm99/minirel/internal/record"
	"github.com/tuannm99/minirel/internal/sql/parser"
)

// ErrCatalogConflict covers dropping a schema table, touching a table or
// index that does not exist, and indexing a column the table lacks.
var ErrCatalogConflict = errors.New("executor: catalog conflict")

// Executor is a stateless facade over the two catalog singletons.
type Executor struct {
	tables  *catalog.Tables
	indices *catalog.Indices
}

func New(tables *catalog.Tables, indices *catalog.Indices) *Executor {
	return &Executor{tables: tables, indices: indices}
}

// Execute runs one statement. Statement kinds beyond CREATE/DROP/SHOW
// yield a "not implemented" result, not an error.
func (e *Executor) Execute(stmt parser.Statement) (*QueryResult, error) {
	switch s := stmt.(type) {
	case *parser.CreateTableStmt:
		return e.createTable(s)
	case *parser.CreateIndexStmt:
		return e.createIndex(s)
	case *parser.DropTableStmt:
		return e.dropTable(s)
	case *parser.DropIndexStmt:
		return e.dropIndex(s)
	case *parser.ShowTablesStmt:
		return e.showTables()
	case *parser.ShowColumnsStmt:
		return e.showColumns(s)
	case *parser.ShowIndexStmt:
		return e.showIndex(s)
	default:
		return message("not implemented"), nil
	}
}

// columnAttribute translates an AST column type. Anything but INT and
// TEXT (DOUBLE included) is rejected.
func columnAttribute(col parser.ColumnDef) (record.ColumnAttribute, error) {
	switch col.Type {
	case "INT":
		return record.ColumnAttribute{DataType: record.Int}, nil
	case "TEXT":
		return record.ColumnAttribute{DataType: record.Text}, nil
	default:
		return record.ColumnAttribute{}, fmt.Errorf("%w: unrecognized data type %q", record.ErrSchema, col.Type)
	}
}

// createTable registers the table in _tables and _columns, then
// materializes the backing file. On any failure the inserted catalog
// rows are compensated in reverse, best effort.
func (e *Executor) createTable(s *parser.CreateTableStmt) (*QueryResult, error) {
	var schema record.Schema
	for _, col := range s.Columns {
		attr, err := columnAttribute(col)
		if err != nil {
			return nil, err
		}
		schema.Names = append(schema.Names, col.Name)
		schema.Attrs = append(schema.Attrs, attr)
	}

	tableHandle, err := e.tables.Insert(record.Row{"table_name": record.TextValue(s.TableName)})
	if err != nil {
		return nil, err
	}

	columnTable, err := e.tables.GetTable(catalog.ColumnsTableName)
	if err != nil {
		return nil, e.compensateCreateTable(err, nil, nil, tableHandle)
	}

	var columnHandles []heap.Handle
	for i, name := range schema.Names {
		row := record.Row{
			"table_name":  record.TextValue(s.TableName),
			"column_name": record.TextValue(name),
			"data_type":   record.TextValue(schema.Attrs[i].DataType.String()),
		}
		h, err := columnTable.Insert(row)
		if err != nil {
			return nil, e.compensateCreateTable(err, columnTable, columnHandles, tableHandle)
		}
		columnHandles = append(columnHandles, h)
	}

	table, err := e.tables.GetTable(s.TableName)
	if err == nil {
		if s.IfNotExists {
			err = table.CreateIfNotExists()
		} else {
			err = table.Create()
		}
	}
	if err != nil {
		return nil, e.compensateCreateTable(err, columnTable, columnHandles, tableHandle)
	}

	return message("created %s", s.TableName), nil
}

// compensateCreateTable unwinds a partial CREATE TABLE: inserted
// _columns rows first, then the _tables row. Secondary failures are
// logged and swallowed; the primary error is what the caller sees.
func (e *Executor) compensateCreateTable(
	primary error,
	columnTable *heap.Table,
	columnHandles []heap.Handle,
	tableHandle heap.Handle,
) error {
	for _, h := range columnHandles {
		if err := columnTable.Delete(h); err != nil {
			slog.Warn("executor: create table compensation", "step", "_columns", "err", err)
		}
	}
	if err := e.tables.Delete(tableHandle); err != nil {
		slog.Warn("executor: create table compensation", "step", "_tables", "err", err)
	}
	return primary
}

// createIndex validates the target table and columns, then records one
// _indices row per column with ascending seq_in_index. BTREE and unique
// is the current policy.
func (e *Executor) createIndex(s *parser.CreateIndexStmt) (*QueryResult, error) {
	exists, err := e.tableExists(s.TableName)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: no such table %s", ErrCatalogConflict, s.TableName)
	}

	schema, err := e.tables.GetColumns(s.TableName)
	if err != nil {
		return nil, err
	}
	for _, col := range s.Columns {
		if _, ok := schema.AttrOf(col); !ok {
			return nil, fmt.Errorf("%w: no such column %s in table %s", ErrCatalogConflict, col, s.TableName)
		}
	}

	var handles []heap.Handle
	for i, col := range s.Columns {
		row := record.Row{
			"table_name":   record.TextValue(s.TableName),
			"index_name":   record.TextValue(s.IndexName),
			"seq_in_index": record.IntValue(int32(i + 1)),
			"column_name":  record.TextValue(col),
			"index_type":   record.TextValue("BTREE"),
			"is_unique":    record.BoolValue(true),
		}
		h, err := e.indices.Insert(row)
		if err != nil {
			for _, done := range handles {
				if derr := e.indices.Delete(done); derr != nil {
					slog.Warn("executor: create index compensation", "err", derr)
				}
			}
			return nil, err
		}
		handles = append(handles, h)
	}

	if err := e.indices.GetIndex(s.TableName, s.IndexName).Create(); err != nil {
		for _, done := range handles {
			if derr := e.indices.Delete(done); derr != nil {
				slog.Warn("executor: create index compensation", "err", derr)
			}
		}
		return nil, err
	}

	return message("created index %s", s.IndexName), nil
}

// dropTable cascades in dependency order: indexes, _columns rows, the
// backing file, and finally the _tables row (which also evicts the
// cache entry).
func (e *Executor) dropTable(s *parser.DropTableStmt) (*QueryResult, error) {
	if catalog.IsSchemaTable(s.TableName) {
		return nil, fmt.Errorf("%w: cannot drop a schema table", ErrCatalogConflict)
	}
	exists, err := e.tableExists(s.TableName)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: no such table %s", ErrCatalogConflict, s.TableName)
	}

	table, err := e.tables.GetTable(s.TableName)
	if err != nil {
		return nil, err
	}

	indexNames, err := e.indices.GetIndexNames(s.TableName)
	if err != nil {
		return nil, err
	}
	for _, indexName := range indexNames {
		if err := e.dropIndexRows(s.TableName, indexName); err != nil {
			return nil, err
		}
	}

	where := record.Row{"table_name": record.TextValue(s.TableName)}

	columnTable, err := e.tables.GetTable(catalog.ColumnsTableName)
	if err != nil {
		return nil, err
	}
	columnHandles, err := columnTable.SelectWhere(where)
	if err != nil {
		return nil, err
	}
	for _, h := range columnHandles {
		if err := columnTable.Delete(h); err != nil {
			return nil, err
		}
	}

	if err := table.Drop(); err != nil {
		return nil, err
	}

	tableHandles, err := e.tables.SelectWhere(where)
	if err != nil {
		return nil, err
	}
	for _, h := range tableHandles {
		if err := e.tables.Delete(h); err != nil {
			return nil, err
		}
	}

	return message("dropped %s", s.TableName), nil
}

// dropIndex removes the index object and its _indices rows.
func (e *Executor) dropIndex(s *parser.DropIndexStmt) (*QueryResult, error) {
	exists, err := e.indexExists(s.TableName, s.IndexName)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: no such index %s on %s", ErrCatalogConflict, s.IndexName, s.TableName)
	}
	if err := e.dropIndexRows(s.TableName, s.IndexName); err != nil {
		return nil, err
	}
	return message("dropped index %s from %s", s.IndexName, s.TableName), nil
}

func (e *Executor) dropIndexRows(tableName, indexName string) error {
	if err := e.indices.GetIndex(tableName, indexName).Drop(); err != nil {
		return err
	}
	where := record.Row{
		"table_name": record.TextValue(tableName),
		"index_name": record.TextValue(indexName),
	}
	handles, err := e.indices.SelectWhere(where)
	if err != nil {
		return err
	}
	for _, h := range handles {
		if err := e.indices.Delete(h); err != nil {
			return err
		}
	}
	return nil
}

// showTables lists user tables: every _tables row except the catalog's
// own three.
func (e *Executor) showTables() (*QueryResult, error) {
	schema, err := e.tables.GetColumns(catalog.TablesTableName)
	if err != nil {
		return nil, err
	}

	handles, err := e.tables.Select()
	if err != nil {
		return nil, err
	}
	rows := make([]record.Row, 0, len(handles))
	for _, h := range handles {
		row, err := e.tables.Project(h)
		if err != nil {
			return nil, err
		}
		if catalog.IsSchemaTable(row["table_name"].S) {
			continue
		}
		rows = append(rows, row)
	}
	return &QueryResult{
		ColumnNames:      schema.Names,
		ColumnAttributes: schema.Attrs,
		Rows:             rows,
		Message:          fmt.Sprintf("successfully returned %d rows", len(rows)),
	}, nil
}

// showColumns lists the _columns rows of one table. Catalog tables are
// legal subjects here.
func (e *Executor) showColumns(s *parser.ShowColumnsStmt) (*QueryResult, error) {
	exists, err := e.tableExists(s.TableName)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: no such table %s", ErrCatalogConflict, s.TableName)
	}

	schema, err := e.tables.GetColumns(catalog.ColumnsTableName)
	if err != nil {
		return nil, err
	}
	columnTable, err := e.tables.GetTable(catalog.ColumnsTableName)
	if err != nil {
		return nil, err
	}
	handles, err := columnTable.SelectWhere(record.Row{"table_name": record.TextValue(s.TableName)})
	if err != nil {
		return nil, err
	}
	rows := make([]record.Row, 0, len(handles))
	for _, h := range handles {
		row, err := columnTable.Project(h)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return &QueryResult{
		ColumnNames:      schema.Names,
		ColumnAttributes: schema.Attrs,
		Rows:             rows,
		Message:          fmt.Sprintf("successfully returned %d rows", len(rows)),
	}, nil
}

// showIndex lists the _indices rows of one table.
func (e *Executor) showIndex(s *parser.ShowIndexStmt) (*QueryResult, error) {
	exists, err := e.tableExists(s.TableName)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: no such table %s", ErrCatalogConflict, s.TableName)
	}

	schema, err := e.tables.GetColumns(catalog.IndicesTableName)
	if err != nil {
		return nil, err
	}
	handles, err := e.indices.SelectWhere(record.Row{"table_name": record.TextValue(s.TableName)})
	if err != nil {
		return nil, err
	}
	rows := make([]record.Row, 0, len(handles))
	for _, h := range handles {
		row, err := e.indices.Project(h)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return &QueryResult{
		ColumnNames:      schema.Names,
		ColumnAttributes: schema.Attrs,
		Rows:             rows,
		Message:          fmt.Sprintf("successfully returned %d rows", len(rows)),
	}, nil
}

func (e *Executor) tableExists(name string) (bool, error) {
	handles, err := e.tables.SelectWhere(record.Row{"table_name": record.TextValue(name)})
	if err != nil {
		return false, err
	}
	return len(handles) > 0, nil
}

func (e *Executor) indexExists(tableName, indexName string) (bool, error) {
	handles, err := e.indices.SelectWhere(record.Row{
		"table_name": record.TextValue(tableName),
		"index_name": record.TextValue(indexName),
	})
	if err != nil {
		return false, err
	}
	return len(handles) > 0, nil
}

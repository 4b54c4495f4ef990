// Package catalog implements the self-describing system tables: _tables,
// _columns and _indices are themselves heap tables, and _tables holds a
// row for each of them. The cycle is broken by hard-coding the three
// schemas here instead of reading them from _columns.
package catalog

import (
	"github.com/tuannm99/minirel/internal/record"
)

const (
	TablesTableName  = "_tables"
	ColumnsTableName = "_columns"
	IndicesTableName = "_indices"
)

// IsSchemaTable reports whether name is one of the three catalog tables.
func IsSchemaTable(name string) bool {
	return name == TablesTableName || name == ColumnsTableName || name == IndicesTableName
}

func tablesSchema() record.Schema {
	return record.Schema{
		Names: record.ColumnNames{"table_name"},
		Attrs: record.ColumnAttributes{{DataType: record.Text}},
	}
}

func columnsSchema() record.Schema {
	return record.Schema{
		Names: record.ColumnNames{"table_name", "column_name", "data_type"},
		Attrs: record.ColumnAttributes{
			{DataType: record.Text},
			{DataType: record.Text},
			{DataType: record.Text},
		},
	}
}

func indicesSchema() record.Schema {
	return record.Schema{
		Names: record.ColumnNames{
			"table_name", "index_name", "seq_in_index",
			"column_name", "index_type", "is_unique",
		},
		Attrs: record.ColumnAttributes{
			{DataType: record.Text},
			{DataType: record.Text},
			{DataType: record.Int},
			{DataType: record.Text},
			{DataType: record.Text},
			{DataType: record.Boolean},
		},
	}
}

// schemaOf returns the hard-coded schema for a catalog table.
func schemaOf(name string) (record.Schema, bool) {
	switch name {
	case TablesTableName:
		return tablesSchema(), true
	case ColumnsTableName:
		return columnsSchema(), true
	case IndicesTableName:
		return indicesSchema(), true
	default:
		return record.Schema{}, false
	}
}

package catalog

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/tuannm99/minirel/internal/heap"
	"github.com/tuannm99/minirel/internal/record"
)

// Tables is the _tables relation plus the process-wide table cache:
// successive GetTable calls for the same name return the same live
// relation until the table is dropped.
type Tables struct {
	*heap.Table

	dir   string
	cache map[string]*heap.Table
}

// NewTables bootstraps the _tables relation. On first creation the three
// catalog tables register themselves, so _tables describes the catalog
// too. The _columns relation is bootstrapped here as well since every
// Tables method may need it.
func NewTables(dir string) (*Tables, error) {
	t := &Tables{
		Table: heap.NewTable(dir, TablesTableName, tablesSchema()),
		dir:   dir,
		cache: make(map[string]*heap.Table),
	}
	t.cache[TablesTableName] = t.Table

	if err := t.Open(); err != nil {
		if err := t.Create(); err != nil {
			return nil, err
		}
		for _, name := range []string{TablesTableName, ColumnsTableName, IndicesTableName} {
			if _, err := t.Insert(record.Row{"table_name": record.TextValue(name)}); err != nil {
				return nil, err
			}
		}
	}
	if err := t.bootstrapColumns(); err != nil {
		return nil, err
	}
	return t, nil
}

// bootstrapColumns materializes _columns and, on first creation, seeds it
// with the columns of _tables and _columns themselves. The _indices
// schema stays hard-coded only: its is_unique column has no legal
// _columns.data_type spelling.
func (t *Tables) bootstrapColumns() error {
	columns := heap.NewTable(t.dir, ColumnsTableName, columnsSchema())
	t.cache[ColumnsTableName] = columns

	if err := columns.Open(); err == nil {
		return nil
	}
	if err := columns.Create(); err != nil {
		return err
	}
	for _, tableName := range []string{TablesTableName, ColumnsTableName} {
		schema, _ := schemaOf(tableName)
		for i, columnName := range schema.Names {
			row := record.Row{
				"table_name":  record.TextValue(tableName),
				"column_name": record.TextValue(columnName),
				"data_type":   record.TextValue(schema.Attrs[i].DataType.String()),
			}
			if _, err := columns.Insert(row); err != nil {
				return err
			}
		}
	}
	return nil
}

// GetColumns reads a table's schema from _columns, in row insertion order
// (which is the table's column order). The catalog tables short-circuit
// to their hard-coded schemas.
func (t *Tables) GetColumns(tableName string) (record.Schema, error) {
	if schema, ok := schemaOf(tableName); ok {
		return schema, nil
	}

	columns := t.cache[ColumnsTableName]
	handles, err := columns.SelectWhere(record.Row{"table_name": record.TextValue(tableName)})
	if err != nil {
		return record.Schema{}, err
	}

	var schema record.Schema
	for _, h := range handles {
		row, err := columns.Project(h)
		if err != nil {
			return record.Schema{}, err
		}
		var attr record.ColumnAttribute
		switch dt := row["data_type"].S; dt {
		case "INT":
			attr.DataType = record.Int
		case "TEXT":
			attr.DataType = record.Text
		default:
			return record.Schema{}, fmt.Errorf("%w: unknown data type %q for table %q",
				record.ErrSchema, dt, tableName)
		}
		schema.Names = append(schema.Names, row["column_name"].S)
		schema.Attrs = append(schema.Attrs, attr)
	}
	return schema, nil
}

// GetTable returns the cached live relation for name, constructing it
// from its _columns schema on first use.
func (t *Tables) GetTable(name string) (*heap.Table, error) {
	if tbl, ok := t.cache[name]; ok {
		return tbl, nil
	}
	schema, err := t.GetColumns(name)
	if err != nil {
		return nil, err
	}
	tbl := heap.NewTable(t.dir, name, schema)
	t.cache[name] = tbl
	return tbl, nil
}

// Delete removes a _tables row and evicts the named table from the cache.
func (t *Tables) Delete(handle heap.Handle) error {
	if row, err := t.Project(handle); err == nil {
		delete(t.cache, row["table_name"].S)
	}
	return t.Table.Delete(handle)
}

// CloseAll closes every live relation in the cache, the catalog tables
// included. Used at database teardown.
func (t *Tables) CloseAll() error {
	var err error
	for _, tbl := range t.cache {
		err = multierr.Append(err, tbl.Close())
	}
	return err
}

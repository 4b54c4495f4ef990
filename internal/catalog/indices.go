package catalog

import (
	"github.com/tuannm99/minirel/internal/heap"
	"github.com/tuannm99/minirel/internal/index"
	"github.com/tuannm99/minirel/internal/record"
)

// Indices is the _indices relation: one row per (index, column), with
// seq_in_index numbering the columns of a composite index from 1.
type Indices struct {
	*heap.Table

	dir string
}

// NewIndices bootstraps the _indices relation. Its _tables registration
// is seeded by NewTables.
func NewIndices(dir string) (*Indices, error) {
	ix := &Indices{
		Table: heap.NewTable(dir, IndicesTableName, indicesSchema()),
		dir:   dir,
	}
	if err := ix.Open(); err != nil {
		if err := ix.Create(); err != nil {
			return nil, err
		}
	}
	return ix, nil
}

// GetIndexNames lists the distinct index names on a table.
func (ix *Indices) GetIndexNames(tableName string) ([]string, error) {
	handles, err := ix.SelectWhere(record.Row{"table_name": record.TextValue(tableName)})
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var names []string
	for _, h := range handles {
		row, err := ix.ProjectCols(h, record.ColumnNames{"index_name"})
		if err != nil {
			return nil, err
		}
		name := row["index_name"].S
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names, nil
}

// GetIndex returns the index object for (table, name). Only its
// create/drop capability is in play here; the on-disk search structure is
// someone else's concern.
func (ix *Indices) GetIndex(tableName, indexName string) index.DbIndex {
	return index.NewBTreeIndex(ix.dir, tableName, indexName)
}

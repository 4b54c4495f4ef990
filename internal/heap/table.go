// Package heap presents a heap file as a row-oriented relation: rows are
// marshaled through the table's schema and stored as slotted-page records.
package heap

import (
	"errors"
	"fmt"
	"maps"

	"github.com/tuannm99/minirel/internal/record"
	"github.com/tuannm99/minirel/internal/storage"
)

// Handle identifies one row for the life of the record: the pair never
// changes, even as neighbors are deleted.
type Handle struct {
	BlockID  storage.BlockID
	RecordID storage.RecordID
}

// Table is a tuple-oriented relation layered on one heap file. The schema
// is fixed at construction and immutable for the table's lifetime.
type Table struct {
	Name   string
	Schema record.Schema

	file *storage.HeapFile
}

func NewTable(dir, name string, schema record.Schema) *Table {
	return &Table{
		Name:   name,
		Schema: schema,
		file:   storage.NewHeapFile(dir, name),
	}
}

// Create materializes the backing file. CREATE TABLE <name>.
func (t *Table) Create() error { return t.file.Create() }

// CreateIfNotExists opens the backing file, creating it on failure.
// CREATE TABLE IF NOT EXISTS <name>.
func (t *Table) CreateIfNotExists() error {
	if err := t.file.Open(); err != nil {
		return t.Create()
	}
	return nil
}

// Drop removes the backing file. The table is unusable afterwards.
func (t *Table) Drop() error { return t.file.Drop() }

func (t *Table) Open() error  { return t.file.Open() }
func (t *Table) Close() error { return t.file.Close() }

// Insert validates row against the schema, marshals it, and appends it to
// the last page (or a fresh one when that page is full).
// INSERT INTO <name> (<row keys>) VALUES (<row values>).
func (t *Table) Insert(row record.Row) (Handle, error) {
	if err := t.Open(); err != nil {
		return Handle{}, err
	}
	full, err := t.validate(row)
	if err != nil {
		return Handle{}, err
	}
	return t.append(full)
}

// Update is not part of the core contract yet.
func (t *Table) Update(handle Handle, newValues record.Row) error {
	return fmt.Errorf("%w: update", storage.ErrNotImplemented)
}

// Delete tombstones the row in its page. The handle stops being valid.
func (t *Table) Delete(handle Handle) error {
	if err := t.Open(); err != nil {
		return err
	}
	page, err := t.file.Get(handle.BlockID)
	if err != nil {
		return err
	}
	if err := page.Del(handle.RecordID); err != nil {
		return err
	}
	return t.file.Put(page)
}

// Select lists every live row. SELECT <handle> FROM <name>.
func (t *Table) Select() ([]Handle, error) {
	return t.SelectWhere(nil)
}

// SelectWhere lists live rows whose projection onto where's keys equals
// where, in (BlockID, RecordID) order. nil means all rows.
func (t *Table) SelectWhere(where record.Row) ([]Handle, error) {
	if err := t.Open(); err != nil {
		return nil, err
	}
	var handles []Handle
	for _, blockID := range t.file.BlockIDs() {
		page, err := t.file.Get(blockID)
		if err != nil {
			return nil, err
		}
		for _, recordID := range page.IDs() {
			if where != nil {
				row, err := t.rowAt(page, recordID)
				if err != nil {
					return nil, err
				}
				if !selected(row, where) {
					continue
				}
			}
			handles = append(handles, Handle{BlockID: blockID, RecordID: recordID})
		}
	}
	return handles, nil
}

// Project returns the full row for a handle.
func (t *Table) Project(handle Handle) (record.Row, error) {
	return t.ProjectCols(handle, nil)
}

// ProjectCols returns the row restricted to cols (nil or empty = all).
func (t *Table) ProjectCols(handle Handle, cols record.ColumnNames) (record.Row, error) {
	if err := t.Open(); err != nil {
		return nil, err
	}
	page, err := t.file.Get(handle.BlockID)
	if err != nil {
		return nil, err
	}
	row, err := t.rowAt(page, handle.RecordID)
	if err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return row, nil
	}
	result := make(record.Row, len(cols))
	for _, name := range cols {
		v, ok := row[name]
		if !ok {
			return nil, fmt.Errorf("%w: unknown column %q", record.ErrSchema, name)
		}
		result[name] = v
	}
	return result, nil
}

// validate projects row down to the schema: every schema column must be
// present, extra columns are dropped silently.
func (t *Table) validate(row record.Row) (record.Row, error) {
	full := make(record.Row, t.Schema.NumCols())
	for _, name := range t.Schema.Names {
		v, ok := row[name]
		if !ok {
			return nil, fmt.Errorf("%w: don't know how to handle NULLs, defaults, etc. yet (missing %q)",
				record.ErrSchema, name)
		}
		full[name] = v
	}
	return full, nil
}

// append marshals a validated row and adds it to the last block,
// allocating a new block when the last one has no room.
func (t *Table) append(row record.Row) (Handle, error) {
	data, err := record.MarshalRow(t.Schema, row)
	if err != nil {
		return Handle{}, err
	}
	if len(data) > storage.MaxRecordSize {
		return Handle{}, fmt.Errorf("%w: %d bytes", storage.ErrRowTooBig, len(data))
	}

	block, err := t.file.Get(t.file.LastBlockID())
	if err != nil {
		return Handle{}, err
	}
	recordID, err := block.Add(data)
	if errors.Is(err, storage.ErrNoRoom) {
		block, err = t.file.GetNew()
		if err != nil {
			return Handle{}, err
		}
		recordID, err = block.Add(data)
	}
	if err != nil {
		return Handle{}, err
	}
	if err := t.file.Put(block); err != nil {
		return Handle{}, err
	}
	return Handle{BlockID: block.ID(), RecordID: recordID}, nil
}

// rowAt unmarshals one record of a fetched page.
func (t *Table) rowAt(page *storage.SlottedPage, id storage.RecordID) (record.Row, error) {
	data, err := page.Get(id)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, fmt.Errorf("%w: record %d is deleted", storage.ErrBadRecordID, id)
	}
	return record.UnmarshalRow(t.Schema, data)
}

// selected compares the row's projection onto where's keys with where.
// Equality is exact Value equality, no coercion.
func selected(row, where record.Row) bool {
	projection := make(record.Row, len(where))
	for name := range where {
		v, ok := row[name]
		if !ok {
			return false
		}
		projection[name] = v
	}
	return maps.Equal(projection, where)
}

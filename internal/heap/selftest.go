package heap

import (
	"fmt"

	"github.com/tuannm99/minirel/internal/record"
)

// SelfTest exercises the storage engine end to end in dir: create/drop a
// scratch table, then create-if-not-exists, insert, select, project and
// verify one row. Wired to the shell's `test` command.
func SelfTest(dir string) error {
	schema := record.Schema{
		Names: record.ColumnNames{"a", "b"},
		Attrs: record.ColumnAttributes{{DataType: record.Int}, {DataType: record.Text}},
	}

	scratch := NewTable(dir, "_test_create_drop", schema)
	if err := scratch.Create(); err != nil {
		return fmt.Errorf("create: %w", err)
	}
	if err := scratch.Drop(); err != nil {
		return fmt.Errorf("drop: %w", err)
	}

	table := NewTable(dir, "_test_data", schema)
	if err := table.CreateIfNotExists(); err != nil {
		return fmt.Errorf("create_if_not_exists: %w", err)
	}
	defer func() { _ = table.Drop() }()

	row := record.Row{"a": record.IntValue(12), "b": record.TextValue("Hello!")}
	if _, err := table.Insert(row); err != nil {
		return fmt.Errorf("insert: %w", err)
	}

	handles, err := table.Select()
	if err != nil {
		return fmt.Errorf("select: %w", err)
	}
	if len(handles) != 1 {
		return fmt.Errorf("select: want 1 handle, got %d", len(handles))
	}

	result, err := table.Project(handles[0])
	if err != nil {
		return fmt.Errorf("project: %w", err)
	}
	if result["a"] != record.IntValue(12) {
		return fmt.Errorf("project: a = %v, want 12", result["a"])
	}
	if result["b"] != record.TextValue("Hello!") {
		return fmt.Errorf("project: b = %v, want \"Hello!\"", result["b"])
	}
	return nil
}

package executor

import (
	"fmt"
	"strings"

	"github.com/tuannm99/minirel/internal/record"
)

// QueryResult holds everything a statement returns: an optional result
// set (column names + attributes + rows) and a trailing message.
type QueryResult struct {
	ColumnNames      record.ColumnNames
	ColumnAttributes record.ColumnAttributes
	Rows             []record.Row
	Message          string
}

func message(format string, args ...any) *QueryResult {
	return &QueryResult{Message: fmt.Sprintf(format, args...)}
}

// String renders the result set: header names space-separated, a rule of
// +----------+ per column, then each row's values space-separated, then
// the message.
func (r *QueryResult) String() string {
	var b strings.Builder
	if r.ColumnNames != nil {
		for _, name := range r.ColumnNames {
			b.WriteString(name)
			b.WriteByte(' ')
		}
		b.WriteString("\n+")
		for range r.ColumnNames {
			b.WriteString("----------+")
		}
		b.WriteByte('\n')
		for _, row := range r.Rows {
			for _, name := range r.ColumnNames {
				b.WriteString(formatValue(row[name]))
				b.WriteByte(' ')
			}
			b.WriteByte('\n')
		}
	}
	b.WriteString(r.Message)
	return b.String()
}

func formatValue(v record.Value) string {
	switch v.Type {
	case record.Int:
		return fmt.Sprintf("%d", v.N)
	case record.Text:
		return fmt.Sprintf("%q", v.S)
	case record.Boolean:
		return fmt.Sprintf("%t", v.B)
	default:
		return "???"
	}
}

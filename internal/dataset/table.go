// Package dataset holds the in-memory tabular representation shared by the
// replenishment pipeline, together with the CSV/XLSX readers and the schema
// normalizer that prepares raw uploads for computation.
package dataset

import (
	"fmt"
	"strings"
)

// Table is a raw tabular dataset: a header row plus data rows of strings.
// Cells keep their original text until the planner decodes them into typed
// records.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]string
}

// SchemaError reports required columns missing from a dataset after
// normalization. It is terminal: the pipeline stops without partial output.
type SchemaError struct {
	Dataset string
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("dataset %s is missing required columns: %s",
		e.Dataset, strings.Join(e.Missing, ", "))
}

// ColumnIndex returns the position of a column by its normalized name,
// or -1 when the column is absent.
func (t *Table) ColumnIndex(name string) int {
	target := NormalizeColumn(name)
	for i, c := range t.Columns {
		if NormalizeColumn(c) == target {
			return i
		}
	}
	return -1
}

// Cell returns the trimmed value at (row, col), or "" when the row is
// ragged and does not reach the column.
func (t *Table) Cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

// NormalizeColumn lower-cases and trims a column header so lookups are
// case and whitespace insensitive.
func NormalizeColumn(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Normalize produces a copy of the table with trimmed, lower-cased,
// alias-resolved column headers and trimmed, lower-cased values in the key
// column, then verifies that every required column is present. A missing
// column yields a *SchemaError and no table.
func Normalize(t *Table, keyColumn string, required ...string) (*Table, error) {
	out := &Table{
		Name:    t.Name,
		Columns: make([]string, len(t.Columns)),
		Rows:    make([][]string, len(t.Rows)),
	}
	for i, c := range t.Columns {
		out.Columns[i] = CanonicalColumn(c)
	}

	var missing []string
	for _, col := range required {
		if out.ColumnIndex(col) < 0 {
			missing = append(missing, NormalizeColumn(col))
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Dataset: t.Name, Missing: missing}
	}

	keyIdx := out.ColumnIndex(keyColumn)
	for i, row := range t.Rows {
		copied := make([]string, len(row))
		copy(copied, row)
		if keyIdx >= 0 && keyIdx < len(copied) {
			copied[keyIdx] = strings.ToLower(strings.TrimSpace(copied[keyIdx]))
		}
		out.Rows[i] = copied
	}

	return out, nil
}

package sheet

import "strings"

// SchemaError reports the required column names absent from a decoded table.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return "Missing required columns: " + strings.Join(e.Missing, ", ")
}

// NormalizeColumns rewrites the table's column names in place to their
// canonical form (trimmed, lowercased). Every later lookup assumes this has
// already run.
func (t *Table) NormalizeColumns() {
	for i, c := range t.Columns {
		t.Columns[i] = strings.ToLower(strings.TrimSpace(c))
	}
}

// RequireColumns checks that every named column is present, returning a
// SchemaError listing exactly the missing ones.
func (t *Table) RequireColumns(required []string) error {
	have := make(map[string]bool, len(t.Columns))
	for _, c := range t.Columns {
		have[c] = true
	}
	var missing []string
	for _, c := range required {
		if !have[c] {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return &SchemaError{Missing: missing}
	}
	return nil
}

// ColumnIndex maps each column name to its cell position.
func (t *Table) ColumnIndex() map[string]int {
	idx := make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		idx[c] = i
	}
	return idx
}

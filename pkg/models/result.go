package models

// Row is one result row, positionally aligned with its ResultSet's Columns.
type Row []Value

// ResultSet is the ordered tabular result of one query execution. It lives
// for a single invocation only.
type ResultSet struct {
	Columns []string
	Rows    []Row
}

// Len returns the number of rows. Safe on a nil receiver.
func (rs *ResultSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.Rows)
}

// ColumnIndex returns the position of a named column, or -1.
func (rs *ResultSet) ColumnIndex(name string) int {
	for i, c := range rs.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Project returns the named column's value from every row in order, used to
// expand chart series. An unknown column projects to empty text values so a
// catalog mistake degrades instead of failing the whole chart.
func (rs *ResultSet) Project(column string) []Value {
	idx := rs.ColumnIndex(column)
	out := make([]Value, len(rs.Rows))
	for i, row := range rs.Rows {
		if idx >= 0 && idx < len(row) {
			out[i] = row[idx]
		} else {
			out[i] = TextValue("")
		}
	}
	return out
}

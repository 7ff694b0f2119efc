// Package table implements the in-memory tabular dataset the preparation
// pipeline operates on: an ordered set of named columns of equal length,
// each holding scalar values. Tables are treated as immutable — every
// operation returns a new Table and never modifies its receiver.
package table

import (
	"fmt"
)

// Column is a named, ordered sequence of cell values.
type Column struct {
	Name   string
	Values []Value
}

// Table is an ordered collection of equal-length columns.
type Table struct {
	cols  []Column
	index map[string]int
}

// New builds a table from columns. All columns must have distinct names
// and the same number of values.
func New(cols ...Column) (*Table, error) {
	t := &Table{
		cols:  cols,
		index: make(map[string]int, len(cols)),
	}
	for i, c := range cols {
		if _, dup := t.index[c.Name]; dup {
			return nil, fmt.Errorf("table: duplicate column %q", c.Name)
		}
		if len(c.Values) != len(cols[0].Values) {
			return nil, fmt.Errorf("table: column %q has %d rows, want %d", c.Name, len(c.Values), len(cols[0].Values))
		}
		t.index[c.Name] = i
	}
	return t, nil
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int {
	if len(t.cols) == 0 {
		return 0
	}
	return len(t.cols[0].Values)
}

// NumCols returns the number of columns.
func (t *Table) NumCols() int { return len(t.cols) }

// ColumnNames returns the column names in table order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.cols))
	for i, c := range t.cols {
		names[i] = c.Name
	}
	return names
}

// Has reports whether the table contains the named column.
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Values returns the cells of the named column. The returned slice is
// shared with the table and must not be modified.
func (t *Table) Values(name string) ([]Value, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.cols[i].Values, true
}

// Cell returns the value at the given row of the named column.
func (t *Table) Cell(row int, name string) (Value, bool) {
	vals, ok := t.Values(name)
	if !ok || row < 0 || row >= len(vals) {
		return None, false
	}
	return vals[row], true
}

// Row materializes row i across all columns, in column order.
func (t *Table) Row(i int) []Value {
	row := make([]Value, len(t.cols))
	for j, c := range t.cols {
		row[j] = c.Values[i]
	}
	return row
}

// Select projects the table onto the named columns, in the given order.
// Value storage is shared with the receiver.
func (t *Table) Select(names []string) (*Table, error) {
	cols := make([]Column, 0, len(names))
	for _, name := range names {
		i, ok := t.index[name]
		if !ok {
			return nil, fmt.Errorf("table: unknown column %q", name)
		}
		cols = append(cols, t.cols[i])
	}
	return New(cols...)
}

// Filter returns a new table holding the rows for which keep returns true,
// in their original order.
func (t *Table) Filter(keep func(row int) bool) *Table {
	var rows []int
	for i := 0; i < t.NumRows(); i++ {
		if keep(i) {
			rows = append(rows, i)
		}
	}
	return t.Take(rows)
}

// Take returns a new table holding the given rows, in the given order.
// Row indices must be valid.
func (t *Table) Take(rows []int) *Table {
	cols := make([]Column, len(t.cols))
	for j, c := range t.cols {
		vals := make([]Value, len(rows))
		for i, r := range rows {
			vals[i] = c.Values[r]
		}
		cols[j] = Column{Name: c.Name, Values: vals}
	}
	out, _ := New(cols...)
	return out
}

// WithColumn returns a new table where the named column holds the given
// values. An existing column is replaced in place; a new one is appended.
// All other column storage is shared with the receiver.
func (t *Table) WithColumn(name string, values []Value) (*Table, error) {
	if t.NumCols() > 0 && len(values) != t.NumRows() {
		return nil, fmt.Errorf("table: column %q has %d rows, want %d", name, len(values), t.NumRows())
	}
	cols := make([]Column, len(t.cols))
	copy(cols, t.cols)
	if i, ok := t.index[name]; ok {
		cols[i] = Column{Name: name, Values: values}
	} else {
		cols = append(cols, Column{Name: name, Values: values})
	}
	return New(cols...)
}

// Equal reports whether two tables have identical column names, order,
// and cell values.
func (t *Table) Equal(o *Table) bool {
	if t.NumCols() != o.NumCols() || t.NumRows() != o.NumRows() {
		return false
	}
	for j, c := range t.cols {
		oc := o.cols[j]
		if c.Name != oc.Name {
			return false
		}
		for i := range c.Values {
			if !c.Values[i].Equal(oc.Values[i]) {
				return false
			}
		}
	}
	return true
}

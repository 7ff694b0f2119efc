package prep

import (
	"github.com/arbor-analytics/causalprep/internal/table"
)

// Encode one-hot expands the named categorical columns. Non-categorical
// columns are kept first in their original relative order, followed by one
// group of indicator columns per categorical column, in categorical-list
// order. Categories are discovered from the data; within a column they
// appear in first-occurrence order, and the indicator for value v is named
// "<column>_<v>". A missing source cell yields 0 in every indicator of
// that column; otherwise exactly one indicator per source column is 1.
//
// Row count and non-categorical cell values are unchanged.
func Encode(t *table.Table, categorical []string) (*table.Table, error) {
	isCategorical := make(map[string]bool, len(categorical))
	for _, name := range categorical {
		if !t.Has(name) {
			return nil, &SchemaError{Stage: "encode", Column: name}
		}
		isCategorical[name] = true
	}

	var cols []table.Column
	for _, name := range t.ColumnNames() {
		if isCategorical[name] {
			continue
		}
		vals, _ := t.Values(name)
		cols = append(cols, table.Column{Name: name, Values: vals})
	}

	for _, name := range categorical {
		cols = append(cols, indicatorColumns(t, name)...)
	}

	return table.New(cols...)
}

// indicatorColumns builds one 0/1 column per distinct value of the source
// column, in first-occurrence order.
func indicatorColumns(t *table.Table, name string) []table.Column {
	vals, _ := t.Values(name)

	type category struct {
		value table.Value
		cells []table.Value
	}
	var categories []category
	seen := make(map[table.Value]int)

	for _, v := range vals {
		if v.IsMissing() {
			continue
		}
		if _, ok := seen[v]; !ok {
			seen[v] = len(categories)
			categories = append(categories, category{
				value: v,
				cells: make([]table.Value, len(vals)),
			})
		}
	}

	for i, v := range vals {
		for ci := range categories {
			categories[ci].cells[i] = table.Num(0)
		}
		if v.IsMissing() {
			continue
		}
		categories[seen[v]].cells[i] = table.Num(1)
	}

	cols := make([]table.Column, len(categories))
	for ci, c := range categories {
		cols[ci] = table.Column{
			Name:   name + "_" + c.value.Text(),
			Values: c.cells,
		}
	}
	return cols
}

package prep

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arbor-analytics/causalprep/internal/table"
)

func testColumns() Columns {
	return Columns{
		Age:         "age",
		Citizen:     "citizen",
		Cost:        "cost",
		Hour:        "hour",
		Gain:        "gain",
		Binary:      []string{"own_home"},
		Categorical: []string{"region"},
	}
}

func rawTestTable(t *testing.T) *table.Table {
	t.Helper()
	tbl, err := table.New(
		table.Column{Name: "age", Values: []table.Value{table.Num(1), table.Num(7), table.Num(3), table.Num(2)}},
		table.Column{Name: "citizen", Values: []table.Value{table.Num(0), table.Num(0), table.Num(1), table.Num(0)}},
		table.Column{Name: "cost", Values: []table.Value{table.Num(10), table.Num(20), table.Num(30), table.Num(1)}},
		table.Column{Name: "hour", Values: []table.Value{table.Num(35), table.Num(40), table.Num(20), table.Num(50)}},
		table.Column{Name: "gain", Values: []table.Value{table.Num(100), table.Num(0), table.Num(5), table.Num(9)}},
		table.Column{Name: "own_home", Values: []table.Value{table.Num(1), table.Num(0), table.Num(1), table.Num(0)}},
		table.Column{Name: "region", Values: []table.Value{table.Str("A"), table.Str("B"), table.Str("A"), table.Str("C")}},
		table.Column{Name: "unused", Values: []table.Value{table.Str("x"), table.Str("x"), table.Str("x"), table.Str("x")}},
	)
	require.NoError(t, err)
	return tbl
}

func TestSelectFeatures_FiltersAndProjects(t *testing.T) {
	raw := rawTestTable(t)

	got, err := SelectFeatures(raw, testColumns())
	require.NoError(t, err)

	// Only row 0 passes: age 1 < 5, citizen 0, cost 10 >= 2.
	// Row 1 fails age, row 2 fails citizen, row 3 fails cost.
	assert.Equal(t, 1, got.NumRows())
	assert.Equal(t, []string{"hour", "gain", "cost", "own_home", "region"}, got.ColumnNames())

	hour, _ := got.Cell(0, "hour")
	assert.True(t, hour.Equal(table.Num(35)))
}

func TestSelectFeatures_MissingColumn(t *testing.T) {
	raw := rawTestTable(t)
	cols := testColumns()
	cols.Binary = []string{"own_home", "no_such_column"}

	_, err := SelectFeatures(raw, cols)
	require.Error(t, err)

	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, "no_such_column", schemaErr.Column)
}

func TestSelectFeatures_EmptyResultIsValid(t *testing.T) {
	tbl, err := table.New(
		table.Column{Name: "age", Values: []table.Value{table.Num(80)}},
		table.Column{Name: "citizen", Values: []table.Value{table.Num(0)}},
		table.Column{Name: "cost", Values: []table.Value{table.Num(10)}},
		table.Column{Name: "hour", Values: []table.Value{table.Num(40)}},
		table.Column{Name: "gain", Values: []table.Value{table.Num(0)}},
		table.Column{Name: "own_home", Values: []table.Value{table.Num(1)}},
		table.Column{Name: "region", Values: []table.Value{table.Str("A")}},
	)
	require.NoError(t, err)

	got, err := SelectFeatures(tbl, testColumns())
	require.NoError(t, err)
	assert.Equal(t, 0, got.NumRows())
	assert.Equal(t, 5, got.NumCols())
}

func TestSelectFeatures_MissingCellsFailPredicate(t *testing.T) {
	tbl, err := table.New(
		table.Column{Name: "age", Values: []table.Value{table.None, table.Num(1)}},
		table.Column{Name: "citizen", Values: []table.Value{table.Num(0), table.Num(0)}},
		table.Column{Name: "cost", Values: []table.Value{table.Num(10), table.Num(10)}},
		table.Column{Name: "hour", Values: []table.Value{table.Num(40), table.Num(20)}},
		table.Column{Name: "gain", Values: []table.Value{table.Num(0), table.Num(0)}},
		table.Column{Name: "own_home", Values: []table.Value{table.Num(1), table.Num(0)}},
		table.Column{Name: "region", Values: []table.Value{table.Str("A"), table.Str("B")}},
	)
	require.NoError(t, err)

	got, err := SelectFeatures(tbl, testColumns())
	require.NoError(t, err)
	assert.Equal(t, 1, got.NumRows())
}

func TestSelectFeatures_Idempotent(t *testing.T) {
	raw := rawTestTable(t)
	cols := testColumns()

	once, err := SelectFeatures(raw, cols)
	require.NoError(t, err)

	// Re-running on the filtered output needs the filter columns, which
	// the projection dropped; apply to a dataset that keeps them.
	age, _ := raw.Values("age")
	cit, _ := raw.Values("citizen")
	cost, _ := raw.Values("cost")
	kept := raw.Filter(func(i int) bool {
		a, _ := age[i].Float()
		c, _ := cit[i].Float()
		m, _ := cost[i].Float()
		return a < maxEligibleAge && c == eligibleCitizen && m >= minEligibleCost
	})
	twice, err := SelectFeatures(kept, cols)
	require.NoError(t, err)

	assert.True(t, once.Equal(twice))
}

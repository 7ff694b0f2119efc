package prep

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arbor-analytics/causalprep/internal/table"
)

// stratTable builds a table with a "treat" column holding the given class
// labels and an "id" column identifying each row.
func stratTable(t *testing.T, classes []float64) *table.Table {
	t.Helper()
	treat := make([]table.Value, len(classes))
	ids := make([]table.Value, len(classes))
	for i, c := range classes {
		treat[i] = table.Num(c)
		ids[i] = table.Num(float64(i))
	}
	tbl, err := table.New(
		table.Column{Name: "id", Values: ids},
		table.Column{Name: "treat", Values: treat},
	)
	require.NoError(t, err)
	return tbl
}

// rowIDs collects the id column as a set.
func rowIDs(t *testing.T, tbl *table.Table) map[float64]bool {
	t.Helper()
	out := make(map[float64]bool)
	vals, ok := tbl.Values("id")
	require.True(t, ok)
	for _, v := range vals {
		f, _ := v.Float()
		require.False(t, out[f], "duplicate row id %v", f)
		out[f] = true
	}
	return out
}

func classCount(tbl *table.Table, class float64) int {
	vals, _ := tbl.Values("treat")
	n := 0
	for _, v := range vals {
		if f, _ := v.Float(); f == class {
			n++
		}
	}
	return n
}

func TestSplit_TenRowScenario(t *testing.T) {
	// 5 rows of class 0 and 5 of class 1 → 6 train, 2 valid, 2 test.
	tbl := stratTable(t, []float64{0, 1, 0, 1, 0, 1, 0, 1, 0, 1})

	train, valid, test, err := Split(tbl, "treat", 42)
	require.NoError(t, err)

	assert.Equal(t, 6, train.NumRows())
	assert.Equal(t, 2, valid.NumRows())
	assert.Equal(t, 2, test.NumRows())

	assert.Equal(t, 3, classCount(train, 0))
	assert.Equal(t, 3, classCount(train, 1))
	assert.Equal(t, 1, classCount(valid, 0))
	assert.Equal(t, 1, classCount(valid, 1))
	assert.Equal(t, 1, classCount(test, 0))
	assert.Equal(t, 1, classCount(test, 1))
}

func TestSplit_DisjointExactCover(t *testing.T) {
	classes := make([]float64, 40)
	for i := range classes {
		if i%4 == 0 {
			classes[i] = 1
		}
	}
	tbl := stratTable(t, classes)

	train, valid, test, err := Split(tbl, "treat", 7)
	require.NoError(t, err)

	seen := make(map[float64]bool)
	for _, part := range []*table.Table{train, valid, test} {
		for id := range rowIDs(t, part) {
			require.False(t, seen[id], "row %v in more than one partition", id)
			seen[id] = true
		}
	}
	assert.Len(t, seen, tbl.NumRows())
}

func TestSplit_ProportionsWithinRounding(t *testing.T) {
	// 30 of class 0, 20 of class 1.
	classes := make([]float64, 50)
	for i := 30; i < 50; i++ {
		classes[i] = 1
	}
	tbl := stratTable(t, classes)

	train, valid, test, err := Split(tbl, "treat", 42)
	require.NoError(t, err)

	for class, total := range map[float64]int{0: 30, 1: 20} {
		t.Run(fmt.Sprintf("class_%v", class), func(t *testing.T) {
			gotTrain := classCount(train, class)
			assert.InDelta(t, 0.6*float64(total), float64(gotTrain), 1)

			rest := total - gotTrain
			assert.InDelta(t, float64(rest)/2, float64(classCount(valid, class)), 1)
			assert.InDelta(t, float64(rest)/2, float64(classCount(test, class)), 1)
		})
	}
}

func TestSplit_DeterministicForSeed(t *testing.T) {
	classes := make([]float64, 24)
	for i := range classes {
		classes[i] = float64(i % 2)
	}
	tbl := stratTable(t, classes)

	t1, v1, s1, err := Split(tbl, "treat", 42)
	require.NoError(t, err)
	t2, v2, s2, err := Split(tbl, "treat", 42)
	require.NoError(t, err)

	assert.True(t, t1.Equal(t2))
	assert.True(t, v1.Equal(v2))
	assert.True(t, s1.Equal(s2))

	// A different seed reassigns rows (with overwhelming likelihood at
	// this size) but keeps the same partition shapes.
	t3, _, _, err := Split(tbl, "treat", 43)
	require.NoError(t, err)
	assert.Equal(t, t1.NumRows(), t3.NumRows())
	assert.False(t, t1.Equal(t3))
}

func TestSplit_StratumTooSmall(t *testing.T) {
	// Class 1 has two rows: train split leaves one, which cannot be
	// divided into non-empty valid and test.
	tbl := stratTable(t, []float64{0, 0, 0, 0, 0, 0, 0, 0, 1, 1})

	_, _, _, err := Split(tbl, "treat", 42)
	require.Error(t, err)

	var stratErr *StratificationError
	require.True(t, errors.As(err, &stratErr))
	assert.Equal(t, "1", stratErr.Stratum)
}

func TestSplit_MissingColumn(t *testing.T) {
	tbl := stratTable(t, []float64{0, 1})

	_, _, _, err := Split(tbl, "nope", 42)
	require.Error(t, err)

	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, "nope", schemaErr.Column)
}

func TestSplit_EmptyInput(t *testing.T) {
	tbl := stratTable(t, nil)

	_, _, _, err := Split(tbl, "treat", 42)
	require.Error(t, err)

	var emptyErr *EmptyInputError
	assert.True(t, errors.As(err, &emptyErr))
}

func TestSplit_PreservesRowOrderWithinPartition(t *testing.T) {
	classes := make([]float64, 20)
	for i := range classes {
		classes[i] = float64(i % 2)
	}
	tbl := stratTable(t, classes)

	train, _, _, err := Split(tbl, "treat", 42)
	require.NoError(t, err)

	ids, _ := train.Values("id")
	prev := -1.0
	for _, v := range ids {
		f, _ := v.Float()
		assert.Greater(t, f, prev)
		prev = f
	}
}

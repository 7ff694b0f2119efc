package prep

import (
	"math"
	"math/rand"
	"sort"

	"github.com/arbor-analytics/causalprep/internal/table"
)

// Split fractions: 60% train, then the 40% remainder halved into
// validation and test.
const (
	trainFraction = 0.6
	validFraction = 0.5
)

// Split partitions the dataset into train, validation, and test tables,
// stratified on stratCol. Each stratum is split 60/40 into train/rest
// (rounding to the nearest row), then the rest is split 50/50 into
// valid/test the same way, so every stratum's relative frequency is
// preserved within rounding in all three partitions. The three outputs
// are pairwise disjoint and together cover every input row exactly once,
// each preserving input row order.
//
// The split is driven by a seeded PRNG and is reproducible: the same
// input and seed always produce the same partitions.
func Split(t *table.Table, stratCol string, seed int64) (train, valid, test *table.Table, err error) {
	if !t.Has(stratCol) {
		return nil, nil, nil, &SchemaError{Stage: "split", Column: stratCol}
	}
	if t.NumRows() == 0 {
		return nil, nil, nil, &EmptyInputError{Op: "split"}
	}

	vals, _ := t.Values(stratCol)
	rng := rand.New(rand.NewSource(seed))

	all := make([]int, t.NumRows())
	for i := range all {
		all[i] = i
	}

	trainRows, restRows, err := stratifiedSplit(stratCol, vals, all, trainFraction, rng)
	if err != nil {
		return nil, nil, nil, err
	}
	validRows, testRows, err := stratifiedSplit(stratCol, vals, restRows, validFraction, rng)
	if err != nil {
		return nil, nil, nil, err
	}

	return t.Take(trainRows), t.Take(validRows), t.Take(testRows), nil
}

// stratifiedSplit divides rows into a left part holding frac of each
// stratum (rounded to the nearest row) and a right part holding the
// remainder. Fails when any stratum cannot keep both parts non-empty.
// Both outputs are returned in ascending row order.
func stratifiedSplit(stratCol string, vals []table.Value, rows []int, frac float64, rng *rand.Rand) (left, right []int, err error) {
	var order []table.Value
	strata := make(map[table.Value][]int)
	for _, r := range rows {
		v := vals[r]
		if _, ok := strata[v]; !ok {
			order = append(order, v)
		}
		strata[v] = append(strata[v], r)
	}

	for _, v := range order {
		members := strata[v]
		n := len(members)
		take := int(math.Round(frac * float64(n)))
		if take == 0 || take == n {
			return nil, nil, &StratificationError{Column: stratCol, Stratum: v.Text(), Count: n}
		}

		shuffled := make([]int, n)
		copy(shuffled, members)
		rng.Shuffle(n, func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		left = append(left, shuffled[:take]...)
		right = append(right, shuffled[take:]...)
	}

	sort.Ints(left)
	sort.Ints(right)
	return left, right, nil
}

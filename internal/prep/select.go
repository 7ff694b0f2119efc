package prep

import (
	"github.com/arbor-analytics/causalprep/internal/table"
)

// Eligibility thresholds for the causal study population.
const (
	maxEligibleAge  = 5
	eligibleCitizen = 0
	minEligibleCost = 2
)

// SelectFeatures filters the raw dataset down to eligible rows and
// projects it onto the modeling columns: hour, gain, cost, then the
// binary and categorical columns in spec order. Rows are eligible when
// age < 5, citizen status == 0, and cost >= 2; rows with a missing or
// non-numeric cell in any of those fields fail the predicate.
//
// A zero-row result is valid output.
func SelectFeatures(t *table.Table, cols Columns) (*table.Table, error) {
	for _, name := range cols.required() {
		if !t.Has(name) {
			return nil, &SchemaError{Stage: "select", Column: name}
		}
	}

	age, _ := t.Values(cols.Age)
	citizen, _ := t.Values(cols.Citizen)
	cost, _ := t.Values(cols.Cost)

	eligible := t.Filter(func(i int) bool {
		a, ok := age[i].Float()
		if !ok {
			return false
		}
		c, ok := citizen[i].Float()
		if !ok {
			return false
		}
		amount, ok := cost[i].Float()
		if !ok {
			return false
		}
		return a < maxEligibleAge && c == eligibleCitizen && amount >= minEligibleCost
	})

	return eligible.Select(cols.selected())
}

package prep

import (
	"github.com/montanaflynn/stats"
	"github.com/rotisserie/eris"
)

// BinarizeTreatment derives a binary treatment indicator from a continuous
// feature by median split: 1 where the value is strictly greater than the
// median, 0 otherwise (values equal to the median map to 0). The median is
// recomputed from the input on every call, using the conventional
// definition (mean of the two middle values for even-length input).
//
// Returns the indicators in input order along with the computed median.
func BinarizeTreatment(values []float64) ([]int, float64, error) {
	if len(values) == 0 {
		return nil, 0, &EmptyInputError{Op: "treatment"}
	}

	median, err := stats.Median(values)
	if err != nil {
		return nil, 0, eris.Wrap(err, "treatment: median")
	}

	flags := make([]int, len(values))
	for i, v := range values {
		if v > median {
			flags[i] = 1
		}
	}
	return flags, median, nil
}

package prep

import (
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/arbor-analytics/causalprep/internal/table"
)

// Options controls pipeline behavior outside the stage contracts.
type Options struct {
	// Seed drives the stratified splitter's PRNG.
	Seed int64
	// ProfileColumns requests a per-column diagnostic profile of the
	// encoded dataset, logged and returned in the Result.
	ProfileColumns bool
}

// Result carries the three partitions plus run diagnostics.
type Result struct {
	Train *table.Table
	Valid *table.Table
	Test  *table.Table

	// SelectedRows is the row count after eligibility filtering.
	SelectedRows int
	// TreatmentMedian is the cutoff used to binarize the treatment column.
	TreatmentMedian float64
	// Profiles is the encoded-dataset column profile, when requested.
	Profiles []ColumnProfile
}

// Run executes the preparation pipeline over the raw dataset:
// feature selection, treatment binarization, cost sign flip, one-hot
// encoding, and the stratified train/valid/test split. The full dataset
// is encoded before splitting so all three partitions share one column
// schema. The input table is never modified.
func Run(raw *table.Table, cols Columns, opts Options) (*Result, error) {
	log := zap.L()
	log.Info("preparing dataset",
		zap.Int("rows", raw.NumRows()),
		zap.Int("columns", raw.NumCols()))

	selected, err := SelectFeatures(raw, cols)
	if err != nil {
		return nil, eris.Wrap(err, "prep: select features")
	}
	log.Info("selected eligible rows",
		zap.Int("rows", selected.NumRows()),
		zap.Int("columns", selected.NumCols()))

	hours, err := numericColumn(selected, cols.Hour)
	if err != nil {
		return nil, eris.Wrap(err, "prep: treatment source")
	}
	flags, median, err := BinarizeTreatment(hours)
	if err != nil {
		return nil, eris.Wrap(err, "prep: binarize treatment")
	}
	treatmentVals := make([]table.Value, len(flags))
	treated := 0
	for i, f := range flags {
		treatmentVals[i] = table.Num(float64(f))
		treated += f
	}
	withTreatment, err := selected.WithColumn(cols.Hour, treatmentVals)
	if err != nil {
		return nil, eris.Wrap(err, "prep: set treatment column")
	}
	log.Info("binarized treatment",
		zap.Float64("median", median),
		zap.Int("treated", treated),
		zap.Int("control", len(flags)-treated))

	// Cost is a negative target post-transform.
	withCost, err := withTreatment.WithColumn(cols.Cost, negated(withTreatment, cols.Cost))
	if err != nil {
		return nil, eris.Wrap(err, "prep: flip cost column")
	}

	encoded, err := Encode(withCost, cols.Categorical)
	if err != nil {
		return nil, eris.Wrap(err, "prep: encode categoricals")
	}
	log.Info("encoded categorical features",
		zap.Int("columns", encoded.NumCols()))

	res := &Result{
		SelectedRows:    selected.NumRows(),
		TreatmentMedian: median,
	}
	if opts.ProfileColumns {
		res.Profiles = Profile(encoded)
		for _, p := range res.Profiles {
			log.Info("column profile",
				zap.String("column", p.Name),
				zap.String("type", p.Type),
				zap.Int("missing", p.Missing),
				zap.Int("distinct", p.Distinct))
		}
	}

	res.Train, res.Valid, res.Test, err = Split(encoded, cols.Hour, opts.Seed)
	if err != nil {
		return nil, eris.Wrap(err, "prep: split")
	}
	log.Info("split dataset",
		zap.Int("train", res.Train.NumRows()),
		zap.Int("valid", res.Valid.NumRows()),
		zap.Int("test", res.Test.NumRows()))

	return res, nil
}

// numericColumn extracts the named column as float64s, failing on any
// missing or non-numeric cell.
func numericColumn(t *table.Table, name string) ([]float64, error) {
	vals, ok := t.Values(name)
	if !ok {
		return nil, &SchemaError{Stage: "prep", Column: name}
	}
	out := make([]float64, len(vals))
	for i, v := range vals {
		f, ok := v.Float()
		if !ok {
			return nil, eris.Errorf("column %q: non-numeric value at row %d", name, i)
		}
		out[i] = f
	}
	return out, nil
}

// negated returns the named column with every numeric value sign-flipped.
// Non-numeric cells pass through unchanged.
func negated(t *table.Table, name string) []table.Value {
	vals, _ := t.Values(name)
	out := make([]table.Value, len(vals))
	for i, v := range vals {
		if f, ok := v.Float(); ok {
			out[i] = table.Num(-f)
		} else {
			out[i] = v
		}
	}
	return out
}

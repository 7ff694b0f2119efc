// Package prep implements the dataset preparation pipeline: eligibility
// filtering and feature selection, treatment binarization by median split,
// cost sign flip, one-hot encoding of categorical features, and a
// stratified train/validation/test split. Every stage is a pure transform
// over table.Table; inputs are never mutated.
package prep

// Columns names the dataset fields the pipeline operates on. It is
// supplied by configuration and never modified by the pipeline.
type Columns struct {
	Age     string
	Citizen string
	Cost    string
	Hour    string
	Gain    string

	Binary      []string
	Categorical []string
}

// required lists every column the selector expects in the raw dataset.
func (c Columns) required() []string {
	names := []string{c.Age, c.Citizen, c.Cost, c.Hour, c.Gain}
	names = append(names, c.Binary...)
	names = append(names, c.Categorical...)
	return names
}

// selected lists the columns kept after feature selection, in output order.
func (c Columns) selected() []string {
	names := []string{c.Hour, c.Gain, c.Cost}
	names = append(names, c.Binary...)
	names = append(names, c.Categorical...)
	return names
}

package prep

import "fmt"

// SchemaError reports that a referenced column is absent from the dataset.
// Always fatal to the pipeline run.
type SchemaError struct {
	Stage  string
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: required column %q not in dataset", e.Stage, e.Column)
}

// EmptyInputError reports a zero-length input to an operation that
// requires a non-empty sequence.
type EmptyInputError struct {
	Op string
}

func (e *EmptyInputError) Error() string {
	return fmt.Sprintf("%s: empty input", e.Op)
}

// StratificationError reports a stratum too small to leave both sides of
// a split non-empty.
type StratificationError struct {
	Column  string
	Stratum string
	Count   int
}

func (e *StratificationError) Error() string {
	return fmt.Sprintf("split: stratum %s=%q has %d rows, too few to split", e.Column, e.Stratum, e.Count)
}

package prep

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/arbor-analytics/causalprep/internal/table"
)

// ColumnProfile summarizes one column of a dataset: its inferred type and
// counts of non-missing, missing, and distinct values. It is diagnostic
// output only and carries no pipeline semantics.
type ColumnProfile struct {
	Name     string `yaml:"name" json:"name"`
	Type     string `yaml:"type" json:"type"`
	NonNull  int    `yaml:"non_null" json:"non_null"`
	Missing  int    `yaml:"missing" json:"missing"`
	Distinct int    `yaml:"distinct" json:"distinct"`
}

// Profile reports a ColumnProfile for every column, in table order.
func Profile(t *table.Table) []ColumnProfile {
	profiles := make([]ColumnProfile, 0, t.NumCols())
	for _, name := range t.ColumnNames() {
		vals, _ := t.Values(name)
		profiles = append(profiles, profileColumn(name, vals))
	}
	return profiles
}

func profileColumn(name string, vals []table.Value) ColumnProfile {
	p := ColumnProfile{Name: name}

	distinct := make(map[table.Value]struct{})
	kind := table.KindMissing
	mixed := false
	for _, v := range vals {
		if v.IsMissing() {
			p.Missing++
			continue
		}
		p.NonNull++
		distinct[v] = struct{}{}
		switch {
		case kind == table.KindMissing:
			kind = v.Kind()
		case kind != v.Kind():
			mixed = true
		}
	}
	p.Distinct = len(distinct)

	switch {
	case mixed:
		p.Type = "mixed"
	default:
		p.Type = kind.String()
	}
	return p
}

// WriteProfiles renders profiles as an aligned text table.
func WriteProfiles(w io.Writer, profiles []ColumnProfile) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "COLUMN\tTYPE\tNON-NULL\tMISSING\tDISTINCT")
	for _, p := range profiles {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\n", p.Name, p.Type, p.NonNull, p.Missing, p.Distinct)
	}
	return tw.Flush()
}

// Package tabio reads and writes tabular dataset files. CSV files are
// parsed with encoding/csv; XLSX workbooks with tealeg/xlsx. Both are
// converted to table.Table with per-column type inference: a column whose
// non-empty cells all parse as numbers becomes numeric, all-boolean
// columns become bool, anything else stays string. Empty cells are
// missing values.
package tabio

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/arbor-analytics/causalprep/internal/table"
)

// ReadFile loads a dataset, dispatching on the file extension:
// .xlsx workbooks go through ReadXLSX, everything else is parsed as CSV.
func ReadFile(path string) (*table.Table, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return ReadXLSX(path, XLSXOptions{})
	}
	return ReadCSV(path)
}

// ReadCSV parses a comma-delimited file with a header row into a table.
func ReadCSV(path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "csv: open")
	}
	defer f.Close() //nolint:errcheck

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "csv: read")
	}
	if len(records) == 0 {
		return nil, eris.New("csv: file has no header row")
	}

	return fromRecords(records[0], records[1:])
}

// WriteCSV writes the table as a comma-delimited file with a header row,
// creating parent directories as needed.
func WriteCSV(path string, t *table.Table) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return eris.Wrap(err, "csv: create output dir")
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "csv: create")
	}
	defer f.Close() //nolint:errcheck

	w := csv.NewWriter(f)
	if err := w.Write(t.ColumnNames()); err != nil {
		return eris.Wrap(err, "csv: write header")
	}
	record := make([]string, t.NumCols())
	for i := 0; i < t.NumRows(); i++ {
		for j, v := range t.Row(i) {
			record[j] = v.Text()
		}
		if err := w.Write(record); err != nil {
			return eris.Wrapf(err, "csv: write row %d", i)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return eris.Wrap(err, "csv: flush")
	}
	return f.Close()
}

// fromRecords converts header + string records into a typed table.
func fromRecords(header []string, records [][]string) (*table.Table, error) {
	cols := make([]table.Column, len(header))
	for j, name := range header {
		cols[j] = table.Column{
			Name:   strings.TrimSpace(name),
			Values: make([]table.Value, len(records)),
		}
	}

	for j := range header {
		raw := make([]string, len(records))
		for i, rec := range records {
			if j >= len(rec) {
				return nil, eris.Errorf("row %d has %d fields, want %d", i+1, len(rec), len(header))
			}
			raw[i] = strings.TrimSpace(rec[j])
		}
		cols[j].Values = inferColumn(raw)
	}

	return table.New(cols...)
}

// inferColumn types a column from its raw cells.
func inferColumn(raw []string) []table.Value {
	numeric := true
	boolean := true
	nonEmpty := 0
	for _, s := range raw {
		if s == "" {
			continue
		}
		nonEmpty++
		if _, err := strconv.ParseFloat(s, 64); err != nil {
			numeric = false
		}
		if _, err := strconv.ParseBool(strings.ToLower(s)); err != nil {
			boolean = false
		}
	}

	vals := make([]table.Value, len(raw))
	for i, s := range raw {
		switch {
		case s == "":
			vals[i] = table.None
		case numeric && nonEmpty > 0:
			f, _ := strconv.ParseFloat(s, 64)
			vals[i] = table.Num(f)
		case boolean:
			b, _ := strconv.ParseBool(strings.ToLower(s))
			vals[i] = table.Bool(b)
		default:
			vals[i] = table.Str(s)
		}
	}
	return vals
}

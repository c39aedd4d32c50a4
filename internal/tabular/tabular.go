package tabular

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/montanaflynn/stats"
)

// ColumnKind classifies a column by the values it holds.
type ColumnKind string

const (
	KindNumeric     ColumnKind = "numeric"
	KindCategorical ColumnKind = "categorical"
)

// NumericSummary holds the basic aggregates of one numeric column.
type NumericSummary struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
}

// Profile is the structural description of one CSV file. It is computed
// fresh on every call and never cached.
type Profile struct {
	Rows       int                       `json:"rows"`
	Cols       int                       `json:"cols"`
	Columns    []string                  `json:"columns"`
	Kinds      map[string]ColumnKind     `json:"kinds"`
	DTypes     map[string]string         `json:"dtypes"`
	Missing    map[string]int            `json:"missing"`
	Numeric    map[string]NumericSummary `json:"numeric"`
	SampleRows []map[string]string       `json:"sample_rows"`
}

// table is the parsed form of a CSV file shared by all profiling passes.
type table struct {
	columns []string
	// rows[i][j] is the raw cell for row i, column j; short rows are
	// padded with empty cells so every row has len(columns) entries.
	rows [][]string
}

func loadTable(path string) (*table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("CSV_PARSE_FAILED: open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("CSV_PARSE_FAILED: parse %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("CSV_PARSE_FAILED: %s is empty", path)
	}

	t := &table{columns: records[0]}
	for _, rec := range records[1:] {
		row := make([]string, len(t.columns))
		copy(row, rec)
		t.rows = append(t.rows, row)
	}
	return t, nil
}

func (t *table) column(idx int) []string {
	values := make([]string, 0, len(t.rows))
	for _, row := range t.rows {
		values = append(values, row[idx])
	}
	return values
}

// numericValues parses the non-missing cells of a column as floats.
// The second result reports whether every non-missing cell parsed, i.e.
// whether the column is numeric at all.
func numericValues(cells []string) ([]float64, bool) {
	var values []float64
	for _, cell := range cells {
		if isMissing(cell) {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
		if err != nil {
			return nil, false
		}
		values = append(values, v)
	}
	return values, len(values) > 0
}

func isMissing(cell string) bool {
	return strings.TrimSpace(cell) == ""
}

// dtypeOf mirrors pandas naming: integer columns report int64, fractional
// ones float64, everything else object.
func dtypeOf(values []float64, numeric bool) string {
	if !numeric {
		return "object"
	}
	for _, v := range values {
		if v != float64(int64(v)) {
			return "float64"
		}
	}
	return "int64"
}

// LoadProfile reads a CSV file and profiles its structure: dimensions,
// column kinds and dtypes, missing counts, numeric aggregates, and the
// first 5 rows as samples.
func LoadProfile(path string) (*Profile, error) {
	t, err := loadTable(path)
	if err != nil {
		return nil, err
	}

	p := &Profile{
		Rows:    len(t.rows),
		Cols:    len(t.columns),
		Columns: append([]string(nil), t.columns...),
		Kinds:   make(map[string]ColumnKind),
		DTypes:  make(map[string]string),
		Missing: make(map[string]int),
		Numeric: make(map[string]NumericSummary),
	}

	for idx, name := range t.columns {
		cells := t.column(idx)

		missing := 0
		for _, cell := range cells {
			if isMissing(cell) {
				missing++
			}
		}
		p.Missing[name] = missing

		values, numeric := numericValues(cells)
		p.DTypes[name] = dtypeOf(values, numeric)
		if !numeric {
			p.Kinds[name] = KindCategorical
			continue
		}
		p.Kinds[name] = KindNumeric

		min, _ := stats.Min(values)
		max, _ := stats.Max(values)
		mean, _ := stats.Mean(values)
		median, _ := stats.Median(values)
		p.Numeric[name] = NumericSummary{Min: min, Max: max, Mean: mean, Median: median}
	}

	for i, row := range t.rows {
		if i >= 5 {
			break
		}
		p.SampleRows = append(p.SampleRows, rowAsMap(t.columns, row))
	}

	return p, nil
}

func rowAsMap(columns []string, row []string) map[string]string {
	m := make(map[string]string, len(columns))
	for j, name := range columns {
		m[name] = row[j]
	}
	return m
}

// SampleRows returns the header plus the first n data rows, for export.
func SampleRows(path string, n int) ([][]string, int, error) {
	t, err := loadTable(path)
	if err != nil {
		return nil, 0, err
	}
	out := [][]string{t.columns}
	for i, row := range t.rows {
		if i >= n {
			break
		}
		out = append(out, row)
	}
	return out, len(t.rows), nil
}

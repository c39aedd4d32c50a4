package tabular

import (
	"strings"

	"github.com/montanaflynn/stats"
)

// MissingInfo counts missing cells in one column.
type MissingInfo struct {
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// DuplicateInfo counts exact duplicate rows.
type DuplicateInfo struct {
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// OutlierInfo counts values outside the 1.5*IQR fences of one column.
type OutlierInfo struct {
	Count      int     `json:"count"`
	LowerBound float64 `json:"lower_bound"`
	UpperBound float64 `json:"upper_bound"`
}

// Quality is the data-quality profile used by the quality-check action
// and report rendering. Missing and Outliers only list columns where the
// respective count is at least one; Columns keeps the file order so
// renderers can iterate deterministically.
type Quality struct {
	Rows       int                    `json:"rows"`
	Columns    []string               `json:"columns"`
	Missing    map[string]MissingInfo `json:"missing"`
	Duplicates DuplicateInfo          `json:"duplicates"`
	Outliers   map[string]OutlierInfo `json:"outliers"`
	DTypes     map[string]string      `json:"dtypes"`
}

// QualityReport inspects a CSV file for missing cells, duplicate rows,
// and IQR outliers in numeric columns.
func QualityReport(path string) (*Quality, error) {
	t, err := loadTable(path)
	if err != nil {
		return nil, err
	}

	q := &Quality{
		Rows:     len(t.rows),
		Columns:  append([]string(nil), t.columns...),
		Missing:  make(map[string]MissingInfo),
		Outliers: make(map[string]OutlierInfo),
		DTypes:   make(map[string]string),
	}
	rows := float64(len(t.rows))

	for idx, name := range t.columns {
		cells := t.column(idx)

		missing := 0
		for _, cell := range cells {
			if isMissing(cell) {
				missing++
			}
		}
		if missing > 0 && rows > 0 {
			q.Missing[name] = MissingInfo{
				Count:      missing,
				Percentage: float64(missing) / rows * 100,
			}
		}

		values, numeric := numericValues(cells)
		q.DTypes[name] = dtypeOf(values, numeric)
		if !numeric {
			continue
		}

		quartiles, err := stats.Quartile(values)
		if err != nil {
			continue
		}
		iqr := quartiles.Q3 - quartiles.Q1
		lower := quartiles.Q1 - 1.5*iqr
		upper := quartiles.Q3 + 1.5*iqr

		outliers := 0
		for _, v := range values {
			if v < lower || v > upper {
				outliers++
			}
		}
		if outliers > 0 {
			q.Outliers[name] = OutlierInfo{
				Count:      outliers,
				LowerBound: lower,
				UpperBound: upper,
			}
		}
	}

	seen := make(map[string]bool, len(t.rows))
	duplicates := 0
	for _, row := range t.rows {
		key := strings.Join(row, "\x1f")
		if seen[key] {
			duplicates++
			continue
		}
		seen[key] = true
	}
	if rows > 0 {
		q.Duplicates = DuplicateInfo{
			Count:      duplicates,
			Percentage: float64(duplicates) / rows * 100,
		}
	}

	return q, nil
}

package tabular

import (
	"sort"

	"github.com/montanaflynn/stats"
)

// ColumnStatistics extends NumericSummary with spread and quartiles.
type ColumnStatistics struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std"`
	Q1     float64 `json:"q1"`
	Q3     float64 `json:"q3"`
}

// ValueCount is one entry in a categorical frequency table.
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Statistics is the detailed profile used by the statistics action and
// report rendering.
type Statistics struct {
	Rows        int                         `json:"rows"`
	Cols        int                         `json:"cols"`
	Columns     []string                    `json:"columns"`
	Numeric     map[string]ColumnStatistics `json:"numeric"`
	Categorical map[string][]ValueCount     `json:"categorical"`
	MemoryBytes int                         `json:"memory_bytes"`
}

// DetailedStatistics computes per-column statistics over a CSV file:
// full numeric aggregates for numeric columns and top-10 value
// frequencies for categorical ones.
func DetailedStatistics(path string) (*Statistics, error) {
	t, err := loadTable(path)
	if err != nil {
		return nil, err
	}

	s := &Statistics{
		Rows:        len(t.rows),
		Cols:        len(t.columns),
		Columns:     append([]string(nil), t.columns...),
		Numeric:     make(map[string]ColumnStatistics),
		Categorical: make(map[string][]ValueCount),
	}

	for idx, name := range t.columns {
		cells := t.column(idx)
		for _, cell := range cells {
			s.MemoryBytes += len(cell)
		}

		values, numeric := numericValues(cells)
		if !numeric {
			s.Categorical[name] = topFrequencies(cells, 10)
			continue
		}

		min, _ := stats.Min(values)
		max, _ := stats.Max(values)
		mean, _ := stats.Mean(values)
		median, _ := stats.Median(values)
		std, _ := stats.StandardDeviationSample(values)
		quartiles, _ := stats.Quartile(values)

		s.Numeric[name] = ColumnStatistics{
			Count:  len(values),
			Min:    min,
			Max:    max,
			Mean:   mean,
			Median: median,
			StdDev: std,
			Q1:     quartiles.Q1,
			Q3:     quartiles.Q3,
		}
	}

	return s, nil
}

func topFrequencies(cells []string, limit int) []ValueCount {
	counts := make(map[string]int)
	for _, cell := range cells {
		if isMissing(cell) {
			continue
		}
		counts[cell]++
	}

	out := make([]ValueCount, 0, len(counts))
	for value, count := range counts {
		out = append(out, ValueCount{Value: value, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

package csvanalysis

import (
	"fmt"
	"strings"

	"github.com/nkchoudhary2000/interview-agentic-flow-v1/internal/tabular"
)

const summaryColumnLimit = 5

// formatStatisticsSummary renders a bounded markdown summary, listing at
// most the first 5 numeric and first 5 categorical columns in file order.
func formatStatisticsSummary(s *tabular.Statistics) string {
	lines := []string{"**Statistics Summary:**\n"}
	lines = append(lines,
		fmt.Sprintf("- Total Rows: %d", s.Rows),
		fmt.Sprintf("- Total Columns: %d\n", s.Cols),
	)

	var numeric, categorical []string
	for _, name := range s.Columns {
		if cs, ok := s.Numeric[name]; ok && len(numeric) < summaryColumnLimit {
			numeric = append(numeric, fmt.Sprintf(
				"- **%s**: Mean=%.2f, Min=%.2f, Max=%.2f", name, cs.Mean, cs.Min, cs.Max))
		}
		if vals, ok := s.Categorical[name]; ok && len(categorical) < summaryColumnLimit {
			categorical = append(categorical, fmt.Sprintf(
				"- **%s**: %d unique values", name, len(vals)))
		}
	}

	if len(numeric) > 0 {
		lines = append(lines, "**Numeric Columns:**")
		lines = append(lines, numeric...)
	}
	if len(categorical) > 0 {
		lines = append(lines, "\n**Categorical Columns:**")
		lines = append(lines, categorical...)
	}

	return strings.Join(lines, "\n")
}

// formatQualitySummary renders a bounded markdown quality report, listing
// at most the first 5 affected columns per section in file order.
func formatQualitySummary(q *tabular.Quality) string {
	lines := []string{"**Data Quality Report:**\n"}

	if len(q.Missing) > 0 {
		lines = append(lines, "**Missing Values:**")
		count := 0
		for _, name := range q.Columns {
			info, ok := q.Missing[name]
			if !ok {
				continue
			}
			if count == summaryColumnLimit {
				break
			}
			lines = append(lines, fmt.Sprintf("- **%s**: %d missing (%.2f%%)", name, info.Count, info.Percentage))
			count++
		}
	} else {
		lines = append(lines, "No missing values detected")
	}

	if q.Duplicates.Count > 0 {
		lines = append(lines, fmt.Sprintf("\n**Duplicates:** %d rows (%.2f%%)", q.Duplicates.Count, q.Duplicates.Percentage))
	} else {
		lines = append(lines, "\nNo duplicate rows found")
	}

	if len(q.Outliers) > 0 {
		lines = append(lines, "\n**Outliers Detected:**")
		count := 0
		for _, name := range q.Columns {
			info, ok := q.Outliers[name]
			if !ok {
				continue
			}
			if count == summaryColumnLimit {
				break
			}
			lines = append(lines, fmt.Sprintf("- **%s**: %d outliers outside [%.2f, %.2f]", name, info.Count, info.LowerBound, info.UpperBound))
			count++
		}
	} else {
		lines = append(lines, "\nNo significant outliers detected")
	}

	return strings.Join(lines, "\n")
}

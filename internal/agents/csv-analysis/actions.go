package csvanalysis

import "strings"

// ActionKind is the closed set of executable CSV actions.
type ActionKind int

const (
	ActionUnresolved ActionKind = iota
	ActionStatistics
	ActionQualityCheck
	ActionFilterExport
	ActionReport
)

func (k ActionKind) String() string {
	switch k {
	case ActionStatistics:
		return "Statistics Calculation"
	case ActionQualityCheck:
		return "Data Quality Check"
	case ActionFilterExport:
		return "Data Filtering"
	case ActionReport:
		return "Report Generation"
	default:
		return "Unresolved"
	}
}

// resolveByID maps a suggestion's positional ID to an action. IDs take
// precedence over titles; only non-positive IDs are left unresolved.
func resolveByID(id int) ActionKind {
	switch {
	case id == 1 || id == 2:
		return ActionStatistics
	case id == 3:
		return ActionQualityCheck
	case id == 4:
		return ActionFilterExport
	case id >= 5:
		return ActionReport
	default:
		return ActionUnresolved
	}
}

// resolveByTitle is the keyword fallback used when the ID did not resolve.
// An unrecognized title defaults to statistics.
func resolveByTitle(title string) ActionKind {
	lower := strings.ToLower(title)
	contains := func(words ...string) bool {
		for _, w := range words {
			if strings.Contains(lower, w) {
				return true
			}
		}
		return false
	}

	switch {
	case contains("statistic", "summary", "view", "calculate"):
		return ActionStatistics
	case contains("quality", "check", "validate", "missing"):
		return ActionQualityCheck
	case contains("filter", "export", "extract"):
		return ActionFilterExport
	case contains("report", "generate", "create"):
		return ActionReport
	default:
		return ActionStatistics
	}
}

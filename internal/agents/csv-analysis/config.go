package csvanalysis

import (
	"github.com/nkchoudhary2000/interview-agentic-flow-v1/internal/llm"
	"github.com/nkchoudhary2000/interview-agentic-flow-v1/internal/models"
)

var analysisParams = llm.Params{Temperature: 0.7, MaxTokens: 800}

// fallbackSuggestions is the fixed suggestion set offered whenever the
// completion API fails or returns unparseable output. The IDs line up with
// resolveByID so the fallback path always routes correctly.
func fallbackSuggestions() []models.Suggestion {
	return []models.Suggestion{
		{ID: 1, Title: "View Statistics", Description: "Get statistical summary of numeric columns"},
		{ID: 2, Title: "Check Data Quality", Description: "Identify missing values and data issues"},
		{ID: 3, Title: "Export Filtered Data", Description: "Filter and export specific rows/columns"},
		{ID: 4, Title: "Generate Report", Description: "Create a summary report of the data"},
	}
}

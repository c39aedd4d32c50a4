package api

import (
	"fmt"
	"strings"

	"github.com/nkchoudhary2000/interview-agentic-flow-v1/internal/models"
)

// formatAssistantContent renders an envelope into the chat text shown to
// the user. The raw envelope itself is persisted as message metadata.
func formatAssistantContent(env *models.Envelope) string {
	switch env.Mode {
	case models.ModeCodeGeneration:
		return formatCodeGeneration(env)
	case models.ModePDFExtraction:
		return formatPDFExtraction(env)
	case models.ModeCSVAnalysis:
		return formatCSVAnalysis(env)
	case models.ModeCSVAction:
		if env.Message != "" {
			return env.Message
		}
		return "Action completed"
	default:
		if env.Message != "" {
			return env.Message
		}
		return "Response generated"
	}
}

func formatCodeGeneration(env *models.Envelope) string {
	if !env.IsSuccess() || env.Code == nil {
		return fmt.Sprintf("Error: %s", env.Message)
	}
	c := env.Code
	return fmt.Sprintf("I've generated the code and saved it to `%s`.\n\n"+
		"**Generated Code:**\n```%s\n%s\n```\n\n"+
		"**Code Review:**\n%s\n\n"+
		"**File Location:** `%s`\n",
		c.Filename, c.Language, c.Code, c.Review, c.FilePath)
}

func formatPDFExtraction(env *models.Envelope) string {
	if !env.IsSuccess() || env.PDF == nil {
		return fmt.Sprintf("Error: %s", env.Message)
	}
	p := env.PDF
	return fmt.Sprintf("PDF extracted successfully!\n\n"+
		"**Summary:** %s\n\n"+
		"**Statistics:**\n- Pages: %d\n- Words: %d\n- Saved to: `%s`\n",
		p.Summary, p.PageCount, p.WordCount, p.FilePath)
}

func formatCSVAnalysis(env *models.Envelope) string {
	if !env.IsSuccess() || env.Analysis == nil {
		return fmt.Sprintf("Error: %s", env.Message)
	}
	a := env.Analysis

	var b strings.Builder
	fmt.Fprintf(&b, "CSV Analysis Complete!\n\n"+
		"**File:** %s\n**Content Summary:** %s\n\n"+
		"**Statistics:**\n- Rows: %d\n- Columns: %d\n\n"+
		"**Suggestions for working with this data:**\n",
		a.Filename, a.ContentSummary, a.NumRows, a.NumCols)
	for _, s := range a.Suggestions {
		fmt.Fprintf(&b, "\n%d. **%s**: %s", s.ID, s.Title, s.Description)
	}
	return b.String()
}

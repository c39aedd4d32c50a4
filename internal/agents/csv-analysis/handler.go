package csvanalysis

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/nkchoudhary2000/interview-agentic-flow-v1/internal/actionlog"
	"github.com/nkchoudhary2000/interview-agentic-flow-v1/internal/common/logger"
	"github.com/nkchoudhary2000/interview-agentic-flow-v1/internal/common/metrics"
	"github.com/nkchoudhary2000/interview-agentic-flow-v1/internal/fileio"
	"github.com/nkchoudhary2000/interview-agentic-flow-v1/internal/llm"
	"github.com/nkchoudhary2000/interview-agentic-flow-v1/internal/models"
	"github.com/nkchoudhary2000/interview-agentic-flow-v1/internal/tabular"
)

// Handler runs the two-stage data analysis pipeline: Analyze profiles a
// CSV and proposes actions; ExecuteAction runs the action the user picked.
type Handler struct {
	completer llm.Completer
	store     *fileio.Store
	sink      *actionlog.Sink
	logger    logger.Logger
}

func NewHandler(completer llm.Completer, store *fileio.Store, sink *actionlog.Sink, log logger.Logger) *Handler {
	return &Handler{
		completer: completer,
		store:     store,
		sink:      sink,
		logger:    log.With(map[string]interface{}{"pipeline": "csv-analysis"}),
	}
}

type analysisReply struct {
	ContentSummary string              `json:"content_summary"`
	Suggestions    []models.Suggestion `json:"suggestions"`
}

// Analyze profiles the CSV and asks the completion API for a content
// summary plus 4-5 suggested actions. Any completion or parse failure
// falls back to a deterministic templated summary and the fixed
// suggestion set; only an unreadable file is fatal.
func (h *Handler) Analyze(ctx context.Context, path string) *models.Envelope {
	profile, err := tabular.LoadProfile(path)
	if err != nil {
		h.logger.Error("csv profiling failed", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
		return models.ErrorEnvelope(models.ModeCSVAnalysis, fmt.Sprintf("Error analyzing CSV: %v", err))
	}

	sample := profile.SampleRows
	if len(sample) > 3 {
		sample = sample[:3]
	}

	summary, suggestions := h.summarize(ctx, profile, sample)

	return &models.Envelope{
		Status:  models.StatusSuccess,
		Message: "CSV analyzed successfully",
		Mode:    models.ModeCSVAnalysis,
		Analysis: &models.CSVAnalysis{
			Filename:       filepath.Base(path),
			NumRows:        profile.Rows,
			NumCols:        profile.Cols,
			Columns:        profile.Columns,
			ContentSummary: summary,
			Suggestions:    suggestions,
			SampleData:     sample,
			FilePath:       path,
		},
	}
}

func (h *Handler) summarize(ctx context.Context, profile *tabular.Profile, sample []map[string]string) (string, []models.Suggestion) {
	fallbackSummary := fmt.Sprintf("A CSV file with %d columns and %d rows", profile.Cols, profile.Rows)

	sampleJSON, _ := json.MarshalIndent(sample, "", "  ")
	prompt := fmt.Sprintf(`You are a data analysis expert. Analyze this CSV file and provide insights.

CSV DETAILS:
- Rows: %d
- Columns: %d
- Column Names: %s

SAMPLE DATA (first 3 rows):
%s

Provide:
1. A brief 1-2 sentence summary describing what this CSV contains (e.g., "employee details", "sales data", "customer information")
2. Exactly 4-5 specific, actionable suggestions for what the user could do with this data

Format your response as JSON:
{
  "content_summary": "Brief description of the CSV content",
  "suggestions": [
    {"id": 1, "title": "Suggestion title", "description": "Brief description"},
    {"id": 2, "title": "Suggestion title", "description": "Brief description"},
    ...
  ]
}

IMPORTANT: Return ONLY valid JSON, no additional text.
`, profile.Rows, profile.Cols, strings.Join(profile.Columns, ", "), sampleJSON)

	reply, err := h.completer.Complete(ctx, []llm.Message{
		{Role: llm.RoleUser, Content: prompt},
	}, analysisParams)
	if err != nil {
		h.logger.Warn("analysis completion failed, using fallback", map[string]interface{}{"error": err.Error()})
		return fallbackSummary, fallbackSuggestions()
	}

	var parsed analysisReply
	if err := llm.ExtractJSON(reply, &parsed); err != nil || parsed.ContentSummary == "" || len(parsed.Suggestions) == 0 {
		h.logger.Warn("analysis reply unparseable, using fallback", nil)
		return fallbackSummary, fallbackSuggestions()
	}
	return parsed.ContentSummary, parsed.Suggestions
}

// ExecuteAction runs the action the user selected from a prior analysis.
// Resolution goes by positional ID first, then by title keywords. Every
// execution is recorded in the daily action log and the result envelope
// carries the log file path.
func (h *Handler) ExecuteAction(ctx context.Context, path string, actionID int, prior *models.CSVAnalysis) *models.Envelope {
	actionName := "Unknown Action"
	if prior != nil {
		for _, s := range prior.Suggestions {
			if s.ID == actionID {
				actionName = s.Title
				break
			}
		}
	}

	h.sink.ActionStart(actionID, actionName, path)

	kind := resolveByID(actionID)
	if kind == ActionUnresolved {
		kind = resolveByTitle(actionName)
	}

	var result *models.ActionResult
	var err error
	switch kind {
	case ActionQualityCheck:
		result, err = h.executeQualityCheck(path)
	case ActionFilterExport:
		result, err = h.executeFilter(path)
	case ActionReport:
		result, err = h.executeReport(path)
	default:
		result, err = h.executeStatistics(path)
	}

	if err != nil {
		h.sink.ActionResult(actionID, "error", err.Error())
		metrics.ActionsExecuted.WithLabelValues(kind.String(), "error").Inc()
		env := models.ErrorEnvelope(models.ModeCSVAction, fmt.Sprintf("Error executing action: %v", err))
		env.LogFile = h.sink.FilePath()
		return env
	}

	h.sink.ActionResult(actionID, "success", result.Summary)
	metrics.ActionsExecuted.WithLabelValues(kind.String(), "success").Inc()

	return &models.Envelope{
		Status:  models.StatusSuccess,
		Message: fmt.Sprintf("%s completed", kind),
		Mode:    models.ModeCSVAction,
		LogFile: h.sink.FilePath(),
		Action:  result,
	}
}

func (h *Handler) executeStatistics(path string) (*models.ActionResult, error) {
	h.sink.Info("Calculating detailed statistics...")

	stats, err := tabular.DetailedStatistics(path)
	if err != nil {
		return nil, err
	}

	summary := formatStatisticsSummary(stats)
	return &models.ActionResult{
		Action:  ActionStatistics.String(),
		Summary: summary,
		Output:  summary,
		Detail:  stats,
	}, nil
}

func (h *Handler) executeQualityCheck(path string) (*models.ActionResult, error) {
	h.sink.Info("Performing data quality check...")

	quality, err := tabular.QualityReport(path)
	if err != nil {
		return nil, err
	}

	summary := formatQualitySummary(quality)
	return &models.ActionResult{
		Action:  ActionQualityCheck.String(),
		Summary: summary,
		Output:  summary,
		Detail:  quality,
	}, nil
}

func (h *Handler) executeFilter(path string) (*models.ActionResult, error) {
	h.sink.Info("Preparing filtered data export...")

	rows, total, err := tabular.SampleRows(path, 10)
	if err != nil {
		return nil, err
	}

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	filename := stem + "_sample_10.csv"
	exportPath, err := h.store.SaveReport(filename, encodeCSV(rows))
	if err != nil {
		return nil, err
	}
	h.sink.Info("Exported sample to: " + exportPath)

	// Custom filter criteria are not implemented; export a fixed sample.
	summary := fmt.Sprintf(`Data filtering prepared.

**Sample Export:**
- Exported first 10 rows to demonstrate filtering
- File: `+"`%s`"+`
- Total rows in original: %d

**Note:** Full filtering with custom criteria can be implemented based on your requirements.`, filename, total)

	return &models.ActionResult{
		Action:       ActionFilterExport.String(),
		Summary:      summary,
		Output:       summary,
		FilesCreated: []string{exportPath},
	}, nil
}

func (h *Handler) executeReport(path string) (*models.ActionResult, error) {
	h.sink.Info("Generating comprehensive report...")

	stats, err := tabular.DetailedStatistics(path)
	if err != nil {
		return nil, err
	}
	quality, err := tabular.QualityReport(path)
	if err != nil {
		return nil, err
	}

	filename := filepath.Base(path)
	html, err := tabular.RenderHTMLReport(filename, stats, quality)
	if err != nil {
		return nil, err
	}

	stem := strings.TrimSuffix(filename, filepath.Ext(filename))
	reportName := fmt.Sprintf("%s_report_%s.html", stem, time.Now().Format("20060102_150405"))
	reportPath, err := h.store.SaveReport(reportName, html)
	if err != nil {
		return nil, err
	}
	h.sink.Info("Report generated: " + reportName)

	summary := fmt.Sprintf(`Comprehensive report generated successfully!

**Report Details:**
- File: `+"`%s`"+`
- Location: `+"`%s`"+`
- Includes: Statistics, data quality analysis, and visualizations

You can open the HTML report in your web browser to view the full analysis.`, reportName, reportPath)

	return &models.ActionResult{
		Action:       ActionReport.String(),
		Summary:      summary,
		Output:       summary,
		ReportPath:   reportPath,
		FilesCreated: []string{reportPath},
	}, nil
}

func encodeCSV(rows [][]string) string {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.WriteAll(rows)
	return buf.String()
}

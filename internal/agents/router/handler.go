package router

import (
	"context"
	"fmt"
	"strings"
	"time"

	codegen "github.com/nkchoudhary2000/interview-agentic-flow-v1/internal/agents/code-gen"
	pdfextract "github.com/nkchoudhary2000/interview-agentic-flow-v1/internal/agents/pdf-extract"
	cerrors "github.com/nkchoudhary2000/interview-agentic-flow-v1/internal/common/errors"
	"github.com/nkchoudhary2000/interview-agentic-flow-v1/internal/common/logger"
	"github.com/nkchoudhary2000/interview-agentic-flow-v1/internal/common/metrics"
	"github.com/nkchoudhary2000/interview-agentic-flow-v1/internal/llm"
	"github.com/nkchoudhary2000/interview-agentic-flow-v1/internal/models"
)

// CodePipeline, PDFPipeline, and CSVPipeline are the downstream stages the
// router dispatches to.
type CodePipeline interface {
	Execute(ctx context.Context, in codegen.Input) *models.Envelope
}

type PDFPipeline interface {
	Execute(ctx context.Context, in pdfextract.Input) *models.Envelope
}

type CSVPipeline interface {
	Analyze(ctx context.Context, path string) *models.Envelope
	ExecuteAction(ctx context.Context, path string, actionID int, prior *models.CSVAnalysis) *models.Envelope
}

// Handler is the top-level dispatcher: it classifies each incoming message
// and routes it to the matching pipeline. Every entry point returns an
// Envelope; no panic escapes the boundary.
type Handler struct {
	completer llm.Completer
	code      CodePipeline
	pdf       PDFPipeline
	csv       CSVPipeline
	logger    logger.Logger
}

func NewHandler(completer llm.Completer, code CodePipeline, pdf PDFPipeline, csv CSVPipeline, log logger.Logger) *Handler {
	return &Handler{
		completer: completer,
		code:      code,
		pdf:       pdf,
		csv:       csv,
		logger:    log.With(map[string]interface{}{"pipeline": "router"}),
	}
}

// Route processes one user turn. Messages with an attached file dispatch
// by file type; plain text goes through intent classification.
func (h *Handler) Route(ctx context.Context, message string, uploadedFile *models.UploadedFile) (env *models.Envelope) {
	started := time.Now()
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("pipeline panic recovered", map[string]interface{}{"panic": fmt.Sprint(r)})
			env = models.ErrorEnvelope(models.ModeError, fmt.Sprintf("Error processing request: %v", r))
		}
		metrics.RequestsRouted.WithLabelValues(string(env.Mode), string(env.Status)).Inc()
		metrics.PipelineDuration.WithLabelValues(string(env.Mode)).Observe(time.Since(started).Seconds())
	}()

	if uploadedFile != nil {
		return h.routeFileUpload(ctx, message, uploadedFile)
	}
	return h.routeText(ctx, message)
}

func (h *Handler) routeFileUpload(ctx context.Context, message string, file *models.UploadedFile) *models.Envelope {
	lowerPath := strings.ToLower(file.Path)

	switch {
	case file.Type == "pdf" || strings.HasSuffix(lowerPath, ".pdf"):
		env := h.pdf.Execute(ctx, pdfextract.Input{Path: file.Path})
		env.UserMessage = message
		return env

	case file.Type == "csv" || strings.HasSuffix(lowerPath, ".csv"):
		env := h.csv.Analyze(ctx, file.Path)
		env.UserMessage = message
		return env

	default:
		return models.ErrorEnvelope(models.ModeError, cerrors.NewUnsupportedFileTypeError(file.Type).Message)
	}
}

func (h *Handler) routeText(ctx context.Context, message string) *models.Envelope {
	intent := h.detectIntent(ctx, message)

	if intent.Type == models.IntentCodeGeneration {
		language := intent.Language
		if language == "" {
			language = "python"
		}
		env := h.code.Execute(ctx, codegen.Input{Prompt: message, Language: language})
		env.UserMessage = message
		return env
	}

	return h.generalChat(ctx, message)
}

// detectIntent classifies a text message. Completion or parse failures
// and low-confidence classifications both collapse to general chat.
func (h *Handler) detectIntent(ctx context.Context, message string) models.Intent {
	prompt := fmt.Sprintf(`Analyze this user message and determine the intent.

USER MESSAGE: %q

Determine if the user is:
1. Requesting code generation (keywords: write, create, generate, code, function, class, script, program, etc.)
2. General chat/question

Also detect programming language if code generation is requested (python, javascript, java, etc.)

Respond in JSON format:
{
  "type": "code_generation" or "general_chat",
  "language": "python" (only if code_generation, otherwise omit),
  "confidence": 0.0 to 1.0
}

Return ONLY valid JSON, no additional text.
`, message)

	reply, err := h.completer.Complete(ctx, []llm.Message{
		{Role: llm.RoleUser, Content: prompt},
	}, intentParams)
	if err != nil {
		h.logger.Warn("intent classification failed, defaulting to general chat", map[string]interface{}{"error": err.Error()})
		return models.Intent{Type: models.IntentGeneralChat}
	}

	var intent models.Intent
	if err := llm.ExtractJSON(reply, &intent); err != nil {
		h.logger.Warn("intent reply unparseable, defaulting to general chat", nil)
		return models.Intent{Type: models.IntentGeneralChat}
	}

	if intent.Confidence < confidenceThreshold {
		intent.Type = models.IntentGeneralChat
	}
	return intent
}

func (h *Handler) generalChat(ctx context.Context, message string) *models.Envelope {
	reply, err := h.completer.Complete(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: chatSystemMessage},
		{Role: llm.RoleUser, Content: message},
	}, chatParams)
	if err != nil {
		return models.ErrorEnvelope(models.ModeGeneralChat, fmt.Sprintf("Error processing message: %v", err))
	}

	return &models.Envelope{
		Status:      models.StatusSuccess,
		Message:     reply,
		Mode:        models.ModeGeneralChat,
		UserMessage: message,
	}
}

// ExecuteCSVAction forwards a follow-up action selection to the data
// analysis pipeline under the same no-panic guarantee as Route.
func (h *Handler) ExecuteCSVAction(ctx context.Context, csvPath string, actionID int, prior *models.CSVAnalysis) (env *models.Envelope) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("action panic recovered", map[string]interface{}{"panic": fmt.Sprint(r)})
			env = models.ErrorEnvelope(models.ModeError, fmt.Sprintf("Error executing action: %v", r))
		}
	}()

	return h.csv.ExecuteAction(ctx, csvPath, actionID, prior)
}

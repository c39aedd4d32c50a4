package codegen

import (
	"context"
	"fmt"
	"strings"

	"github.com/nkchoudhary2000/interview-agentic-flow-v1/internal/common/logger"
	"github.com/nkchoudhary2000/interview-agentic-flow-v1/internal/fileio"
	"github.com/nkchoudhary2000/interview-agentic-flow-v1/internal/llm"
	"github.com/nkchoudhary2000/interview-agentic-flow-v1/internal/models"
)

// Handler runs the code generation pipeline: generate, review, persist.
type Handler struct {
	completer llm.Completer
	store     *fileio.Store
	logger    logger.Logger
}

func NewHandler(completer llm.Completer, store *fileio.Store, log logger.Logger) *Handler {
	return &Handler{
		completer: completer,
		store:     store,
		logger:    log.With(map[string]interface{}{"pipeline": "code-generation"}),
	}
}

// Execute generates code for the prompt, reviews it in a second pass, and
// saves the result. Failures of the review or save steps degrade the
// envelope instead of failing it; only the generation call is fatal.
func (h *Handler) Execute(ctx context.Context, in Input) *models.Envelope {
	language := strings.ToLower(strings.TrimSpace(in.Language))
	if language == "" {
		language = defaultLanguage
	}

	reply, err := h.completer.Complete(ctx, []llm.Message{
		{Role: llm.RoleUser, Content: generationPrompt(in.Prompt, language)},
	}, generationParams)
	if err != nil {
		h.logger.Error("code generation failed", map[string]interface{}{"error": err.Error()})
		return models.ErrorEnvelope(models.ModeCodeGeneration, fmt.Sprintf("Error generating code: %v", err))
	}

	code := stripFences(reply)
	review := h.reviewCode(ctx, code, language, in.Prompt)

	filename := deriveFilename(in.Prompt) + extensionFor(language)
	path, err := h.store.SaveCode(filename, code)
	if err != nil {
		h.logger.Warn("generated code not persisted", map[string]interface{}{
			"filename": filename,
			"error":    err.Error(),
		})
		path = ""
	}

	return &models.Envelope{
		Status:  models.StatusSuccess,
		Message: "Code generated, reviewed, and saved successfully",
		Mode:    models.ModeCodeGeneration,
		Code: &models.CodeResult{
			Code:     code,
			Review:   review,
			FilePath: path,
			Filename: filename,
			Language: language,
		},
	}
}

func (h *Handler) reviewCode(ctx context.Context, code, language, originalPrompt string) string {
	reply, err := h.completer.Complete(ctx, []llm.Message{
		{Role: llm.RoleUser, Content: reviewPrompt(code, language, originalPrompt)},
	}, reviewParams)
	if err != nil {
		return fmt.Sprintf("Review unavailable: %v", err)
	}
	return reply
}

// stripFences removes markdown code fences by toggling on fence lines and
// keeping only interior lines. Replies without fences pass through as-is.
func stripFences(reply string) string {
	if !strings.Contains(reply, "```") {
		return reply
	}
	var kept []string
	inside := false
	for _, line := range strings.Split(reply, "\n") {
		if strings.HasPrefix(line, "```") {
			inside = !inside
			continue
		}
		if inside {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

func generationPrompt(userPrompt, language string) string {
	return fmt.Sprintf(`You are an expert %[1]s programmer. Generate clean, efficient, and well-documented code.

USER REQUEST: %[2]s

INSTRUCTIONS:
1. Write production-quality %[1]s code that fulfills the user's request
2. Include clear comments explaining the logic
3. Follow %[1]s best practices and style guidelines
4. Make the code modular and reusable
5. Include error handling where appropriate
6. Add docstrings/documentation for functions and classes

Generate ONLY the code, without additional explanations or markdown formatting.
`, language, userPrompt)
}

func reviewPrompt(code, language, originalPrompt string) string {
	return fmt.Sprintf(`You are a senior code reviewer. Review this %[1]s code and provide constructive feedback.

ORIGINAL REQUEST: %[2]s

CODE TO REVIEW:
`+"```%[1]s\n%[3]s\n```"+`

Provide a concise review covering:
1. **Correctness**: Does it fulfill the requirements?
2. **Quality**: Code organization, readability, best practices
3. **Security**: Any potential security issues?
4. **Performance**: Any performance concerns?
5. **Suggestions**: 1-2 key improvements (if any)

Keep the review brief and actionable (200 words max).
`, language, originalPrompt, code)
}

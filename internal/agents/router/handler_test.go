package router

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	codegen "github.com/nkchoudhary2000/interview-agentic-flow-v1/internal/agents/code-gen"
	pdfextract "github.com/nkchoudhary2000/interview-agentic-flow-v1/internal/agents/pdf-extract"
	"github.com/nkchoudhary2000/interview-agentic-flow-v1/internal/common/logger"
	"github.com/nkchoudhary2000/interview-agentic-flow-v1/internal/llm"
	"github.com/nkchoudhary2000/interview-agentic-flow-v1/internal/models"
)

type scriptedCompleter struct {
	replies []string
	errs    []error
	calls   int
}

func (s *scriptedCompleter) Complete(context.Context, []llm.Message, llm.Params) (string, error) {
	idx := s.calls
	s.calls++
	if idx < len(s.errs) && s.errs[idx] != nil {
		return "", s.errs[idx]
	}
	if idx < len(s.replies) {
		return s.replies[idx], nil
	}
	return "", errors.New("unexpected call")
}

type fakeCodePipeline struct {
	got *codegen.Input
}

func (f *fakeCodePipeline) Execute(_ context.Context, in codegen.Input) *models.Envelope {
	f.got = &in
	return &models.Envelope{
		Status: models.StatusSuccess,
		Mode:   models.ModeCodeGeneration,
		Code:   &models.CodeResult{Language: in.Language},
	}
}

type fakePDFPipeline struct {
	got *pdfextract.Input
}

func (f *fakePDFPipeline) Execute(_ context.Context, in pdfextract.Input) *models.Envelope {
	f.got = &in
	return &models.Envelope{Status: models.StatusSuccess, Mode: models.ModePDFExtraction, PDF: &models.PDFResult{}}
}

type fakeCSVPipeline struct {
	analyzedPath string
	actionID     int
	panicOn      bool
}

func (f *fakeCSVPipeline) Analyze(_ context.Context, path string) *models.Envelope {
	if f.panicOn {
		panic("profiler blew up")
	}
	f.analyzedPath = path
	return &models.Envelope{Status: models.StatusSuccess, Mode: models.ModeCSVAnalysis, Analysis: &models.CSVAnalysis{FilePath: path}}
}

func (f *fakeCSVPipeline) ExecuteAction(_ context.Context, path string, actionID int, _ *models.CSVAnalysis) *models.Envelope {
	if f.panicOn {
		panic("action blew up")
	}
	f.actionID = actionID
	return &models.Envelope{Status: models.StatusSuccess, Mode: models.ModeCSVAction, Action: &models.ActionResult{}}
}

func newTestHandler(completer llm.Completer) (*Handler, *fakeCodePipeline, *fakePDFPipeline, *fakeCSVPipeline) {
	code := &fakeCodePipeline{}
	pdf := &fakePDFPipeline{}
	csv := &fakeCSVPipeline{}
	return NewHandler(completer, code, pdf, csv, logger.NewNoOpLogger()), code, pdf, csv
}

func intentReply(intentType, language string, confidence float64) string {
	if language != "" {
		return fmt.Sprintf(`{"type": %q, "language": %q, "confidence": %v}`, intentType, language, confidence)
	}
	return fmt.Sprintf(`{"type": %q, "confidence": %v}`, intentType, confidence)
}

func TestRoute_CodeGenerationIntent(t *testing.T) {
	completer := &scriptedCompleter{replies: []string{intentReply("code_generation", "javascript", 0.95)}}
	h, code, _, _ := newTestHandler(completer)

	env := h.Route(context.Background(), "write a debounce function", nil)

	require.True(t, env.IsSuccess())
	assert.Equal(t, models.ModeCodeGeneration, env.Mode)
	assert.Equal(t, "write a debounce function", env.UserMessage)
	require.NotNil(t, code.got)
	assert.Equal(t, "javascript", code.got.Language)
}

func TestRoute_CodeGenerationDefaultsToPython(t *testing.T) {
	completer := &scriptedCompleter{replies: []string{intentReply("code_generation", "", 0.9)}}
	h, code, _, _ := newTestHandler(completer)

	h.Route(context.Background(), "write a sorting function", nil)

	require.NotNil(t, code.got)
	assert.Equal(t, "python", code.got.Language)
}

func TestRoute_LowConfidenceOverridesToGeneralChat(t *testing.T) {
	completer := &scriptedCompleter{replies: []string{
		intentReply("code_generation", "python", 0.4),
		"Happy to help! What would you like to know?",
	}}
	h, code, _, _ := newTestHandler(completer)

	env := h.Route(context.Background(), "maybe some code?", nil)

	require.True(t, env.IsSuccess())
	assert.Equal(t, models.ModeGeneralChat, env.Mode)
	assert.Equal(t, "Happy to help! What would you like to know?", env.Message)
	assert.Nil(t, code.got)
}

func TestRoute_IntentFailureFallsBackToGeneralChat(t *testing.T) {
	completer := &scriptedCompleter{
		errs:    []error{llm.ErrCompletionTimeout, nil},
		replies: []string{"", "Hello!"},
	}
	h, _, _, _ := newTestHandler(completer)

	env := h.Route(context.Background(), "hi there", nil)

	require.True(t, env.IsSuccess())
	assert.Equal(t, models.ModeGeneralChat, env.Mode)
	assert.Equal(t, "Hello!", env.Message)
}

func TestRoute_UnparseableIntentFallsBackToGeneralChat(t *testing.T) {
	completer := &scriptedCompleter{replies: []string{
		"The user probably wants code.",
		"General reply",
	}}
	h, _, _, _ := newTestHandler(completer)

	env := h.Route(context.Background(), "hmm", nil)

	require.True(t, env.IsSuccess())
	assert.Equal(t, models.ModeGeneralChat, env.Mode)
}

func TestRoute_GeneralChatFailure(t *testing.T) {
	completer := &scriptedCompleter{errs: []error{llm.ErrCompletionTimeout, llm.ErrCompletionFailed}}
	h, _, _, _ := newTestHandler(completer)

	env := h.Route(context.Background(), "hello", nil)

	assert.Equal(t, models.StatusError, env.Status)
	assert.Equal(t, models.ModeGeneralChat, env.Mode)
	assert.Contains(t, env.Message, "Error processing message")
}

func TestRoute_PDFUpload(t *testing.T) {
	h, _, pdf, _ := newTestHandler(&scriptedCompleter{})

	env := h.Route(context.Background(), "summarize this", &models.UploadedFile{Path: "/uploads/doc.pdf", Type: "pdf"})

	require.True(t, env.IsSuccess())
	assert.Equal(t, models.ModePDFExtraction, env.Mode)
	assert.Equal(t, "summarize this", env.UserMessage)
	require.NotNil(t, pdf.got)
	assert.Equal(t, "/uploads/doc.pdf", pdf.got.Path)
}

func TestRoute_UploadByExtension(t *testing.T) {
	h, _, _, csv := newTestHandler(&scriptedCompleter{})

	// Declared type is empty; the .csv extension decides.
	env := h.Route(context.Background(), "analyze", &models.UploadedFile{Path: "/uploads/Data.CSV", Type: ""})

	require.True(t, env.IsSuccess())
	assert.Equal(t, models.ModeCSVAnalysis, env.Mode)
	assert.Equal(t, "/uploads/Data.CSV", csv.analyzedPath)
}

func TestRoute_UnsupportedFileType(t *testing.T) {
	h, _, _, _ := newTestHandler(&scriptedCompleter{})

	env := h.Route(context.Background(), "open this", &models.UploadedFile{Path: "/uploads/pic.png", Type: "png"})

	assert.Equal(t, models.StatusError, env.Status)
	assert.Equal(t, models.ModeError, env.Mode)
	assert.Equal(t, "Unsupported file type: png. Please upload PDF or CSV files.", env.Message)
}

func TestRoute_RecoversFromPanic(t *testing.T) {
	h, _, _, csv := newTestHandler(&scriptedCompleter{})
	csv.panicOn = true

	env := h.Route(context.Background(), "analyze", &models.UploadedFile{Path: "/uploads/d.csv", Type: "csv"})

	assert.Equal(t, models.StatusError, env.Status)
	assert.Equal(t, models.ModeError, env.Mode)
	assert.Contains(t, env.Message, "Error processing request")
}

func TestExecuteCSVAction(t *testing.T) {
	h, _, _, csv := newTestHandler(&scriptedCompleter{})

	env := h.ExecuteCSVAction(context.Background(), "/uploads/d.csv", 3, nil)

	require.True(t, env.IsSuccess())
	assert.Equal(t, models.ModeCSVAction, env.Mode)
	assert.Equal(t, 3, csv.actionID)
}

func TestExecuteCSVAction_RecoversFromPanic(t *testing.T) {
	h, _, _, csv := newTestHandler(&scriptedCompleter{})
	csv.panicOn = true

	env := h.ExecuteCSVAction(context.Background(), "/uploads/d.csv", 1, nil)

	assert.Equal(t, models.StatusError, env.Status)
	assert.Contains(t, env.Message, "Error executing action")
}

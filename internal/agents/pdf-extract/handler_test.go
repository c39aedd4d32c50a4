package pdfextract

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkchoudhary2000/interview-agentic-flow-v1/internal/common/logger"
	"github.com/nkchoudhary2000/interview-agentic-flow-v1/internal/extract"
	"github.com/nkchoudhary2000/interview-agentic-flow-v1/internal/fileio"
	"github.com/nkchoudhary2000/interview-agentic-flow-v1/internal/llm"
	"github.com/nkchoudhary2000/interview-agentic-flow-v1/internal/models"
)

type stubCompleter struct {
	reply  string
	err    error
	prompt string
}

func (s *stubCompleter) Complete(_ context.Context, messages []llm.Message, _ llm.Params) (string, error) {
	s.prompt = messages[len(messages)-1].Content
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func newTestHandler(t *testing.T, completer llm.Completer, extractor Extractor) *Handler {
	t.Helper()
	h := NewHandler(completer, fileio.NewStore(t.TempDir(), logger.NewNoOpLogger()), logger.NewNoOpLogger())
	if extractor != nil {
		h.extract = extractor
	}
	return h
}

func TestHandler_Execute_Success(t *testing.T) {
	completer := &stubCompleter{reply: "A quarterly sales report."}
	h := newTestHandler(t, completer, func(path string) (*extract.Document, error) {
		return &extract.Document{Text: "quarterly sales went up", PageCount: 3, WordCount: 4}, nil
	})

	env := h.Execute(context.Background(), Input{Path: "/uploads/report.pdf"})

	require.True(t, env.IsSuccess())
	assert.Equal(t, models.ModePDFExtraction, env.Mode)
	require.NotNil(t, env.PDF)

	assert.Equal(t, 3, env.PDF.PageCount)
	assert.Equal(t, 4, env.PDF.WordCount)
	assert.Equal(t, "Document Summary (3 pages, 4 words): A quarterly sales report.", env.PDF.Summary)
	assert.Contains(t, env.PDF.FilePath, fileio.TextDir)
	assert.True(t, strings.HasSuffix(env.PDF.FilePath, "report.txt"))
	assert.Contains(t, completer.prompt, "quarterly sales went up")
}

func TestHandler_Execute_ExtractionFailure(t *testing.T) {
	h := newTestHandler(t, &stubCompleter{}, func(path string) (*extract.Document, error) {
		return nil, errors.New("PDF_EXTRACTION_FAILED: bad xref")
	})

	env := h.Execute(context.Background(), Input{Path: "/uploads/broken.pdf"})

	assert.Equal(t, models.StatusError, env.Status)
	assert.Equal(t, models.ModePDFExtraction, env.Mode)
	assert.Contains(t, env.Message, "Error processing PDF")
	assert.Nil(t, env.PDF)
}

func TestHandler_Execute_SummaryFallback(t *testing.T) {
	completer := &stubCompleter{err: llm.ErrCompletionTimeout}
	h := newTestHandler(t, completer, func(path string) (*extract.Document, error) {
		return &extract.Document{Text: "some text here", PageCount: 2, WordCount: 3}, nil
	})

	env := h.Execute(context.Background(), Input{Path: "/uploads/doc.pdf"})

	require.True(t, env.IsSuccess())
	assert.Equal(t, "Extracted 3 words from 2 pages.", env.PDF.Summary)
}

func TestHandler_Execute_SummarySampleBounded(t *testing.T) {
	longText := strings.TrimSpace(strings.Repeat("word ", 5000))
	completer := &stubCompleter{reply: "long doc"}
	h := newTestHandler(t, completer, func(path string) (*extract.Document, error) {
		return &extract.Document{Text: longText, PageCount: 100, WordCount: 5000}, nil
	})

	env := h.Execute(context.Background(), Input{Path: "/uploads/big.pdf"})

	require.True(t, env.IsSuccess())
	// Prompt carries at most the first 2000 words of the document.
	assert.LessOrEqual(t, len(strings.Fields(completer.prompt)), summarySampleWords+40)
}

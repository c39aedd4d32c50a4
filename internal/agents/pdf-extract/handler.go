package pdfextract

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/nkchoudhary2000/interview-agentic-flow-v1/internal/common/logger"
	"github.com/nkchoudhary2000/interview-agentic-flow-v1/internal/extract"
	"github.com/nkchoudhary2000/interview-agentic-flow-v1/internal/fileio"
	"github.com/nkchoudhary2000/interview-agentic-flow-v1/internal/llm"
	"github.com/nkchoudhary2000/interview-agentic-flow-v1/internal/models"
)

// Input is one document extraction request.
type Input struct {
	Path string `json:"path"`
}

// Extractor pulls plain text out of a PDF file.
type Extractor func(path string) (*extract.Document, error)

// Handler runs the document extraction pipeline: extract, persist the raw
// text, summarize.
type Handler struct {
	completer llm.Completer
	store     *fileio.Store
	extract   Extractor
	logger    logger.Logger
}

func NewHandler(completer llm.Completer, store *fileio.Store, log logger.Logger) *Handler {
	return &Handler{
		completer: completer,
		store:     store,
		extract:   extract.ExtractPDF,
		logger:    log.With(map[string]interface{}{"pipeline": "pdf-extraction"}),
	}
}

// Execute extracts the document text, saves it as <stem>.txt, and asks the
// completion API for a short summary. A failed summary call degrades to a
// deterministic count-based line; only extraction failure is fatal.
func (h *Handler) Execute(ctx context.Context, in Input) *models.Envelope {
	doc, err := h.extract(in.Path)
	if err != nil {
		h.logger.Error("pdf extraction failed", map[string]interface{}{
			"path":  in.Path,
			"error": err.Error(),
		})
		return models.ErrorEnvelope(models.ModePDFExtraction, fmt.Sprintf("Error processing PDF: %v", err))
	}

	stem := strings.TrimSuffix(filepath.Base(in.Path), filepath.Ext(in.Path))
	savedPath, err := h.store.SaveText(stem+".txt", doc.Text)
	if err != nil {
		h.logger.Warn("extracted text not persisted", map[string]interface{}{"error": err.Error()})
		savedPath = ""
	}

	summary := h.summarize(ctx, doc)

	return &models.Envelope{
		Status:  models.StatusSuccess,
		Message: fmt.Sprintf("Extracted %d words from %d pages and saved to %s", doc.WordCount, doc.PageCount, savedPath),
		Mode:    models.ModePDFExtraction,
		PDF: &models.PDFResult{
			Text:      doc.Text,
			PageCount: doc.PageCount,
			WordCount: doc.WordCount,
			FilePath:  savedPath,
			Summary:   summary,
		},
	}
}

func (h *Handler) summarize(ctx context.Context, doc *extract.Document) string {
	words := strings.Fields(doc.Text)
	if len(words) > summarySampleWords {
		words = words[:summarySampleWords]
	}
	sample := strings.Join(words, " ")

	prompt := fmt.Sprintf(`Provide a brief 2-3 sentence summary of this document content:

%s

Focus on the main topic and purpose of the document.`, sample)

	reply, err := h.completer.Complete(ctx, []llm.Message{
		{Role: llm.RoleUser, Content: prompt},
	}, summaryParams)
	if err != nil {
		return fmt.Sprintf("Extracted %d words from %d pages.", doc.WordCount, doc.PageCount)
	}
	return fmt.Sprintf("Document Summary (%d pages, %d words): %s", doc.PageCount, doc.WordCount, reply)
}

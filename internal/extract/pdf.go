package extract

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Document is the extracted content of one PDF file.
type Document struct {
	Text      string
	PageCount int
	WordCount int
}

// ExtractPDF reads a PDF file and returns its plain text with page and
// word counts. Unreadable files surface a structured error; they never
// panic.
func ExtractPDF(path string) (*Document, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("PDF_EXTRACTION_FAILED: open %s: %w", path, err)
	}
	defer f.Close()

	pageCount := reader.NumPage()

	var builder strings.Builder
	for i := 1; i <= pageCount; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// Skip unreadable pages, keep what extracted so far.
			continue
		}
		builder.WriteString(text)
		builder.WriteString("\n")
	}

	text := strings.TrimSpace(builder.String())
	return &Document{
		Text:      text,
		PageCount: pageCount,
		WordCount: len(strings.Fields(text)),
	}, nil
}

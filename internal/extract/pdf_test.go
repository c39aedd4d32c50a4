package extract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPDF_MissingFile(t *testing.T) {
	_, err := ExtractPDF(filepath.Join(t.TempDir(), "missing.pdf"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "PDF_EXTRACTION_FAILED")
}

func TestExtractPDF_NotAPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.pdf")
	require.NoError(t, os.WriteFile(path, []byte("just plain text"), 0o644))

	_, err := ExtractPDF(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "PDF_EXTRACTION_FAILED")
}

func TestExtractPDF_TruncatedPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "truncated.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4\n1 0 obj\n"), 0o644))

	_, err := ExtractPDF(path)
	assert.Error(t, err)
}

package fileio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nkchoudhary2000/interview-agentic-flow-v1/internal/common/logger"
)

const (
	CodeDir   = "generated_code"
	TextDir   = "raw_text"
	ReportDir = "reports"
)

// Store writes pipeline artifacts under a base directory, one subdirectory
// per artifact kind. Directories are created lazily on first save.
type Store struct {
	baseDir string
	logger  logger.Logger
}

func NewStore(baseDir string, log logger.Logger) *Store {
	return &Store{
		baseDir: baseDir,
		logger:  log.With(map[string]interface{}{"component": "file-store"}),
	}
}

// BaseDir returns the root directory artifacts are written under.
func (s *Store) BaseDir() string {
	return s.baseDir
}

// SaveCode writes generated source code and returns the absolute-ish path.
func (s *Store) SaveCode(filename, content string) (string, error) {
	return s.save(CodeDir, filename, content)
}

// SaveText writes extracted document text.
func (s *Store) SaveText(filename, content string) (string, error) {
	return s.save(TextDir, filename, content)
}

// SaveReport writes a rendered analysis report.
func (s *Store) SaveReport(filename, content string) (string, error) {
	return s.save(ReportDir, filename, content)
}

// ReadFile reads an artifact or uploaded file back as a string.
func (s *Store) ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

func (s *Store) save(subdir, filename, content string) (string, error) {
	dir := filepath.Join(s.baseDir, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, SanitizeFilename(filename))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}

	s.logger.Info("file saved", map[string]interface{}{
		"path":  path,
		"bytes": len(content),
	})
	return path, nil
}

// SanitizeFilename replaces characters that are unsafe in filenames with
// underscores, caps the length at 200, and falls back to a timestamped
// name when nothing is left.
func SanitizeFilename(name string) string {
	cleaned := strings.TrimSpace(name)
	for _, ch := range `<>:"/\|?*` {
		cleaned = strings.ReplaceAll(cleaned, string(ch), "_")
	}
	if len(cleaned) > 200 {
		cleaned = cleaned[:200]
	}
	if cleaned == "" {
		cleaned = fmt.Sprintf("file_%s", time.Now().Format("20060102_150405"))
	}
	return cleaned
}

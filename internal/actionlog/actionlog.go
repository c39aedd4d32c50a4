package actionlog

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/nkchoudhary2000/interview-agentic-flow-v1/internal/common/logger"
)

// Sink appends CSV action audit lines to a daily log file, one file per
// calendar day. Writes never fail the caller: a sink that cannot open or
// write its file logs the problem and drops the line.
type Sink struct {
	dir    string
	logger logger.Logger

	mu   sync.Mutex
	path string
	file *os.File
}

func NewSink(dir string, log logger.Logger) *Sink {
	return &Sink{
		dir:    dir,
		logger: log.With(map[string]interface{}{"component": "action-log"}),
	}
}

// FilePath returns the path of today's log file, whether or not it has
// been written to yet.
func (s *Sink) FilePath() string {
	return filepath.Join(s.dir, fmt.Sprintf("csv_actions_%s.log", time.Now().Format("2006-01-02")))
}

// ActionStart records that an action was selected for execution.
func (s *Sink) ActionStart(actionID int, name, file string) {
	s.write(fmt.Sprintf("ACTION_START id=%d action=%q file=%q", actionID, name, file))
	s.logger.Info("csv action started", map[string]interface{}{
		"action_id": actionID,
		"action":    name,
		"file":      file,
	})
}

// ActionResult records the outcome of an executed action.
func (s *Sink) ActionResult(actionID int, status, summary string) {
	s.write(fmt.Sprintf("ACTION_RESULT id=%d status=%s summary=%q", actionID, status, summary))
	s.logger.Info("csv action finished", map[string]interface{}{
		"action_id": actionID,
		"status":    status,
	})
}

// Info records a free-form informational line.
func (s *Sink) Info(message string) {
	s.write("INFO " + message)
	s.logger.Info(message, nil)
}

// Error records a free-form error line.
func (s *Sink) Error(message string) {
	s.write("ERROR " + message)
	s.logger.Error(message, nil)
}

// Close releases the current log file, if open.
func (s *Sink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file != nil {
		s.file.Close()
		s.file = nil
		s.path = ""
	}
}

func (s *Sink) write(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.FilePath()
	if s.file == nil || s.path != path {
		if s.file != nil {
			s.file.Close()
			s.file = nil
		}
		if err := os.MkdirAll(s.dir, 0o755); err != nil {
			s.logger.Error("action log directory unavailable", map[string]interface{}{"error": err.Error()})
			return
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			s.logger.Error("action log file unavailable", map[string]interface{}{"error": err.Error()})
			return
		}
		s.file = f
		s.path = path
	}

	stamp := time.Now().Format("2006-01-02 15:04:05")
	if _, err := fmt.Fprintf(s.file, "[%s] %s\n", stamp, line); err != nil {
		s.logger.Error("action log write failed", map[string]interface{}{"error": err.Error()})
	}
}

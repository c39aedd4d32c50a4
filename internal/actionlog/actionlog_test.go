package actionlog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkchoudhary2000/interview-agentic-flow-v1/internal/common/logger"
)

func TestSink_FilePath(t *testing.T) {
	sink := NewSink("/var/log/chat", logger.NewNoOpLogger())

	want := filepath.Join("/var/log/chat", "csv_actions_"+time.Now().Format("2006-01-02")+".log")
	assert.Equal(t, want, sink.FilePath())
}

func TestSink_AppendsLines(t *testing.T) {
	dir := t.TempDir()
	sink := NewSink(dir, logger.NewNoOpLogger())
	defer sink.Close()

	sink.ActionStart(1, "View Statistics", "sales.csv")
	sink.ActionResult(1, "success", "6 rows profiled")
	sink.Info("analysis cached")
	sink.Error("redis unavailable")

	data, err := os.ReadFile(sink.FilePath())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], `ACTION_START id=1 action="View Statistics" file="sales.csv"`)
	assert.Contains(t, lines[1], "ACTION_RESULT id=1 status=success")
	assert.Contains(t, lines[2], "INFO analysis cached")
	assert.Contains(t, lines[3], "ERROR redis unavailable")
}

func TestSink_UnwritableDirNeverFails(t *testing.T) {
	sink := NewSink(filepath.Join(string(os.PathSeparator), "proc", "no-such-dir"), logger.NewNoOpLogger())
	defer sink.Close()

	// Must not panic or surface an error to the caller.
	sink.ActionStart(2, "Check Data Quality", "a.csv")
	sink.ActionResult(2, "error", "failed")
}

func TestSink_ConcurrentWrites(t *testing.T) {
	dir := t.TempDir()
	sink := NewSink(dir, logger.NewNoOpLogger())
	defer sink.Close()

	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		go func(id int) {
			defer func() { done <- struct{}{} }()
			sink.ActionStart(id, "View Statistics", "sales.csv")
		}(i)
	}
	for i := 0; i < 10; i++ {
		<-done
	}

	data, err := os.ReadFile(sink.FilePath())
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(string(data)), "\n"), 10)
}

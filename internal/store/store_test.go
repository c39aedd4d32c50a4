package store

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkchoudhary2000/interview-agentic-flow-v1/internal/common/logger"
	"github.com/nkchoudhary2000/interview-agentic-flow-v1/internal/models"
)

func newTestStore(t *testing.T) (*ConversationStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewConversationStore(db, logger.NewNoOpLogger()), mock
}

func TestCreateSession(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectExec("INSERT INTO chat_sessions").
		WithArgs(sqlmock.AnyArg(), "Data questions", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	session, err := store.CreateSession(context.Background(), "Data questions")
	require.NoError(t, err)
	assert.NotEmpty(t, session.ID)
	assert.Equal(t, "Data questions", session.Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetSession(t *testing.T) {
	store, mock := newTestStore(t)
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT id, title, created_at, updated_at FROM chat_sessions").
		WithArgs("abc").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "created_at", "updated_at"}).
			AddRow("abc", "First chat", now, now))

	session, err := store.GetSession(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", session.ID)
	assert.Equal(t, "First chat", session.Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetSession_NotFound(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectQuery("SELECT id, title, created_at, updated_at FROM chat_sessions").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "created_at", "updated_at"}))

	_, err := store.GetSession(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSaveMessage(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectExec("INSERT INTO chat_messages").
		WithArgs(sqlmock.AnyArg(), "sess-1", models.RoleAssistant, "done", "code_generation", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	msg := &models.ChatMessage{
		SessionID: "sess-1",
		Role:      models.RoleAssistant,
		Content:   "done",
		Mode:      models.ModeCodeGeneration,
		Metadata:  map[string]interface{}{"status": "success"},
	}
	require.NoError(t, store.SaveMessage(context.Background(), msg))
	assert.NotEmpty(t, msg.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListMessages(t *testing.T) {
	store, mock := newTestStore(t)
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT id, session_id, role, content, mode, metadata, created_at").
		WithArgs("sess-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "session_id", "role", "content", "mode", "metadata", "created_at"}).
			AddRow("m1", "sess-1", "user", "hi", "general_chat", []byte(`{}`), now).
			AddRow("m2", "sess-1", "assistant", "hello", "general_chat", []byte(`{"status":"success"}`), now))

	messages, err := store.ListMessages(context.Background(), "sess-1")
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "hi", messages[0].Content)
	assert.Equal(t, models.ModeGeneralChat, messages[1].Mode)
	assert.Equal(t, "success", messages[1].Metadata["status"])
}

func TestSaveUpload(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectExec("INSERT INTO uploaded_files").
		WithArgs(sqlmock.AnyArg(), "sess-1", nil, "/uploads/d.csv", "csv", "data.csv", "processed", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec := &models.UploadedFileRecord{
		SessionID:        "sess-1",
		Path:             "/uploads/d.csv",
		FileType:         "csv",
		OriginalFilename: "data.csv",
		Status:           "processed",
	}
	require.NoError(t, store.SaveUpload(context.Background(), rec))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveExecution(t *testing.T) {
	store, mock := newTestStore(t)

	mock.ExpectExec("INSERT INTO agent_executions").
		WithArgs(sqlmock.AnyArg(), "sess-1", nil, "csv_analysis", sqlmock.AnyArg(), sqlmock.AnyArg(), 120, true, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	exec := &models.AgentExecution{
		SessionID:       "sess-1",
		AgentType:       "csv_analysis",
		InputData:       map[string]interface{}{"path": "/uploads/d.csv"},
		OutputData:      map[string]interface{}{"status": "success"},
		ExecutionTimeMS: 120,
		Success:         true,
	}
	require.NoError(t, store.SaveExecution(context.Background(), exec))
	assert.NoError(t, mock.ExpectationsWereMet())
}

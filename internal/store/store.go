package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nkchoudhary2000/interview-agentic-flow-v1/internal/common/logger"
	"github.com/nkchoudhary2000/interview-agentic-flow-v1/internal/models"
)

// ErrSessionNotFound is returned when a session ID has no row.
var ErrSessionNotFound = fmt.Errorf("SESSION_NOT_FOUND")

// ConversationStore persists sessions, messages, uploads, and pipeline
// execution audit records in Postgres.
type ConversationStore struct {
	db     *sql.DB
	logger logger.Logger
}

func NewConversationStore(db *sql.DB, log logger.Logger) *ConversationStore {
	return &ConversationStore{
		db:     db,
		logger: log.With(map[string]interface{}{"component": "conversation-store"}),
	}
}

// CreateSession inserts a new chat session and returns it.
func (s *ConversationStore) CreateSession(ctx context.Context, title string) (*models.ChatSession, error) {
	session := &models.ChatSession{
		ID:        uuid.NewString(),
		Title:     title,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO chat_sessions (id, title, created_at, updated_at) VALUES ($1, $2, $3, $4)`,
		session.ID, session.Title, session.CreatedAt, session.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return session, nil
}

// GetSession loads one session by ID.
func (s *ConversationStore) GetSession(ctx context.Context, id string) (*models.ChatSession, error) {
	var session models.ChatSession
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, created_at, updated_at FROM chat_sessions WHERE id = $1`, id,
	).Scan(&session.ID, &session.Title, &session.CreatedAt, &session.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &session, nil
}

// TouchSession bumps a session's updated_at to now.
func (s *ConversationStore) TouchSession(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE chat_sessions SET updated_at = $1 WHERE id = $2`, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("touch session: %w", err)
	}
	return nil
}

// SaveMessage inserts one conversation turn. The envelope metadata is
// stored as JSONB verbatim.
func (s *ConversationStore) SaveMessage(ctx context.Context, msg *models.ChatMessage) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}

	metadata, err := json.Marshal(msg.Metadata)
	if err != nil {
		return fmt.Errorf("encode message metadata: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO chat_messages (id, session_id, role, content, mode, metadata, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		msg.ID, msg.SessionID, msg.Role, msg.Content, string(msg.Mode), metadata, msg.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("save message: %w", err)
	}
	return nil
}

// ListMessages returns a session's messages oldest first.
func (s *ConversationStore) ListMessages(ctx context.Context, sessionID string) ([]*models.ChatMessage, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, role, content, mode, metadata, created_at
		 FROM chat_messages WHERE session_id = $1 ORDER BY created_at ASC`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var messages []*models.ChatMessage
	for rows.Next() {
		var msg models.ChatMessage
		var mode string
		var metadata []byte
		if err := rows.Scan(&msg.ID, &msg.SessionID, &msg.Role, &msg.Content, &mode, &metadata, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		msg.Mode = models.Mode(mode)
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &msg.Metadata); err != nil {
				s.logger.Warn("message metadata unreadable", map[string]interface{}{"message_id": msg.ID})
			}
		}
		messages = append(messages, &msg)
	}
	return messages, rows.Err()
}

// SaveUpload inserts an uploaded-file record.
func (s *ConversationStore) SaveUpload(ctx context.Context, rec *models.UploadedFileRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO uploaded_files (id, session_id, message_id, path, file_type, original_filename, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rec.ID, rec.SessionID, nullable(rec.MessageID), rec.Path, rec.FileType, rec.OriginalFilename, rec.Status, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("save upload: %w", err)
	}
	return nil
}

// SaveExecution inserts one pipeline execution audit record.
func (s *ConversationStore) SaveExecution(ctx context.Context, exec *models.AgentExecution) error {
	if exec.ID == "" {
		exec.ID = uuid.NewString()
	}
	if exec.CreatedAt.IsZero() {
		exec.CreatedAt = time.Now().UTC()
	}

	input, err := json.Marshal(exec.InputData)
	if err != nil {
		return fmt.Errorf("encode execution input: %w", err)
	}
	output, err := json.Marshal(exec.OutputData)
	if err != nil {
		return fmt.Errorf("encode execution output: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO agent_executions (id, session_id, message_id, agent_type, input_data, output_data, execution_time_ms, success, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		exec.ID, exec.SessionID, nullable(exec.MessageID), exec.AgentType, input, output, exec.ExecutionTimeMS, exec.Success, exec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("save execution: %w", err)
	}
	return nil
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

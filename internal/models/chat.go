package models

import "time"

// ChatSession groups a conversation's messages and uploads.
type ChatSession struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ChatMessage is one turn in a conversation. Metadata holds the raw
// Envelope the producing pipeline returned, persisted verbatim.
type ChatMessage struct {
	ID        string                 `json:"id"`
	SessionID string                 `json:"session_id"`
	Role      string                 `json:"role"`
	Content   string                 `json:"content"`
	Mode      Mode                   `json:"mode"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// UploadedFileRecord is the persisted record of an upload.
type UploadedFileRecord struct {
	ID               string    `json:"id"`
	SessionID        string    `json:"session_id"`
	MessageID        string    `json:"message_id,omitempty"`
	Path             string    `json:"path"`
	FileType         string    `json:"file_type"`
	OriginalFilename string    `json:"original_filename"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
}

// AgentExecution is an audit record of one router invocation.
type AgentExecution struct {
	ID              string                 `json:"id"`
	SessionID       string                 `json:"session_id"`
	MessageID       string                 `json:"message_id,omitempty"`
	AgentType       string                 `json:"agent_type"`
	InputData       map[string]interface{} `json:"input_data,omitempty"`
	OutputData      map[string]interface{} `json:"output_data,omitempty"`
	ExecutionTimeMS int                    `json:"execution_time_ms"`
	Success         bool                   `json:"success"`
	CreatedAt       time.Time              `json:"created_at"`
}

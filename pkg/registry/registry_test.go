package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRegistry = `{
  "pipelines": [
    {
      "id": "chat-message",
      "display_name": "Chat Message",
      "mode": "general_chat",
      "input_schema": {
        "type": "object",
        "required": ["session_id", "message"],
        "properties": {
          "session_id": {"type": "string"},
          "message": {"type": "string", "minLength": 1}
        }
      },
      "error_codes": ["COMPLETION_FAILED", "COMPLETION_TIMEOUT"]
    },
    {
      "id": "csv-action",
      "display_name": "CSV Action",
      "mode": "csv_action",
      "input_schema": {
        "type": "object",
        "required": ["session_id", "action_id"],
        "properties": {
          "session_id": {"type": "string"},
          "action_id": {"type": "integer", "minimum": 0}
        }
      },
      "error_codes": ["CSV_PARSE_FAILED"]
    }
  ]
}`

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleRegistry), 0o644))

	r, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"chat-message", "csv-action"}, r.IDs())

	p, ok := r.Get("chat-message")
	require.True(t, ok)
	assert.Equal(t, "general_chat", p.Mode)
	assert.Contains(t, p.ErrorCodes, "COMPLETION_TIMEOUT")

	_, ok = r.Get("unknown")
	assert.False(t, ok)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"invalid json", `{"pipelines": [`},
		{"missing id", `{"pipelines": [{"display_name": "x"}]}`},
		{"duplicate id", `{"pipelines": [{"id": "a"}, {"id": "a"}]}`},
		{"bad schema", `{"pipelines": [{"id": "a", "input_schema": {"type": 12}}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestPipeline_ValidateInput(t *testing.T) {
	r, err := Parse([]byte(sampleRegistry))
	require.NoError(t, err)

	p, _ := r.Get("csv-action")

	assert.NoError(t, p.ValidateInput([]byte(`{"session_id": "s1", "action_id": 3}`)))

	err = p.ValidateInput([]byte(`{"session_id": "s1"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "VALIDATION_FAILED")

	assert.Error(t, p.ValidateInput([]byte(`{"session_id": "s1", "action_id": "three"}`)))
}

func TestPipeline_ValidateInput_NoSchema(t *testing.T) {
	r, err := Parse([]byte(`{"pipelines": [{"id": "open"}]}`))
	require.NoError(t, err)

	p, _ := r.Get("open")
	assert.NoError(t, p.ValidateInput([]byte(`anything`)))
}

package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkchoudhary2000/interview-agentic-flow-v1/internal/common/logger"
)

func completionServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	return httptest.NewServer(handler)
}

func testClient(baseURL string, timeout time.Duration, retries int) *Client {
	return NewClient(&Config{
		BaseURL:    baseURL,
		APIKey:     "test-key",
		Model:      "llama-3.3-70b-versatile",
		Timeout:    timeout,
		MaxRetries: retries,
	}, logger.NewNoOpLogger())
}

func TestClient_Complete_Success(t *testing.T) {
	server := completionServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/openai/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama-3.3-70b-versatile", req.Model)
		assert.Equal(t, 0.3, req.Temperature)
		assert.Equal(t, 150, req.MaxTokens)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "  hello there  "}},
			},
		})
	})
	defer server.Close()

	client := testClient(server.URL, 5*time.Second, 0)
	text, err := client.Complete(context.Background(), []Message{
		{Role: RoleSystem, Content: "You are a helpful assistant."},
		{Role: RoleUser, Content: "hi"},
	}, Params{Temperature: 0.3, MaxTokens: 150})

	require.NoError(t, err)
	assert.Equal(t, "hello there", text)
}

func TestClient_Complete_RetriesOnServerError(t *testing.T) {
	attempts := 0
	server := completionServer(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "recovered"}},
			},
		})
	})
	defer server.Close()

	client := testClient(server.URL, 5*time.Second, 3)
	text, err := client.Complete(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}, Params{})

	require.NoError(t, err)
	assert.Equal(t, "recovered", text)
	assert.Equal(t, 3, attempts)
}

func TestClient_Complete_ExhaustsRetries(t *testing.T) {
	server := completionServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	defer server.Close()

	client := testClient(server.URL, 5*time.Second, 2)
	_, err := client.Complete(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}, Params{})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCompletionFailed)
}

func TestClient_Complete_Timeout(t *testing.T) {
	server := completionServer(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	})
	defer server.Close()

	client := testClient(server.URL, 50*time.Millisecond, 0)
	_, err := client.Complete(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}, Params{})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCompletionTimeout)
}

func TestClient_Complete_EmptyChoices(t *testing.T) {
	server := completionServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"choices": []interface{}{}})
	})
	defer server.Close()

	client := testClient(server.URL, 5*time.Second, 0)
	_, err := client.Complete(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}, Params{})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCompletionFailed)
}

package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/nkchoudhary2000/interview-agentic-flow-v1/internal/common/logger"
	"github.com/nkchoudhary2000/interview-agentic-flow-v1/internal/common/metrics"
)

var (
	ErrCompletionFailed  = errors.New("COMPLETION_FAILED")
	ErrCompletionTimeout = errors.New("COMPLETION_TIMEOUT")
)

// Message is one role-tagged entry in a completion request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Params are per-call sampling parameters.
type Params struct {
	Temperature float64
	MaxTokens   int
}

// Completer is the completion capability consumed by every pipeline.
type Completer interface {
	Complete(ctx context.Context, messages []Message, params Params) (string, error)
}

// Config holds the settings for the hosted completion API.
type Config struct {
	BaseURL    string
	APIKey     string
	Model      string
	Timeout    time.Duration
	MaxRetries int
}

// Client calls a Groq-compatible chat-completions endpoint.
type Client struct {
	config *Config
	client *http.Client
	logger logger.Logger
}

func NewClient(config *Config, log logger.Logger) *Client {
	return &Client{
		config: config,
		client: &http.Client{
			// Rely on per-call context deadlines, not a client timeout.
		},
		logger: log.With(map[string]interface{}{
			"component": "completion-client",
			"model":     config.Model,
		}),
	}
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends one chat-completion request and returns the trimmed text
// of the first choice. Transient failures are retried with exponential
// backoff up to the configured limit; context expiry maps to
// ErrCompletionTimeout.
func (c *Client) Complete(ctx context.Context, messages []Message, params Params) (string, error) {
	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	requestBody := chatRequest{
		Model:       c.config.Model,
		Messages:    messages,
		Temperature: params.Temperature,
		MaxTokens:   params.MaxTokens,
	}

	body, _ := json.Marshal(requestBody)

	started := time.Now()
	text, err := c.doWithRetries(ctx, body)
	metrics.CompletionDuration.Observe(time.Since(started).Seconds())
	if err != nil {
		metrics.CompletionCalls.WithLabelValues("error").Inc()
		return "", err
	}
	metrics.CompletionCalls.WithLabelValues("success").Inc()
	return text, nil
}

func (c *Client) doWithRetries(ctx context.Context, body []byte) (string, error) {
	var resp *http.Response
	var lastErr error

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			// Apply exponential backoff for retries
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return "", ErrCompletionTimeout
			}
		}

		req, err := http.NewRequestWithContext(ctx, "POST", c.config.BaseURL+"/openai/v1/chat/completions", bytes.NewReader(body))
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrCompletionFailed, err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

		resp, lastErr = c.client.Do(req)

		// If the context expired during the request, report timeout immediately.
		if ctx.Err() != nil ||
			errors.Is(lastErr, context.DeadlineExceeded) ||
			errors.Is(lastErr, context.Canceled) {
			return "", ErrCompletionTimeout
		}

		if lastErr == nil {
			if resp.StatusCode == http.StatusOK {
				break
			}
			resp.Body.Close()
			lastErr = fmt.Errorf("status %d", resp.StatusCode)
			resp = nil
		}
	}

	if lastErr != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", ErrCompletionTimeout
		}
		return "", fmt.Errorf("%w: %v", ErrCompletionFailed, lastErr)
	}

	if resp == nil {
		return "", fmt.Errorf("%w: no successful response after retries", ErrCompletionFailed)
	}
	defer resp.Body.Close()

	var apiResponse chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return "", fmt.Errorf("%w: decode error: %v", ErrCompletionFailed, err)
	}

	if len(apiResponse.Choices) == 0 {
		return "", fmt.Errorf("%w: empty choices", ErrCompletionFailed)
	}

	text := strings.TrimSpace(apiResponse.Choices[0].Message.Content)

	c.logger.Debug("completion returned", map[string]interface{}{
		"chars": len(text),
	})

	return text, nil
}

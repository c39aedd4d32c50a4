package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nkchoudhary2000/interview-agentic-flow-v1/internal/common/logger"
	"github.com/nkchoudhary2000/interview-agentic-flow-v1/internal/models"
)

// AnalysisCache keeps each session's most recent CSV analysis in Redis so
// a follow-up action selection can find the file path and suggestion list
// without replaying the analysis. Entries expire after the configured TTL.
type AnalysisCache struct {
	client *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewAnalysisCache(client *redis.Client, ttl time.Duration, log logger.Logger) *AnalysisCache {
	return &AnalysisCache{
		client: client,
		ttl:    ttl,
		logger: log.With(map[string]interface{}{"component": "analysis-cache"}),
	}
}

func key(sessionID string) string {
	return "analysis:" + sessionID
}

// Put stores the analysis for a session, replacing any previous entry.
func (c *AnalysisCache) Put(ctx context.Context, sessionID string, analysis *models.CSVAnalysis) error {
	data, err := json.Marshal(analysis)
	if err != nil {
		return fmt.Errorf("encode analysis: %w", err)
	}
	if err := c.client.Set(ctx, key(sessionID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache analysis: %w", err)
	}
	return nil
}

// Get loads the cached analysis for a session. A missing or expired entry
// returns (nil, nil).
func (c *AnalysisCache) Get(ctx context.Context, sessionID string) (*models.CSVAnalysis, error) {
	data, err := c.client.Get(ctx, key(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load analysis: %w", err)
	}

	var analysis models.CSVAnalysis
	if err := json.Unmarshal(data, &analysis); err != nil {
		c.logger.Warn("cached analysis unreadable, dropping", map[string]interface{}{"session_id": sessionID})
		c.client.Del(ctx, key(sessionID))
		return nil, nil
	}
	return &analysis, nil
}

// Invalidate removes a session's cached analysis.
func (c *AnalysisCache) Invalidate(ctx context.Context, sessionID string) error {
	return c.client.Del(ctx, key(sessionID)).Err()
}

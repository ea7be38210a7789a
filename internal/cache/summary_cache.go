package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/tallybook/tallybook-backend/internal/domain"
)

// summaryTTL bounds staleness if an invalidation is ever missed
const summaryTTL = 5 * time.Minute

// SummaryCache caches computed financial summaries in Redis.
// All methods degrade gracefully: a cache failure is logged and
// treated as a miss so the caller falls back to recomputing.
type SummaryCache struct {
	client *redis.Client
}

// NewSummaryCache creates a summary cache backed by the given Redis client
func NewSummaryCache(client *redis.Client) *SummaryCache {
	return &SummaryCache{client: client}
}

func summaryKey(userID string) string {
	return fmt.Sprintf("summary:%s", userID)
}

// Get returns the cached summary for a user, or (nil, false) on a miss
func (c *SummaryCache) Get(userID string) (*domain.FinancialSummary, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	data, err := c.client.Get(ctx, summaryKey(userID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Str("user_id", userID).Msg("summary cache read failed")
		}
		return nil, false
	}

	var summary domain.FinancialSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("summary cache entry corrupt")
		return nil, false
	}
	return &summary, true
}

// Set stores a freshly computed summary for a user
func (c *SummaryCache) Set(userID string, summary *domain.FinancialSummary) {
	data, err := json.Marshal(summary)
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("summary cache marshal failed")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := c.client.Set(ctx, summaryKey(userID), data, summaryTTL).Err(); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("summary cache write failed")
	}
}

// Invalidate drops the cached summary for a user after a mutation
func (c *SummaryCache) Invalidate(userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := c.client.Del(ctx, summaryKey(userID)).Err(); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("summary cache invalidation failed")
	}
}

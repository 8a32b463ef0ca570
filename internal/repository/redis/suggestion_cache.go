package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"lion-connect-backend/internal/domain"
	"lion-connect-backend/pkg/logger"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	suggestionKeyPrefix     = "lc:match:suggestions:"
	suggestionGenerationKey = "lc:match:suggestions:gen"
)

type suggestionCache struct {
	client *goredis.Client
	ttl    time.Duration
}

// NewSuggestionCache stores suggestion lists as JSON with a short TTL, keyed by
// generation. Backend errors are logged and treated as misses.
func NewSuggestionCache(client *goredis.Client, ttl time.Duration) domain.SuggestionCache {
	return &suggestionCache{client: client, ttl: ttl}
}

func suggestionKey(gen, userID int64) string {
	return suggestionKeyPrefix + strconv.FormatInt(gen, 10) + ":" + strconv.FormatInt(userID, 10)
}

func (c *suggestionCache) Generation(ctx context.Context) (int64, bool) {
	gen, err := c.client.Get(ctx, suggestionGenerationKey).Int64()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return 0, true
		}
		logger.Log.Warn("suggestion cache generation read failed", zap.Error(err))
		return 0, false
	}
	return gen, true
}

func (c *suggestionCache) Get(ctx context.Context, gen, userID int64) ([]domain.Suggestion, bool) {
	raw, err := c.client.Get(ctx, suggestionKey(gen, userID)).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			logger.Log.Warn("suggestion cache read failed", zap.Int64("user_id", userID), zap.Error(err))
		}
		return nil, false
	}

	var suggestions []domain.Suggestion
	if err := json.Unmarshal(raw, &suggestions); err != nil {
		logger.Log.Warn("suggestion cache entry corrupt", zap.Int64("user_id", userID), zap.Error(err))
		return nil, false
	}
	return suggestions, true
}

func (c *suggestionCache) Set(ctx context.Context, gen, userID int64, suggestions []domain.Suggestion) {
	raw, err := json.Marshal(suggestions)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, suggestionKey(gen, userID), raw, c.ttl).Err(); err != nil {
		logger.Log.Warn("suggestion cache write failed", zap.Int64("user_id", userID), zap.Error(err))
	}
}

// Invalidate bumps the generation; entries of older generations expire on their own.
func (c *suggestionCache) Invalidate(ctx context.Context) {
	if err := c.client.Incr(ctx, suggestionGenerationKey).Err(); err != nil {
		logger.Log.Error("suggestion cache invalidation failed", zap.Error(err))
	}
}

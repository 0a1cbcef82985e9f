package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/dmitrijs2005/edutrack/internal/logging"
	"github.com/dmitrijs2005/edutrack/internal/server/models"
	"github.com/redis/go-redis/v9"
)

const exerciseKeyPrefix = "exercise:"

// CacheClient is the subset of *redis.Client used by the cache.
type CacheClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// CachedRepository reads exercises through Redis. Cache failures are logged
// and fall through to the wrapped repository; they never fail a lookup.
type CachedRepository struct {
	next   Repository
	client CacheClient
	ttl    time.Duration
	logger logging.Logger
}

func NewCachedRepository(next Repository, client CacheClient, ttl time.Duration, logger logging.Logger) *CachedRepository {
	if logger == nil {
		logger = logging.Nop{}
	}
	return &CachedRepository{next: next, client: client, ttl: ttl, logger: logger}
}

func exerciseKey(id int64) string {
	return exerciseKeyPrefix + strconv.FormatInt(id, 10)
}

func (r *CachedRepository) GetExercise(ctx context.Context, id int64) (*models.Exercise, error) {
	key := exerciseKey(id)

	raw, err := r.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		e := &models.Exercise{}
		if err := json.Unmarshal(raw, e); err == nil {
			return e, nil
		}
		r.logger.Warn(ctx, "discarding undecodable cache entry", "key", key)
	case !errors.Is(err, redis.Nil):
		r.logger.Warn(ctx, "cache read failed", "key", key, "error", err)
	}

	e, err := r.next.GetExercise(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(e); err == nil {
		if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
			r.logger.Warn(ctx, "cache write failed", "key", key, "error", err)
		}
	}

	return e, nil
}

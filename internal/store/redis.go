package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/dishalabs/disha-gateway/internal/model"
)

// NewRedisClient creates and validates a Redis client connection.
func NewRedisClient(ctx context.Context, redisURL string, log zerolog.Logger) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	log.Info().
		Str("addr", opt.Addr).
		Int("db", opt.DB).
		Msg("Redis connected")

	return rdb, nil
}

// resultCacheTTL bounds how long a terminal payload survives a restart.
// Result sessions are ephemeral; this is a cache, not a record store.
const resultCacheTTL = 24 * time.Hour

// RedisCache stores terminal result sessions in Redis so re-resolving a
// session id after a gateway restart still yields the same payload.
type RedisCache struct {
	rdb *redis.Client
	log zerolog.Logger
}

// NewRedisCache creates a Redis-backed terminal-result cache.
func NewRedisCache(rdb *redis.Client, log zerolog.Logger) *RedisCache {
	return &RedisCache{
		rdb: rdb,
		log: log.With().Str("component", "redis_cache").Logger(),
	}
}

func resultKey(sessionID string) string {
	return fmt.Sprintf("result:%s:terminal", sessionID)
}

// Get returns the cached terminal session for an id. Redis errors are
// logged and treated as cache misses.
func (c *RedisCache) Get(ctx context.Context, sessionID string) (*model.ResultSession, bool) {
	raw, err := c.rdb.Get(ctx, resultKey(sessionID)).Result()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn().Err(err).Str("session_id", sessionID).Msg("Cache read failed")
		}
		return nil, false
	}

	var session model.ResultSession
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		c.log.Warn().Err(err).Str("session_id", sessionID).Msg("Cache entry malformed")
		return nil, false
	}
	return &session, true
}

// Put stores a terminal session snapshot with a TTL.
func (c *RedisCache) Put(ctx context.Context, session model.ResultSession) {
	buf, err := json.Marshal(session)
	if err != nil {
		c.log.Warn().Err(err).Msg("Cache marshal failed")
		return
	}
	if err := c.rdb.Set(ctx, resultKey(session.SessionID), buf, resultCacheTTL).Err(); err != nil {
		c.log.Warn().Err(err).Str("session_id", session.SessionID).Msg("Cache write failed")
	}
}

package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"provider-locator-service/internal/ports"
)

// RedisCounterStore implements the fixed-window counter on Redis.
//
// The window lives as a single key whose TTL marks the window end: INCR is
// atomic under concurrent callers, EXPIRE NX stamps the window start only
// once, and key expiry performs the lazy reset.
type RedisCounterStore struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisCounterStore(rdb *redis.Client) *RedisCounterStore {
	return &RedisCounterStore{rdb: rdb, prefix: "ratelimit"}
}

func (s *RedisCounterStore) key(identifier, endpoint string) string {
	return fmt.Sprintf("%s:%s:%s", s.prefix, identifier, endpoint)
}

func (s *RedisCounterStore) Increment(
	ctx context.Context,
	identifier, endpoint string,
	window time.Duration,
) (ports.WindowCount, error) {
	if s.rdb == nil {
		return ports.WindowCount{}, errors.New("redis counter store: client is nil")
	}

	key := s.key(identifier, endpoint)

	pipe := s.rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	ttl := pipe.PTTL(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return ports.WindowCount{}, fmt.Errorf("redis counter store: increment %q: %w", key, err)
	}

	resetIn := ttl.Val()
	if resetIn < 0 {
		resetIn = window
	}

	return ports.WindowCount{Count: incr.Val(), ResetIn: resetIn}, nil
}

// Package dedup remembers which notifications were already sent, so a
// redelivered event does not mail the user twice.
package dedup

import (
	"context"
	"time"

	"github.com/zeromicro/go-zero/core/stores/redis"
)

const keyPrefix = "notification:sent:"

type Store interface {
	// Claim records key and reports whether this caller is the first to do so.
	Claim(ctx context.Context, key string) (bool, error)
	// Release forgets key, so a later delivery can claim it again.
	Release(ctx context.Context, key string) error
}

type RedisStore struct {
	rds *redis.Redis
	ttl time.Duration
}

func NewRedisStore(rds *redis.Redis, ttl time.Duration) *RedisStore {
	return &RedisStore{rds: rds, ttl: ttl}
}

func (s *RedisStore) Claim(ctx context.Context, key string) (bool, error) {
	return s.rds.SetnxExCtx(ctx, keyPrefix+key, time.Now().UTC().Format(time.RFC3339), int(s.ttl/time.Second))
}

func (s *RedisStore) Release(ctx context.Context, key string) error {
	_, err := s.rds.DelCtx(ctx, keyPrefix+key)
	return err
}

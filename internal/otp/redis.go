package otp

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const keyPrefix = "otp:"

// consumeScript deletes the key only if it still holds the submitted code,
// so two concurrent verifications cannot both win.
var consumeScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func (s *RedisStore) Put(ctx context.Context, email, code string) error {
	if err := s.rdb.Set(ctx, keyPrefix+email, code, s.ttl).Err(); err != nil {
		return fmt.Errorf("store otp: %w", err)
	}
	return nil
}

func (s *RedisStore) Consume(ctx context.Context, email, code string) (bool, error) {
	n, err := consumeScript.Run(ctx, s.rdb, []string{keyPrefix + email}, code).Int()
	if err != nil {
		return false, fmt.Errorf("consume otp: %w", err)
	}
	return n == 1, nil
}

func (s *RedisStore) Discard(ctx context.Context, email string) error {
	if err := s.rdb.Del(ctx, keyPrefix+email).Err(); err != nil {
		return fmt.Errorf("discard otp: %w", err)
	}
	return nil
}

var _ Store = (*RedisStore)(nil)

package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	RateLimitPrefix = "rate"
	LockKeyPrefix   = "lock"
)

type RateLimiter struct {
	RDB *redis.Client
}

// Hit 固定窗口计数，返回窗口内第几次请求
func (r *RateLimiter) Hit(ctx context.Context, scope, subject string, window time.Duration) (int64, error) {
	key := fmt.Sprintf("%s:%s:%s", RateLimitPrefix, scope, subject)
	n, err := r.RDB.Incr(ctx, key).Result()
	if err != nil {
		return 0, ErrRedisUnavailable
	}
	if n == 1 {
		if err := r.RDB.Expire(ctx, key, window).Err(); err != nil {
			return 0, ErrRedisUnavailable
		}
	}
	return n, nil
}

// DistLock 多实例部署时保证同一时刻只有一个实例执行任务
type DistLock struct {
	RDB *redis.Client
}

func (l *DistLock) Acquire(ctx context.Context, name, token string, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("%s:%s", LockKeyPrefix, name)
	return l.RDB.SetNX(ctx, key, token, ttl).Result()
}

// Release 用lua保证原子性
func (l *DistLock) Release(ctx context.Context, name, token string) error {
	key := fmt.Sprintf("%s:%s", LockKeyPrefix, name)
	_, err := redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
  return redis.call("del", KEYS[1])
else
  return 0
end`).Run(ctx, l.RDB, []string{key}, token).Result()
	return err
}

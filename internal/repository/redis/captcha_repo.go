package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	CaptchaPrefix = "captcha"
	CaptchaTTL    = 5 * time.Minute
)

type CaptchaRepository struct {
	RDB *redis.Client
}

func captchaKey(id string) string { return fmt.Sprintf("%s:%s", CaptchaPrefix, id) }

func (r *CaptchaRepository) Set(ctx context.Context, id, answer string) error {
	if err := r.RDB.Set(ctx, captchaKey(id), strings.ToLower(answer), CaptchaTTL).Err(); err != nil {
		return ErrRedisUnavailable
	}
	return nil
}

// Verify 取出即删除，无论比对是否成功验证码都只能用一次
func (r *CaptchaRepository) Verify(ctx context.Context, id, code string) (bool, error) {
	val, err := r.RDB.GetDel(ctx, captchaKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return false, ErrKeyNotFound
	}
	if err != nil {
		return false, ErrRedisUnavailable
	}
	return val == strings.ToLower(strings.TrimSpace(code)), nil
}

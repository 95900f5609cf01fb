package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultEmailCodeTTL = 5 * time.Minute
	EmailCodePrefix     = "email:code"
	CodeResetScope      = "reset"
)

type EmailRepository struct {
	RDB *redis.Client
}

func emailCodeKey(scope, email string) string {
	return fmt.Sprintf("%s:%s:%s", EmailCodePrefix, scope, email)
}

// consumeScript 比对成功才删除，原子执行
var consumeScript = redis.NewScript(`
local val = redis.call("GET", KEYS[1])
if not val then
  return -1
end
if val ~= ARGV[1] then
  return 0
end
redis.call("DEL", KEYS[1])
return 1
`)

func (e *EmailRepository) SetResetCode(ctx context.Context, email, code string) error {
	if err := e.RDB.Set(ctx, emailCodeKey(CodeResetScope, email), code, DefaultEmailCodeTTL).Err(); err != nil {
		return ErrRedisUnavailable
	}
	return nil
}

// ConsumeResetCode 返回 ErrKeyNotFound 表示验证码不存在或已过期
func (e *EmailRepository) ConsumeResetCode(ctx context.Context, email, code string) (bool, error) {
	res, err := consumeScript.Run(ctx, e.RDB, []string{emailCodeKey(CodeResetScope, email)}, code).Int()
	if err != nil {
		return false, ErrRedisUnavailable
	}
	switch res {
	case -1:
		return false, ErrKeyNotFound
	case 1:
		return true, nil
	}
	return false, nil
}

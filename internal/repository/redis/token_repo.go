package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	AccessTokenPrefix  = "access_token"
	RefreshTokenPrefix = "refresh_token"
	UserRolePrefix     = "user_role"
)

// Session 登录后写入缓存的令牌与角色
type Session struct {
	UserID       uint64
	AccessToken  string
	RefreshToken string
	RoleCode     string
	AccessTTL    time.Duration
	RefreshTTL   time.Duration
}

type TokenRepository struct {
	RDB *redis.Client
}

func accessKey(id uint64) string  { return fmt.Sprintf("%s:%d", AccessTokenPrefix, id) }
func refreshKey(id uint64) string { return fmt.Sprintf("%s:%d", RefreshTokenPrefix, id) }
func roleKey(id uint64) string    { return fmt.Sprintf("%s:%d", UserRolePrefix, id) }

// Save 三个键在一个 pipeline 中写入，覆盖旧会话
func (r *TokenRepository) Save(ctx context.Context, s Session) error {
	_, err := r.RDB.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, accessKey(s.UserID), s.AccessToken, s.AccessTTL)
		p.Set(ctx, refreshKey(s.UserID), s.RefreshToken, s.RefreshTTL)
		p.Set(ctx, roleKey(s.UserID), s.RoleCode, s.AccessTTL)
		return nil
	})
	if err != nil {
		return ErrRedisUnavailable
	}
	return nil
}

func (r *TokenRepository) AccessToken(ctx context.Context, userID uint64) (string, error) {
	return getString(ctx, r.RDB, accessKey(userID))
}

func (r *TokenRepository) RefreshToken(ctx context.Context, userID uint64) (string, error) {
	return getString(ctx, r.RDB, refreshKey(userID))
}

func (r *TokenRepository) RoleCode(ctx context.Context, userID uint64) (string, error) {
	return getString(ctx, r.RDB, roleKey(userID))
}

// SetRoleCode 角色变更后刷新缓存，仅在会话存在时写入
func (r *TokenRepository) SetRoleCode(ctx context.Context, userID uint64, code string) error {
	ttl, err := r.RDB.TTL(ctx, accessKey(userID)).Result()
	if err != nil {
		return ErrRedisUnavailable
	}
	if ttl <= 0 {
		return nil
	}
	if err := r.RDB.Set(ctx, roleKey(userID), code, ttl).Err(); err != nil {
		return ErrRedisUnavailable
	}
	return nil
}

// Revoke 删除会话（幂等）
func (r *TokenRepository) Revoke(ctx context.Context, userID uint64) error {
	if err := r.RDB.Del(ctx, accessKey(userID), refreshKey(userID), roleKey(userID)).Err(); err != nil {
		return ErrRedisUnavailable
	}
	return nil
}

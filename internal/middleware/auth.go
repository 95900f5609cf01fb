package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"Blog_Backend/internal/pkg"
	"Blog_Backend/internal/repository/redis"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	ContextUserIDKey  = "user_id"
	ContextAccountKey = "account"
)

// PublicFunc 判断 method + 路由模板是否公开
type PublicFunc func(method, fullPath string) bool

// abort 与 handler 的错误响应保持同一格式
func abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{
		"statusCode": status,
		"message":    msg,
		"timestamp":  time.Now().Format(time.RFC3339),
	})
}

func bearerToken(c *gin.Context) (string, bool) {
	h := c.GetHeader("Authorization")
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// Auth 非公开路由必须携带有效且未被注销的 access token；
// 公开路由携带了有效 token 时同样注入身份。
func Auth(tokens *redis.TokenRepository, isPublic PublicFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		public := isPublic != nil && isPublic(c.Request.Method, c.FullPath())
		tokenStr, ok := bearerToken(c)
		if !ok {
			if public {
				c.Next()
				return
			}
			abort(c, http.StatusUnauthorized, "缺少访问令牌")
			return
		}

		claims, err := pkg.ParseAccess(tokenStr)
		if err != nil {
			if public {
				c.Next()
				return
			}
			abort(c, http.StatusUnauthorized, "访问令牌无效或已过期")
			return
		}

		// redis 中的 token 被删除或覆盖后，旧 token 立即失效
		stored, err := tokens.AccessToken(c.Request.Context(), claims.UserID)
		switch {
		case err == nil && stored == tokenStr:
		case public:
			c.Next()
			return
		case err != nil && !errors.Is(err, redis.ErrKeyNotFound):
			logrus.WithError(err).WithField("user_id", claims.UserID).Error("auth: read access token failed")
			abort(c, http.StatusInternalServerError, "服务暂不可用")
			return
		default:
			abort(c, http.StatusUnauthorized, "登录已失效，请重新登录")
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Set(ContextAccountKey, claims.Account)
		c.Next()
	}
}

// RequireRole 角色编码取自登录时缓存的 user_role
func RequireRole(tokens *redis.TokenRepository, codes ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		allowed[code] = struct{}{}
	}
	return func(c *gin.Context) {
		uid, ok := UserID(c)
		if !ok {
			abort(c, http.StatusUnauthorized, "未登录")
			return
		}
		code, err := tokens.RoleCode(c.Request.Context(), uid)
		if err != nil && !errors.Is(err, redis.ErrKeyNotFound) {
			logrus.WithError(err).WithField("user_id", uid).Error("auth: read role failed")
			abort(c, http.StatusInternalServerError, "服务暂不可用")
			return
		}
		if _, ok := allowed[code]; !ok {
			abort(c, http.StatusForbidden, "没有权限执行此操作")
			return
		}
		c.Next()
	}
}

// UserID 当前请求的用户，未登录时返回 false
func UserID(c *gin.Context) (uint64, bool) {
	v, ok := c.Get(ContextUserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint64)
	return id, ok && id != 0
}

func Account(c *gin.Context) string {
	return c.GetString(ContextAccountKey)
}

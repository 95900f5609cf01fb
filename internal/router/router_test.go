package router

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"Blog_Backend/internal/repository/redis"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestRoutes_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for _, r := range Routes(Handlers{}) {
		key := r.Method + " " + r.Path
		assert.False(t, seen[key], "duplicate route %s", key)
		seen[key] = true
		assert.False(t, r.Public && r.Admin, "%s cannot be both public and admin", key)
	}
}

func TestPublicSet(t *testing.T) {
	set := PublicSet(Routes(Handlers{}))
	assert.True(t, set["GET /api/auth/captcha"])
	assert.True(t, set["POST /api/users/register"])
	assert.True(t, set["GET /api/articles/item/:id"])
	assert.False(t, set["POST /api/articles"])
	assert.False(t, set["GET /api/notifications"])
	assert.False(t, set["DELETE /api/users/:id"])
}

func TestNew_RequiresToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	log := logrus.New()
	log.SetOutput(io.Discard)

	r := New(Deps{
		Tokens:          &redis.TokenRepository{RDB: rdb},
		Limiter:         &redis.RateLimiter{RDB: rdb},
		RateLimitMax:    10,
		RateLimitWindow: time.Minute,
		CORSOrigins:     []string{"http://localhost:5173"},
		Log:             log,
	})

	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodPost, "/api/articles", nil),
		httptest.NewRequest(http.MethodGet, "/api/notifications", nil),
		httptest.NewRequest(http.MethodGet, "/api/roles", nil),
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, req.URL.Path)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	// 未注册的路径不经过鉴权
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/no-such-route", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

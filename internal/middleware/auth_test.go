package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"Blog_Backend/internal/pkg"
	"Blog_Backend/internal/repository/redis"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type authFixture struct {
	engine  *gin.Engine
	tokens  *redis.TokenRepository
	limiter *redis.RateLimiter
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	pkg.InitJWT("access-secret-for-test", "refresh-secret-for-test", time.Minute, time.Hour)

	f := &authFixture{
		tokens:  &redis.TokenRepository{RDB: rdb},
		limiter: &redis.RateLimiter{RDB: rdb},
	}
	public := func(method, path string) bool { return method == http.MethodGet && path == "/api/public" }

	r := gin.New()
	api := r.Group("/api")
	api.Use(Auth(f.tokens, public))
	api.GET("/public", func(c *gin.Context) {
		uid, _ := UserID(c)
		c.JSON(http.StatusOK, gin.H{"uid": uid})
	})
	api.GET("/me", func(c *gin.Context) {
		uid, _ := UserID(c)
		c.JSON(http.StatusOK, gin.H{"uid": uid})
	})
	api.GET("/admin", RequireRole(f.tokens, "admin"), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	f.engine = r
	return f
}

func (f *authFixture) login(t *testing.T, userID uint64, role string) string {
	t.Helper()
	pair, err := pkg.GeneratePair(userID, "acc")
	require.NoError(t, err)
	require.NoError(t, f.tokens.Save(context.Background(), redis.Session{
		UserID:       userID,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		RoleCode:     role,
		AccessTTL:    time.Minute,
		RefreshTTL:   time.Hour,
	}))
	return pair.AccessToken
}

func (f *authFixture) do(path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func TestAuthMissingToken(t *testing.T) {
	f := newAuthFixture(t)
	w := f.do("/api/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"statusCode":401`)
}

func TestAuthValidToken(t *testing.T) {
	f := newAuthFixture(t)
	token := f.login(t, 5, "user")
	w := f.do("/api/me", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"uid":5}`, w.Body.String())
}

func TestAuthRevokedTokenRejected(t *testing.T) {
	f := newAuthFixture(t)
	token := f.login(t, 5, "user")
	require.NoError(t, f.tokens.Revoke(context.Background(), 5))

	w := f.do("/api/me", token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthReplacedTokenRejected(t *testing.T) {
	f := newAuthFixture(t)
	old := f.login(t, 5, "user")
	f.login(t, 5, "user")

	w := f.do("/api/me", old)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthPublicRoute(t *testing.T) {
	f := newAuthFixture(t)
	w := f.do("/api/public", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"uid":0}`, w.Body.String())

	token := f.login(t, 8, "user")
	w = f.do("/api/public", token)
	assert.JSONEq(t, `{"uid":8}`, w.Body.String())

	w = f.do("/api/public", "garbage")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRole(t *testing.T) {
	f := newAuthFixture(t)
	user := f.login(t, 1, "user")
	admin := f.login(t, 2, "admin")

	assert.Equal(t, http.StatusForbidden, f.do("/api/admin", user).Code)
	assert.Equal(t, http.StatusNoContent, f.do("/api/admin", admin).Code)
}

func TestRateLimit(t *testing.T) {
	f := newAuthFixture(t)
	r := gin.New()
	r.GET("/login", RateLimit(f.limiter, "login", 2, time.Minute), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

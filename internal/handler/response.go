package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"Blog_Backend/internal/middleware"
	"Blog_Backend/internal/pkg"
	"Blog_Backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type okBody struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Data       any    `json:"data"`
}

type errBody struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Timestamp  string `json:"timestamp"`
}

func ok(c *gin.Context, data any) {
	c.JSON(http.StatusOK, okBody{StatusCode: http.StatusOK, Message: "success", Data: data})
}

func created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, okBody{StatusCode: http.StatusCreated, Message: "success", Data: data})
}

func noContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func abortWith(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, errBody{
		StatusCode: status,
		Message:    msg,
		Timestamp:  time.Now().Format(time.RFC3339),
	})
}

var categories = []struct {
	err    error
	status int
}{
	{service.ErrBadRequest, http.StatusBadRequest},
	{service.ErrUnauthorized, http.StatusUnauthorized},
	{service.ErrForbidden, http.StatusForbidden},
	{service.ErrNotFound, http.StatusNotFound},
	{service.ErrConflict, http.StatusConflict},
	{service.ErrPayloadTooLarge, http.StatusRequestEntityTooLarge},
}

// fail 按错误分类映射状态码，未分类的错误记日志并返回 500
func fail(c *gin.Context, err error) {
	for _, cat := range categories {
		if errors.Is(err, cat.err) {
			msg := strings.TrimPrefix(err.Error(), cat.err.Error()+": ")
			abortWith(c, cat.status, msg)
			return
		}
	}
	_ = c.Error(err)
	logrus.WithError(err).WithField("path", c.FullPath()).Error("unhandled error")
	abortWith(c, http.StatusInternalServerError, "服务器内部错误")
}

func badParams(c *gin.Context, err error) {
	abortWith(c, http.StatusBadRequest, "参数错误: "+err.Error())
}

// idParam 解析路径中的数字 id
func idParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		abortWith(c, http.StatusBadRequest, "无效的 "+name)
		return 0, false
	}
	return id, true
}

func pageQuery(c *gin.Context) (pkg.PageQuery, bool) {
	var q pkg.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badParams(c, err)
		return q, false
	}
	return q, true
}

// currentUser 鉴权中间件之后一定存在
func currentUser(c *gin.Context) (uint64, bool) {
	uid, ok := middleware.UserID(c)
	if !ok {
		abortWith(c, http.StatusUnauthorized, "未登录")
	}
	return uid, ok
}

// boolQuery 支持 1/0/true/false，缺省返回 nil
func boolQuery(c *gin.Context, key string) (*bool, bool) {
	v := c.Query(key)
	if v == "" {
		return nil, true
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		abortWith(c, http.StatusBadRequest, "无效的 "+key)
		return nil, false
	}
	return &b, true
}

func idAndPage(c *gin.Context) (uint64, pkg.PageQuery, bool) {
	id, okID := idParam(c, "id")
	if !okID {
		return 0, pkg.PageQuery{}, false
	}
	q, okQ := pageQuery(c)
	return id, q, okQ
}

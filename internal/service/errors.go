package service

import (
	"errors"
	"fmt"

	"Blog_Backend/internal/repository/mysql"
)

// 分类错误，handler 据此映射 HTTP 状态码
var (
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrConflict        = errors.New("conflict")
	ErrBadRequest      = errors.New("bad request")
	ErrPayloadTooLarge = errors.New("payload too large")
)

var (
	ErrInvalidCredentials = fmt.Errorf("%w: 用户名或密码错误", ErrUnauthorized)
	ErrCaptchaInvalid     = fmt.Errorf("%w: 验证码错误", ErrUnauthorized)
	ErrCaptchaExpired     = fmt.Errorf("%w: 验证码已过期", ErrUnauthorized)
	ErrTokenRevoked       = fmt.Errorf("%w: 登录已失效", ErrUnauthorized)
	ErrInvalidSession     = fmt.Errorf("%w: 无效的用户操作", ErrForbidden)
	ErrInvalidTransition  = fmt.Errorf("%w: 不允许的状态变更", ErrForbidden)
	ErrNotAuthor          = fmt.Errorf("%w: 只有作者可以执行此操作", ErrForbidden)
	ErrRoleInUse          = fmt.Errorf("%w: 该角色下仍有用户", ErrConflict)
	ErrMenuCycle          = fmt.Errorf("%w: 不能将菜单移动到自身或其子菜单下", ErrBadRequest)
	ErrEmailCodeInvalid   = fmt.Errorf("%w: 验证码错误或已过期", ErrBadRequest)
)

func notFound(what string) error {
	return fmt.Errorf("%w: %s不存在", ErrNotFound, what)
}

func badRequest(msg string) error {
	return fmt.Errorf("%w: %s", ErrBadRequest, msg)
}

// mapRepoError 把仓储层错误转为服务层分类错误
func mapRepoError(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mysql.ErrNotFound):
		return notFound(what)
	case errors.Is(err, mysql.ErrDuplicateEntry):
		return fmt.Errorf("%w: %s已存在", ErrConflict, what)
	case errors.Is(err, mysql.ErrInUse):
		return fmt.Errorf("%w: %s仍有关联数据", ErrConflict, what)
	}
	return err
}

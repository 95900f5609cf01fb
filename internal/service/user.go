package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"Blog_Backend/internal/model"
	"Blog_Backend/internal/pkg"
	"Blog_Backend/internal/repository/mysql"
	"Blog_Backend/internal/repository/redis"

	"github.com/sirupsen/logrus"
)

const DefaultRoleCode = "user"

type UserService struct {
	users  *mysql.UserRepository
	roles  *mysql.RoleRepository
	tokens *redis.TokenRepository
	log    *logrus.Entry
}

func NewUserService(users *mysql.UserRepository, roles *mysql.RoleRepository, tokens *redis.TokenRepository, log *logrus.Logger) *UserService {
	return &UserService{users: users, roles: roles, tokens: tokens, log: log.WithField("component", "user")}
}

type CreateUserInput struct {
	Account   string `json:"account" binding:"required"`
	Username  string `json:"username" binding:"required"`
	Password  string `json:"password" binding:"required"`
	Email     string `json:"email"`
	Avatar    string `json:"avatar"`
	Signature string `json:"signature"`
	RoleID    uint64 `json:"roleId"`
}

// UpdateUserInput 指针字段为 nil 表示不修改
type UpdateUserInput struct {
	Account   *string `json:"account"`
	Username  *string `json:"username"`
	Password  *string `json:"password"`
	Email     *string `json:"email"`
	Avatar    *string `json:"avatar"`
	Signature *string `json:"signature"`
	RoleID    *uint64 `json:"roleId"`
}

// checkUnique 账号和用户名都检查，冲突信息合并返回
func (s *UserService) checkUnique(ctx context.Context, account, username string, excludeID uint64) error {
	var msgs []string
	if account != "" {
		taken, err := s.users.ExistsField(ctx, "account", account, excludeID)
		if err != nil {
			return err
		}
		if taken {
			msgs = append(msgs, "账号已存在")
		}
	}
	if username != "" {
		taken, err := s.users.ExistsField(ctx, "username", username, excludeID)
		if err != nil {
			return err
		}
		if taken {
			msgs = append(msgs, "用户名已存在")
		}
	}
	if len(msgs) > 0 {
		return fmt.Errorf("%w: %s", ErrConflict, strings.Join(msgs, "，"))
	}
	return nil
}

func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*model.User, error) {
	role, err := s.roles.FindByID(ctx, in.RoleID)
	if err != nil {
		return nil, mapRepoError(err, "角色")
	}
	return s.create(ctx, in, role)
}

// Register 自助注册，角色固定为普通用户
func (s *UserService) Register(ctx context.Context, in CreateUserInput) (*model.User, error) {
	role, err := s.roles.FindByCode(ctx, DefaultRoleCode)
	if err != nil {
		return nil, mapRepoError(err, "默认角色")
	}
	return s.create(ctx, in, role)
}

func (s *UserService) create(ctx context.Context, in CreateUserInput, role *model.Role) (*model.User, error) {
	if err := s.checkUnique(ctx, in.Account, in.Username, 0); err != nil {
		return nil, err
	}
	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		Account:   in.Account,
		Username:  in.Username,
		Password:  hash,
		Email:     in.Email,
		Avatar:    in.Avatar,
		Signature: in.Signature,
		RoleID:    role.ID,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, mapRepoError(err, "用户")
	}
	user.Role = role
	s.log.WithField("user_id", user.ID).Info("user created")
	return user, nil
}

func (s *UserService) List(ctx context.Context, q pkg.PageQuery) (pkg.PageResult[model.User], error) {
	if err := q.Normalize(); err != nil {
		return pkg.PageResult[model.User]{}, badRequest(err.Error())
	}
	list, total, err := s.users.List(ctx, q.Offset(), q.Limit)
	if err != nil {
		return pkg.PageResult[model.User]{}, err
	}
	return pkg.NewPageResult(list, total, q), nil
}

// Get 用户资料附带派生计数
func (s *UserService) Get(ctx context.Context, id uint64) (*model.UserProfile, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "用户")
	}
	stats, err := s.users.Stats(ctx, id)
	if err != nil {
		return nil, err
	}
	return &model.UserProfile{User: *user, UserStats: stats}, nil
}

func (s *UserService) Stats(ctx context.Context, id uint64) (model.UserStats, error) {
	ok, err := s.users.Exists(ctx, id)
	if err != nil {
		return model.UserStats{}, err
	}
	if !ok {
		return model.UserStats{}, notFound("用户")
	}
	return s.users.Stats(ctx, id)
}

// Update 合并更新；角色变化写入变更日志并刷新缓存中的角色
func (s *UserService) Update(ctx context.Context, id uint64, in UpdateUserInput) (*model.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "用户")
	}
	var account, username string
	if in.Account != nil && *in.Account != user.Account {
		account = *in.Account
	}
	if in.Username != nil && *in.Username != user.Username {
		username = *in.Username
	}
	if err := s.checkUnique(ctx, account, username, id); err != nil {
		return nil, err
	}
	if account != "" {
		user.Account = account
	}
	if username != "" {
		user.Username = username
	}
	if in.Email != nil {
		user.Email = *in.Email
	}
	if in.Avatar != nil {
		user.Avatar = *in.Avatar
	}
	if in.Signature != nil {
		user.Signature = *in.Signature
	}
	if in.Password != nil && *in.Password != "" {
		hash, err := hashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		user.Password = hash
	}
	roleChanged := false
	if in.RoleID != nil && *in.RoleID != user.RoleID {
		role, err := s.roles.FindByID(ctx, *in.RoleID)
		if err != nil {
			return nil, mapRepoError(err, "角色")
		}
		appendRoleChange(user, role, time.Now())
		user.RoleID = role.ID
		user.Role = role
		roleChanged = true
	}
	if err := s.users.Save(ctx, user); err != nil {
		return nil, mapRepoError(err, "用户")
	}
	if roleChanged {
		s.refreshRole(ctx, user)
	}
	return user, nil
}

func (s *UserService) UpdateRole(ctx context.Context, id, roleID uint64) (*model.User, error) {
	return s.Update(ctx, id, UpdateUserInput{RoleID: &roleID})
}

func appendRoleChange(user *model.User, next *model.Role, now time.Time) {
	old := ""
	if user.Role != nil {
		old = user.Role.Code
	}
	line := fmt.Sprintf("[%s] role: %s -> %s", now.Format(time.RFC3339), old, next.Code)
	if user.ChangeLog == "" {
		user.ChangeLog = line
		return
	}
	user.ChangeLog += "\n" + line
}

// refreshRole 在线用户的角色缓存随之更新，失败只记日志
func (s *UserService) refreshRole(ctx context.Context, user *model.User) {
	if s.tokens == nil || user.Role == nil {
		return
	}
	if err := s.tokens.SetRoleCode(ctx, user.ID, user.Role.Code); err != nil && !errors.Is(err, redis.ErrKeyNotFound) {
		s.log.WithError(err).WithField("user_id", user.ID).Warn("refresh role cache failed")
	}
}

func (s *UserService) Delete(ctx context.Context, id uint64) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return mapRepoError(err, "用户")
	}
	if s.tokens != nil {
		if err := s.tokens.Revoke(ctx, id); err != nil {
			s.log.WithError(err).WithField("user_id", id).Warn("revoke tokens failed")
		}
	}
	return nil
}

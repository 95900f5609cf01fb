package service

import (
	"context"

	"Blog_Backend/internal/model"
	"Blog_Backend/internal/pkg"
	"Blog_Backend/internal/repository/mysql"
)

// roleUserOrders 角色用户列表允许的排序列
var roleUserOrders = map[string]string{
	"":          "id",
	"id":        "id",
	"createdAt": "created_at",
	"username":  "username",
	"account":   "account",
}

type RoleService struct {
	roles       *mysql.RoleRepository
	permissions *mysql.PermissionRepository
	menus       *mysql.MenuRepository
	users       *mysql.UserRepository
}

func NewRoleService(roles *mysql.RoleRepository, permissions *mysql.PermissionRepository, menus *mysql.MenuRepository, users *mysql.UserRepository) *RoleService {
	return &RoleService{roles: roles, permissions: permissions, menus: menus, users: users}
}

type RoleInput struct {
	Name        string `json:"name" binding:"required"`
	Code        string `json:"code" binding:"required"`
	Description string `json:"description"`
}

type RoleUpdate struct {
	Name        *string `json:"name"`
	Code        *string `json:"code"`
	Description *string `json:"description"`
}

func (s *RoleService) Create(ctx context.Context, in RoleInput) (*model.Role, error) {
	role := &model.Role{Name: in.Name, Code: in.Code, Description: in.Description}
	if err := s.roles.Create(ctx, role); err != nil {
		return nil, mapRepoError(err, "角色")
	}
	return role, nil
}

func (s *RoleService) Get(ctx context.Context, id uint64) (*model.Role, error) {
	role, err := s.roles.FindByID(ctx, id)
	return role, mapRepoError(err, "角色")
}

func (s *RoleService) List(ctx context.Context, name string, q pkg.PageQuery) (pkg.PageResult[model.Role], error) {
	if err := q.Normalize(); err != nil {
		return pkg.PageResult[model.Role]{}, badRequest(err.Error())
	}
	list, total, err := s.roles.List(ctx, name, q.Offset(), q.Limit)
	if err != nil {
		return pkg.PageResult[model.Role]{}, err
	}
	return pkg.NewPageResult(list, total, q), nil
}

func (s *RoleService) Update(ctx context.Context, id uint64, in RoleUpdate) (*model.Role, error) {
	role, err := s.roles.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "角色")
	}
	if in.Name != nil {
		role.Name = *in.Name
	}
	if in.Code != nil {
		role.Code = *in.Code
	}
	if in.Description != nil {
		role.Description = *in.Description
	}
	if err := s.roles.Save(ctx, role); err != nil {
		return nil, mapRepoError(err, "角色")
	}
	return role, nil
}

// Delete 仍有用户使用的角色不能删除
func (s *RoleService) Delete(ctx context.Context, id uint64) error {
	n, err := s.users.CountByRole(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrRoleInUse
	}
	return mapRepoError(s.roles.Delete(ctx, id), "角色")
}

func (s *RoleService) Users(ctx context.Context, roleID uint64, orderBy string, desc bool, q pkg.PageQuery) (pkg.PageResult[model.User], error) {
	if err := q.Normalize(); err != nil {
		return pkg.PageResult[model.User]{}, badRequest(err.Error())
	}
	col, ok := roleUserOrders[orderBy]
	if !ok {
		return pkg.PageResult[model.User]{}, badRequest("不支持的排序字段")
	}
	if _, err := s.roles.FindByID(ctx, roleID); err != nil {
		return pkg.PageResult[model.User]{}, mapRepoError(err, "角色")
	}
	list, total, err := s.users.ListByRole(ctx, roleID, col, desc, q.Offset(), q.Limit)
	if err != nil {
		return pkg.PageResult[model.User]{}, err
	}
	return pkg.NewPageResult(list, total, q), nil
}

func (s *RoleService) Permissions(ctx context.Context, roleID uint64) ([]model.Permission, error) {
	if _, err := s.roles.FindByID(ctx, roleID); err != nil {
		return nil, mapRepoError(err, "角色")
	}
	return s.roles.Permissions(ctx, roleID)
}

// SetPermissions 所有权限 id 必须存在
func (s *RoleService) SetPermissions(ctx context.Context, roleID uint64, ids []uint64) error {
	if _, err := s.roles.FindByID(ctx, roleID); err != nil {
		return mapRepoError(err, "角色")
	}
	found, err := s.permissions.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	if len(found) != countDistinct(ids) {
		return notFound("部分权限")
	}
	return s.roles.SetPermissions(ctx, roleID, ids)
}

func (s *RoleService) MenuIDs(ctx context.Context, roleID uint64) ([]uint64, error) {
	if _, err := s.roles.FindByID(ctx, roleID); err != nil {
		return nil, mapRepoError(err, "角色")
	}
	return s.roles.MenuIDs(ctx, roleID)
}

func (s *RoleService) SetMenus(ctx context.Context, roleID uint64, ids []uint64) error {
	if _, err := s.roles.FindByID(ctx, roleID); err != nil {
		return mapRepoError(err, "角色")
	}
	found, err := s.menus.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	if len(found) != countDistinct(ids) {
		return notFound("部分菜单")
	}
	return s.roles.SetMenus(ctx, roleID, ids)
}

func countDistinct(ids []uint64) int {
	seen := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		seen[id] = struct{}{}
	}
	return len(seen)
}

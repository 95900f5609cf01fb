package service

import (
	"context"

	"Blog_Backend/internal/model"
	"Blog_Backend/internal/pkg"
	"Blog_Backend/internal/repository/mysql"
)

type PermissionService struct {
	repo *mysql.PermissionRepository
}

func NewPermissionService(repo *mysql.PermissionRepository) *PermissionService {
	return &PermissionService{repo: repo}
}

type PermissionInput struct {
	Name        string `json:"name" binding:"required"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Code        string `json:"code" binding:"required"`
}

type PermissionUpdate struct {
	Name        *string `json:"name"`
	Type        *string `json:"type"`
	Description *string `json:"description"`
	Code        *string `json:"code"`
}

func validPermissionType(t string) bool {
	return t == model.MenuTypeMenu || t == model.MenuTypeButton
}

func (s *PermissionService) Create(ctx context.Context, in PermissionInput) (*model.Permission, error) {
	if in.Type == "" {
		in.Type = model.MenuTypeMenu
	}
	if !validPermissionType(in.Type) {
		return nil, badRequest("权限类型只能是 menu 或 button")
	}
	p := &model.Permission{Name: in.Name, Type: in.Type, Description: in.Description, Code: in.Code}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, mapRepoError(err, "权限编码")
	}
	return p, nil
}

func (s *PermissionService) Get(ctx context.Context, id uint64) (*model.Permission, error) {
	p, err := s.repo.FindByID(ctx, id)
	return p, mapRepoError(err, "权限")
}

// List 分页参数非法时直接拒绝
func (s *PermissionService) List(ctx context.Context, q pkg.PageQuery) (pkg.PageResult[model.Permission], error) {
	if err := q.Normalize(); err != nil {
		return pkg.PageResult[model.Permission]{}, badRequest(err.Error())
	}
	list, total, err := s.repo.List(ctx, q.Offset(), q.Limit)
	if err != nil {
		return pkg.PageResult[model.Permission]{}, err
	}
	return pkg.NewPageResult(list, total, q), nil
}

func (s *PermissionService) Update(ctx context.Context, id uint64, in PermissionUpdate) (*model.Permission, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "权限")
	}
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Type != nil {
		if !validPermissionType(*in.Type) {
			return nil, badRequest("权限类型只能是 menu 或 button")
		}
		p.Type = *in.Type
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Code != nil {
		p.Code = *in.Code
	}
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, mapRepoError(err, "权限编码")
	}
	return p, nil
}

// DeleteBatch 任一 id 不存在则整体不删除
func (s *PermissionService) DeleteBatch(ctx context.Context, ids []uint64) error {
	if len(ids) == 0 {
		return badRequest("请选择要删除的权限")
	}
	found, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	if len(found) != countDistinct(ids) {
		return notFound("部分权限")
	}
	return s.repo.DeleteBatch(ctx, ids)
}

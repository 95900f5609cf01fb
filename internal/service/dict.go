package service

import (
	"context"

	"Blog_Backend/internal/model"
	"Blog_Backend/internal/pkg"
	"Blog_Backend/internal/repository/mysql"
)

type DictService struct {
	repo *mysql.DictRepository
}

func NewDictService(repo *mysql.DictRepository) *DictService {
	return &DictService{repo: repo}
}

type DictInput struct {
	Name    string            `json:"name" binding:"required"`
	Type    string            `json:"type" binding:"required"`
	Entries []model.DictEntry `json:"entries"`
	Status  *bool             `json:"status"`
	Sort    int               `json:"sort"`
	Remark  string            `json:"remark"`
}

type DictUpdate struct {
	Name    *string           `json:"name"`
	Type    *string           `json:"type"`
	Entries []model.DictEntry `json:"entries"`
	Status  *bool             `json:"status"`
	Sort    *int              `json:"sort"`
	Remark  *string           `json:"remark"`
}

func (s *DictService) checkType(ctx context.Context, typ string, excludeID uint64) error {
	taken, err := s.repo.ExistsType(ctx, typ, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return mapRepoError(mysql.ErrDuplicateEntry, "字典类型")
	}
	return nil
}

// Create 未指定状态时默认启用
func (s *DictService) Create(ctx context.Context, in DictInput) (*model.Dict, error) {
	if err := s.checkType(ctx, in.Type, 0); err != nil {
		return nil, err
	}
	d := &model.Dict{Name: in.Name, Type: in.Type, Entries: in.Entries, Status: true, Sort: in.Sort, Remark: in.Remark}
	if in.Status != nil {
		d.Status = *in.Status
	}
	if d.Entries == nil {
		d.Entries = []model.DictEntry{}
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, mapRepoError(err, "字典类型")
	}
	return d, nil
}

func (s *DictService) Get(ctx context.Context, id uint64) (*model.Dict, error) {
	d, err := s.repo.FindByID(ctx, id)
	return d, mapRepoError(err, "字典")
}

// Entries 只返回启用中的字典项
func (s *DictService) Entries(ctx context.Context, typ string) ([]model.DictEntry, error) {
	d, err := s.repo.FindByType(ctx, typ)
	if err != nil {
		return nil, mapRepoError(err, "字典")
	}
	return d.Entries, nil
}

func (s *DictService) List(ctx context.Context, name string, q pkg.PageQuery) (pkg.PageResult[model.Dict], error) {
	if err := q.Normalize(); err != nil {
		return pkg.PageResult[model.Dict]{}, badRequest(err.Error())
	}
	list, total, err := s.repo.List(ctx, name, q.Offset(), q.Limit)
	if err != nil {
		return pkg.PageResult[model.Dict]{}, err
	}
	return pkg.NewPageResult(list, total, q), nil
}

func (s *DictService) Update(ctx context.Context, id uint64, in DictUpdate) (*model.Dict, error) {
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "字典")
	}
	if in.Type != nil && *in.Type != d.Type {
		if err := s.checkType(ctx, *in.Type, id); err != nil {
			return nil, err
		}
		d.Type = *in.Type
	}
	if in.Name != nil {
		d.Name = *in.Name
	}
	if in.Entries != nil {
		d.Entries = in.Entries
	}
	if in.Status != nil {
		d.Status = *in.Status
	}
	if in.Sort != nil {
		d.Sort = *in.Sort
	}
	if in.Remark != nil {
		d.Remark = *in.Remark
	}
	if err := s.repo.Save(ctx, d); err != nil {
		return nil, mapRepoError(err, "字典类型")
	}
	return d, nil
}

func (s *DictService) Delete(ctx context.Context, id uint64) error {
	return mapRepoError(s.repo.Delete(ctx, id), "字典")
}

package mysql

import (
	"context"

	"Blog_Backend/internal/model"

	"gorm.io/gorm"
)

type PermissionRepository struct {
	DB *gorm.DB
}

func (r *PermissionRepository) Create(ctx context.Context, p *model.Permission) error {
	return translate("create permission", r.DB.WithContext(ctx).Create(p).Error)
}

func (r *PermissionRepository) FindByID(ctx context.Context, id uint64) (*model.Permission, error) {
	var p model.Permission
	if err := r.DB.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, translate("find permission", err)
	}
	return &p, nil
}

func (r *PermissionRepository) FindByCode(ctx context.Context, code string) (*model.Permission, error) {
	var p model.Permission
	if err := r.DB.WithContext(ctx).Where("code = ?", code).First(&p).Error; err != nil {
		return nil, translate("find permission by code", err)
	}
	return &p, nil
}

func (r *PermissionRepository) FindByIDs(ctx context.Context, ids []uint64) ([]model.Permission, error) {
	var list []model.Permission
	if len(ids) == 0 {
		return list, nil
	}
	err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&list).Error
	return list, translate("find permissions", err)
}

func (r *PermissionRepository) List(ctx context.Context, offset, limit int) ([]model.Permission, int64, error) {
	var (
		list  []model.Permission
		total int64
	)
	q := r.DB.WithContext(ctx).Model(&model.Permission{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate("count permissions", err)
	}
	err := q.Order("id ASC").Scopes(paginate(offset, limit)).Find(&list).Error
	return list, total, translate("list permissions", err)
}

func (r *PermissionRepository) Save(ctx context.Context, p *model.Permission) error {
	return translate("save permission", r.DB.WithContext(ctx).Save(p).Error)
}

// DeleteBatch 删除权限及其角色关联
func (r *PermissionRepository) DeleteBatch(ctx context.Context, ids []uint64) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("permission_id IN ?", ids).Delete(&model.RolePermission{}).Error; err != nil {
			return err
		}
		return tx.Where("id IN ?", ids).Delete(&model.Permission{}).Error
	})
	return translate("delete permissions", err)
}

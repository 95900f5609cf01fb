package mysql

import (
	"context"

	"Blog_Backend/internal/model"

	"gorm.io/gorm"
)

type RoleRepository struct {
	DB *gorm.DB
}

func (r *RoleRepository) Create(ctx context.Context, role *model.Role) error {
	return translate("create role", r.DB.WithContext(ctx).Create(role).Error)
}

func (r *RoleRepository) FindByID(ctx context.Context, id uint64) (*model.Role, error) {
	var role model.Role
	if err := r.DB.WithContext(ctx).First(&role, id).Error; err != nil {
		return nil, translate("find role", err)
	}
	return &role, nil
}

func (r *RoleRepository) FindByCode(ctx context.Context, code string) (*model.Role, error) {
	var role model.Role
	if err := r.DB.WithContext(ctx).Where("code = ?", code).First(&role).Error; err != nil {
		return nil, translate("find role by code", err)
	}
	return &role, nil
}

// List name 为空时不过滤
func (r *RoleRepository) List(ctx context.Context, name string, offset, limit int) ([]model.Role, int64, error) {
	var (
		list  []model.Role
		total int64
	)
	q := r.DB.WithContext(ctx).Model(&model.Role{})
	if name != "" {
		q = q.Where("name LIKE ?", "%"+name+"%")
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate("count roles", err)
	}
	err := q.Order("id ASC").Scopes(paginate(offset, limit)).Find(&list).Error
	return list, total, translate("list roles", err)
}

func (r *RoleRepository) Save(ctx context.Context, role *model.Role) error {
	return translate("save role", r.DB.WithContext(ctx).Save(role).Error)
}

// Delete 同时清理角色的权限与菜单关联
func (r *RoleRepository) Delete(ctx context.Context, id uint64) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("role_id = ?", id).Delete(&model.RolePermission{}).Error; err != nil {
			return err
		}
		if err := tx.Where("role_id = ?", id).Delete(&model.RoleMenu{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Role{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	return translate("delete role", err)
}

func (r *RoleRepository) Permissions(ctx context.Context, roleID uint64) ([]model.Permission, error) {
	var list []model.Permission
	err := r.DB.WithContext(ctx).
		Joins("JOIN role_permissions rp ON rp.permission_id = permissions.id AND rp.role_id = ?", roleID).
		Order("permissions.id ASC").
		Find(&list).Error
	return list, translate("role permissions", err)
}

// SetPermissions 整体替换角色权限
func (r *RoleRepository) SetPermissions(ctx context.Context, roleID uint64, permissionIDs []uint64) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("role_id = ?", roleID).Delete(&model.RolePermission{}).Error; err != nil {
			return err
		}
		if len(permissionIDs) == 0 {
			return nil
		}
		rows := make([]model.RolePermission, 0, len(permissionIDs))
		for _, pid := range dedup(permissionIDs) {
			rows = append(rows, model.RolePermission{RoleID: roleID, PermissionID: pid})
		}
		return tx.Create(&rows).Error
	})
	return translate("set role permissions", err)
}

func (r *RoleRepository) MenuIDs(ctx context.Context, roleID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.DB.WithContext(ctx).Model(&model.RoleMenu{}).
		Where("role_id = ?", roleID).
		Order("menu_id ASC").
		Pluck("menu_id", &ids).Error
	return ids, translate("role menu ids", err)
}

// SetMenus 整体替换角色菜单
func (r *RoleRepository) SetMenus(ctx context.Context, roleID uint64, menuIDs []uint64) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("role_id = ?", roleID).Delete(&model.RoleMenu{}).Error; err != nil {
			return err
		}
		if len(menuIDs) == 0 {
			return nil
		}
		rows := make([]model.RoleMenu, 0, len(menuIDs))
		for _, mid := range dedup(menuIDs) {
			rows = append(rows, model.RoleMenu{RoleID: roleID, MenuID: mid})
		}
		return tx.Create(&rows).Error
	})
	return translate("set role menus", err)
}

func dedup(ids []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

package mysql

import (
	"context"

	"Blog_Backend/internal/model"

	"gorm.io/gorm"
)

type MenuRepository struct {
	DB *gorm.DB
}

func (r *MenuRepository) Create(ctx context.Context, m *model.Menu) error {
	return translate("create menu", r.DB.WithContext(ctx).Create(m).Error)
}

func (r *MenuRepository) FindByID(ctx context.Context, id uint64) (*model.Menu, error) {
	var m model.Menu
	if err := r.DB.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, translate("find menu", err)
	}
	return &m, nil
}

func (r *MenuRepository) FindByIDs(ctx context.Context, ids []uint64) ([]model.Menu, error) {
	var list []model.Menu
	if len(ids) == 0 {
		return list, nil
	}
	err := r.DB.WithContext(ctx).Where("id IN ?", ids).Order("sort ASC, id ASC").Find(&list).Error
	return list, translate("find menus", err)
}

// FindConflict 查找 code/path/component 与给定值冲突的其他菜单
func (r *MenuRepository) FindConflict(ctx context.Context, field, value string, excludeID uint64) (bool, error) {
	if value == "" {
		return false, nil
	}
	var n int64
	q := r.DB.WithContext(ctx).Model(&model.Menu{}).Where(field+" = ?", value)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&n).Error
	return n > 0, translate("menu conflict", err)
}

func (r *MenuRepository) FindAll(ctx context.Context) ([]model.Menu, error) {
	var list []model.Menu
	err := r.DB.WithContext(ctx).Order("sort ASC, id ASC").Find(&list).Error
	return list, translate("list menus", err)
}

// ListRoots 分页的一级菜单
func (r *MenuRepository) ListRoots(ctx context.Context, offset, limit int) ([]model.Menu, int64, error) {
	var (
		list  []model.Menu
		total int64
	)
	q := r.DB.WithContext(ctx).Model(&model.Menu{}).Where("parent_id IS NULL")
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate("count root menus", err)
	}
	err := q.Order("sort ASC, id ASC").Scopes(paginate(offset, limit)).Find(&list).Error
	return list, total, translate("list root menus", err)
}

func (r *MenuRepository) Save(ctx context.Context, m *model.Menu) error {
	return translate("save menu", r.DB.WithContext(ctx).Omit("Children").Save(m).Error)
}

// DeleteTree 逐层收集子孙节点后一次性删除，visited 防止脏数据成环
func (r *MenuRepository) DeleteTree(ctx context.Context, rootID uint64) (int, error) {
	var deleted int
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		visited := map[uint64]struct{}{rootID: {}}
		all := []uint64{rootID}
		frontier := []uint64{rootID}
		for len(frontier) > 0 {
			var children []uint64
			if err := tx.Model(&model.Menu{}).Where("parent_id IN ?", frontier).Pluck("id", &children).Error; err != nil {
				return err
			}
			frontier = frontier[:0]
			for _, id := range children {
				if _, ok := visited[id]; ok {
					continue
				}
				visited[id] = struct{}{}
				all = append(all, id)
				frontier = append(frontier, id)
			}
		}
		if err := tx.Where("menu_id IN ?", all).Delete(&model.RoleMenu{}).Error; err != nil {
			return err
		}
		res := tx.Where("id IN ?", all).Delete(&model.Menu{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		deleted = int(res.RowsAffected)
		return nil
	})
	return deleted, translate("delete menu tree", err)
}

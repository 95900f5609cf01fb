package mysql

import (
	"context"

	"Blog_Backend/internal/model"

	"gorm.io/gorm"
)

type DictRepository struct {
	DB *gorm.DB
}

func (r *DictRepository) Create(ctx context.Context, d *model.Dict) error {
	return translate("create dict", r.DB.WithContext(ctx).Create(d).Error)
}

func (r *DictRepository) FindByID(ctx context.Context, id uint64) (*model.Dict, error) {
	var d model.Dict
	if err := r.DB.WithContext(ctx).First(&d, id).Error; err != nil {
		return nil, translate("find dict", err)
	}
	return &d, nil
}

// FindByType 仅返回启用的字典
func (r *DictRepository) FindByType(ctx context.Context, typ string) (*model.Dict, error) {
	var d model.Dict
	if err := r.DB.WithContext(ctx).Where("type = ? AND status = ?", typ, true).First(&d).Error; err != nil {
		return nil, translate("find dict by type", err)
	}
	return &d, nil
}

func (r *DictRepository) ExistsType(ctx context.Context, typ string, excludeID uint64) (bool, error) {
	var n int64
	q := r.DB.WithContext(ctx).Model(&model.Dict{}).Where("type = ?", typ)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&n).Error
	return n > 0, translate("dict type exists", err)
}

func (r *DictRepository) List(ctx context.Context, name string, offset, limit int) ([]model.Dict, int64, error) {
	var (
		list  []model.Dict
		total int64
	)
	q := r.DB.WithContext(ctx).Model(&model.Dict{})
	if name != "" {
		q = q.Where("name LIKE ?", "%"+name+"%")
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate("count dicts", err)
	}
	err := q.Order("sort ASC").Order("id ASC").Scopes(paginate(offset, limit)).Find(&list).Error
	return list, total, translate("list dicts", err)
}

func (r *DictRepository) Save(ctx context.Context, d *model.Dict) error {
	return translate("save dict", r.DB.WithContext(ctx).Save(d).Error)
}

func (r *DictRepository) Delete(ctx context.Context, id uint64) error {
	res := r.DB.WithContext(ctx).Delete(&model.Dict{}, id)
	if res.Error != nil {
		return translate("delete dict", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

package mysql

import (
	"context"

	"Blog_Backend/internal/model"

	"gorm.io/gorm"
)

type LinkRepository struct {
	DB *gorm.DB
}

func (r *LinkRepository) Create(ctx context.Context, l *model.Link) error {
	return translate("create link", r.DB.WithContext(ctx).Create(l).Error)
}

func (r *LinkRepository) FindByID(ctx context.Context, id uint64) (*model.Link, error) {
	var l model.Link
	if err := r.DB.WithContext(ctx).First(&l, id).Error; err != nil {
		return nil, translate("find link", err)
	}
	return &l, nil
}

func (r *LinkRepository) List(ctx context.Context, offset, limit int) ([]model.Link, int64, error) {
	var (
		list  []model.Link
		total int64
	)
	q := r.DB.WithContext(ctx).Model(&model.Link{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate("count links", err)
	}
	err := q.Order("date DESC").Order("id DESC").Scopes(paginate(offset, limit)).Find(&list).Error
	return list, total, translate("list links", err)
}

func (r *LinkRepository) Save(ctx context.Context, l *model.Link) error {
	return translate("save link", r.DB.WithContext(ctx).Save(l).Error)
}

func (r *LinkRepository) Delete(ctx context.Context, id uint64) error {
	res := r.DB.WithContext(ctx).Delete(&model.Link{}, id)
	if res.Error != nil {
		return translate("delete link", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

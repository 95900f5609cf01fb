package mysql

import (
	"context"

	"Blog_Backend/internal/model"

	"gorm.io/gorm"
)

type ImageRepository struct {
	DB *gorm.DB
}

func (r *ImageRepository) CreateBatch(ctx context.Context, images []*model.Image) error {
	if len(images) == 0 {
		return nil
	}
	return translate("create images", r.DB.WithContext(ctx).Create(&images).Error)
}

func (r *ImageRepository) FindByID(ctx context.Context, id uint64) (*model.Image, error) {
	var img model.Image
	if err := r.DB.WithContext(ctx).First(&img, id).Error; err != nil {
		return nil, translate("find image", err)
	}
	return &img, nil
}

// ListByUser name 非空时按原始文件名模糊匹配
func (r *ImageRepository) ListByUser(ctx context.Context, userID uint64, name string, offset, limit int) ([]model.Image, int64, error) {
	var (
		list  []model.Image
		total int64
	)
	q := r.DB.WithContext(ctx).Model(&model.Image{}).Where("user_id = ?", userID)
	if name != "" {
		q = q.Where("original_name LIKE ?", "%"+name+"%")
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate("count images", err)
	}
	err := q.Order("uploaded_at DESC").Order("id DESC").Scopes(paginate(offset, limit)).Find(&list).Error
	return list, total, translate("list images", err)
}

func (r *ImageRepository) Delete(ctx context.Context, id uint64) error {
	res := r.DB.WithContext(ctx).Delete(&model.Image{}, id)
	if res.Error != nil {
		return translate("delete image", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

package mysql

import (
	"context"

	"Blog_Backend/internal/model"

	"gorm.io/gorm"
)

type MessageRepository struct {
	DB *gorm.DB
}

func (r *MessageRepository) Create(ctx context.Context, m *model.Message) error {
	return translate("create message", r.DB.WithContext(ctx).Create(m).Error)
}

// List username 为空时返回全部留言
func (r *MessageRepository) List(ctx context.Context, username string, offset, limit int) ([]model.Message, int64, error) {
	var (
		list  []model.Message
		total int64
	)
	q := r.DB.WithContext(ctx).Model(&model.Message{})
	if username != "" {
		q = q.Where("username = ?", username)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate("count messages", err)
	}
	err := q.Order("date DESC").Order("id DESC").Scopes(paginate(offset, limit)).Find(&list).Error
	return list, total, translate("list messages", err)
}

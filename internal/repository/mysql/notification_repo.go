package mysql

import (
	"context"

	"Blog_Backend/internal/model"

	"gorm.io/gorm"
)

type NotificationRepository struct {
	DB *gorm.DB
}

func (r *NotificationRepository) Create(ctx context.Context, n *model.Notification) error {
	return translate("create notification", r.DB.WithContext(ctx).Omit("Sender", "Article").Create(n).Error)
}

// FindByID 带发送者与文章
func (r *NotificationRepository) FindByID(ctx context.Context, id uint64) (*model.Notification, error) {
	var n model.Notification
	err := r.DB.WithContext(ctx).Preload("Sender").Preload("Article").First(&n, id).Error
	if err != nil {
		return nil, translate("find notification", err)
	}
	return &n, nil
}

// Page read 为 nil 时不按已读过滤；未读数始终按接收者统计
func (r *NotificationRepository) Page(ctx context.Context, receiverID uint64, read *bool, offset, limit int) (model.NotificationPage, error) {
	page := model.NotificationPage{Items: []model.Notification{}}
	q := r.DB.WithContext(ctx).Model(&model.Notification{}).Where("receiver_id = ?", receiverID)
	if read != nil {
		q = q.Where("`read` = ?", *read)
	}
	if err := q.Count(&page.Total).Error; err != nil {
		return page, translate("count notifications", err)
	}
	err := q.Preload("Sender").Preload("Article").
		Order("created_at DESC").Order("id DESC").
		Scopes(paginate(offset, limit)).
		Find(&page.Items).Error
	if err != nil {
		return page, translate("list notifications", err)
	}
	unread, err := r.CountUnread(ctx, receiverID)
	if err != nil {
		return page, err
	}
	page.UnreadCount = unread
	return page, nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, receiverID uint64) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Notification{}).
		Where("receiver_id = ? AND `read` = ?", receiverID, false).
		Count(&n).Error
	return n, translate("count unread", err)
}

// MarkRead 归属校验放在 where 条件里，未命中返回 ErrNotFound
func (r *NotificationRepository) MarkRead(ctx context.Context, id, receiverID uint64, read bool) error {
	res := r.DB.WithContext(ctx).Model(&model.Notification{}).
		Where("id = ? AND receiver_id = ?", id, receiverID).
		UpdateColumn("read", read)
	if res.Error != nil {
		return translate("mark read", res.Error)
	}
	if res.RowsAffected == 0 {
		// 值未变化时 MySQL 返回 0 行，需确认记录是否真的存在
		var n int64
		if err := r.DB.WithContext(ctx).Model(&model.Notification{}).
			Where("id = ? AND receiver_id = ?", id, receiverID).Count(&n).Error; err != nil {
			return translate("mark read", err)
		}
		if n == 0 {
			return ErrNotFound
		}
	}
	return nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, receiverID uint64) (int64, error) {
	res := r.DB.WithContext(ctx).Model(&model.Notification{}).
		Where("receiver_id = ? AND `read` = ?", receiverID, false).
		UpdateColumn("read", true)
	return res.RowsAffected, translate("mark all read", res.Error)
}

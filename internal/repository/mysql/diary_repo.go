package mysql

import (
	"context"
	"time"

	"Blog_Backend/internal/model"

	"gorm.io/gorm"
)

type DiaryRepository struct {
	DB *gorm.DB
}

func (r *DiaryRepository) Create(ctx context.Context, d *model.Diary) error {
	return translate("create diary", r.DB.WithContext(ctx).Create(d).Error)
}

// ListBetween [from, to) 内的日记，最新在前
func (r *DiaryRepository) ListBetween(ctx context.Context, from, to time.Time) ([]model.Diary, error) {
	var list []model.Diary
	err := r.DB.WithContext(ctx).
		Where("date >= ? AND date < ?", from, to).
		Order("date DESC").Order("id DESC").
		Find(&list).Error
	return list, translate("list diaries", err)
}

// Dates [from, to) 内的日记时间，username 为空时不过滤
func (r *DiaryRepository) Dates(ctx context.Context, from, to time.Time, username string) ([]time.Time, error) {
	var dates []time.Time
	q := r.DB.WithContext(ctx).Model(&model.Diary{}).Where("date >= ? AND date < ?", from, to)
	if username != "" {
		q = q.Where("username = ?", username)
	}
	err := q.Order("date ASC").Pluck("date", &dates).Error
	return dates, translate("diary dates", err)
}

func (r *DiaryRepository) Delete(ctx context.Context, id uint64) error {
	res := r.DB.WithContext(ctx).Delete(&model.Diary{}, id)
	if res.Error != nil {
		return translate("delete diary", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

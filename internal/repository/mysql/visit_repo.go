package mysql

import (
	"context"
	"errors"

	"Blog_Backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VisitRepository struct {
	DB *gorm.DB
}

// Increment 当日计数 upsert，并发请求不会丢失
func (r *VisitRepository) Increment(ctx context.Context, date string) error {
	err := r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}},
		DoUpdates: clause.Assignments(map[string]any{"count": gorm.Expr("count + 1")}),
	}).Create(&model.Visit{Date: date, Count: 1}).Error
	return translate("increment visit", err)
}

func (r *VisitRepository) Count(ctx context.Context, date string) (int64, error) {
	var v model.Visit
	err := r.DB.WithContext(ctx).Where("date = ?", date).First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, translate("visit count", err)
	}
	return v.Count, nil
}

func (r *VisitRepository) Total(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Visit{}).Select("COALESCE(SUM(count), 0)").Scan(&n).Error
	return n, translate("visit total", err)
}

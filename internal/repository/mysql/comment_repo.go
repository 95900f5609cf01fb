package mysql

import (
	"context"

	"Blog_Backend/internal/model"

	"gorm.io/gorm"
)

type CommentRepository struct {
	DB *gorm.DB
}

func (r *CommentRepository) Create(ctx context.Context, c *model.Comment) error {
	return translate("create comment", r.DB.WithContext(ctx).Omit("Author", "Article").Create(c).Error)
}

func (r *CommentRepository) FindByID(ctx context.Context, id uint64) (*model.Comment, error) {
	var c model.Comment
	if err := r.DB.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, translate("find comment", err)
	}
	return &c, nil
}

func (r *CommentRepository) List(ctx context.Context) ([]model.Comment, error) {
	var list []model.Comment
	err := r.DB.WithContext(ctx).Preload("Author").Preload("Article").
		Order("created_at DESC").Order("id DESC").
		Find(&list).Error
	return list, translate("list comments", err)
}

func (r *CommentRepository) ListByArticle(ctx context.Context, articleID uint64) ([]model.Comment, error) {
	var list []model.Comment
	err := r.DB.WithContext(ctx).Preload("Author").
		Where("article_id = ?", articleID).
		Order("created_at DESC").Order("id DESC").
		Find(&list).Error
	return list, translate("list article comments", err)
}

func (r *CommentRepository) CountByArticle(ctx context.Context, articleID uint64) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Comment{}).Where("article_id = ?", articleID).Count(&n).Error
	return n, translate("count comments", err)
}

func (r *CommentRepository) Delete(ctx context.Context, id uint64) error {
	res := r.DB.WithContext(ctx).Delete(&model.Comment{}, id)
	if res.Error != nil {
		return translate("delete comment", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

type CommentWebRepository struct {
	DB *gorm.DB
}

func (r *CommentWebRepository) Create(ctx context.Context, c *model.CommentWeb) error {
	return translate("create guest comment", r.DB.WithContext(ctx).Create(c).Error)
}

func (r *CommentWebRepository) Exists(ctx context.Context, id uint64) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.CommentWeb{}).Where("id = ?", id).Count(&n).Error
	return n > 0, translate("guest comment exists", err)
}

// ListRoots 顶层留言，最新在前
func (r *CommentWebRepository) ListRoots(ctx context.Context, offset, limit int) ([]*model.CommentWeb, int64, error) {
	var (
		list  []*model.CommentWeb
		total int64
	)
	q := r.DB.WithContext(ctx).Model(&model.CommentWeb{}).Where("parent_id IS NULL")
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate("count guest comments", err)
	}
	err := q.Order("date DESC").Order("id DESC").Scopes(paginate(offset, limit)).Find(&list).Error
	return list, total, translate("list guest comments", err)
}

// ListChildren 一批父节点的直接回复，最早在前
func (r *CommentWebRepository) ListChildren(ctx context.Context, parentIDs []uint64) ([]*model.CommentWeb, error) {
	var list []*model.CommentWeb
	if len(parentIDs) == 0 {
		return list, nil
	}
	err := r.DB.WithContext(ctx).
		Where("parent_id IN ?", parentIDs).
		Order("date ASC").Order("id ASC").
		Find(&list).Error
	return list, translate("list guest replies", err)
}

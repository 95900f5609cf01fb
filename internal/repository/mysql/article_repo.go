package mysql

import (
	"context"

	"Blog_Backend/internal/model"

	"gorm.io/gorm"
)

type ArticleRepository struct {
	DB *gorm.DB
}

// ArticleFilter 列表过滤条件，零值字段不参与过滤
type ArticleFilter struct {
	AuthorID uint64
	Status   model.ArticleStatus
	Title    string
	Tag      string
}

func (r *ArticleRepository) Create(ctx context.Context, a *model.Article) error {
	return translate("create article", r.DB.WithContext(ctx).Omit("Author").Create(a).Error)
}

func (r *ArticleRepository) FindByID(ctx context.Context, id uint64) (*model.Article, error) {
	var a model.Article
	if err := r.DB.WithContext(ctx).Preload("Author").First(&a, id).Error; err != nil {
		return nil, translate("find article", err)
	}
	return &a, nil
}

// List 按创建时间倒序分页
func (r *ArticleRepository) List(ctx context.Context, f ArticleFilter, offset, limit int) ([]model.Article, int64, error) {
	var (
		list  []model.Article
		total int64
	)
	q := r.DB.WithContext(ctx).Model(&model.Article{})
	if f.AuthorID != 0 {
		q = q.Where("author_id = ?", f.AuthorID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Title != "" {
		q = q.Where("title LIKE ?", "%"+f.Title+"%")
	}
	if f.Tag != "" {
		// tags 以 JSON 数组存储，按带引号的元素匹配
		q = q.Where("tags LIKE ?", `%"`+f.Tag+`"%`)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate("count articles", err)
	}
	err := q.Preload("Author").
		Order("created_at DESC").Order("id DESC").
		Scopes(paginate(offset, limit)).
		Find(&list).Error
	return list, total, translate("list articles", err)
}

// Recent 最近发布的文章，按日期分组在服务层完成
func (r *ArticleRepository) Recent(ctx context.Context, limit int) ([]model.Article, error) {
	var list []model.Article
	err := r.DB.WithContext(ctx).
		Where("status = ?", model.StatusPublished).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Find(&list).Error
	return list, translate("recent articles", err)
}

func (r *ArticleRepository) Save(ctx context.Context, a *model.Article) error {
	return translate("save article", r.DB.WithContext(ctx).Omit("Author").Save(a).Error)
}

// IncrementView 原子自增浏览量
func (r *ArticleRepository) IncrementView(ctx context.Context, id uint64) error {
	res := r.DB.WithContext(ctx).Model(&model.Article{}).Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1))
	if res.Error != nil {
		return translate("increment view", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ArticleRepository) CountByAuthor(ctx context.Context, authorID uint64) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Article{}).Where("author_id = ?", authorID).Count(&n).Error
	return n, translate("count author articles", err)
}

// CountByStatus 各状态的文章数量
func (r *ArticleRepository) CountByStatus(ctx context.Context) (map[model.ArticleStatus]int64, error) {
	var rows []struct {
		Status model.ArticleStatus
		N      int64
	}
	err := r.DB.WithContext(ctx).Model(&model.Article{}).
		Select("status, COUNT(*) AS n").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, translate("count by status", err)
	}
	out := make(map[model.ArticleStatus]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.N
	}
	return out, nil
}

func (r *ArticleRepository) SumViews(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Article{}).Select("COALESCE(SUM(view_count), 0)").Scan(&n).Error
	return n, translate("sum views", err)
}

// Delete 级联删除评论、点赞、收藏与相关通知
func (r *ArticleRepository) Delete(ctx context.Context, id uint64) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("article_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("article_id = ?", id).Delete(&model.ArticleLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("article_id = ?", id).Delete(&model.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("article_id = ?", id).Delete(&model.Notification{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Article{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	return translate("delete article", err)
}

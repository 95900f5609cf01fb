package mysql

import (
	"context"
	"encoding/json"
	"time"

	"Blog_Backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Toggle 切换结果：State 为切换后的状态，Changed 表示本次调用确实改变了关系
type Toggle struct {
	State   bool
	Changed bool
}

type FollowRepository struct {
	DB *gorm.DB
}

type LikeRepository struct {
	DB *gorm.DB
}

type FavoriteRepository struct {
	DB *gorm.DB
}

// Toggle 先删后插，不做读-改-写；并发插入由主键冲突 DoNothing 吸收
func (r *FollowRepository) Toggle(ctx context.Context, followerID, followingID uint64) (Toggle, error) {
	var t Toggle
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("follower_id = ? AND following_id = ?", followerID, followingID).Delete(&model.Follow{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			t = Toggle{State: false, Changed: true}
			return insertOutbox(tx, "unfollow", followerID, followingID, 0)
		}
		res = tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "follower_id"}, {Name: "following_id"}},
			DoNothing: true,
		}).Create(&model.Follow{FollowerID: followerID, FollowingID: followingID})
		if res.Error != nil {
			return res.Error
		}
		t = Toggle{State: true, Changed: res.RowsAffected > 0}
		if !t.Changed {
			return nil
		}
		return insertOutbox(tx, "follow", followerID, followingID, 0)
	})
	return t, translate("toggle follow", err)
}

func (r *FollowRepository) IsFollowing(ctx context.Context, followerID, followingID uint64) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&n).Error
	return n > 0, translate("is following", err)
}

// ListFollowings 关注的人，按关注时间倒序
func (r *FollowRepository) ListFollowings(ctx context.Context, userID uint64, offset, limit int) ([]model.User, int64, error) {
	return r.listUsers(ctx, "user_following.following_id = users.id", "user_following.follower_id = ?", userID, offset, limit)
}

// ListFollowers 粉丝列表
func (r *FollowRepository) ListFollowers(ctx context.Context, userID uint64, offset, limit int) ([]model.User, int64, error) {
	return r.listUsers(ctx, "user_following.follower_id = users.id", "user_following.following_id = ?", userID, offset, limit)
}

func (r *FollowRepository) listUsers(ctx context.Context, on, where string, userID uint64, offset, limit int) ([]model.User, int64, error) {
	var (
		list  []model.User
		total int64
	)
	q := r.DB.WithContext(ctx).Model(&model.User{}).
		Joins("JOIN user_following ON "+on).
		Where(where, userID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate("count follow users", err)
	}
	err := q.Order("user_following.created_at DESC").Scopes(paginate(offset, limit)).Find(&list).Error
	return list, total, translate("list follow users", err)
}

func (r *FollowRepository) CountFollowers(ctx context.Context, userID uint64) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Follow{}).Where("following_id = ?", userID).Count(&n).Error
	return n, translate("count followers", err)
}

func (r *LikeRepository) Toggle(ctx context.Context, userID, articleID, authorID uint64) (Toggle, error) {
	var t Toggle
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND article_id = ?", userID, articleID).Delete(&model.ArticleLike{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			t = Toggle{State: false, Changed: true}
			return insertOutbox(tx, "unlike", userID, authorID, articleID)
		}
		res = tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "article_id"}},
			DoNothing: true,
		}).Create(&model.ArticleLike{UserID: userID, ArticleID: articleID})
		if res.Error != nil {
			return res.Error
		}
		t = Toggle{State: true, Changed: res.RowsAffected > 0}
		if !t.Changed {
			return nil
		}
		return insertOutbox(tx, "like", userID, authorID, articleID)
	})
	return t, translate("toggle like", err)
}

func (r *LikeRepository) IsLiked(ctx context.Context, userID, articleID uint64) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.ArticleLike{}).
		Where("user_id = ? AND article_id = ?", userID, articleID).
		Count(&n).Error
	return n > 0, translate("is liked", err)
}

func (r *LikeRepository) CountByArticle(ctx context.Context, articleID uint64) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.ArticleLike{}).Where("article_id = ?", articleID).Count(&n).Error
	return n, translate("count likes", err)
}

// LikedArticles 用户点赞的文章，按文章创建时间倒序
func (r *LikeRepository) LikedArticles(ctx context.Context, userID uint64, offset, limit int) ([]model.Article, int64, error) {
	var (
		list  []model.Article
		total int64
	)
	q := r.DB.WithContext(ctx).Model(&model.Article{}).
		Joins("JOIN user_liked_articles ula ON ula.article_id = articles.id AND ula.user_id = ?", userID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate("count liked articles", err)
	}
	err := q.Order("articles.created_at DESC").Scopes(paginate(offset, limit)).Find(&list).Error
	return list, total, translate("list liked articles", err)
}

func (r *FavoriteRepository) Toggle(ctx context.Context, userID, articleID, authorID uint64) (Toggle, error) {
	var t Toggle
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND article_id = ?", userID, articleID).Delete(&model.Favorite{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			t = Toggle{State: false, Changed: true}
			return insertOutbox(tx, "unfavorite", userID, authorID, articleID)
		}
		// 唯一索引 (user_id, article_id) 保证不会重复收藏
		res = tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "article_id"}},
			DoNothing: true,
		}).Create(&model.Favorite{UserID: userID, ArticleID: articleID})
		if res.Error != nil {
			return res.Error
		}
		t = Toggle{State: true, Changed: res.RowsAffected > 0}
		if !t.Changed {
			return nil
		}
		return insertOutbox(tx, "favorite", userID, authorID, articleID)
	})
	return t, translate("toggle favorite", err)
}

func (r *FavoriteRepository) IsFavorited(ctx context.Context, userID, articleID uint64) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Favorite{}).
		Where("user_id = ? AND article_id = ?", userID, articleID).
		Count(&n).Error
	return n > 0, translate("is favorited", err)
}

func (r *FavoriteRepository) CountByArticle(ctx context.Context, articleID uint64) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Favorite{}).Where("article_id = ?", articleID).Count(&n).Error
	return n, translate("count favorites", err)
}

// FavoriteArticles 用户收藏的文章，按收藏时间倒序
func (r *FavoriteRepository) FavoriteArticles(ctx context.Context, userID uint64, offset, limit int) ([]model.Article, int64, error) {
	var (
		favs  []model.Favorite
		total int64
	)
	q := r.DB.WithContext(ctx).Model(&model.Favorite{}).Where("user_id = ?", userID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate("count favorites", err)
	}
	err := q.Preload("Article").Order("created_at DESC").Order("id DESC").Scopes(paginate(offset, limit)).Find(&favs).Error
	if err != nil {
		return nil, 0, translate("list favorites", err)
	}
	list := make([]model.Article, 0, len(favs))
	for _, f := range favs {
		if f.Article != nil {
			list = append(list, *f.Article)
		}
	}
	return list, total, nil
}

// insertOutbox 与关系变更同一事务写入外发事件
func insertOutbox(tx *gorm.DB, event string, actor, target, articleID uint64) error {
	payload, _ := json.Marshal(map[string]any{
		"event":      event,
		"event_time": time.Now().UTC().Format(time.RFC3339Nano),
		"actor":      actor,
		"target":     target,
		"article_id": articleID,
	})
	ob := &model.SocialOutbox{
		EventType: event,
		ActorID:   actor,
		TargetID:  target,
		ArticleID: articleID,
		Payload:   string(payload),
		Status:    model.OutboxPending,
	}
	return tx.Create(ob).Error
}

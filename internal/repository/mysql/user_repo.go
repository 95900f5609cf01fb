package mysql

import (
	"context"
	"fmt"

	"Blog_Backend/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	return translate("create user", r.DB.WithContext(ctx).Create(user).Error)
}

// FindByID 附带角色
func (r *UserRepository) FindByID(ctx context.Context, id uint64) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).Preload("Role").First(&user, id).Error
	if err != nil {
		return nil, translate("find user", err)
	}
	return &user, nil
}

// FindByLogin 登录名可以是账号或用户名
func (r *UserRepository) FindByLogin(ctx context.Context, name string) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).Preload("Role").
		Where("account = ? OR username = ?", name, name).
		First(&user).Error
	if err != nil {
		return nil, translate("find user by login", err)
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, translate("find user by email", err)
	}
	return &user, nil
}

func (r *UserRepository) Exists(ctx context.Context, id uint64) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Count(&n).Error
	return n > 0, translate("user exists", err)
}

// ExistsField 唯一字段占用检查，excludeID 用于更新时排除自身
func (r *UserRepository) ExistsField(ctx context.Context, field, value string, excludeID uint64) (bool, error) {
	var n int64
	q := r.DB.WithContext(ctx).Model(&model.User{}).Where(field+" = ?", value)
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&n).Error
	return n > 0, translate("user field exists", err)
}

func (r *UserRepository) List(ctx context.Context, offset, limit int) ([]model.User, int64, error) {
	var (
		list  []model.User
		total int64
	)
	db := r.DB.WithContext(ctx).Model(&model.User{})
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, translate("count users", err)
	}
	err := db.Preload("Role").Order("id ASC").Scopes(paginate(offset, limit)).Find(&list).Error
	return list, total, translate("list users", err)
}

// ListByRole orderBy 必须是白名单中的列
func (r *UserRepository) ListByRole(ctx context.Context, roleID uint64, orderBy string, desc bool, offset, limit int) ([]model.User, int64, error) {
	var (
		list  []model.User
		total int64
	)
	db := r.DB.WithContext(ctx).Model(&model.User{}).Where("role_id = ?", roleID)
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, translate("count role users", err)
	}
	order := orderBy + " ASC"
	if desc {
		order = orderBy + " DESC"
	}
	err := db.Order(order).Scopes(paginate(offset, limit)).Find(&list).Error
	return list, total, translate("list role users", err)
}

func (r *UserRepository) CountByRole(ctx context.Context, roleID uint64) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.User{}).Where("role_id = ?", roleID).Count(&n).Error
	return n, translate("count by role", err)
}

// Save 全量保存（调用方负责合并字段）
func (r *UserRepository) Save(ctx context.Context, user *model.User) error {
	return translate("save user", r.DB.WithContext(ctx).Omit("Role").Save(user).Error)
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id uint64, hash string) error {
	res := r.DB.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Update("password", hash)
	if res.Error != nil {
		return translate("update password", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete 删除用户及其评论、关注、点赞、收藏和通知；仍有文章或图片时拒绝
func (r *UserRepository) Delete(ctx context.Context, id uint64) error {
	return translate("delete user", r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var owned int64
		if err := tx.Model(&model.Article{}).Where("author_id = ?", id).Count(&owned).Error; err != nil {
			return err
		}
		if owned > 0 {
			return fmt.Errorf("%w: user %d owns %d articles", ErrInUse, id, owned)
		}
		if err := tx.Model(&model.Image{}).Where("user_id = ?", id).Count(&owned).Error; err != nil {
			return err
		}
		if owned > 0 {
			return fmt.Errorf("%w: user %d owns %d images", ErrInUse, id, owned)
		}
		if err := tx.Where("sender_id = ? OR receiver_id = ?", id, id).Delete(&model.Notification{}).Error; err != nil {
			return err
		}
		if err := tx.Where("author_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("follower_id = ? OR following_id = ?", id, id).Delete(&model.Follow{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&model.ArticleLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&model.Favorite{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.User{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	}))
}

// Stats 粉丝数、关注数、文章数
func (r *UserRepository) Stats(ctx context.Context, id uint64) (model.UserStats, error) {
	var s model.UserStats
	db := r.DB.WithContext(ctx)
	if err := db.Model(&model.Follow{}).Where("following_id = ?", id).Count(&s.FollowerCount).Error; err != nil {
		return s, translate("count followers", err)
	}
	if err := db.Model(&model.Follow{}).Where("follower_id = ?", id).Count(&s.FollowingCount).Error; err != nil {
		return s, translate("count followings", err)
	}
	if err := db.Model(&model.Article{}).Where("author_id = ?", id).Count(&s.ArticleCount).Error; err != nil {
		return s, translate("count articles", err)
	}
	return s, nil
}

package model

import "time"

// Follow 关注关系，(follower_id, following_id) 复合主键
type Follow struct {
	FollowerID  uint64 `gorm:"primaryKey;autoIncrement:false"`
	FollowingID uint64 `gorm:"primaryKey;autoIncrement:false;index:idx_following_id"`
	CreatedAt   time.Time
}

func (Follow) TableName() string {
	return "user_following"
}

// ArticleLike 点赞关系
type ArticleLike struct {
	UserID    uint64 `gorm:"primaryKey;autoIncrement:false"`
	ArticleID uint64 `gorm:"primaryKey;autoIncrement:false;index:idx_liked_article_id"`
	CreatedAt time.Time
}

func (ArticleLike) TableName() string {
	return "user_liked_articles"
}

// Favorite 收藏，(user_id, article_id) 唯一
type Favorite struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	UserID    uint64    `gorm:"not null;uniqueIndex:uk_user_article" json:"userId"`
	ArticleID uint64    `gorm:"not null;uniqueIndex:uk_user_article;index" json:"articleId"`
	Article   *Article  `gorm:"foreignKey:ArticleID" json:"article,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

const (
	OutboxPending = 0
	OutboxSent    = 1
	OutboxFailed  = 2
)

// SocialOutbox 互动事件外发表
type SocialOutbox struct {
	ID        uint64 `gorm:"primaryKey"`
	EventType string `gorm:"size:16;not null"` // follow / unfollow / like / unlike / favorite / unfavorite
	ActorID   uint64 `gorm:"not null"`
	TargetID  uint64 `gorm:"not null"`
	ArticleID uint64 `gorm:"not null;default:0"`
	Payload   string `gorm:"type:json;not null"`
	Status    int8   `gorm:"not null;default:0;index;comment:'0=pending,1=sent,2=failed'"`
	Retry     int    `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (SocialOutbox) TableName() string { return "social_outbox" }

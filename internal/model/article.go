package model

import "time"

type ArticleStatus string

const (
	StatusDraft         ArticleStatus = "draft"
	StatusPublished     ArticleStatus = "published"
	StatusPendingReview ArticleStatus = "pending_review"
	StatusRejected      ArticleStatus = "rejected"
)

func (s ArticleStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusPendingReview, StatusRejected:
		return true
	}
	return false
}

type Article struct {
	ID        uint64        `gorm:"primaryKey" json:"id"`
	Title     string        `gorm:"size:200;not null;index" json:"title"`
	Content   string        `gorm:"type:text" json:"content"`
	Tags      []string      `gorm:"serializer:json;type:json" json:"tags"`
	Readme    string        `gorm:"type:text" json:"readme"`
	Banner    string        `gorm:"type:mediumtext" json:"banner"`
	Status    ArticleStatus `gorm:"size:20;not null;index" json:"status"`
	ViewCount uint64        `gorm:"not null;default:0" json:"viewCount"`
	AuthorID  uint64        `gorm:"not null;index" json:"authorId"`
	Author    *User         `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	CreatedAt time.Time     `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// ArticleDetail 详情页附带的统计
type ArticleDetail struct {
	Article
	ArticleStats
}

type ArticleStats struct {
	LikeCount            int64 `json:"likesCount"`
	FavoritesCount       int64 `json:"favoritesCount"`
	CommentCount         int64 `json:"commentCount"`
	AuthorFollowersCount int64 `json:"authorFollowers"`
}

// DatedArticles 按日期分组的文章
type DatedArticles struct {
	Date  string    `json:"date"`
	Posts []Article `json:"posts"`
}

// InteractionStatus 用户与文章的交互状态
type InteractionStatus struct {
	IsFollowingAuthor bool `json:"isFollowingAuthor"`
	IsLiked           bool `json:"isLiked"`
	IsFavorited       bool `json:"isFavorited"`
}

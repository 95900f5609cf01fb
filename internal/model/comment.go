package model

import "time"

type Comment struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	AuthorID  uint64    `gorm:"not null;index" json:"authorId"`
	Author    *User     `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	ArticleID uint64    `gorm:"not null;index" json:"articleId"`
	Article   *Article  `gorm:"foreignKey:ArticleID" json:"article,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// CommentWeb 访客留言，支持楼中楼
type CommentWeb struct {
	ID       uint64    `gorm:"primaryKey" json:"id"`
	Username string    `gorm:"size:64;not null" json:"username"`
	QQ       string    `gorm:"size:32" json:"qq,omitempty"`
	Avatar   string    `gorm:"size:255" json:"avatar"`
	URL      string    `gorm:"size:255" json:"url"`
	Email    string    `gorm:"size:128" json:"email,omitempty"`
	Content  string    `gorm:"type:text;not null" json:"content"`
	Date     time.Time `gorm:"autoCreateTime;index" json:"date"`
	ParentID *uint64   `gorm:"index" json:"parentId"`
	ReplyTo  string    `gorm:"size:64" json:"replyTo,omitempty"`

	Children []*CommentWeb `gorm:"-" json:"children,omitempty"`
}

func (CommentWeb) TableName() string { return "comments_web" }

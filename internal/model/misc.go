package model

import "time"

type Diary struct {
	ID       uint64    `gorm:"primaryKey" json:"id"`
	Username string    `gorm:"size:64;not null;index" json:"username"`
	Content  string    `gorm:"type:text;not null" json:"content"`
	Date     time.Time `gorm:"autoCreateTime;index" json:"date"`
}

// DiaryDay 某月中每天的日记数量
type DiaryDay struct {
	Day   int   `json:"day"`
	Count int64 `json:"count"`
}

// Message 留言板
type Message struct {
	ID       uint64    `gorm:"primaryKey" json:"id"`
	Username string    `gorm:"size:64;not null;index" json:"username"`
	Content  string    `gorm:"type:text;not null" json:"content"`
	Date     time.Time `gorm:"index" json:"date"`
}

type Link struct {
	ID      uint64    `gorm:"primaryKey" json:"id"`
	Title   string    `gorm:"size:255;not null" json:"title"`
	Content string    `gorm:"type:text" json:"content"`
	Banner  string    `gorm:"type:mediumtext" json:"banner"`
	URL     string    `gorm:"size:512;not null" json:"url"`
	Date    time.Time `gorm:"autoCreateTime" json:"date"`
}

type Image struct {
	ID           uint64    `gorm:"primaryKey" json:"id"`
	OriginalName string    `gorm:"size:255;not null" json:"originalname"`
	MimeType     string    `gorm:"size:128" json:"mimetype"`
	Path         string    `gorm:"size:512;not null" json:"path"`
	ObjectKey    string    `gorm:"size:255;not null" json:"-"`
	Size         int64     `gorm:"not null" json:"size"`
	UserID       uint64    `gorm:"not null;index" json:"userId"`
	UploadedAt   time.Time `gorm:"autoCreateTime;index" json:"uploadedAt"`
}

// Visit 每日访问计数，date 形如 2006-01-02
type Visit struct {
	ID    uint64 `gorm:"primaryKey" json:"id"`
	Date  string `gorm:"size:10;uniqueIndex;not null" json:"date"`
	Count int64  `gorm:"not null;default:0" json:"count"`
}

type DictEntry struct {
	Label string `json:"label" yaml:"label"`
	Value any    `json:"value" yaml:"value"`
}

type Dict struct {
	ID      uint64      `gorm:"primaryKey" json:"id"`
	Name    string      `gorm:"size:64;not null" json:"name"`
	Type    string      `gorm:"uniqueIndex;size:64;not null" json:"type"`
	Entries []DictEntry `gorm:"serializer:json;type:json" json:"entries"`
	Status  bool        `gorm:"not null" json:"status"`
	Sort    int         `gorm:"not null;default:0" json:"sort"`
	Remark  string      `gorm:"size:255" json:"remark"`
}

// All 需要迁移的模型
func All() []any {
	return []any{
		&Role{}, &Permission{}, &RolePermission{}, &RoleMenu{}, &Menu{},
		&User{}, &Follow{},
		&Article{}, &ArticleLike{}, &Favorite{}, &Comment{}, &SocialOutbox{},
		&Notification{},
		&CommentWeb{}, &Diary{}, &Message{}, &Link{}, &Image{}, &Visit{}, &Dict{},
	}
}

package model

import "time"

type User struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	Account   string    `gorm:"uniqueIndex;size:64;not null" json:"account"`
	Username  string    `gorm:"uniqueIndex;size:64;not null" json:"username"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	Email     string    `gorm:"size:128;index" json:"email"`
	Avatar    string    `gorm:"size:255" json:"avatar"`
	Signature string    `gorm:"size:120" json:"signature"`
	ChangeLog string    `gorm:"type:text" json:"-"` // 角色变更日志
	RoleID    uint64    `gorm:"index" json:"roleId"`
	Role      *Role     `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UserStats 派生计数，不落库
type UserStats struct {
	FollowerCount  int64 `json:"followersCount"`
	FollowingCount int64 `json:"followingCount"`
	ArticleCount   int64 `json:"totalArticles"`
}

// UserProfile 对外展示的用户信息
type UserProfile struct {
	User
	UserStats
}

package model

import "time"

type NotificationType string

const (
	NotifyFollow   NotificationType = "FOLLOW"
	NotifyLike     NotificationType = "LIKE"
	NotifyFavorite NotificationType = "FAVORITE"
)

type Notification struct {
	ID         uint64           `gorm:"primaryKey" json:"id"`
	Type       NotificationType `gorm:"size:16;not null" json:"type"`
	SenderID   uint64           `gorm:"not null;index" json:"senderId"`
	Sender     *User            `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	ReceiverID uint64           `gorm:"not null;index:idx_receiver_read,priority:1" json:"receiverId"`
	ArticleID  *uint64          `gorm:"index" json:"articleId"`
	Article    *Article         `gorm:"foreignKey:ArticleID" json:"article,omitempty"`
	IsStart    bool             `gorm:"not null" json:"isStart"` // 关注/取消，点赞/取消
	Read       bool             `gorm:"not null;default:false;index:idx_receiver_read,priority:2" json:"read"`
	CreatedAt  time.Time        `gorm:"index" json:"createdAt"`
}

// NotificationPage 分页结果附带未读数
type NotificationPage struct {
	Items       []Notification `json:"items"`
	Total       int64          `json:"total"`
	UnreadCount int64          `json:"unreadCount"`
}

// websocket 事件名
const (
	EventNewNotification    = "new-notification"
	EventUnreadCountUpdated = "updated-unread-count"
	EventUnreadCount        = "unread-count"
	EventGetUnreadCount     = "get-unread-count"
)

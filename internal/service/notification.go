package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"Blog_Backend/internal/model"
	"Blog_Backend/internal/pkg"
	"Blog_Backend/internal/repository/mysql"

	"github.com/sirupsen/logrus"
)

// Pusher 向在线用户推送事件，用户不在线时返回 false
type Pusher interface {
	SendToUser(userID uint64, event string, data any) bool
}

// NotificationEvent 互动产生的通知事件
type NotificationEvent struct {
	Type       model.NotificationType
	SenderID   uint64
	ReceiverID uint64
	ArticleID  *uint64
	IsStart    bool
}

type NotificationService struct {
	repo   *mysql.NotificationRepository
	pusher Pusher
	log    *logrus.Entry
}

func NewNotificationService(repo *mysql.NotificationRepository, pusher Pusher, log *logrus.Logger) *NotificationService {
	return &NotificationService{repo: repo, pusher: pusher, log: log.WithField("component", "notification")}
}

// Create 写入一条通知，自己对自己的互动不产生通知
func (s *NotificationService) Create(ctx context.Context, evt NotificationEvent) (*model.Notification, error) {
	if evt.SenderID == evt.ReceiverID {
		return nil, nil
	}
	n := &model.Notification{
		Type:       evt.Type,
		SenderID:   evt.SenderID,
		ReceiverID: evt.ReceiverID,
		ArticleID:  evt.ArticleID,
		IsStart:    evt.IsStart,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// List read 为 nil 时返回全部；unreadCount 与 read 过滤无关
func (s *NotificationService) List(ctx context.Context, receiverID uint64, q pkg.PageQuery, read *bool) (model.NotificationPage, error) {
	if receiverID == 0 {
		return model.NotificationPage{}, badRequest("缺少接收者")
	}
	if err := q.Normalize(); err != nil {
		return model.NotificationPage{}, badRequest(err.Error())
	}
	return s.repo.Page(ctx, receiverID, read, q.Offset(), q.Limit)
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID uint64) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}

// MarkAsRead 只能修改属于自己的通知
func (s *NotificationService) MarkAsRead(ctx context.Context, id, userID uint64, read bool) error {
	if err := s.repo.MarkRead(ctx, id, userID, read); err != nil {
		return mapRepoError(err, "通知")
	}
	s.pushUnread(ctx, userID)
	return nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint64) (int64, error) {
	n, err := s.repo.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, err
	}
	s.pushUnread(ctx, userID)
	return n, nil
}

// deliver 持久化后推送给接收者，接收者离线则只落库
func (s *NotificationService) deliver(ctx context.Context, evt NotificationEvent) error {
	n, err := s.Create(ctx, evt)
	if err != nil || n == nil {
		return err
	}
	full, err := s.repo.FindByID(ctx, n.ID)
	if err != nil {
		full = n
	}
	if s.pusher != nil {
		s.pusher.SendToUser(evt.ReceiverID, model.EventNewNotification, full)
	}
	s.pushUnread(ctx, evt.ReceiverID)
	return nil
}

func (s *NotificationService) pushUnread(ctx context.Context, userID uint64) {
	if s.pusher == nil {
		return
	}
	count, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		s.log.WithError(err).WithField("user_id", userID).Warn("count unread failed")
		return
	}
	s.pusher.SendToUser(userID, model.EventUnreadCountUpdated, map[string]any{"count": count})
}

// NotificationDispatcher 有界队列 + 固定 worker，把互动事件与通知落库解耦
type NotificationDispatcher struct {
	svc     *NotificationService
	queue   chan NotificationEvent
	workers int
	log     *logrus.Entry

	mu      sync.RWMutex
	closed  bool
	wg      sync.WaitGroup
	dropped atomic.Int64
}

func NewNotificationDispatcher(svc *NotificationService, size, workers int, log *logrus.Logger) *NotificationDispatcher {
	if size <= 0 {
		size = 1024
	}
	if workers <= 0 {
		workers = 1
	}
	return &NotificationDispatcher{
		svc:     svc,
		queue:   make(chan NotificationEvent, size),
		workers: workers,
		log:     log.WithField("component", "notification_dispatcher"),
	}
}

// Publish 非阻塞投递，队列满或已关闭时丢弃并返回 false
func (d *NotificationDispatcher) Publish(evt NotificationEvent) bool {
	if evt.SenderID == evt.ReceiverID {
		return false
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return false
	}
	select {
	case d.queue <- evt:
		return true
	default:
		d.dropped.Add(1)
		d.log.WithFields(logrus.Fields{
			"type":        evt.Type,
			"sender_id":   evt.SenderID,
			"receiver_id": evt.ReceiverID,
			"dropped":     d.dropped.Load(),
		}).Warn("notification queue full, event dropped")
		return false
	}
}

func (d *NotificationDispatcher) Dropped() int64 {
	return d.dropped.Load()
}

func (d *NotificationDispatcher) Start() {
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker(i)
	}
	d.log.WithField("workers", d.workers).Info("notification dispatcher started")
}

// Stop 关闭队列并等待已入队事件处理完
func (d *NotificationDispatcher) Stop() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()
	d.wg.Wait()
	d.log.Info("notification dispatcher stopped")
}

func (d *NotificationDispatcher) worker(id int) {
	defer d.wg.Done()
	for evt := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := d.svc.deliver(ctx, evt); err != nil {
			d.log.WithError(err).WithFields(logrus.Fields{
				"worker":      id,
				"type":        evt.Type,
				"sender_id":   evt.SenderID,
				"receiver_id": evt.ReceiverID,
			}).Error("deliver notification failed")
		}
		cancel()
	}
}

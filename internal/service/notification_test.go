package service

import (
	"context"
	"testing"

	"Blog_Backend/internal/model"
	"Blog_Backend/internal/pkg"
	"Blog_Backend/internal/repository/mysql"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationService_CreateSkipsSelf(t *testing.T) {
	db := newTestDB(t)
	alice := createUser(t, db, "alice", 0)
	svc := NewNotificationService(&mysql.NotificationRepository{DB: db}, nil, newTestLogger())

	n, err := svc.Create(context.Background(), NotificationEvent{Type: model.NotifyFollow, SenderID: alice.ID, ReceiverID: alice.ID, IsStart: true})
	require.NoError(t, err)
	assert.Nil(t, n)
}

func TestNotificationService_ListAndMarkRead(t *testing.T) {
	db := newTestDB(t)
	alice := createUser(t, db, "alice", 0)
	bob := createUser(t, db, "bob", 0)
	pusher := &capturePusher{}
	svc := NewNotificationService(&mysql.NotificationRepository{DB: db}, pusher, newTestLogger())
	ctx := context.Background()

	first, err := svc.Create(ctx, NotificationEvent{Type: model.NotifyFollow, SenderID: alice.ID, ReceiverID: bob.ID, IsStart: true})
	require.NoError(t, err)
	_, err = svc.Create(ctx, NotificationEvent{Type: model.NotifyFollow, SenderID: alice.ID, ReceiverID: bob.ID, IsStart: false})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.MarkAsRead(ctx, first.ID, alice.ID, true), ErrNotFound)
	require.NoError(t, svc.MarkAsRead(ctx, first.ID, bob.ID, true))

	unread := false
	page, err := svc.List(ctx, bob.ID, pkg.PageQuery{Page: 1, Limit: 10}, &unread)
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)
	assert.EqualValues(t, 1, page.UnreadCount)

	n, err := svc.MarkAllRead(ctx, bob.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	sent := pusher.Sent()
	require.Len(t, sent, 2)
	assert.Equal(t, model.EventUnreadCountUpdated, sent[1].Event)
	assert.Equal(t, map[string]any{"count": int64(0)}, sent[1].Data)
}

func TestNotificationDispatcher_DropsWhenFull(t *testing.T) {
	db := newTestDB(t)
	svc := NewNotificationService(&mysql.NotificationRepository{DB: db}, nil, newTestLogger())
	d := NewNotificationDispatcher(svc, 1, 1, newTestLogger())

	evt := NotificationEvent{Type: model.NotifyFollow, SenderID: 1, ReceiverID: 2, IsStart: true}
	assert.True(t, d.Publish(evt))
	assert.False(t, d.Publish(evt))
	assert.EqualValues(t, 1, d.Dropped())

	self := NotificationEvent{Type: model.NotifyFollow, SenderID: 3, ReceiverID: 3}
	assert.False(t, d.Publish(self))
	assert.EqualValues(t, 1, d.Dropped())

	d.Start()
	d.Stop()
	assert.False(t, d.Publish(evt))
}

func TestNotificationDispatcher_DeliversAndPushes(t *testing.T) {
	db := newTestDB(t)
	alice := createUser(t, db, "alice", 0)
	bob := createUser(t, db, "bob", 0)
	pusher := &capturePusher{}
	svc := NewNotificationService(&mysql.NotificationRepository{DB: db}, pusher, newTestLogger())
	d := NewNotificationDispatcher(svc, 8, 2, newTestLogger())
	d.Start()

	assert.True(t, d.Publish(NotificationEvent{Type: model.NotifyFollow, SenderID: alice.ID, ReceiverID: bob.ID, IsStart: true}))
	d.Stop()

	var count int64
	require.NoError(t, db.Model(&model.Notification{}).Where("receiver_id = ?", bob.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	sent := pusher.Sent()
	require.Len(t, sent, 2)
	assert.Equal(t, bob.ID, sent[0].UserID)
	assert.Equal(t, model.EventNewNotification, sent[0].Event)
	full, ok := sent[0].Data.(*model.Notification)
	require.True(t, ok)
	require.NotNil(t, full.Sender)
	assert.Equal(t, "alice", full.Sender.Username)
	assert.Equal(t, model.EventUnreadCountUpdated, sent[1].Event)
	assert.Equal(t, map[string]any{"count": int64(1)}, sent[1].Data)
}

package service

import (
	"context"
	"errors"
	"testing"

	"Blog_Backend/internal/model"
	"Blog_Backend/internal/repository/mysql"
	"Blog_Backend/internal/repository/redis"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutboxRelayer_DrainOnce(t *testing.T) {
	db := newTestDB(t)
	alice := createUser(t, db, "alice", 0)
	bob := createUser(t, db, "bob", 0)
	follows := &mysql.FollowRepository{DB: db}
	ctx := context.Background()

	_, err := follows.Toggle(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	_, err = follows.Toggle(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	var got []string
	sender := func(_ context.Context, ob *model.SocialOutbox) error {
		if ob.EventType == "unfollow" {
			return errors.New("broker down")
		}
		got = append(got, ob.EventType)
		return nil
	}
	relayer := NewOutboxRelayer(&mysql.OutboxRepository{DB: db}, nil, sender, newTestLogger())

	assert.Equal(t, 1, relayer.drainOnce(ctx))
	assert.Equal(t, []string{"follow"}, got)

	var failed model.SocialOutbox
	require.NoError(t, db.Where("event_type = ?", "unfollow").First(&failed).Error)
	assert.EqualValues(t, model.OutboxFailed, failed.Status)
	assert.Equal(t, 1, failed.Retry)

	// 已发送的不会重复投递，失败的继续重试
	assert.Equal(t, 0, relayer.drainOnce(ctx))
	assert.Equal(t, []string{"follow"}, got)
	require.NoError(t, db.First(&failed, failed.ID).Error)
	assert.Equal(t, 2, failed.Retry)
}

func TestOutboxRelayer_SkipsWhenLocked(t *testing.T) {
	db := newTestDB(t)
	alice := createUser(t, db, "alice", 0)
	bob := createUser(t, db, "bob", 0)
	_, err := (&mysql.FollowRepository{DB: db}).Toggle(context.Background(), alice.ID, bob.ID)
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	lock := &redis.DistLock{RDB: rdb}
	require.NoError(t, mr.Set("lock:"+outboxLockName, "other"))

	calls := 0
	relayer := NewOutboxRelayer(&mysql.OutboxRepository{DB: db}, lock, func(context.Context, *model.SocialOutbox) error {
		calls++
		return nil
	}, newTestLogger())

	assert.Equal(t, 0, relayer.drainOnce(context.Background()))
	assert.Zero(t, calls)

	mr.Del("lock:" + outboxLockName)
	assert.Equal(t, 1, relayer.drainOnce(context.Background()))
	assert.False(t, mr.Exists("lock:"+outboxLockName))
}

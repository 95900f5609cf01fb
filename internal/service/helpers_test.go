package service

import (
	"io"
	"sync"
	"testing"

	"Blog_Backend/internal/model"
	"Blog_Backend/internal/repository/mysql"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), mysql.Config())
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, mysql.AutoMigrate(db))
	return db
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func createUser(t *testing.T, db *gorm.DB, name string, roleID uint64) *model.User {
	t.Helper()
	u := &model.User{Account: name, Username: name, Password: "x", RoleID: roleID}
	require.NoError(t, db.Create(u).Error)
	return u
}

// capturePublisher 记录发布的事件
type capturePublisher struct {
	mu     sync.Mutex
	events []NotificationEvent
}

func (p *capturePublisher) Publish(evt NotificationEvent) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return true
}

func (p *capturePublisher) Events() []NotificationEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]NotificationEvent(nil), p.events...)
}

type pushed struct {
	UserID uint64
	Event  string
	Data   any
}

// capturePusher 模拟在线连接
type capturePusher struct {
	mu   sync.Mutex
	sent []pushed
}

func (p *capturePusher) SendToUser(userID uint64, event string, data any) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, pushed{UserID: userID, Event: event, Data: data})
	return true
}

func (p *capturePusher) Sent() []pushed {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]pushed(nil), p.sent...)
}

package service

import (
	"context"
	"time"

	"Blog_Backend/internal/model"
	"Blog_Backend/internal/pkg"
	"Blog_Backend/internal/repository/mysql"
	"Blog_Backend/internal/repository/redis"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	outboxMaxRetry = 5
	outboxLockName = "outbox:relay"
)

type Sender func(ctx context.Context, ob *model.SocialOutbox) error

// OutboxRelayer 定时把 social_outbox 中的互动事件投递出去
type OutboxRelayer struct {
	repo      *mysql.OutboxRepository
	lock      *redis.DistLock
	batchSize int
	interval  time.Duration
	sender    Sender
	log       *logrus.Entry
}

// NewOutboxRelayer lock 为 nil 时不做多实例互斥
func NewOutboxRelayer(repo *mysql.OutboxRepository, lock *redis.DistLock, sender Sender, log *logrus.Logger) *OutboxRelayer {
	return &OutboxRelayer{
		repo:      repo,
		lock:      lock,
		batchSize: 200,
		interval:  time.Second,
		sender:    sender,
		log:       log.WithField("component", "outbox_relayer"),
	}
}

// Run outbox启动器
func (r *OutboxRelayer) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.drainOnce(ctx)
		}
	}
}

// drainOnce 读取一批待投递事件，失败的标记重试
func (r *OutboxRelayer) drainOnce(ctx context.Context) int {
	if r.lock != nil {
		token := uuid.NewString()
		ok, err := r.lock.Acquire(ctx, outboxLockName, token, 5*r.interval)
		if err != nil || !ok {
			return 0
		}
		defer func() {
			_ = r.lock.Release(context.WithoutCancel(ctx), outboxLockName, token)
		}()
	}

	rows, err := r.repo.ListPending(ctx, r.batchSize, outboxMaxRetry)
	if err != nil {
		r.log.WithError(err).Error("outbox query failed")
		return 0
	}
	sent := 0
	for i := range rows {
		ob := rows[i]
		if err = r.sender(ctx, &ob); err != nil {
			r.log.WithError(err).WithFields(logrus.Fields{
				"outbox_id": ob.ID,
				"event":     ob.EventType,
				"retry":     ob.Retry + 1,
			}).Warn("outbox send failed")
			_ = r.repo.MarkFailed(ctx, ob.ID)
			continue
		}
		_ = r.repo.MarkSent(ctx, ob.ID)
		sent++
	}
	return sent
}

// KafkaSender 以被操作者 id 作为分区 key
func KafkaSender(p *pkg.KafkaProducer) Sender {
	return func(ctx context.Context, ob *model.SocialOutbox) error {
		return p.Send(ctx, pkg.MakeKeyFromID(ob.TargetID), []byte(ob.Payload), map[string]string{
			"event_type": ob.EventType,
		})
	}
}

// LogSender 未配置 Kafka 时使用
func LogSender(log *logrus.Logger) Sender {
	entry := log.WithField("component", "outbox_relayer")
	return func(ctx context.Context, ob *model.SocialOutbox) error {
		entry.WithFields(logrus.Fields{
			"event":      ob.EventType,
			"actor":      ob.ActorID,
			"target":     ob.TargetID,
			"article_id": ob.ArticleID,
		}).Debug("outbox event")
		return nil
	}
}

package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"
)

// ObjectRemover 删除已存储的对象
type ObjectRemover interface {
	Remove(ctx context.Context, key string) error
}

type PurgeHandler struct {
	storage ObjectRemover
	log     *logrus.Entry
}

func NewPurgeHandler(storage ObjectRemover, log *logrus.Logger) *PurgeHandler {
	return &PurgeHandler{storage: storage, log: log.WithField("component", "purge_handler")}
}

// ProcessTask 载荷无法解析时不再重试
func (h *PurgeHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	retry, _ := asynq.GetRetryCount(ctx)
	logCtx := h.log.WithFields(logrus.Fields{"task_type": t.Type(), "retry": retry})

	var p PurgePayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		logCtx.WithError(err).Error("unmarshal purge payload failed")
		return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}
	if p.Key == "" {
		return fmt.Errorf("empty object key: %w", asynq.SkipRetry)
	}
	if err := h.storage.Remove(ctx, p.Key); err != nil {
		logCtx.WithError(err).WithField("key", p.Key).Warn("remove object failed")
		return fmt.Errorf("remove %s: %w", p.Key, err)
	}
	logCtx.WithField("key", p.Key).Info("object purged")
	return nil
}

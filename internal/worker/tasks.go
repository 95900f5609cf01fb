package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	TypeObjectPurge = "image:purge"

	purgeMaxRetry = 5
	purgeTimeout  = 30 * time.Second
)

// PurgePayload 待删除的存储对象
type PurgePayload struct {
	Key string `json:"key"`
}

func NewPurgeTask(key string) (*asynq.Task, error) {
	b, err := json.Marshal(PurgePayload{Key: key})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeObjectPurge, b, asynq.MaxRetry(purgeMaxRetry), asynq.Timeout(purgeTimeout)), nil
}

// Queue 投递后台任务
type Queue struct {
	client *asynq.Client
}

func NewQueue(opt asynq.RedisClientOpt) *Queue {
	return &Queue{client: asynq.NewClient(opt)}
}

func (q *Queue) EnqueuePurge(ctx context.Context, key string) error {
	task, err := NewPurgeTask(key)
	if err != nil {
		return err
	}
	_, err = q.client.EnqueueContext(ctx, task)
	return err
}

func (q *Queue) Close() error {
	return q.client.Close()
}

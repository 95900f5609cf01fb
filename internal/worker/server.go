package worker

import (
	"context"
	"errors"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"
)

// Server 封装 asynq worker 的启动与关闭
type Server struct {
	server *asynq.Server
	purge  *PurgeHandler
	log    *logrus.Entry
}

func NewServer(opt asynq.RedisClientOpt, storage ObjectRemover, logger *logrus.Logger) *Server {
	logEntry := logger.WithField("component", "worker_server")
	srv := asynq.NewServer(opt, asynq.Config{
		Concurrency: 4,
		Queues:      map[string]int{"default": 1},
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			retry, _ := asynq.GetRetryCount(ctx)
			maxRetry, _ := asynq.GetMaxRetry(ctx)
			logEntry.WithFields(logrus.Fields{
				"task_type": task.Type(),
				"retries":   retry,
				"max_retry": maxRetry,
			}).WithError(err).Error("task failed")
		}),
	})
	return &Server{server: srv, purge: NewPurgeHandler(storage, logger), log: logEntry}
}

func (s *Server) mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeObjectPurge, s.purge.ProcessTask)
	return mux
}

// Start 阻塞运行，需在单独的 goroutine 中调用
func (s *Server) Start() {
	s.log.Info("worker server starting")
	if err := s.server.Run(s.mux()); err != nil && !errors.Is(err, asynq.ErrServerClosed) {
		s.log.WithError(err).Error("worker server stopped unexpectedly")
		return
	}
	s.log.Info("worker server stopped")
}

func (s *Server) Shutdown() {
	s.server.Shutdown()
}

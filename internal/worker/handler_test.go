package worker

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRemover struct {
	mock.Mock
}

func (m *mockRemover) Remove(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestPurgeHandlerRemovesObject(t *testing.T) {
	rm := new(mockRemover)
	rm.On("Remove", mock.Anything, "a.png").Return(nil).Once()
	h := NewPurgeHandler(rm, quietLogger())

	task, err := NewPurgeTask("a.png")
	require.NoError(t, err)
	assert.Equal(t, TypeObjectPurge, task.Type())
	require.NoError(t, h.ProcessTask(context.Background(), task))
	rm.AssertExpectations(t)
}

func TestPurgeHandlerBadPayloadSkipsRetry(t *testing.T) {
	rm := new(mockRemover)
	h := NewPurgeHandler(rm, quietLogger())

	err := h.ProcessTask(context.Background(), asynq.NewTask(TypeObjectPurge, []byte("{")))
	require.Error(t, err)
	assert.True(t, errors.Is(err, asynq.SkipRetry))
	rm.AssertNotCalled(t, "Remove", mock.Anything, mock.Anything)
}

func TestPurgeHandlerRemoveErrorIsRetried(t *testing.T) {
	rm := new(mockRemover)
	rm.On("Remove", mock.Anything, "b.png").Return(errors.New("unavailable"))
	h := NewPurgeHandler(rm, quietLogger())

	task, err := NewPurgeTask("b.png")
	require.NoError(t, err)
	err = h.ProcessTask(context.Background(), task)
	require.Error(t, err)
	assert.False(t, errors.Is(err, asynq.SkipRetry))
}

package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"Blog_Backend/internal/model"
	"Blog_Backend/internal/pkg"
	"Blog_Backend/internal/repository/mysql"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStorage 内存中的对象存储
type memStorage struct {
	mu      sync.Mutex
	objects map[string]string
	removed []string
	seq     int
}

func newMemStorage() *memStorage {
	return &memStorage{objects: make(map[string]string)}
}

func (s *memStorage) Put(_ context.Context, originalName string, r io.Reader, _ int64, _ string) (pkg.StoredObject, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return pkg.StoredObject{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	key := fmt.Sprintf("%d-%s", s.seq, originalName)
	s.objects[key] = string(b)
	return pkg.StoredObject{Key: key, URL: "http://files/" + key}, nil
}

func (s *memStorage) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	s.removed = append(s.removed, key)
	return nil
}

func (s *memStorage) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

type purgeFunc func(ctx context.Context, key string) error

func (f purgeFunc) EnqueuePurge(ctx context.Context, key string) error { return f(ctx, key) }

func textFile(name, body string) UploadFile {
	return UploadFile{
		Name:        name,
		Size:        int64(len(body)),
		ContentType: "image/png",
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader(body)), nil
		},
	}
}

func TestMediaService_UploadLimit(t *testing.T) {
	db := newTestDB(t)
	store := newMemStorage()
	svc := NewMediaService(&mysql.ImageRepository{DB: db}, store, nil, 8, newTestLogger())
	ctx := context.Background()

	_, err := svc.Upload(ctx, textFile("big.png", "0123456789"))
	assert.ErrorIs(t, err, ErrPayloadTooLarge)
	assert.Zero(t, store.Len())

	url, err := svc.Upload(ctx, textFile("ok.png", "0123"))
	require.NoError(t, err)
	assert.Equal(t, "http://files/1-ok.png", url)
}

func TestMediaService_UploadImagesCleanup(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "alice", 0)
	store := newMemStorage()
	svc := NewMediaService(&mysql.ImageRepository{DB: db}, store, nil, 8, newTestLogger())
	ctx := context.Background()

	// 第二个文件超限，第一个已存储的对象要被清理
	_, err := svc.UploadImages(ctx, user.ID, []UploadFile{textFile("a.png", "aa"), textFile("b.png", "0123456789")})
	assert.ErrorIs(t, err, ErrPayloadTooLarge)
	assert.Zero(t, store.Len())

	images, err := svc.UploadImages(ctx, user.ID, []UploadFile{textFile("a.png", "aa"), textFile("b.png", "bb")})
	require.NoError(t, err)
	require.Len(t, images, 2)
	assert.Equal(t, 2, store.Len())

	// 写库失败时同样清理
	require.NoError(t, db.Migrator().DropTable(&model.Image{}))
	_, err = svc.UploadImages(ctx, user.ID, []UploadFile{textFile("c.png", "cc")})
	require.Error(t, err)
	assert.Equal(t, 2, store.Len())

	_, err = svc.UploadImages(ctx, user.ID, nil)
	assert.ErrorIs(t, err, ErrBadRequest)
}

func TestMediaService_DeleteImage(t *testing.T) {
	db := newTestDB(t)
	owner := createUser(t, db, "alice", 0)
	other := createUser(t, db, "bob", 0)
	store := newMemStorage()
	var queued []string
	purge := purgeFunc(func(_ context.Context, key string) error {
		if strings.HasSuffix(key, "b.png") {
			return errors.New("queue down")
		}
		queued = append(queued, key)
		return nil
	})
	svc := NewMediaService(&mysql.ImageRepository{DB: db}, store, purge, 0, newTestLogger())
	ctx := context.Background()

	images, err := svc.UploadImages(ctx, owner.ID, []UploadFile{textFile("a.png", "aa"), textFile("b.png", "bb")})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeleteImage(ctx, other.ID, images[0].ID), ErrNotAuthor)

	require.NoError(t, svc.DeleteImage(ctx, owner.ID, images[0].ID))
	assert.Equal(t, []string{images[0].ObjectKey}, queued)
	assert.Equal(t, 2, store.Len())

	// 入队失败时同步删除
	require.NoError(t, svc.DeleteImage(ctx, owner.ID, images[1].ID))
	assert.Equal(t, 1, store.Len())

	assert.ErrorIs(t, svc.DeleteImage(ctx, owner.ID, images[0].ID), ErrNotFound)
}

package service

import (
	"context"
	"fmt"
	"io"

	"Blog_Backend/internal/model"
	"Blog_Backend/internal/pkg"
	"Blog_Backend/internal/repository/mysql"

	"github.com/sirupsen/logrus"
)

// UploadFile 与传输层无关的待上传文件
type UploadFile struct {
	Name        string
	Size        int64
	ContentType string
	Open        func() (io.ReadCloser, error)
}

// PurgeQueue 异步删除已存储的对象
type PurgeQueue interface {
	EnqueuePurge(ctx context.Context, key string) error
}

type MediaService struct {
	images   *mysql.ImageRepository
	storage  pkg.Storage
	purge    PurgeQueue
	maxBytes int64
	log      *logrus.Entry
}

func NewMediaService(images *mysql.ImageRepository, storage pkg.Storage, purge PurgeQueue, maxBytes int64, log *logrus.Logger) *MediaService {
	return &MediaService{
		images:   images,
		storage:  storage,
		purge:    purge,
		maxBytes: maxBytes,
		log:      log.WithField("component", "media"),
	}
}

func (s *MediaService) put(ctx context.Context, f UploadFile) (pkg.StoredObject, error) {
	if s.maxBytes > 0 && f.Size > s.maxBytes {
		return pkg.StoredObject{}, fmt.Errorf("%w: 文件 %s 超过 %d 字节", ErrPayloadTooLarge, f.Name, s.maxBytes)
	}
	rc, err := f.Open()
	if err != nil {
		return pkg.StoredObject{}, err
	}
	defer rc.Close()
	return s.storage.Put(ctx, f.Name, rc, f.Size, f.ContentType)
}

// Upload 单文件上传，返回可访问的地址
func (s *MediaService) Upload(ctx context.Context, f UploadFile) (string, error) {
	obj, err := s.put(ctx, f)
	if err != nil {
		return "", err
	}
	return obj.URL, nil
}

// UploadImages 全部落地后一次写库，写库失败时清理已存储的对象
func (s *MediaService) UploadImages(ctx context.Context, userID uint64, files []UploadFile) ([]*model.Image, error) {
	if len(files) == 0 {
		return nil, badRequest("请选择要上传的图片")
	}
	images := make([]*model.Image, 0, len(files))
	for _, f := range files {
		obj, err := s.put(ctx, f)
		if err != nil {
			s.removeAll(ctx, images)
			return nil, err
		}
		images = append(images, &model.Image{
			OriginalName: f.Name,
			MimeType:     f.ContentType,
			Path:         obj.URL,
			ObjectKey:    obj.Key,
			Size:         f.Size,
			UserID:       userID,
		})
	}
	if err := s.images.CreateBatch(ctx, images); err != nil {
		s.removeAll(ctx, images)
		return nil, mapRepoError(err, "图片")
	}
	return images, nil
}

func (s *MediaService) removeAll(ctx context.Context, images []*model.Image) {
	for _, img := range images {
		if err := s.storage.Remove(ctx, img.ObjectKey); err != nil {
			s.log.WithError(err).WithField("key", img.ObjectKey).Warn("remove stored object failed")
		}
	}
}

func (s *MediaService) Images(ctx context.Context, userID uint64, name string, q pkg.PageQuery) (pkg.PageResult[model.Image], error) {
	if err := q.Normalize(); err != nil {
		return pkg.PageResult[model.Image]{}, badRequest(err.Error())
	}
	list, total, err := s.images.ListByUser(ctx, userID, name, q.Offset(), q.Limit)
	if err != nil {
		return pkg.PageResult[model.Image]{}, err
	}
	return pkg.NewPageResult(list, total, q), nil
}

// DeleteImage 先删记录，存储对象交给队列清理，入队失败时同步删除
func (s *MediaService) DeleteImage(ctx context.Context, userID, id uint64) error {
	img, err := s.images.FindByID(ctx, id)
	if err != nil {
		return mapRepoError(err, "图片")
	}
	if img.UserID != userID {
		return ErrNotAuthor
	}
	if err := s.images.Delete(ctx, id); err != nil {
		return mapRepoError(err, "图片")
	}
	logger := s.log.WithFields(logrus.Fields{"image_id": id, "key": img.ObjectKey})
	if s.purge != nil {
		err := s.purge.EnqueuePurge(ctx, img.ObjectKey)
		if err == nil {
			return nil
		}
		logger.WithError(err).Warn("enqueue purge failed, removing inline")
	}
	if err := s.storage.Remove(ctx, img.ObjectKey); err != nil {
		logger.WithError(err).Error("remove stored object failed")
	}
	return nil
}

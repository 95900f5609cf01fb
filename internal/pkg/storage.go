package pkg

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// StoredObject 上传后的对象
type StoredObject struct {
	Key string
	URL string
}

// Storage 上传文件的落地位置：本地磁盘或 MinIO
type Storage interface {
	Put(ctx context.Context, originalName string, r io.Reader, size int64, contentType string) (StoredObject, error)
	Remove(ctx context.Context, key string) error
}

// ObjectName uuid + 原扩展名
func ObjectName(originalName string) string {
	return uuid.NewString() + strings.ToLower(filepath.Ext(originalName))
}

type LocalStorage struct {
	Dir     string
	BaseURL string // 例如 http://127.0.0.1:3000/uploads
}

func NewLocalStorage(dir, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &LocalStorage{Dir: dir, BaseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *LocalStorage) Put(_ context.Context, originalName string, r io.Reader, _ int64, _ string) (StoredObject, error) {
	key := ObjectName(originalName)
	f, err := os.Create(filepath.Join(s.Dir, key))
	if err != nil {
		return StoredObject{}, err
	}
	if _, err = io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return StoredObject{}, err
	}
	if err = f.Close(); err != nil {
		return StoredObject{}, err
	}
	return StoredObject{Key: key, URL: s.BaseURL + "/" + key}, nil
}

func (s *LocalStorage) Remove(_ context.Context, key string) error {
	// key 由服务端生成，这里仍然只取文件名避免越界
	err := os.Remove(filepath.Join(s.Dir, filepath.Base(key)))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type MinioStorage struct {
	client *minio.Client
	bucket string
	base   string
}

func NewMinioStorage(ctx context.Context, cfg MinioConfig) (*MinioStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("minio bucket: %w", err)
	}
	if !exists {
		if err = client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("minio make bucket: %w", err)
		}
	}
	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}
	return &MinioStorage{
		client: client,
		bucket: cfg.Bucket,
		base:   fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.Bucket),
	}, nil
}

func (s *MinioStorage) Put(ctx context.Context, originalName string, r io.Reader, size int64, contentType string) (StoredObject, error) {
	key := ObjectName(originalName)
	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return StoredObject{}, fmt.Errorf("minio put: %w", err)
	}
	return StoredObject{Key: key, URL: s.base + "/" + key}, nil
}

func (s *MinioStorage) Remove(ctx context.Context, key string) error {
	return s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}

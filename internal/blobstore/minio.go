// Package blobstore хранит фотографии алертов в S3-совместимом хранилище (MinIO).
package blobstore

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const defaultObjectName = "image"

// publicReadPolicy разрешает анонимное чтение объектов бакета
const publicReadPolicy = `{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Principal":{"AWS":["*"]},"Action":["s3:GetObject"],"Resource":["arn:aws:s3:::%s/*"]}]}`

// MinIOStore загружает изображения и возвращает их публичные URL
type MinIOStore struct {
	mc        *minio.Client
	bucket    string
	publicURL string
	now       func() time.Time
}

// NewMinIOStore создает клиент хранилища. Если publicURL пуст, он строится из endpoint.
func NewMinIOStore(endpoint, accessKey, secretKey string, useTLS bool, bucket, publicURL string) (*MinIOStore, error) {
	mc, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	if publicURL == "" {
		scheme := "http"
		if useTLS {
			scheme = "https"
		}
		publicURL = scheme + "://" + endpoint
	}
	return &MinIOStore{
		mc:        mc,
		bucket:    bucket,
		publicURL: strings.TrimSuffix(publicURL, "/"),
		now:       time.Now,
	}, nil
}

// EnsureBucket создает бакет с публичным чтением, если его нет
func (s *MinIOStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.mc.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %q: %w", s.bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.mc.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %q: %w", s.bucket, err)
	}
	if err := s.mc.SetBucketPolicy(ctx, s.bucket, fmt.Sprintf(publicReadPolicy, s.bucket)); err != nil {
		return fmt.Errorf("failed to set bucket policy: %w", err)
	}
	return nil
}

// Upload сохраняет изображение и возвращает его публичный URL
func (s *MinIOStore) Upload(ctx context.Context, name, contentType string, data []byte) (string, error) {
	object := ObjectName(s.now(), name)
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := s.mc.PutObject(ctx, s.bucket, object, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object %q: %w", object, err)
	}
	return PublicURL(s.publicURL, s.bucket, object), nil
}

// ObjectName строит имя объекта вида <unix-millis>-<имя файла>
func ObjectName(t time.Time, fileName string) string {
	return fmt.Sprintf("%d-%s", t.UnixMilli(), sanitizeName(fileName))
}

// PublicURL строит ссылку на объект
func PublicURL(base, bucket, object string) string {
	return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(base, "/"), bucket, object)
}

func sanitizeName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	var sb strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	out := strings.Trim(sb.String(), ".")
	if out == "" {
		return defaultObjectName
	}
	return out
}

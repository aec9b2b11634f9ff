package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/serroba/eightbin/internal/shortener"
)

// ErrConditionalCreateUnsupported is returned when a conditional put reaches a
// backend that cannot perform it atomically.
var ErrConditionalCreateUnsupported = errors.New("conditional create not supported by minio backend")

// MinioConfig holds the connection settings of a MinIO server.
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

// MinioStore is a MinIO implementation of shortener.ObjectStore.
type MinioStore struct {
	client *minio.Client
	bucket string
}

// NewMinioStore connects to a MinIO server.
func NewMinioStore(cfg MinioConfig, bucket string) (*MinioStore, error) {
	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	return &MinioStore{client: cli, bucket: bucket}, nil
}

func (m *MinioStore) Exists(ctx context.Context, key string) (bool, error) {
	_, err := m.client.StatObject(ctx, m.bucket, key, minio.StatObjectOptions{})
	if err == nil {
		return true, nil
	}

	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return false, nil
	}

	return false, err
}

func (m *MinioStore) Put(ctx context.Context, obj *shortener.Object) error {
	if obj.IfAbsent {
		return ErrConditionalCreateUnsupported
	}

	_, err := m.client.PutObject(ctx, m.bucket, obj.Key, bytes.NewReader(obj.Body), int64(len(obj.Body)),
		minio.PutObjectOptions{
			ContentType:             obj.ContentType,
			UserTags:                obj.Tags,
			WebsiteRedirectLocation: obj.RedirectLocation,
		})

	return err
}

// Count lists non-recursively, so only keys directly under prefix are counted.
func (m *MinioStore) Count(ctx context.Context, prefix string) (int, error) {
	count := 0

	for info := range m.client.ListObjects(ctx, m.bucket, minio.ListObjectsOptions{Prefix: prefix}) {
		if info.Err != nil {
			return 0, info.Err
		}

		// Non-recursive listings report common prefixes as keys ending in "/".
		if strings.HasSuffix(info.Key, "/") {
			continue
		}

		count++
	}

	return count, nil
}

// Ping checks that the bucket exists.
func (m *MinioStore) Ping(ctx context.Context) error {
	ok, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return err
	}

	if !ok {
		return fmt.Errorf("bucket %q does not exist", m.bucket)
	}

	return nil
}

var _ shortener.ObjectStore = (*MinioStore)(nil)

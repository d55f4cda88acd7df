package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"tracklist/config"
	"tracklist/logger"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ErrAssetNotFound is returned when the bucket has no object for a path.
var ErrAssetNotFound = errors.New("asset not found")

// Asset is an open object from the asset bucket.
type Asset struct {
	io.ReadCloser
	Size        int64
	ContentType string
}

// AssetStore serves static files that are not embedded in the binary.
type AssetStore interface {
	Open(ctx context.Context, name string) (*Asset, error)
}

// MinioAssetStore reads assets from one MinIO bucket.
type MinioAssetStore struct {
	client *minio.Client
	bucket string
}

// NewMinioAssetStore connects to MinIO and creates the bucket when missing.
func NewMinioAssetStore(ctx context.Context, cfg *config.Config) (*MinioAssetStore, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
		Region: cfg.MinioRegion,
	})
	if err != nil {
		return nil, fmt.Errorf("create MinIO client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.MinioBucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{Region: cfg.MinioRegion}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", cfg.MinioBucket, err)
		}
		logger.Info("created asset bucket", logger.String("bucket", cfg.MinioBucket))
	}

	return &MinioAssetStore{client: client, bucket: cfg.MinioBucket}, nil
}

// Open stats then opens the object so a missing key maps to ErrAssetNotFound
// before any body is written.
func (s *MinioAssetStore) Open(ctx context.Context, name string) (*Asset, error) {
	info, err := s.client.StatObject(ctx, s.bucket, name, minio.StatObjectOptions{})
	if err != nil {
		return nil, statError(name, err)
	}

	obj, err := s.client.GetObject(ctx, s.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", name, err)
	}
	return &Asset{ReadCloser: obj, Size: info.Size, ContentType: info.ContentType}, nil
}

func statError(name string, err error) error {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchObject":
		return ErrAssetNotFound
	}
	return fmt.Errorf("stat %s: %w", name, err)
}

// Upload stores a local file under its base name (or key when non-empty).
func (s *MinioAssetStore) Upload(ctx context.Context, path, key, contentType string) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return 0, err
	}
	if key == "" {
		key = filepath.Base(path)
	}

	info, err := s.client.PutObject(ctx, s.bucket, key, f, st.Size(), minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return 0, fmt.Errorf("upload %s: %w", key, err)
	}
	return info.Size, nil
}

// List returns object keys under prefix.
func (s *MinioAssetStore) List(ctx context.Context, prefix string) ([]minio.ObjectInfo, error) {
	var objects []minio.ObjectInfo
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("list %s: %w", prefix, obj.Err)
		}
		objects = append(objects, obj)
	}
	return objects, nil
}

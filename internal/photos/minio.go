package photos

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOConfig locates an S3-compatible bucket.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// MinIOStore keeps photos as objects under the "equipment/" prefix.
type MinIOStore struct {
	client *minio.Client
	bucket string
}

const objectPrefix = "equipment/"

// NewMinIOStore connects to the bucket, creating it when missing.
func NewMinIOStore(ctx context.Context, cfg MinIOConfig) (*MinIOStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("creating minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("checking bucket %q: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("creating bucket %q: %w", cfg.Bucket, err)
		}
	}

	return &MinIOStore{client: client, bucket: cfg.Bucket}, nil
}

func (s *MinIOStore) Put(ctx context.Context, ref string, data []byte, contentType string) error {
	if err := checkRef(ref); err != nil {
		return err
	}
	_, err := s.client.PutObject(ctx, s.bucket, objectPrefix+ref, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType},
	)
	if err != nil {
		return fmt.Errorf("uploading photo: %w", err)
	}
	return nil
}

// Open returns the object. GetObject is lazy, so the object is stat'ed
// first to report missing photos as ErrNotExist.
func (s *MinIOStore) Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	if err := checkRef(ref); err != nil {
		return nil, err
	}
	obj, err := s.client.GetObject(ctx, s.bucket, objectPrefix+ref, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("getting photo: %w", err)
	}
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ErrNotExist
		}
		return nil, fmt.Errorf("getting photo: %w", err)
	}
	return obj, nil
}

func (s *MinIOStore) Delete(ctx context.Context, ref string) error {
	if err := checkRef(ref); err != nil {
		return err
	}
	if err := s.client.RemoveObject(ctx, s.bucket, objectPrefix+ref, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("deleting photo: %w", err)
	}
	return nil
}

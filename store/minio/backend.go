package minio

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/hupe1980/lexgo"
	"github.com/hupe1980/lexgo/store/remote"
)

// Backend implements remote.Backend for MinIO and other S3-compatible stores.
type Backend struct {
	client *minio.Client
	bucket string
	prefix string
}

var _ remote.Backend = (*Backend)(nil)

// NewBackend creates a MinIO backend. rootPrefix is prepended to all keys.
func NewBackend(client *minio.Client, bucket, rootPrefix string) *Backend {
	return &Backend{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(rootPrefix, "/"),
	}
}

// NewClient connects to endpoint with static credentials.
func NewClient(endpoint, accessKey, secretKey string, secure bool) (*minio.Client, error) {
	return minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: secure,
	})
}

func (b *Backend) key(name string) string {
	if b.prefix == "" {
		return name
	}
	return path.Join(b.prefix, name)
}

func (b *Backend) name(key string) string {
	return strings.TrimPrefix(strings.TrimPrefix(key, b.prefix), "/")
}

// Get implements remote.Backend.
func (b *Backend) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := b.client.GetObject(ctx, b.bucket, b.key(key), minio.GetObjectOptions{})
	if err != nil {
		return nil, mapError(err)
	}
	// GetObject is lazy; Stat surfaces a missing key before the first Read.
	if _, err := obj.Stat(); err != nil {
		_ = obj.Close()
		return nil, mapError(err)
	}
	return obj, nil
}

// Put implements remote.Backend.
func (b *Backend) Put(ctx context.Context, key string, r io.Reader, size int64) error {
	_, err := b.client.PutObject(ctx, b.bucket, b.key(key), r, size, minio.PutObjectOptions{
		ContentType: "application/octet-stream",
	})
	return err
}

// Delete implements remote.Backend.
func (b *Backend) Delete(ctx context.Context, key string) error {
	err := b.client.RemoveObject(ctx, b.bucket, b.key(key), minio.RemoveObjectOptions{})
	if err != nil && !errors.Is(mapError(err), lexgo.ErrNotFound) {
		return err
	}
	return nil
}

// List implements remote.Backend.
func (b *Backend) List(ctx context.Context, prefix string) ([]string, error) {
	fullPrefix := b.key(prefix)
	if prefix == "" && b.prefix != "" {
		fullPrefix = b.prefix + "/"
	}

	var names []string
	for obj := range b.client.ListObjects(ctx, b.bucket, minio.ListObjectsOptions{
		Prefix:    fullPrefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		if name := b.name(obj.Key); name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

func mapError(err error) error {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NotFound":
		return lexgo.ErrNotFound
	default:
		return err
	}
}

package s3

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/hupe1980/lexgo"
	"github.com/hupe1980/lexgo/store/remote"
)

// Client is the subset of *s3.Client used by Backend.
type Client interface {
	manager.UploadAPIClient
	s3.ListObjectsV2APIClient
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Options configures a Backend.
type Options struct {
	// PartSize is the multipart upload part size in bytes.
	PartSize int64

	// Concurrency is the number of parts uploaded in parallel.
	Concurrency int
}

// DefaultOptions are used by NewBackend.
var DefaultOptions = Options{
	PartSize:    manager.DefaultUploadPartSize,
	Concurrency: manager.DefaultUploadConcurrency,
}

// Backend implements remote.Backend for Amazon S3.
type Backend struct {
	client   Client
	uploader *manager.Uploader
	bucket   string
	prefix   string
}

var _ remote.Backend = (*Backend)(nil)

// NewBackend creates an S3 backend. rootPrefix is prepended to all keys
// (e.g. "indexes/products").
func NewBackend(client Client, bucket, rootPrefix string, optFns ...func(o *Options)) *Backend {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Backend{
		client: client,
		uploader: manager.NewUploader(client, func(u *manager.Uploader) {
			u.PartSize = opts.PartSize
			u.Concurrency = opts.Concurrency
		}),
		bucket: bucket,
		prefix: strings.Trim(rootPrefix, "/"),
	}
}

// NewBackendFromConfig loads the default AWS configuration (environment,
// shared config files, instance roles) and creates a backend from it.
func NewBackendFromConfig(ctx context.Context, bucket, rootPrefix string, cfgFns ...func(*config.LoadOptions) error) (*Backend, error) {
	cfg, err := config.LoadDefaultConfig(ctx, cfgFns...)
	if err != nil {
		return nil, err
	}
	return NewBackend(s3.NewFromConfig(cfg), bucket, rootPrefix), nil
}

func (b *Backend) key(name string) string {
	if b.prefix == "" {
		return name
	}
	return path.Join(b.prefix, name)
}

// Get implements remote.Backend.
func (b *Backend) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	out, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(b.key(key)),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, lexgo.ErrNotFound
		}
		return nil, err
	}
	return out.Body, nil
}

// Put implements remote.Backend. Large or unsized bodies are sent as a
// multipart upload.
func (b *Backend) Put(ctx context.Context, key string, r io.Reader, size int64) error {
	input := &s3.PutObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(b.key(key)),
		Body:   r,
	}
	if size >= 0 {
		input.ContentLength = aws.Int64(size)
	}
	_, err := b.uploader.Upload(ctx, input)
	return err
}

// Delete implements remote.Backend.
func (b *Backend) Delete(ctx context.Context, key string) error {
	_, err := b.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(b.key(key)),
	})
	if err != nil && !isNotFound(err) {
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

	var keys []string
	paginator := s3.NewListObjectsV2Paginator(b.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(b.bucket),
		Prefix: aws.String(fullPrefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, obj := range page.Contents {
			name := strings.TrimPrefix(aws.ToString(obj.Key), b.prefix)
			name = strings.TrimPrefix(name, "/")
			if name != "" {
				keys = append(keys, name)
			}
		}
	}
	return keys, nil
}

func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	var nf *types.NotFound
	return errors.As(err, &nsk) || errors.As(err, &nf)
}

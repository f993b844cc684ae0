package storage

import (
	"context"
	"io"
)

// BucketClient is exported for testing
type BucketClient interface {
	Download(ctx context.Context, bucket, object string, w io.Writer) (int64, error)
	Upload(ctx context.Context, bucket, object string, generation int64, r io.Reader) error
}

type bucketAdapter struct {
	c BucketClient
}

func (a bucketAdapter) download(ctx context.Context, bucket, object string, w io.Writer) (int64, error) {
	return a.c.Download(ctx, bucket, object, w)
}

func (a bucketAdapter) upload(ctx context.Context, bucket, object string, generation int64, r io.Reader) error {
	return a.c.Upload(ctx, bucket, object, generation, r)
}

// WithBucketClient replaces the GCS client for testing
func WithBucketClient(c BucketClient) Option {
	return withBucketClient(bucketAdapter{c: c})
}

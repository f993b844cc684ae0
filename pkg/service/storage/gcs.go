package storage

import (
	"context"
	"errors"
	"io"
	"net/http"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// WithGCS enables gs:// URIs using client
func WithGCS(client *storage.Client) Option {
	return withBucketClient(&gcsClient{client: client})
}

// NewGCSClient creates a GCS client. An empty credentials file means Application Default Credentials.
func NewGCSClient(ctx context.Context, credentialsFile string) (*storage.Client, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create GCS client")
	}
	return client, nil
}

type gcsClient struct {
	client *storage.Client
}

func (c *gcsClient) download(ctx context.Context, bucket, object string, w io.Writer) (int64, error) {
	r, err := c.client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to open object")
	}
	defer r.Close()

	if _, err := io.Copy(w, r); err != nil {
		return 0, goerr.Wrap(err, "failed to read object")
	}
	return r.Attrs.Generation, nil
}

// upload writes the object only if it still has the generation that was downloaded
func (c *gcsClient) upload(ctx context.Context, bucket, object string, generation int64, r io.Reader) error {
	obj := c.client.Bucket(bucket).Object(object).If(storage.Conditions{GenerationMatch: generation})
	w := obj.NewWriter(ctx)

	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return goerr.Wrap(err, "failed to write object")
	}
	if err := w.Close(); err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) && gerr.Code == http.StatusPreconditionFailed {
			return goerr.Wrap(ErrConflict, "object generation changed", goerr.V("generation", generation))
		}
		return goerr.Wrap(err, "failed to finalize object")
	}
	return nil
}

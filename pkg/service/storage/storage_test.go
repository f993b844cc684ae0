package storage_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/pspsync/pkg/service/storage"
)

type fakeBucket struct {
	objects     map[string][]byte
	generations map[string]int64
}

func newFakeBucket() *fakeBucket {
	return &fakeBucket{objects: map[string][]byte{}, generations: map[string]int64{}}
}

func (f *fakeBucket) put(bucket, object string, data []byte) {
	key := bucket + "/" + object
	f.objects[key] = data
	f.generations[key]++
}

func (f *fakeBucket) Download(ctx context.Context, bucket, object string, w io.Writer) (int64, error) {
	key := bucket + "/" + object
	data, ok := f.objects[key]
	if !ok {
		return 0, goerr.New("object not found")
	}
	if _, err := w.Write(data); err != nil {
		return 0, err
	}
	return f.generations[key], nil
}

func (f *fakeBucket) Upload(ctx context.Context, bucket, object string, generation int64, r io.Reader) error {
	key := bucket + "/" + object
	if f.generations[key] != generation {
		return storage.ErrConflict
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	f.put(bucket, object, data)
	return nil
}

func TestParseGCSURI(t *testing.T) {
	tests := []struct {
		name    string
		uri     string
		bucket  string
		object  string
		wantErr bool
	}{
		{name: "simple", uri: "gs://reviews/psp.xlsx", bucket: "reviews", object: "psp.xlsx"},
		{name: "nested", uri: "gs://reviews/2026/q3/psp.pptx", bucket: "reviews", object: "2026/q3/psp.pptx"},
		{name: "no object", uri: "gs://reviews", wantErr: true},
		{name: "directory", uri: "gs://reviews/dir/", wantErr: true},
		{name: "empty bucket", uri: "gs:///psp.xlsx", wantErr: true},
		{name: "other scheme", uri: "s3://reviews/psp.xlsx", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bucket, object, err := storage.ParseGCSURI(tt.uri)
			if tt.wantErr {
				gt.Value(t, err).NotNil()
				return
			}
			gt.NoError(t, err).Required()
			gt.Value(t, bucket).Equal(tt.bucket)
			gt.Value(t, object).Equal(tt.object)
		})
	}
}

func TestOpen_Local(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "psp.xlsx")
	gt.NoError(t, os.WriteFile(path, []byte("data"), 0o600)).Required()

	svc := storage.New()

	obj, err := svc.Open(ctx, path)
	gt.NoError(t, err).Required()
	gt.Value(t, obj.Path()).Equal(path)
	gt.NoError(t, obj.Commit(ctx))
	gt.NoError(t, obj.Close())

	// local files are never removed by Close
	_, err = os.Stat(path)
	gt.NoError(t, err)

	_, err = svc.Open(ctx, filepath.Join(t.TempDir(), "missing.xlsx"))
	gt.Value(t, err).NotNil()

	_, err = svc.Open(ctx, "https://example.com/psp.xlsx")
	gt.Error(t, err).Is(storage.ErrUnsupportedScheme)
}

func TestOpen_GCSDisabled(t *testing.T) {
	_, err := storage.New().Open(context.Background(), "gs://reviews/psp.xlsx")
	gt.Error(t, err).Is(storage.ErrRemoteDisabled)
}

func TestOpen_GCS(t *testing.T) {
	ctx := context.Background()
	bucket := newFakeBucket()
	bucket.put("reviews", "psp.xlsx", []byte("original"))

	svc := storage.New(storage.WithBucketClient(bucket), storage.WithTempDir(t.TempDir()))

	t.Run("download, edit and commit", func(t *testing.T) {
		obj, err := svc.Open(ctx, "gs://reviews/psp.xlsx")
		gt.NoError(t, err).Required()
		gt.Value(t, filepath.Ext(obj.Path())).Equal(".xlsx")

		data, err := os.ReadFile(obj.Path())
		gt.NoError(t, err).Required()
		gt.Value(t, string(data)).Equal("original")

		gt.NoError(t, os.WriteFile(obj.Path(), []byte("updated"), 0o600)).Required()
		gt.NoError(t, obj.Commit(ctx)).Required()
		gt.Value(t, bytes.Equal(bucket.objects["reviews/psp.xlsx"], []byte("updated"))).Equal(true)

		path := obj.Path()
		gt.NoError(t, obj.Close())
		_, err = os.Stat(path)
		gt.Bool(t, os.IsNotExist(err)).True()
	})

	t.Run("concurrent modification is a conflict", func(t *testing.T) {
		obj, err := svc.Open(ctx, "gs://reviews/psp.xlsx")
		gt.NoError(t, err).Required()
		defer obj.Close()

		bucket.put("reviews", "psp.xlsx", []byte("someone else"))
		gt.Error(t, obj.Commit(ctx)).Is(storage.ErrConflict)
	})

	t.Run("missing object", func(t *testing.T) {
		_, err := svc.Open(ctx, "gs://reviews/none.xlsx")
		gt.Value(t, err).NotNil()
	})
}

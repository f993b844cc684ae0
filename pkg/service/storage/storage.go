package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/pspsync/pkg/utils/logging"
	"github.com/secmon-lab/pspsync/pkg/utils/safe"
)

var (
	// ErrConflict is returned by Commit when the remote object changed since it was opened
	ErrConflict = errors.New("remote object was modified concurrently")

	// ErrUnsupportedScheme is returned for URIs other than local paths and gs://
	ErrUnsupportedScheme = errors.New("unsupported document location")

	// ErrRemoteDisabled is returned for gs:// URIs when no GCS client was configured
	ErrRemoteDisabled = errors.New("remote storage is not configured")
)

const (
	URIKey    = "uri"
	BucketKey = "bucket"
	ObjectKey = "object"
)

const gcsScheme = "gs://"

// Object is a document made available as a local file for the duration of a run
type Object interface {
	// Path is the local file to read and write
	Path() string

	// Commit publishes the local file back to its origin. It is a no-op for local paths.
	Commit(ctx context.Context) error

	// Close releases the local copy, if any. Uncommitted changes are discarded.
	Close() error
}

// Service resolves document identifiers
type Service interface {
	Open(ctx context.Context, uri string) (Object, error)
}

// bucketClient is the subset of GCS used by Service
type bucketClient interface {
	download(ctx context.Context, bucket, object string, w io.Writer) (generation int64, err error)
	upload(ctx context.Context, bucket, object string, generation int64, r io.Reader) error
}

type service struct {
	gcs     bucketClient
	tempDir string
}

// Option is a functional option for Service configuration
type Option func(*service)

// WithTempDir sets the directory used for local copies of remote objects
func WithTempDir(dir string) Option {
	return func(s *service) {
		s.tempDir = dir
	}
}

func withBucketClient(c bucketClient) Option {
	return func(s *service) {
		s.gcs = c
	}
}

// New creates a Service. Only local paths are accepted unless a GCS option is given.
func New(opts ...Option) Service {
	s := &service{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Open(ctx context.Context, uri string) (Object, error) {
	if uri == "" {
		return nil, goerr.Wrap(ErrUnsupportedScheme, "empty document location")
	}

	if strings.HasPrefix(uri, gcsScheme) {
		return s.openGCS(ctx, uri)
	}
	if strings.Contains(uri, "://") {
		return nil, goerr.Wrap(ErrUnsupportedScheme, "unknown scheme", goerr.V(URIKey, uri))
	}

	if _, err := os.Stat(uri); err != nil {
		return nil, goerr.Wrap(err, "failed to stat document", goerr.V(URIKey, uri))
	}
	return &localObject{path: uri}, nil
}

// ParseGCSURI splits gs://bucket/path/to/object into bucket and object name
func ParseGCSURI(uri string) (bucket, object string, err error) {
	rest, ok := strings.CutPrefix(uri, gcsScheme)
	if !ok {
		return "", "", goerr.Wrap(ErrUnsupportedScheme, "not a gs:// URI", goerr.V(URIKey, uri))
	}
	bucket, object, ok = strings.Cut(rest, "/")
	if !ok || bucket == "" || object == "" || strings.HasSuffix(object, "/") {
		return "", "", goerr.New("invalid gs:// URI, expected gs://bucket/object", goerr.V(URIKey, uri))
	}
	return bucket, object, nil
}

func (s *service) openGCS(ctx context.Context, uri string) (Object, error) {
	bucket, object, err := ParseGCSURI(uri)
	if err != nil {
		return nil, err
	}
	if s.gcs == nil {
		return nil, goerr.Wrap(ErrRemoteDisabled, "cannot open remote document", goerr.V(URIKey, uri))
	}

	// keep the extension so that format detection by suffix still works on the copy
	f, err := os.CreateTemp(s.tempDir, "pspsync-*"+filepath.Ext(object))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create local copy", goerr.V(URIKey, uri))
	}

	gen, err := s.gcs.download(ctx, bucket, object, f)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = cerr
	}
	if err != nil {
		safe.Remove(ctx, f.Name())
		return nil, goerr.Wrap(err, "failed to download document",
			goerr.V(BucketKey, bucket), goerr.V(ObjectKey, object))
	}

	logging.From(ctx).Debug("downloaded remote document",
		"bucket", bucket, "object", object, "generation", gen, "path", f.Name())

	return &remoteObject{
		client:     s.gcs,
		bucket:     bucket,
		object:     object,
		generation: gen,
		path:       f.Name(),
	}, nil
}

type localObject struct {
	path string
}

func (x *localObject) Path() string                     { return x.path }
func (x *localObject) Commit(ctx context.Context) error { return nil }
func (x *localObject) Close() error                     { return nil }

type remoteObject struct {
	client     bucketClient
	bucket     string
	object     string
	generation int64
	path       string
}

func (x *remoteObject) Path() string { return x.path }

func (x *remoteObject) Commit(ctx context.Context) error {
	f, err := os.Open(x.path)
	if err != nil {
		return goerr.Wrap(err, "failed to open local copy", goerr.V("path", x.path))
	}
	defer safe.Close(ctx, f)

	if err := x.client.upload(ctx, x.bucket, x.object, x.generation, f); err != nil {
		return goerr.Wrap(err, "failed to upload document",
			goerr.V(BucketKey, x.bucket), goerr.V(ObjectKey, x.object))
	}

	logging.From(ctx).Info("uploaded document", "bucket", x.bucket, "object", x.object)
	return nil
}

func (x *remoteObject) Close() error {
	if err := os.Remove(x.path); err != nil && !os.IsNotExist(err) {
		return goerr.Wrap(err, "failed to remove local copy", goerr.V("path", x.path))
	}
	return nil
}

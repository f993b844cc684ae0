package safe_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/pspsync/pkg/utils/safe"
)

type closer struct {
	called bool
	err    error
}

func (c *closer) Close() error {
	c.called = true
	return c.err
}

func TestClose(t *testing.T) {
	ctx := context.Background()

	c := &closer{}
	safe.Close(ctx, c)
	gt.Bool(t, c.called).True()

	failing := &closer{err: errors.New("already closed")}
	safe.Close(ctx, failing)
	gt.Bool(t, failing.called).True()

	safe.Close(ctx, nil)
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "copy.pptx")
	gt.NoError(t, os.WriteFile(path, []byte("x"), 0o600)).Required()

	safe.Remove(ctx, path)
	_, err := os.Stat(path)
	gt.Bool(t, os.IsNotExist(err)).True()

	// missing files and empty paths are ignored
	safe.Remove(ctx, path)
	safe.Remove(ctx, "")
}

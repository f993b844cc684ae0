// Package ooxml implements the document interfaces over Office Open XML files:
// workbooks through excelize and decks by editing the package parts with etree.
package ooxml

import (
	"context"
	"errors"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/pspsync/pkg/domain/interfaces"
	"github.com/secmon-lab/pspsync/pkg/service/storage"
	"github.com/secmon-lab/pspsync/pkg/utils/safe"
)

// origin is where a document came from. Commit publishes a saved file back, Close
// releases any local copy.
type origin interface {
	Commit(ctx context.Context) error
	Close() error
}

type localFile struct{}

func (localFile) Commit(ctx context.Context) error { return nil }
func (localFile) Close() error                     { return nil }

// Repository opens documents located by a storage.Service
type Repository struct {
	storage storage.Service
}

var _ interfaces.DocumentOpener = &Repository{}

func New(svc storage.Service) *Repository {
	return &Repository{storage: svc}
}

func (x *Repository) OpenWorkbook(ctx context.Context, id string) (interfaces.Workbook, error) {
	if err := checkExt(id, ".xlsx", ".xlsm"); err != nil {
		return nil, err
	}

	obj, err := x.storage.Open(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to locate workbook", goerr.V("id", id))
	}

	wb, err := openWorkbook(obj.Path(), obj)
	if err != nil {
		safe.Close(ctx, obj)
		return nil, goerr.Wrap(err, "failed to open workbook", goerr.V("id", id))
	}
	return wb, nil
}

func (x *Repository) OpenDeck(ctx context.Context, id string) (interfaces.Deck, error) {
	if err := checkExt(id, ".pptx", ".pptm"); err != nil {
		return nil, err
	}

	obj, err := x.storage.Open(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to locate deck", goerr.V("id", id))
	}

	deck, err := openDeck(obj.Path(), obj)
	if err != nil {
		safe.Close(ctx, obj)
		return nil, goerr.Wrap(err, "failed to open deck", goerr.V("id", id))
	}
	return deck, nil
}

// ErrUnsupportedFormat is returned for files that are not Office Open XML workbooks or decks
var ErrUnsupportedFormat = errors.New("unsupported document format")

func checkExt(id string, exts ...string) error {
	lower := strings.ToLower(id)
	for _, ext := range exts {
		if strings.HasSuffix(lower, ext) {
			return nil
		}
	}
	return goerr.Wrap(ErrUnsupportedFormat, "unexpected file extension", goerr.V("id", id), goerr.V("expected", exts))
}

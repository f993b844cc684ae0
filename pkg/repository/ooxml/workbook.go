package ooxml

import (
	"context"
	"errors"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/pspsync/pkg/domain/interfaces"
	"github.com/xuri/excelize/v2"
)

// Workbook is an interfaces.Workbook backed by an excelize file
type Workbook struct {
	file   *excelize.File
	origin origin
}

var _ interfaces.Workbook = &Workbook{}

// OpenWorkbook opens a local .xlsx file
func OpenWorkbook(path string) (*Workbook, error) {
	return openWorkbook(path, localFile{})
}

func openWorkbook(path string, o origin) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open xlsx", goerr.V("path", path))
	}
	return &Workbook{file: f, origin: o}, nil
}

func (x *Workbook) SheetNames() []string {
	return x.file.GetSheetList()
}

func (x *Workbook) Sheet(name string) (interfaces.Worksheet, error) {
	idx, err := x.file.GetSheetIndex(name)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to look up worksheet", goerr.V(interfaces.SheetNameKey, name))
	}
	if idx < 0 {
		return nil, goerr.Wrap(interfaces.ErrSheetNotFound, "no such worksheet", goerr.V(interfaces.SheetNameKey, name))
	}
	return &worksheet{file: x.file, name: name}, nil
}

func (x *Workbook) Save(ctx context.Context) error {
	if err := x.file.Save(); err != nil {
		return goerr.Wrap(err, "failed to save xlsx", goerr.V("path", x.file.Path))
	}
	if err := x.origin.Commit(ctx); err != nil {
		return goerr.Wrap(err, "failed to publish workbook")
	}
	return nil
}

func (x *Workbook) Close() error {
	var errs []error
	if err := x.file.Close(); err != nil {
		errs = append(errs, goerr.Wrap(err, "failed to close xlsx"))
	}
	if err := x.origin.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

type worksheet struct {
	file *excelize.File
	name string
}

func (x *worksheet) Name() string { return x.name }

func (x *worksheet) axis(row, col int) (string, error) {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return "", goerr.Wrap(interfaces.ErrOutOfRange, err.Error(),
			goerr.V(interfaces.SheetNameKey, x.name), goerr.V(interfaces.RowKey, row), goerr.V(interfaces.ColumnKey, col))
	}
	return cell, nil
}

func (x *worksheet) Cell(row, col int) (string, error) {
	cell, err := x.axis(row, col)
	if err != nil {
		return "", err
	}
	v, err := x.file.GetCellValue(x.name, cell)
	if err != nil {
		return "", goerr.Wrap(err, "failed to read cell", goerr.V(interfaces.SheetNameKey, x.name), goerr.V("cell", cell))
	}
	return v, nil
}

func (x *worksheet) SetCell(row, col int, value string) error {
	cell, err := x.axis(row, col)
	if err != nil {
		return err
	}

	var v any = value
	if value == "" {
		v = nil
	}
	if err := x.file.SetCellValue(x.name, cell, v); err != nil {
		return goerr.Wrap(err, "failed to write cell", goerr.V(interfaces.SheetNameKey, x.name), goerr.V("cell", cell))
	}
	return nil
}

package memory

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/pspsync/pkg/domain/interfaces"
)

type cellKey struct {
	row, col int
}

// Workbook is an in-memory interfaces.Workbook
type Workbook struct {
	sheets  []*Worksheet
	saved   int
	closed  bool
	saveErr error
}

var _ interfaces.Workbook = &Workbook{}

func NewWorkbook() *Workbook {
	return &Workbook{}
}

// AddSheet appends a worksheet and returns it for population
func (x *Workbook) AddSheet(name string) *Worksheet {
	ws := &Worksheet{name: name, cells: make(map[cellKey]string)}
	x.sheets = append(x.sheets, ws)
	return ws
}

// FailSave makes every subsequent Save return err
func (x *Workbook) FailSave(err error) {
	x.saveErr = err
}

// SaveCount returns how many times Save succeeded
func (x *Workbook) SaveCount() int { return x.saved }

// Closed reports whether Close was called since the last open
func (x *Workbook) Closed() bool { return x.closed }

func (x *Workbook) SheetNames() []string {
	names := make([]string, len(x.sheets))
	for i, ws := range x.sheets {
		names[i] = ws.name
	}
	return names
}

func (x *Workbook) Sheet(name string) (interfaces.Worksheet, error) {
	for _, ws := range x.sheets {
		if ws.name == name {
			return ws, nil
		}
	}
	return nil, goerr.Wrap(interfaces.ErrSheetNotFound, "no such worksheet", goerr.V(interfaces.SheetNameKey, name))
}

func (x *Workbook) Save(ctx context.Context) error {
	if x.closed {
		return goerr.Wrap(errClosed, "failed to save workbook")
	}
	if x.saveErr != nil {
		return goerr.Wrap(x.saveErr, "failed to save workbook")
	}
	x.saved++
	return nil
}

func (x *Workbook) Close() error {
	x.closed = true
	return nil
}

// Worksheet is an in-memory interfaces.Worksheet
type Worksheet struct {
	name  string
	cells map[cellKey]string
}

var _ interfaces.Worksheet = &Worksheet{}

// Set writes a cell and returns the worksheet for chaining
func (x *Worksheet) Set(row, col int, value string) *Worksheet {
	if value == "" {
		delete(x.cells, cellKey{row, col})
	} else {
		x.cells[cellKey{row, col}] = value
	}
	return x
}

// SetRow writes values into consecutive columns starting at col
func (x *Worksheet) SetRow(row, col int, values ...string) *Worksheet {
	for i, v := range values {
		x.Set(row, col+i, v)
	}
	return x
}

// Get returns the cell value without bounds checking
func (x *Worksheet) Get(row, col int) string {
	return x.cells[cellKey{row, col}]
}

func (x *Worksheet) Name() string { return x.name }

func (x *Worksheet) Cell(row, col int) (string, error) {
	if row < 1 || col < 1 {
		return "", goerr.Wrap(interfaces.ErrOutOfRange, "invalid cell",
			goerr.V(interfaces.SheetNameKey, x.name), goerr.V(interfaces.RowKey, row), goerr.V(interfaces.ColumnKey, col))
	}
	return x.cells[cellKey{row, col}], nil
}

func (x *Worksheet) SetCell(row, col int, value string) error {
	if row < 1 || col < 1 {
		return goerr.Wrap(interfaces.ErrOutOfRange, "invalid cell",
			goerr.V(interfaces.SheetNameKey, x.name), goerr.V(interfaces.RowKey, row), goerr.V(interfaces.ColumnKey, col))
	}
	x.Set(row, col, value)
	return nil
}

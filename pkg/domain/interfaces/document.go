package interfaces

import (
	"context"

	"github.com/secmon-lab/pspsync/pkg/domain/types"
)

// DocumentOpener resolves document identifiers (local path or remote URI) to open documents.
// Callers own the returned document and must Close it.
type DocumentOpener interface {
	OpenWorkbook(ctx context.Context, id string) (Workbook, error)
	OpenDeck(ctx context.Context, id string) (Deck, error)
}

// Workbook is an open spreadsheet document
type Workbook interface {
	// SheetNames returns worksheet names in the workbook's native order
	SheetNames() []string

	// Sheet returns the worksheet with the exact name, or ErrSheetNotFound
	Sheet(name string) (Worksheet, error)

	Save(ctx context.Context) error
	Close() error
}

// Worksheet addresses cells by 1-based row and column. An empty cell reads as "".
type Worksheet interface {
	Name() string
	Cell(row, col int) (string, error)

	// SetCell writes value; an empty value clears the cell
	SetCell(row, col int, value string) error
}

// Deck is an open presentation document
type Deck interface {
	// Slides returns slides in presentation order
	Slides() []Slide

	// DuplicateSlide copies src and inserts the copy immediately after src
	DuplicateSlide(src Slide) (Slide, error)

	Save(ctx context.Context) error
	Close() error
}

// Slide exposes the named shapes of one slide
type Slide interface {
	HasShape(name string) bool

	// Table returns the table shape with the given name. ErrShapeNotFound if absent,
	// ErrShapeKind if the shape is not a table.
	Table(name string) (Table, error)

	// TextFrame returns the text-bearing shape with the given name
	TextFrame(name string) (TextFrame, error)
}

// Table addresses cells by 1-based row and column. Row 1 is the header row.
type Table interface {
	Rows() int
	Columns() int

	// AddRow appends a row shaped like the last row, with empty text
	AddRow() error
	DeleteRow(row int) error

	Text(row, col int) (string, error)
	SetText(row, col int, text string) error
	SetFill(row, col int, color types.Color) error
	SetFont(row, col int, font Font) error
}

// Font is the run formatting applied to a table cell. A nil Color keeps the current colour.
type Font struct {
	Bold  bool
	Color *types.Color
}

// TextFrame is a shape carrying plain text
type TextFrame interface {
	Text() (string, error)
	SetText(text string) error
}

package interfaces

import "errors"

var (
	// ErrSheetNotFound is returned when a workbook has no worksheet with the requested name
	ErrSheetNotFound = errors.New("worksheet not found")

	// ErrShapeNotFound is returned when a slide has no shape with the requested name
	ErrShapeNotFound = errors.New("shape not found")

	// ErrShapeKind is returned when a named shape exists but is not of the requested kind
	ErrShapeKind = errors.New("shape is not of the requested kind")

	// ErrOutOfRange is returned for row or column indices outside the table or sheet
	ErrOutOfRange = errors.New("index out of range")

	// ErrMergedRow is returned when a table row to copy or delete takes part in a vertical cell merge
	ErrMergedRow = errors.New("table row is part of a vertical merge")
)

const (
	SheetNameKey = "sheet_name"
	ShapeNameKey = "shape_name"
	RowKey       = "row"
	ColumnKey    = "column"
)

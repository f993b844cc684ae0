package usecase

import "errors"

// Sentinel errors for use case layer
var (
	// Structural lookup errors
	ErrHeaderNotFound = errors.New("table header not found within scan limit")
	ErrAnchorNotFound = errors.New("anchor shape not found in deck")

	// Data shape errors
	ErrNonContiguousTable = errors.New("synthesis table has an embedded blank row")
	ErrMalformedTemplate  = errors.New("template table needs a header and at least one content row")
)

// Context keys for error values
const (
	RiskIDKey   = "risk_id"
	SheetKey    = "sheet"
	HeaderKey   = "header"
	AnchorKey   = "anchor"
	TableKey    = "table"
	RowKey      = "row"
	ColumnKey   = "column"
	LanguageKey = "language"
)

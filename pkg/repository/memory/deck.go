package memory

import (
	"context"
	"slices"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/pspsync/pkg/domain/interfaces"
	"github.com/secmon-lab/pspsync/pkg/domain/types"
)

// Deck is an in-memory interfaces.Deck
type Deck struct {
	slides  []*Slide
	saved   int
	closed  bool
	saveErr error
}

var _ interfaces.Deck = &Deck{}

func NewDeck() *Deck {
	return &Deck{}
}

// AddSlide appends an empty slide and returns it for population
func (x *Deck) AddSlide() *Slide {
	s := &Slide{}
	x.slides = append(x.slides, s)
	return s
}

// FailSave makes every subsequent Save return err
func (x *Deck) FailSave(err error) {
	x.saveErr = err
}

func (x *Deck) SaveCount() int { return x.saved }
func (x *Deck) Closed() bool   { return x.closed }

// SlideAt returns the slide at the 0-based position
func (x *Deck) SlideAt(i int) *Slide {
	return x.slides[i]
}

func (x *Deck) Slides() []interfaces.Slide {
	slides := make([]interfaces.Slide, len(x.slides))
	for i, s := range x.slides {
		slides[i] = s
	}
	return slides
}

func (x *Deck) DuplicateSlide(src interfaces.Slide) (interfaces.Slide, error) {
	s, ok := src.(*Slide)
	if !ok {
		return nil, goerr.New("slide does not belong to this deck")
	}
	idx := slices.Index(x.slides, s)
	if idx < 0 {
		return nil, goerr.New("slide does not belong to this deck")
	}

	dup := s.clone()
	x.slides = slices.Insert(x.slides, idx+1, dup)
	return dup, nil
}

func (x *Deck) Save(ctx context.Context) error {
	if x.closed {
		return goerr.Wrap(errClosed, "failed to save deck")
	}
	if x.saveErr != nil {
		return goerr.Wrap(x.saveErr, "failed to save deck")
	}
	x.saved++
	return nil
}

func (x *Deck) Close() error {
	x.closed = true
	return nil
}

type shape struct {
	name  string
	table *Table
	text  *TextFrame
}

// Slide is an in-memory interfaces.Slide
type Slide struct {
	shapes []*shape
}

var _ interfaces.Slide = &Slide{}

// WithTable adds a table shape whose cells hold rows. Every row must have the same length.
func (x *Slide) WithTable(name string, rows ...[]string) *Slide {
	t := &Table{}
	for _, r := range rows {
		row := make([]*Cell, len(r))
		for i, text := range r {
			row[i] = &Cell{Text: text}
		}
		t.rows = append(t.rows, row)
	}
	x.shapes = append(x.shapes, &shape{name: name, table: t})
	return x
}

// WithText adds a text shape
func (x *Slide) WithText(name, text string) *Slide {
	x.shapes = append(x.shapes, &shape{name: name, text: &TextFrame{text: text}})
	return x
}

// TableShape returns the table shape named name, or nil
func (x *Slide) TableShape(name string) *Table {
	for _, s := range x.shapes {
		if s.name == name && s.table != nil {
			return s.table
		}
	}
	return nil
}

// TextShape returns the text shape named name, or nil
func (x *Slide) TextShape(name string) *TextFrame {
	for _, s := range x.shapes {
		if s.name == name && s.text != nil {
			return s.text
		}
	}
	return nil
}

func (x *Slide) find(name string) (*shape, error) {
	for _, s := range x.shapes {
		if s.name == name {
			return s, nil
		}
	}
	return nil, goerr.Wrap(interfaces.ErrShapeNotFound, "no such shape", goerr.V(interfaces.ShapeNameKey, name))
}

func (x *Slide) HasShape(name string) bool {
	_, err := x.find(name)
	return err == nil
}

func (x *Slide) Table(name string) (interfaces.Table, error) {
	s, err := x.find(name)
	if err != nil {
		return nil, err
	}
	if s.table == nil {
		return nil, goerr.Wrap(interfaces.ErrShapeKind, "shape is not a table", goerr.V(interfaces.ShapeNameKey, name))
	}
	return s.table, nil
}

func (x *Slide) TextFrame(name string) (interfaces.TextFrame, error) {
	s, err := x.find(name)
	if err != nil {
		return nil, err
	}
	if s.text == nil {
		return nil, goerr.Wrap(interfaces.ErrShapeKind, "shape has no text frame", goerr.V(interfaces.ShapeNameKey, name))
	}
	return s.text, nil
}

func (x *Slide) clone() *Slide {
	dup := &Slide{shapes: make([]*shape, len(x.shapes))}
	for i, s := range x.shapes {
		c := &shape{name: s.name}
		if s.table != nil {
			c.table = s.table.clone()
		}
		if s.text != nil {
			c.text = &TextFrame{text: s.text.text}
		}
		dup.shapes[i] = c
	}
	return dup
}

// Cell is a table cell with the formatting applied to it. RowSpan above one starts a
// vertical merge and Merged marks the cells it covers.
type Cell struct {
	Text    string
	Fill    *types.Color
	Font    *interfaces.Font
	RowSpan int
	Merged  bool
}

// Table is an in-memory interfaces.Table
type Table struct {
	rows [][]*Cell
}

var _ interfaces.Table = &Table{}

// CellAt returns the cell at the 1-based position, or nil when out of range
func (x *Table) CellAt(row, col int) *Cell {
	if row < 1 || row > len(x.rows) || col < 1 || col > len(x.rows[row-1]) {
		return nil
	}
	return x.rows[row-1][col-1]
}

func (x *Table) cell(row, col int) (*Cell, error) {
	c := x.CellAt(row, col)
	if c == nil {
		return nil, goerr.Wrap(interfaces.ErrOutOfRange, "invalid table cell",
			goerr.V(interfaces.RowKey, row), goerr.V(interfaces.ColumnKey, col))
	}
	return c, nil
}

// MergeDown merges the cell at (row, col) with the span-1 cells below it
func (x *Table) MergeDown(row, col, span int) *Table {
	x.rows[row-1][col-1].RowSpan = span
	for r := row + 1; r < row+span; r++ {
		x.rows[r-1][col-1].Merged = true
	}
	return x
}

func verticallyMerged(row []*Cell) bool {
	for _, c := range row {
		if c.RowSpan > 1 || c.Merged {
			return true
		}
	}
	return false
}

func (x *Table) Rows() int { return len(x.rows) }

func (x *Table) Columns() int {
	if len(x.rows) == 0 {
		return 0
	}
	return len(x.rows[0])
}

func (x *Table) AddRow() error {
	if len(x.rows) == 0 {
		return goerr.Wrap(interfaces.ErrOutOfRange, "table has no row to copy")
	}
	last := x.rows[len(x.rows)-1]
	if verticallyMerged(last) {
		return goerr.Wrap(interfaces.ErrMergedRow, "last row cannot be copied",
			goerr.V(interfaces.RowKey, len(x.rows)))
	}
	row := make([]*Cell, len(last))
	for i := range last {
		row[i] = &Cell{}
	}
	x.rows = append(x.rows, row)
	return nil
}

func (x *Table) DeleteRow(row int) error {
	if row < 1 || row > len(x.rows) {
		return goerr.Wrap(interfaces.ErrOutOfRange, "invalid table row", goerr.V(interfaces.RowKey, row))
	}
	if verticallyMerged(x.rows[row-1]) {
		return goerr.Wrap(interfaces.ErrMergedRow, "row cannot be deleted", goerr.V(interfaces.RowKey, row))
	}
	x.rows = slices.Delete(x.rows, row-1, row)
	return nil
}

func (x *Table) Text(row, col int) (string, error) {
	c, err := x.cell(row, col)
	if err != nil {
		return "", err
	}
	return c.Text, nil
}

func (x *Table) SetText(row, col int, text string) error {
	c, err := x.cell(row, col)
	if err != nil {
		return err
	}
	c.Text = text
	return nil
}

func (x *Table) SetFill(row, col int, color types.Color) error {
	c, err := x.cell(row, col)
	if err != nil {
		return err
	}
	c.Fill = &color
	return nil
}

func (x *Table) SetFont(row, col int, font interfaces.Font) error {
	c, err := x.cell(row, col)
	if err != nil {
		return err
	}
	c.Font = &font
	return nil
}

func (x *Table) clone() *Table {
	dup := &Table{rows: make([][]*Cell, len(x.rows))}
	for i, r := range x.rows {
		row := make([]*Cell, len(r))
		for j, c := range r {
			cp := *c
			row[j] = &cp
		}
		dup.rows[i] = row
	}
	return dup
}

// TextFrame is an in-memory interfaces.TextFrame
type TextFrame struct {
	text string
}

var _ interfaces.TextFrame = &TextFrame{}

func (x *TextFrame) Text() (string, error) { return x.text, nil }

func (x *TextFrame) SetText(text string) error {
	x.text = text
	return nil
}

package repository_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/pspsync/pkg/domain/interfaces"
	"github.com/secmon-lab/pspsync/pkg/domain/types"
)

func tableText(t *testing.T, table interfaces.Table, row, col int) string {
	t.Helper()
	v, err := table.Text(row, col)
	gt.NoError(t, err).Required()
	return v
}

func runDeckTest(t *testing.T, newDeck deckFactory) {
	t.Helper()

	slides := []slideFixture{
		{text("Title Risks", "Risks"), tbl("Risks", []string{"ID", "Risk"}, []string{"R01", "first"}, []string{"R02", "second"})},
		{text("Title Risk", "Risk"), text("Body", "line 1\nline 2"), tbl("Risk", []string{"ID", "Theme", "Description"}, []string{"", "", ""})},
		{text("Title ExecSum", "Summary")},
	}

	t.Run("Slides keeps presentation order", func(t *testing.T) {
		deck := newDeck(t, slides...)
		got := deck.Slides()
		gt.Array(t, got).Length(3).Required()
		gt.Bool(t, got[0].HasShape("Title Risks")).True()
		gt.Bool(t, got[1].HasShape("Title Risk")).True()
		gt.Bool(t, got[1].HasShape("Title Risks")).False()
		gt.Bool(t, got[2].HasShape("Title ExecSum")).True()
	})

	t.Run("Table and TextFrame resolve by name and kind", func(t *testing.T) {
		deck := newDeck(t, slides...)
		s := deck.Slides()[1]

		_, err := s.Table("Missing")
		gt.Error(t, err).Is(interfaces.ErrShapeNotFound)

		_, err = s.Table("Body")
		gt.Error(t, err).Is(interfaces.ErrShapeKind)

		_, err = s.TextFrame("Risk")
		gt.Error(t, err).Is(interfaces.ErrShapeKind)

		tf, err := s.TextFrame("Body")
		gt.NoError(t, err).Required()
		v, err := tf.Text()
		gt.NoError(t, err)
		gt.Value(t, v).Equal("line 1\nline 2")
	})

	t.Run("TextFrame SetText replaces content", func(t *testing.T) {
		deck := newDeck(t, slides...)
		tf, err := deck.Slides()[1].TextFrame("Body")
		gt.NoError(t, err).Required()

		gt.NoError(t, tf.SetText("replaced\ntwo lines"))
		v, err := tf.Text()
		gt.NoError(t, err)
		gt.Value(t, v).Equal("replaced\ntwo lines")
	})

	t.Run("table text and dimensions", func(t *testing.T) {
		deck := newDeck(t, slides...)
		table, err := deck.Slides()[0].Table("Risks")
		gt.NoError(t, err).Required()

		gt.Number(t, table.Rows()).Equal(3)
		gt.Number(t, table.Columns()).Equal(2)
		gt.Value(t, tableText(t, table, 2, 1)).Equal("R01")

		gt.NoError(t, table.SetText(3, 2, "updated"))
		gt.Value(t, tableText(t, table, 3, 2)).Equal("updated")

		_, err = table.Text(4, 1)
		gt.Error(t, err).Is(interfaces.ErrOutOfRange)
		gt.Error(t, table.SetText(1, 3, "x")).Is(interfaces.ErrOutOfRange)
	})

	t.Run("AddRow appends an empty row and DeleteRow removes one", func(t *testing.T) {
		deck := newDeck(t, slides...)
		table, err := deck.Slides()[0].Table("Risks")
		gt.NoError(t, err).Required()

		gt.NoError(t, table.AddRow())
		gt.Number(t, table.Rows()).Equal(4)
		gt.Value(t, tableText(t, table, 4, 1)).Equal("")
		gt.Value(t, tableText(t, table, 3, 1)).Equal("R02")

		gt.NoError(t, table.DeleteRow(2))
		gt.Number(t, table.Rows()).Equal(3)
		gt.Value(t, tableText(t, table, 2, 1)).Equal("R02")

		gt.Error(t, table.DeleteRow(9)).Is(interfaces.ErrOutOfRange)
	})

	t.Run("rows of a vertical merge are neither deleted nor copied", func(t *testing.T) {
		merged := tbl("Merged", []string{"ID", "Group"},
			[]string{"R01", "shared"}, []string{"R02", ""}, []string{"R03", ""}).mergeDown(2, 2, 3)
		deck := newDeck(t, slideFixture{merged})
		table, err := deck.Slides()[0].Table("Merged")
		gt.NoError(t, err).Required()

		gt.Error(t, table.DeleteRow(4)).Is(interfaces.ErrMergedRow)
		gt.Error(t, table.DeleteRow(2)).Is(interfaces.ErrMergedRow)
		gt.Error(t, table.AddRow()).Is(interfaces.ErrMergedRow)
		gt.Number(t, table.Rows()).Equal(4)

		// the header row is outside the span
		gt.NoError(t, table.DeleteRow(1))
		gt.Number(t, table.Rows()).Equal(3)
	})

	t.Run("formatting keeps text", func(t *testing.T) {
		deck := newDeck(t, slides...)
		table, err := deck.Slides()[0].Table("Risks")
		gt.NoError(t, err).Required()

		red := types.RGB(0xFF, 0x66, 0x66)
		gt.NoError(t, table.SetFill(2, 2, red))
		gt.NoError(t, table.SetFont(2, 1, interfaces.Font{Bold: true, Color: &red}))
		gt.NoError(t, table.SetFont(3, 1, interfaces.Font{Bold: true}))
		gt.Value(t, tableText(t, table, 2, 1)).Equal("R01")
		gt.Value(t, tableText(t, table, 2, 2)).Equal("first")

		gt.Error(t, table.SetFill(9, 1, red)).Is(interfaces.ErrOutOfRange)
	})

	t.Run("DuplicateSlide inserts an independent copy after the source", func(t *testing.T) {
		deck := newDeck(t, slides...)
		src := deck.Slides()[1]

		first, err := deck.DuplicateSlide(src)
		gt.NoError(t, err).Required()
		second, err := deck.DuplicateSlide(first)
		gt.NoError(t, err).Required()

		all := deck.Slides()
		gt.Array(t, all).Length(5).Required()
		gt.Value(t, all[2]).Equal(first)
		gt.Value(t, all[3]).Equal(second)
		gt.Bool(t, all[4].HasShape("Title ExecSum")).True()

		table, err := first.Table("Risk")
		gt.NoError(t, err).Required()
		gt.NoError(t, table.SetText(2, 1, "R07"))

		orig, err := src.Table("Risk")
		gt.NoError(t, err).Required()
		gt.Value(t, tableText(t, orig, 2, 1)).Equal("")

		copied, err := second.Table("Risk")
		gt.NoError(t, err).Required()
		gt.Value(t, tableText(t, copied, 2, 1)).Equal("")
	})

	t.Run("Save succeeds", func(t *testing.T) {
		deck := newDeck(t, slides...)
		gt.NoError(t, deck.Save(context.Background()))
	})
}

func TestMemoryDeck(t *testing.T) {
	runDeckTest(t, newMemoryDeck)
}

func TestOOXMLDeck(t *testing.T) {
	runDeckTest(t, newOOXMLDeck)
}

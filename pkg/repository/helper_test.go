package repository_test

import (
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/pspsync/pkg/domain/interfaces"
	"github.com/secmon-lab/pspsync/pkg/repository/memory"
	"github.com/secmon-lab/pspsync/pkg/repository/ooxml"
	"github.com/secmon-lab/pspsync/pkg/repository/ooxml/ooxmltest"
)

type shapeFixture struct {
	name   string
	text   string
	rows   [][]string
	merges [][3]int
}

func text(name, s string) shapeFixture {
	return shapeFixture{name: name, text: s}
}

func tbl(name string, rows ...[]string) shapeFixture {
	return shapeFixture{name: name, rows: rows}
}

// mergeDown merges the cell at (row, col) with the span-1 cells below it
func (x shapeFixture) mergeDown(row, col, span int) shapeFixture {
	x.merges = append(x.merges, [3]int{row, col, span})
	return x
}

type slideFixture []shapeFixture

type workbookFactory func(t *testing.T, sheets ...ooxmltest.Sheet) interfaces.Workbook
type deckFactory func(t *testing.T, slides ...slideFixture) interfaces.Deck

func newMemoryWorkbook(t *testing.T, sheets ...ooxmltest.Sheet) interfaces.Workbook {
	wb := memory.NewWorkbook()
	for _, sh := range sheets {
		ws := wb.AddSheet(sh.Name)
		for rc, v := range sh.Cells {
			ws.Set(rc[0], rc[1], v)
		}
	}
	return wb
}

func newOOXMLWorkbook(t *testing.T, sheets ...ooxmltest.Sheet) interfaces.Workbook {
	path := filepath.Join(t.TempDir(), "psp.xlsx")
	gt.NoError(t, ooxmltest.WriteWorkbook(path, sheets...)).Required()

	wb, err := ooxml.OpenWorkbook(path)
	gt.NoError(t, err).Required()
	t.Cleanup(func() { _ = wb.Close() })
	return wb
}

func newMemoryDeck(t *testing.T, slides ...slideFixture) interfaces.Deck {
	deck := memory.NewDeck()
	for _, shapes := range slides {
		s := deck.AddSlide()
		for _, sh := range shapes {
			if sh.rows == nil {
				s.WithText(sh.name, sh.text)
				continue
			}
			table := s.WithTable(sh.name, sh.rows...).TableShape(sh.name)
			for _, m := range sh.merges {
				table.MergeDown(m[0], m[1], m[2])
			}
		}
	}
	return deck
}

func newOOXMLDeck(t *testing.T, slides ...slideFixture) interfaces.Deck {
	fixture := ooxmltest.NewDeck()
	for _, shapes := range slides {
		s := fixture.AddSlide()
		for _, sh := range shapes {
			if sh.rows == nil {
				s.WithText(sh.name, sh.text)
				continue
			}
			s.WithTable(sh.name, sh.rows...)
			for _, m := range sh.merges {
				s.WithMerge(sh.name, m[0], m[1], m[2])
			}
		}
	}

	path := filepath.Join(t.TempDir(), "psp.pptx")
	gt.NoError(t, fixture.Write(path)).Required()

	deck, err := ooxml.OpenDeck(path)
	gt.NoError(t, err).Required()
	t.Cleanup(func() { _ = deck.Close() })
	return deck
}

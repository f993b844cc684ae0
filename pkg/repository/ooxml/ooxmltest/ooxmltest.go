// Package ooxmltest builds small .xlsx and .pptx files for tests
package ooxmltest

import (
	"archive/zip"
	"fmt"
	"html"
	"os"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/xuri/excelize/v2"
)

// Sheet describes a worksheet. Cells maps 1-based (row, col) to a value.
type Sheet struct {
	Name  string
	Cells map[[2]int]string
}

// WriteWorkbook creates an .xlsx file with the sheets in the given order
func WriteWorkbook(path string, sheets ...Sheet) error {
	f := excelize.NewFile()
	defer f.Close()

	defaultSheet := f.GetSheetName(0)
	keepDefault := false
	for i, sh := range sheets {
		if i == 0 && sh.Name == defaultSheet {
			keepDefault = true
		} else if _, err := f.NewSheet(sh.Name); err != nil {
			return goerr.Wrap(err, "failed to add sheet", goerr.V("sheet", sh.Name))
		}
		for rc, v := range sh.Cells {
			cell, err := excelize.CoordinatesToCellName(rc[1], rc[0])
			if err != nil {
				return goerr.Wrap(err, "invalid cell", goerr.V("row", rc[0]), goerr.V("col", rc[1]))
			}
			if err := f.SetCellValue(sh.Name, cell, v); err != nil {
				return goerr.Wrap(err, "failed to set cell", goerr.V("sheet", sh.Name), goerr.V("cell", cell))
			}
		}
	}
	if !keepDefault && len(sheets) > 0 {
		if err := f.DeleteSheet(defaultSheet); err != nil {
			return goerr.Wrap(err, "failed to remove default sheet")
		}
	}

	if err := f.SaveAs(path); err != nil {
		return goerr.Wrap(err, "failed to save workbook", goerr.V("path", path))
	}
	return nil
}

// Deck describes a presentation
type Deck struct {
	slides []*Slide
}

func NewDeck() *Deck {
	return &Deck{}
}

// AddSlide appends a slide and returns it for population
func (d *Deck) AddSlide() *Slide {
	s := &Slide{}
	d.slides = append(d.slides, s)
	return s
}

type shape struct {
	name   string
	text   *string
	rows   [][]string
	merges map[[2]int]int
}

// Slide describes one slide as a list of named shapes
type Slide struct {
	shapes   []shape
	notes    bool
	comments bool
}

// WithText adds a text box
func (s *Slide) WithText(name, text string) *Slide {
	s.shapes = append(s.shapes, shape{name: name, text: &text})
	return s
}

// WithTable adds a table. Every row must have the same length.
func (s *Slide) WithTable(name string, rows ...[]string) *Slide {
	s.shapes = append(s.shapes, shape{name: name, rows: rows})
	return s
}

// WithMerge merges the cell at 1-based (row, col) of the named table with the span-1
// cells below it
func (s *Slide) WithMerge(name string, row, col, span int) *Slide {
	for i := range s.shapes {
		if s.shapes[i].name != name || s.shapes[i].rows == nil {
			continue
		}
		if s.shapes[i].merges == nil {
			s.shapes[i].merges = make(map[[2]int]int)
		}
		s.shapes[i].merges[[2]int{row, col}] = span
	}
	return s
}

// WithNotes attaches a notes page to the slide
func (s *Slide) WithNotes() *Slide {
	s.notes = true
	return s
}

// WithComments attaches a comment list to the slide
func (s *Slide) WithComments() *Slide {
	s.comments = true
	return s
}

// RowHeight is the height in EMU of every generated table row
const RowHeight = 370840

const (
	nsDecl = `xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" ` +
		`xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" ` +
		`xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"`
	xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"
)

// Write stores the deck as a .pptx file
func (d *Deck) Write(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return goerr.Wrap(err, "failed to create deck", goerr.V("path", path))
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	put := func(name, content string) error {
		w, err := zw.Create(name)
		if err != nil {
			return goerr.Wrap(err, "failed to add part", goerr.V("part", name))
		}
		_, err = w.Write([]byte(content))
		return err
	}

	var types, presRels, sldIDs strings.Builder
	types.WriteString(xmlHeader + `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`)
	types.WriteString(`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`)
	types.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)
	types.WriteString(`<Override PartName="/ppt/presentation.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"/>`)

	presRels.WriteString(xmlHeader + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)

	for i := range d.slides {
		n := i + 1
		fmt.Fprintf(&types, `<Override PartName="/ppt/slides/slide%d.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slide+xml"/>`, n)
		if d.slides[i].notes {
			fmt.Fprintf(&types, `<Override PartName="/ppt/notesSlides/notesSlide%d.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.notesSlide+xml"/>`, n)
		}
		if d.slides[i].comments {
			fmt.Fprintf(&types, `<Override PartName="/ppt/comments/comment%d.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.comments+xml"/>`, n)
		}
		fmt.Fprintf(&presRels, `<Relationship Id="rId%d" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide" Target="slides/slide%d.xml"/>`, n, n)
		fmt.Fprintf(&sldIDs, `<p:sldId id="%d" r:id="rId%d"/>`, 255+n, n)
	}
	types.WriteString(`</Types>`)
	presRels.WriteString(`</Relationships>`)

	parts := []struct{ name, content string }{
		{"[Content_Types].xml", types.String()},
		{"_rels/.rels", xmlHeader + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
			`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="ppt/presentation.xml"/>` +
			`</Relationships>`},
		{"ppt/_rels/presentation.xml.rels", presRels.String()},
		{"ppt/presentation.xml", xmlHeader + `<p:presentation ` + nsDecl + `><p:sldIdLst>` + sldIDs.String() +
			`</p:sldIdLst><p:sldSz cx="9144000" cy="6858000"/></p:presentation>`},
	}
	for _, p := range parts {
		if err := put(p.name, p.content); err != nil {
			return err
		}
	}

	for i, s := range d.slides {
		n := i + 1
		if err := put(fmt.Sprintf("ppt/slides/slide%d.xml", n), s.xml()); err != nil {
			return err
		}
		if !s.notes && !s.comments {
			continue
		}

		rels := xmlHeader + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`
		if s.notes {
			rels += fmt.Sprintf(`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/notesSlide" Target="../notesSlides/notesSlide%d.xml"/>`, n)
			notes := xmlHeader + `<p:notes ` + nsDecl + `><p:cSld><p:spTree><p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/></p:spTree></p:cSld></p:notes>`
			if err := put(fmt.Sprintf("ppt/notesSlides/notesSlide%d.xml", n), notes); err != nil {
				return err
			}
		}
		if s.comments {
			rels += fmt.Sprintf(`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/comments" Target="../comments/comment%d.xml"/>`, n)
			comments := xmlHeader + `<p:cmLst ` + nsDecl + `><p:cm authorId="0" idx="1"><p:pos x="10" y="10"/><p:text>review</p:text></p:cm></p:cmLst>`
			if err := put(fmt.Sprintf("ppt/comments/comment%d.xml", n), comments); err != nil {
				return err
			}
		}
		rels += `</Relationships>`
		if err := put(fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", n), rels); err != nil {
			return err
		}
	}

	if err := zw.Close(); err != nil {
		return goerr.Wrap(err, "failed to finalize deck")
	}
	return nil
}

func (s *Slide) xml() string {
	var b strings.Builder
	b.WriteString(xmlHeader + `<p:sld ` + nsDecl + `><p:cSld><p:spTree>`)
	b.WriteString(`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>`)

	for i, sh := range s.shapes {
		id := i + 2
		name := html.EscapeString(sh.name)
		if sh.text != nil {
			fmt.Fprintf(&b, `<p:sp><p:nvSpPr><p:cNvPr id="%d" name="%s"/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr><p:spPr/>`, id, name)
			b.WriteString(`<p:txBody><a:bodyPr/><a:lstStyle/>`)
			b.WriteString(paragraphs(*sh.text))
			b.WriteString(`</p:txBody></p:sp>`)
			continue
		}

		cols := 0
		if len(sh.rows) > 0 {
			cols = len(sh.rows[0])
		}
		fmt.Fprintf(&b, `<p:graphicFrame><p:nvGraphicFramePr><p:cNvPr id="%d" name="%s"/><p:cNvGraphicFramePr><a:graphicFrameLocks noGrp="1"/></p:cNvGraphicFramePr><p:nvPr/></p:nvGraphicFramePr>`, id, name)
		fmt.Fprintf(&b, `<p:xfrm><a:off x="0" y="0"/><a:ext cx="%d" cy="%d"/></p:xfrm>`, cols*1000000, len(sh.rows)*RowHeight)
		b.WriteString(`<a:graphic><a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/table"><a:tbl><a:tblPr firstRow="1" bandRow="1"/><a:tblGrid>`)
		for range cols {
			b.WriteString(`<a:gridCol w="1000000"/>`)
		}
		b.WriteString(`</a:tblGrid>`)
		covered := make(map[[2]int]bool)
		for rc, span := range sh.merges {
			for r := rc[0] + 1; r < rc[0]+span; r++ {
				covered[[2]int{r, rc[1]}] = true
			}
		}
		for i, row := range sh.rows {
			fmt.Fprintf(&b, `<a:tr h="%d">`, RowHeight)
			for j, cell := range row {
				rc := [2]int{i + 1, j + 1}
				switch {
				case sh.merges[rc] > 1:
					fmt.Fprintf(&b, `<a:tc rowSpan="%d">`, sh.merges[rc])
				case covered[rc]:
					b.WriteString(`<a:tc vMerge="1">`)
				default:
					b.WriteString(`<a:tc>`)
				}
				b.WriteString(`<a:txBody><a:bodyPr/><a:lstStyle/>`)
				b.WriteString(paragraphs(cell))
				b.WriteString(`</a:txBody><a:tcPr/></a:tc>`)
			}
			b.WriteString(`</a:tr>`)
		}
		b.WriteString(`</a:tbl></a:graphicData></a:graphic></p:graphicFrame>`)
	}

	b.WriteString(`</p:spTree></p:cSld></p:sld>`)
	return b.String()
}

func paragraphs(text string) string {
	var b strings.Builder
	for _, line := range strings.Split(text, "\n") {
		if line == "" {
			b.WriteString(`<a:p><a:endParaRPr lang="en-US" sz="1000"/></a:p>`)
			continue
		}
		fmt.Fprintf(&b, `<a:p><a:r><a:rPr lang="en-US" sz="1000"/><a:t>%s</a:t></a:r></a:p>`, html.EscapeString(line))
	}
	return b.String()
}

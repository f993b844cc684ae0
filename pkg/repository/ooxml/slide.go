package ooxml

import (
	"slices"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/pspsync/pkg/domain/interfaces"
	"github.com/secmon-lab/pspsync/pkg/domain/types"
)

// Slide is one slide part of a Deck
type Slide struct {
	part  string
	doc   *etree.Document
	sldID *etree.Element
}

var _ interfaces.Slide = &Slide{}

// shape returns the first shape element (p:sp, p:graphicFrame, p:grpSp, ...) whose
// non-visual properties carry the given name, in document order
func (x *Slide) shape(name string) (*etree.Element, error) {
	for _, nv := range x.doc.FindElements("//p:cNvPr") {
		if nv.SelectAttrValue("name", "") != name {
			continue
		}
		// p:cNvPr -> p:nvSpPr/p:nvGraphicFramePr/... -> shape
		if props := nv.Parent(); props != nil && props.Parent() != nil {
			return props.Parent(), nil
		}
	}
	return nil, goerr.Wrap(interfaces.ErrShapeNotFound, "no such shape",
		goerr.V(interfaces.ShapeNameKey, name), goerr.V("part", x.part))
}

func (x *Slide) HasShape(name string) bool {
	_, err := x.shape(name)
	return err == nil
}

func (x *Slide) Table(name string) (interfaces.Table, error) {
	sh, err := x.shape(name)
	if err != nil {
		return nil, err
	}
	tbl := sh.FindElement("./a:graphic/a:graphicData/a:tbl")
	if sh.Tag != "graphicFrame" || tbl == nil {
		return nil, goerr.Wrap(interfaces.ErrShapeKind, "shape is not a table",
			goerr.V(interfaces.ShapeNameKey, name), goerr.V("part", x.part))
	}
	return &table{frame: sh, tbl: tbl}, nil
}

func (x *Slide) TextFrame(name string) (interfaces.TextFrame, error) {
	sh, err := x.shape(name)
	if err != nil {
		return nil, err
	}
	body := sh.SelectElement("p:txBody")
	if sh.Tag != "sp" || body == nil {
		return nil, goerr.Wrap(interfaces.ErrShapeKind, "shape has no text frame",
			goerr.V(interfaces.ShapeNameKey, name), goerr.V("part", x.part))
	}
	return &textFrame{body: body}, nil
}

type textFrame struct {
	body *etree.Element
}

func (x *textFrame) Text() (string, error) {
	return bodyText(x.body), nil
}

func (x *textFrame) SetText(text string) error {
	setBodyText(x.body, text)
	return nil
}

type table struct {
	frame *etree.Element
	tbl   *etree.Element
}

func (x *table) rows() []*etree.Element {
	return x.tbl.SelectElements("a:tr")
}

func (x *table) Rows() int {
	return len(x.rows())
}

func (x *table) Columns() int {
	if grid := x.tbl.SelectElement("a:tblGrid"); grid != nil {
		return len(grid.SelectElements("a:gridCol"))
	}
	return 0
}

func (x *table) row(row int) (*etree.Element, error) {
	rows := x.rows()
	if row < 1 || row > len(rows) {
		return nil, goerr.Wrap(interfaces.ErrOutOfRange, "invalid table row",
			goerr.V(interfaces.RowKey, row), goerr.V("rows", len(rows)))
	}
	return rows[row-1], nil
}

func (x *table) cell(row, col int) (*etree.Element, error) {
	tr, err := x.row(row)
	if err != nil {
		return nil, err
	}
	cells := tr.SelectElements("a:tc")
	if col < 1 || col > len(cells) {
		return nil, goerr.Wrap(interfaces.ErrOutOfRange, "invalid table column",
			goerr.V(interfaces.RowKey, row), goerr.V(interfaces.ColumnKey, col), goerr.V("columns", len(cells)))
	}
	return cells[col-1], nil
}

// resize adjusts the graphic frame height by delta EMU
func (x *table) resize(delta int64) {
	ext := x.frame.FindElement("./p:xfrm/a:ext")
	if ext == nil {
		return
	}
	cy, err := strconv.ParseInt(ext.SelectAttrValue("cy", "0"), 10, 64)
	if err != nil {
		return
	}
	ext.CreateAttr("cy", strconv.FormatInt(max(cy+delta, 0), 10))
}

func rowHeight(tr *etree.Element) int64 {
	h, _ := strconv.ParseInt(tr.SelectAttrValue("h", "0"), 10, 64)
	return h
}

// verticallyMerged reports whether a cell of tr starts a row span or continues one
func verticallyMerged(tr *etree.Element) bool {
	for _, tc := range tr.SelectElements("a:tc") {
		if span, err := strconv.Atoi(tc.SelectAttrValue("rowSpan", "1")); err == nil && span > 1 {
			return true
		}
		if v := tc.SelectAttrValue("vMerge", "0"); v == "1" || v == "true" {
			return true
		}
	}
	return false
}

func (x *table) AddRow() error {
	rows := x.rows()
	if len(rows) == 0 {
		return goerr.Wrap(interfaces.ErrOutOfRange, "table has no row to copy")
	}
	last := rows[len(rows)-1]
	if verticallyMerged(last) {
		return goerr.Wrap(interfaces.ErrMergedRow, "last row cannot be copied",
			goerr.V(interfaces.RowKey, len(rows)))
	}

	tr := last.Copy()
	for _, tc := range tr.SelectElements("a:tc") {
		if body := tc.SelectElement("a:txBody"); body != nil {
			setBodyText(body, "")
		}
	}
	x.tbl.InsertChildAt(last.Index()+1, tr)
	x.resize(rowHeight(tr))
	return nil
}

func (x *table) DeleteRow(row int) error {
	tr, err := x.row(row)
	if err != nil {
		return err
	}
	if verticallyMerged(tr) {
		return goerr.Wrap(interfaces.ErrMergedRow, "row cannot be deleted", goerr.V(interfaces.RowKey, row))
	}
	x.tbl.RemoveChild(tr)
	x.resize(-rowHeight(tr))
	return nil
}

func (x *table) Text(row, col int) (string, error) {
	tc, err := x.cell(row, col)
	if err != nil {
		return "", err
	}
	body := tc.SelectElement("a:txBody")
	if body == nil {
		return "", nil
	}
	return bodyText(body), nil
}

func (x *table) SetText(row, col int, text string) error {
	tc, err := x.cell(row, col)
	if err != nil {
		return err
	}
	body := tc.SelectElement("a:txBody")
	if body == nil {
		body = etree.NewElement("a:txBody")
		body.CreateElement("a:bodyPr")
		body.CreateElement("a:lstStyle")
		tc.InsertChildAt(0, body)
	}
	setBodyText(body, text)
	return nil
}

func (x *table) SetFill(row, col int, color types.Color) error {
	tc, err := x.cell(row, col)
	if err != nil {
		return err
	}

	tcPr := tc.SelectElement("a:tcPr")
	if tcPr == nil {
		tcPr = etree.NewElement("a:tcPr")
		if ext := tc.SelectElement("a:extLst"); ext != nil {
			tc.InsertChildAt(ext.Index(), tcPr)
		} else {
			tc.AddChild(tcPr)
		}
	}

	removeFills(tcPr)
	fill := solidFill(color)
	// the fill choice precedes a:headers and a:extLst
	if next := firstChild(tcPr, "headers", "extLst"); next != nil {
		tcPr.InsertChildAt(next.Index(), fill)
	} else {
		tcPr.AddChild(fill)
	}
	return nil
}

func (x *table) SetFont(row, col int, font interfaces.Font) error {
	tc, err := x.cell(row, col)
	if err != nil {
		return err
	}
	body := tc.SelectElement("a:txBody")
	if body == nil {
		return nil
	}

	for _, p := range body.SelectElements("a:p") {
		for _, r := range p.SelectElements("a:r") {
			rPr := r.SelectElement("a:rPr")
			if rPr == nil {
				rPr = etree.NewElement("a:rPr")
				r.InsertChildAt(0, rPr)
			}
			applyFont(rPr, font)
		}
		if end := p.SelectElement("a:endParaRPr"); end != nil {
			applyFont(end, font)
		}
	}
	return nil
}

func applyFont(rPr *etree.Element, font interfaces.Font) {
	if font.Bold {
		rPr.CreateAttr("b", "1")
	} else {
		rPr.CreateAttr("b", "0")
	}
	if font.Color == nil {
		return
	}

	removeFills(rPr)
	fill := solidFill(*font.Color)
	// a:ln is the only child allowed before the fill
	if ln := rPr.SelectElement("a:ln"); ln != nil {
		rPr.InsertChildAt(ln.Index()+1, fill)
	} else {
		rPr.InsertChildAt(0, fill)
	}
}

var fillTags = []string{"noFill", "solidFill", "gradFill", "blipFill", "pattFill", "grpFill"}

func removeFills(el *etree.Element) {
	for _, child := range el.ChildElements() {
		if child.Space == "a" && slices.Contains(fillTags, child.Tag) {
			el.RemoveChild(child)
		}
	}
}

func solidFill(color types.Color) *etree.Element {
	fill := etree.NewElement("a:solidFill")
	clr := fill.CreateElement("a:srgbClr")
	clr.CreateAttr("val", color.Hex())
	return fill
}

func firstChild(el *etree.Element, tags ...string) *etree.Element {
	for _, child := range el.ChildElements() {
		if child.Space == "a" && slices.Contains(tags, child.Tag) {
			return child
		}
	}
	return nil
}

// bodyText joins the text of every paragraph of a text body with newlines
func bodyText(body *etree.Element) string {
	var lines []string
	for _, p := range body.SelectElements("a:p") {
		var sb strings.Builder
		for _, child := range p.ChildElements() {
			switch child.Tag {
			case "r", "fld":
				if t := child.SelectElement("a:t"); t != nil {
					sb.WriteString(t.Text())
				}
			case "br":
				sb.WriteString("\n")
			}
		}
		lines = append(lines, sb.String())
	}
	return strings.Join(lines, "\n")
}

// setBodyText replaces the paragraphs of a text body with one paragraph per line.
// Paragraph and run properties of the first paragraph are carried over, and every
// paragraph keeps one run even when empty so later formatting has a run to land on.
func setBodyText(body *etree.Element, text string) {
	var pPr, rPr, endPr *etree.Element
	paragraphs := body.SelectElements("a:p")
	if len(paragraphs) > 0 {
		first := paragraphs[0]
		pPr = first.SelectElement("a:pPr")
		if r := first.SelectElement("a:r"); r != nil {
			rPr = r.SelectElement("a:rPr")
		}
		endPr = first.SelectElement("a:endParaRPr")
		if rPr == nil && endPr != nil {
			rPr = etree.NewElement("a:rPr")
			for _, attr := range endPr.Attr {
				rPr.CreateAttr(attr.FullKey(), attr.Value)
			}
			for _, child := range endPr.ChildElements() {
				rPr.AddChild(child.Copy())
			}
		}
	}
	for _, p := range paragraphs {
		body.RemoveChild(p)
	}

	for _, line := range strings.Split(text, "\n") {
		p := body.CreateElement("a:p")
		if pPr != nil {
			p.AddChild(pPr.Copy())
		}
		r := p.CreateElement("a:r")
		if rPr != nil {
			r.AddChild(rPr.Copy())
		}
		r.CreateElement("a:t").SetText(line)
		if endPr != nil {
			p.AddChild(endPr.Copy())
		}
	}
}

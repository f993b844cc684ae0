package ooxml

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/pspsync/pkg/domain/interfaces"
)

const (
	contentTypesPart     = "[Content_Types].xml"
	presentationPart     = "ppt/presentation.xml"
	presentationRelsPart = "ppt/_rels/presentation.xml.rels"

	relTypeSlide      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide"
	relTypeNotesSlide = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/notesSlide"
	relTypeComments   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/comments"
	contentTypeSlide  = "application/vnd.openxmlformats-officedocument.presentationml.slide+xml"

	// first slide id allowed in p:sldIdLst
	minSlideID = 256
)

var slidePartPattern = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

// part is one entry of the OPC zip package. Parsed parts are re-serialized on save,
// everything else is copied through byte for byte.
type part struct {
	name string
	data []byte
	doc  *etree.Document
}

// Deck is an interfaces.Deck editing a .pptx package in memory
type Deck struct {
	path   string
	origin origin
	parts  []*part
	byName map[string]*part
	slides []*Slide

	contentTypes *etree.Document
	presentation *etree.Document
	presRels     *etree.Document
}

var _ interfaces.Deck = &Deck{}

// OpenDeck opens a local .pptx file
func OpenDeck(path string) (*Deck, error) {
	return openDeck(path, localFile{})
}

func openDeck(filePath string, o origin) (*Deck, error) {
	zr, err := zip.OpenReader(filePath)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open pptx archive", goerr.V("path", filePath))
	}
	defer zr.Close()

	d := &Deck{
		path:   filePath,
		origin: o,
		byName: make(map[string]*part),
	}

	for _, f := range zr.File {
		data, err := readZipFile(f)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read package part", goerr.V("part", f.Name))
		}
		p := &part{name: f.Name, data: data}
		d.parts = append(d.parts, p)
		d.byName[f.Name] = p
	}

	if d.contentTypes, err = d.parse(contentTypesPart); err != nil {
		return nil, err
	}
	if d.presentation, err = d.parse(presentationPart); err != nil {
		return nil, err
	}
	if d.presRels, err = d.parse(presentationRelsPart); err != nil {
		return nil, err
	}
	if err := d.loadSlides(); err != nil {
		return nil, err
	}

	return d, nil
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// parse returns the XML document of a part, parsing it on first use
func (d *Deck) parse(name string) (*etree.Document, error) {
	p, ok := d.byName[name]
	if !ok {
		return nil, goerr.New("missing package part", goerr.V("part", name))
	}
	if p.doc != nil {
		return p.doc, nil
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(p.data); err != nil {
		return nil, goerr.Wrap(err, "failed to parse package part", goerr.V("part", name))
	}
	p.doc = doc
	return doc, nil
}

func (d *Deck) addPart(name string, doc *etree.Document) {
	p := &part{name: name, doc: doc}
	d.parts = append(d.parts, p)
	d.byName[name] = p
}

// resolveTarget turns a relationship target of the presentation part into a package path
func resolveTarget(target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Join(path.Dir(presentationPart), target)
}

func relsPartOf(name string) string {
	return path.Join(path.Dir(name), "_rels", path.Base(name)+".rels")
}

func (d *Deck) loadSlides() error {
	targets := make(map[string]string)
	for _, rel := range d.presRels.Root().SelectElements("Relationship") {
		if rel.SelectAttrValue("Type", "") == relTypeSlide {
			targets[rel.SelectAttrValue("Id", "")] = resolveTarget(rel.SelectAttrValue("Target", ""))
		}
	}

	lst := d.presentation.Root().SelectElement("p:sldIdLst")
	if lst == nil {
		return nil
	}

	for _, id := range lst.SelectElements("p:sldId") {
		rid := id.SelectAttrValue("r:id", "")
		name, ok := targets[rid]
		if !ok {
			return goerr.New("slide relationship not found", goerr.V("rid", rid))
		}
		doc, err := d.parse(name)
		if err != nil {
			return err
		}
		d.slides = append(d.slides, &Slide{part: name, doc: doc, sldID: id})
	}
	return nil
}

func (d *Deck) Slides() []interfaces.Slide {
	slides := make([]interfaces.Slide, len(d.slides))
	for i, s := range d.slides {
		slides[i] = s
	}
	return slides
}

func (d *Deck) DuplicateSlide(src interfaces.Slide) (interfaces.Slide, error) {
	s, ok := src.(*Slide)
	if !ok {
		return nil, goerr.New("slide does not belong to this deck")
	}
	pos := slices.Index(d.slides, s)
	if pos < 0 {
		return nil, goerr.New("slide does not belong to this deck", goerr.V("part", s.part))
	}

	name := d.nextSlidePart()
	doc := s.doc.Copy()
	d.addPart(name, doc)

	if _, ok := d.byName[relsPartOf(s.part)]; ok {
		rels, err := d.parse(relsPartOf(s.part))
		if err != nil {
			return nil, err
		}
		dup := rels.Copy()
		for _, rel := range dup.Root().SelectElements("Relationship") {
			// notes pages and comment lists belong to exactly one slide
			if t := rel.SelectAttrValue("Type", ""); t == relTypeNotesSlide || t == relTypeComments {
				dup.Root().RemoveChild(rel)
			}
		}
		d.addPart(relsPartOf(name), dup)
	}

	override := d.contentTypes.Root().CreateElement("Override")
	override.CreateAttr("PartName", "/"+name)
	override.CreateAttr("ContentType", contentTypeSlide)

	rid := d.nextRelID()
	rel := d.presRels.Root().CreateElement("Relationship")
	rel.CreateAttr("Id", rid)
	rel.CreateAttr("Type", relTypeSlide)
	rel.CreateAttr("Target", strings.TrimPrefix(name, path.Dir(presentationPart)+"/"))

	sldID := etree.NewElement("p:sldId")
	sldID.CreateAttr("id", strconv.Itoa(d.nextSlideID()))
	sldID.CreateAttr("r:id", rid)
	lst := s.sldID.Parent()
	lst.InsertChildAt(s.sldID.Index()+1, sldID)

	dup := &Slide{part: name, doc: doc, sldID: sldID}
	d.slides = slices.Insert(d.slides, pos+1, dup)
	return dup, nil
}

func (d *Deck) nextSlidePart() string {
	maxN := 0
	for name := range d.byName {
		if m := slidePartPattern.FindStringSubmatch(name); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && n > maxN {
				maxN = n
			}
		}
	}
	return fmt.Sprintf("ppt/slides/slide%d.xml", maxN+1)
}

func (d *Deck) nextRelID() string {
	maxN := 0
	for _, rel := range d.presRels.Root().SelectElements("Relationship") {
		id := rel.SelectAttrValue("Id", "")
		if n, err := strconv.Atoi(strings.TrimPrefix(id, "rId")); err == nil && n > maxN {
			maxN = n
		}
	}
	return "rId" + strconv.Itoa(maxN+1)
}

func (d *Deck) nextSlideID() int {
	maxID := minSlideID - 1
	for _, s := range d.slides {
		if n, err := strconv.Atoi(s.sldID.SelectAttrValue("id", "")); err == nil && n > maxID {
			maxID = n
		}
	}
	return maxID + 1
}

// Save writes the package to a temporary file next to the original and renames it
// into place, then publishes it to the document origin. The file keeps its permissions.
func (d *Deck) Save(ctx context.Context) error {
	info, err := os.Stat(d.path)
	if err != nil {
		return goerr.Wrap(err, "failed to stat deck", goerr.V("path", d.path))
	}

	tmp, err := os.CreateTemp(filepath.Dir(d.path), ".pspsync-*.pptx")
	if err != nil {
		return goerr.Wrap(err, "failed to create temporary file", goerr.V("path", d.path))
	}
	tmpName := tmp.Name()

	if err := tmp.Chmod(info.Mode().Perm()); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return goerr.Wrap(err, "failed to set deck permissions", goerr.V("path", d.path))
	}
	if err := d.write(tmp); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return goerr.Wrap(err, "failed to close temporary file")
	}
	if err := os.Rename(tmpName, d.path); err != nil {
		_ = os.Remove(tmpName)
		return goerr.Wrap(err, "failed to replace deck", goerr.V("path", d.path))
	}

	if err := d.origin.Commit(ctx); err != nil {
		return goerr.Wrap(err, "failed to publish deck")
	}
	return nil
}

func (d *Deck) write(w io.Writer) error {
	zw := zip.NewWriter(w)
	for _, p := range d.parts {
		data := p.data
		if p.doc != nil {
			var buf bytes.Buffer
			if _, err := p.doc.WriteTo(&buf); err != nil {
				return goerr.Wrap(err, "failed to serialize package part", goerr.V("part", p.name))
			}
			data = buf.Bytes()
		}

		fw, err := zw.CreateHeader(&zip.FileHeader{Name: p.name, Method: zip.Deflate})
		if err != nil {
			return goerr.Wrap(err, "failed to add package part", goerr.V("part", p.name))
		}
		if _, err := fw.Write(data); err != nil {
			return goerr.Wrap(err, "failed to write package part", goerr.V("part", p.name))
		}
	}
	if err := zw.Close(); err != nil {
		return goerr.Wrap(err, "failed to finalize pptx archive")
	}
	return nil
}

func (d *Deck) Close() error {
	d.parts = nil
	d.byName = nil
	d.slides = nil
	return d.origin.Close()
}

package ooxml

import "github.com/beevik/etree"

// PartNames returns the package part names in write order
func (d *Deck) PartNames() []string {
	names := make([]string, len(d.parts))
	for i, p := range d.parts {
		names[i] = p.name
	}
	return names
}

// SlideDocument exposes the XML of a slide for assertions
func SlideDocument(s *Slide) *etree.Document {
	return s.doc
}

// SlidePart returns the package part name of a slide
func SlidePart(s *Slide) string {
	return s.part
}

// RelationshipTypes returns the Type of every relationship in a rels part of the deck
func RelationshipTypes(d *Deck, name string) []string {
	doc, err := d.parse(name)
	if err != nil {
		return nil
	}
	var types []string
	for _, rel := range doc.Root().SelectElements("Relationship") {
		types = append(types, rel.SelectAttrValue("Type", ""))
	}
	return types
}

package model

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/pspsync/pkg/domain/types"
)

// Catalog accumulates elements of one kind during an extraction run. Two rows with the
// same description denote the same element; identifiers are minted in creation order.
type Catalog struct {
	kind     types.ElementKind
	elements []*Element
	byDesc   map[string]*Element
}

// NewCatalog creates an empty catalog for the given kind
func NewCatalog(kind types.ElementKind) (*Catalog, error) {
	if !kind.IsValid() {
		return nil, goerr.New("invalid element kind", goerr.V("kind", kind))
	}
	return &Catalog{
		kind:   kind,
		byDesc: make(map[string]*Element),
	}, nil
}

// Kind returns the kind of the elements held by the catalog
func (c *Catalog) Kind() types.ElementKind {
	return c.kind
}

// Record registers a row read from a risk sheet. If an element with the exact same
// description exists the risk is added to it and created is false; priority is only
// used for new recommendations.
func (c *Catalog) Record(description string, risk types.RiskID, priority string) (elem *Element, created bool) {
	if existing, ok := c.byDesc[description]; ok {
		existing.AddRisk(risk)
		return existing, false
	}

	id := types.NewElementID(c.kind, len(c.elements)+1)
	switch c.kind {
	case types.ElementKindRecommendation:
		elem = NewRecommendation(id, description, priority)
	case types.ElementKindSecurityMeasure:
		elem = NewSecurityMeasure(id, description)
	}
	elem.AddRisk(risk)

	c.elements = append(c.elements, elem)
	c.byDesc[description] = elem
	return elem, true
}

// Elements returns the elements in creation order
func (c *Catalog) Elements() []*Element {
	out := make([]*Element, len(c.elements))
	copy(out, c.elements)
	return out
}

// Len returns the number of distinct elements
func (c *Catalog) Len() int {
	return len(c.elements)
}

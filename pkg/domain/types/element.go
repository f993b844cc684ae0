package types

import "fmt"

// ElementKind tags the variant of a register element
type ElementKind string

const (
	ElementKindRecommendation  ElementKind = "recommendation"
	ElementKindSecurityMeasure ElementKind = "security_measure"
)

// AllElementKinds returns all valid element kinds
func AllElementKinds() []ElementKind {
	return []ElementKind{
		ElementKindRecommendation,
		ElementKindSecurityMeasure,
	}
}

// IsValid checks if the element kind is valid
func (k ElementKind) IsValid() bool {
	switch k {
	case ElementKindRecommendation,
		ElementKindSecurityMeasure:
		return true
	default:
		return false
	}
}

// IDPrefix returns the prefix used when minting identifiers of this kind
func (k ElementKind) IDPrefix() string {
	switch k {
	case ElementKindRecommendation:
		return "REC"
	case ElementKindSecurityMeasure:
		return "SM"
	default:
		return ""
	}
}

// String returns the string representation of the element kind
func (k ElementKind) String() string {
	return string(k)
}

// ElementID identifies a recommendation ("REC01") or a security measure ("SM01")
type ElementID string

// NewElementID builds the identifier of the ordinal-th element of the given kind.
// Ordinals start at 1 and are zero padded to two digits.
func NewElementID(kind ElementKind, ordinal int) ElementID {
	return ElementID(fmt.Sprintf("%s%02d", kind.IDPrefix(), ordinal))
}

// String returns the string representation of ElementID
func (id ElementID) String() string {
	return string(id)
}

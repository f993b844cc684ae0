package model

import (
	"slices"
	"strings"

	"github.com/secmon-lab/pspsync/pkg/domain/types"
)

// RecommendationDetail is the payload specific to recommendations
type RecommendationDetail struct {
	Priority string
}

// Element is a describable, risk-linked register entry: a recommendation or a security
// measure. Kind selects the variant; Recommendation is set iff Kind is
// types.ElementKindRecommendation.
type Element struct {
	ID             types.ElementID
	Kind           types.ElementKind
	Description    string
	Recommendation *RecommendationDetail

	risks []types.RiskID
}

// NewRecommendation creates a recommendation element linked to no risk
func NewRecommendation(id types.ElementID, description, priority string) *Element {
	return &Element{
		ID:             id,
		Kind:           types.ElementKindRecommendation,
		Description:    description,
		Recommendation: &RecommendationDetail{Priority: priority},
	}
}

// NewSecurityMeasure creates a security measure element linked to no risk
func NewSecurityMeasure(id types.ElementID, description string) *Element {
	return &Element{
		ID:          id,
		Kind:        types.ElementKindSecurityMeasure,
		Description: description,
	}
}

// Priority returns the recommendation priority, or "" for security measures
func (e *Element) Priority() string {
	if e.Recommendation == nil {
		return ""
	}
	return e.Recommendation.Priority
}

// AddRisk links the element to a risk. It returns false if the link already existed.
func (e *Element) AddRisk(id types.RiskID) bool {
	if slices.Contains(e.risks, id) {
		return false
	}
	e.risks = append(e.risks, id)
	return true
}

// Mitigates reports whether the element is linked to the risk
func (e *Element) Mitigates(id types.RiskID) bool {
	return slices.Contains(e.risks, id)
}

// RiskIDs returns the linked risks in link order
func (e *Element) RiskIDs() []types.RiskID {
	return slices.Clone(e.risks)
}

// RiskList renders the linked risks as "R01, R03"
func (e *Element) RiskList() string {
	ids := make([]string, len(e.risks))
	for i, id := range e.risks {
		ids[i] = id.String()
	}
	return strings.Join(ids, ", ")
}

// Summarize renders one "<id>: <description>" line per element, each terminated by a newline
func Summarize(elements []*Element) string {
	var b strings.Builder
	for _, e := range elements {
		b.WriteString(e.ID.String())
		b.WriteString(": ")
		b.WriteString(e.Description)
		b.WriteString("\n")
	}
	return b.String()
}

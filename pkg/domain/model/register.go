package model

import (
	"github.com/secmon-lab/pspsync/pkg/domain/types"
)

// Register is the in-memory security review register produced by one extraction run
type Register struct {
	Risks           []*Risk
	Recommendations []*Element
	Measures        []*Element
	Project         *ProjectInfo
}

// Risk returns the risk with the given ID, or nil
func (r *Register) Risk(id types.RiskID) *Risk {
	for _, risk := range r.Risks {
		if risk.ID == id {
			return risk
		}
	}
	return nil
}

// RecommendationsFor returns the recommendations linked to the risk, in register order
func (r *Register) RecommendationsFor(id types.RiskID) []*Element {
	return filterByRisk(r.Recommendations, id)
}

// MeasuresFor returns the security measures linked to the risk, in register order
func (r *Register) MeasuresFor(id types.RiskID) []*Element {
	return filterByRisk(r.Measures, id)
}

// Elements returns the elements of the given kind
func (r *Register) Elements(kind types.ElementKind) []*Element {
	switch kind {
	case types.ElementKindRecommendation:
		return r.Recommendations
	case types.ElementKindSecurityMeasure:
		return r.Measures
	default:
		return nil
	}
}

func filterByRisk(elements []*Element, id types.RiskID) []*Element {
	var out []*Element
	for _, e := range elements {
		if e.Mitigates(id) {
			out = append(out, e)
		}
	}
	return out
}

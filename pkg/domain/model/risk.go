package model

import (
	"github.com/secmon-lab/pspsync/pkg/domain/types"
)

// Assessment is one evaluation of a risk, before or after mitigation
type Assessment struct {
	Impact       string
	Potentiality string
	Gravity      string
}

// Risk is read from its own worksheet and never modified afterwards
type Risk struct {
	ID          types.RiskID
	Theme       string
	Description string
	Initial     Assessment
	Residual    Assessment
}

// GravityLabelPrefixLen is the length of the score prefix carried by gravity cells in the
// workbook template ("4 - Critical" style composite labels). The prefix is dropped to get
// the bare gravity literal used for styling.
const GravityLabelPrefixLen = 4

// GravityFromCell strips the score prefix of a composite gravity cell value.
// Values shorter than the prefix yield an empty gravity.
func GravityFromCell(value string) string {
	runes := []rune(value)
	if len(runes) <= GravityLabelPrefixLen {
		return ""
	}
	return string(runes[GravityLabelPrefixLen:])
}

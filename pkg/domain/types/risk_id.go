package types

import (
	"regexp"

	"github.com/m-mizutani/goerr/v2"
)

// RiskID identifies a risk. It is the name of the risk worksheet, e.g. "R07".
type RiskID string

var riskIDPattern = regexp.MustCompile(`^R\d{2}$`)

// IsRiskSheetName reports whether a worksheet name designates a per-risk sheet
func IsRiskSheetName(name string) bool {
	return riskIDPattern.MatchString(name)
}

// Validate checks if the RiskID is valid
func (r RiskID) Validate() error {
	if r == "" {
		return goerr.New("risk ID cannot be empty")
	}
	if !riskIDPattern.MatchString(string(r)) {
		return goerr.New("risk ID must be 'R' followed by two digits", goerr.V("id", r))
	}
	return nil
}

// String returns the string representation of RiskID
func (r RiskID) String() string {
	return string(r)
}

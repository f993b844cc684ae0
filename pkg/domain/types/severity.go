package types

// Severity is the colour class shared by gravity levels and recommendation priorities
type Severity string

const (
	SeverityUrgent     Severity = "urgent"
	SeverityHigh       Severity = "high"
	SeverityAcceptable Severity = "acceptable"
	SeverityOptional   Severity = "optional"
	SeverityNegligible Severity = "negligible"
)

// AllSeverities returns all severity classes from most to least severe
func AllSeverities() []Severity {
	return []Severity{
		SeverityUrgent,
		SeverityHigh,
		SeverityAcceptable,
		SeverityOptional,
		SeverityNegligible,
	}
}

// IsValid checks if the severity is valid
func (s Severity) IsValid() bool {
	switch s {
	case SeverityUrgent,
		SeverityHigh,
		SeverityAcceptable,
		SeverityOptional,
		SeverityNegligible:
		return true
	default:
		return false
	}
}

// Color returns the colour associated with the severity class
func (s Severity) Color() Color {
	switch s {
	case SeverityUrgent:
		return RGB(0xFF, 0x66, 0x66)
	case SeverityHigh:
		return RGB(0xFF, 0xC8, 0x00)
	case SeverityAcceptable:
		return RGB(0x92, 0xD0, 0x50)
	case SeverityOptional:
		return RGB(0x28, 0xC8, 0x96)
	case SeverityNegligible:
		return RGB(0xC0, 0xC0, 0xC0)
	default:
		return 0
	}
}

// String returns the string representation of the severity
func (s Severity) String() string {
	return string(s)
}

// fillLabels maps the literal values found in gravity and priority cells, in both
// template languages, to the class used for the cell background.
// "Priority"/"Prioritaire" only appear in the priority column.
var fillLabels = map[string]Severity{
	"Urgent":      SeverityUrgent,
	"Urgente":     SeverityUrgent,
	"Priority":    SeverityUrgent,
	"Prioritaire": SeverityUrgent,
	"High":        SeverityHigh,
	"Forte":       SeverityHigh,
	"Arbitration": SeverityHigh,
	"Arbitrage":   SeverityHigh,
	"Acceptable":  SeverityAcceptable,
	"Optional":    SeverityOptional,
	"Facultatif":  SeverityOptional,
	"Negligible":  SeverityNegligible,
	"Mineure":     SeverityNegligible,
}

// fontLabels is the narrower table used to colour identifier text. Only three
// classes carry a font colour in the templates.
var fontLabels = map[string]Severity{
	"Urgent":     SeverityUrgent,
	"Urgente":    SeverityUrgent,
	"High":       SeverityHigh,
	"Forte":      SeverityHigh,
	"Optional":   SeverityOptional,
	"Facultatif": SeverityOptional,
}

// ClassifyFill returns the background class for a gravity or priority literal.
// Matching is exact; ok is false for unknown literals.
func ClassifyFill(label string) (Severity, bool) {
	s, ok := fillLabels[label]
	return s, ok
}

// ClassifyFont returns the font colour class for a priority literal
func ClassifyFont(label string) (Severity, bool) {
	s, ok := fontLabels[label]
	return s, ok
}

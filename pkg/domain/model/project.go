package model

// ProjectInfo holds the project-level fields of the register
type ProjectInfo struct {
	Name     string
	Head     string
	Division string

	Summary  string
	Decision string

	Context     string
	Hypotheses  string
	Criticality Criticality
	RTO         string
	RPO         string
}

// Criticality is the availability/integrity/confidentiality/proof classification
type Criticality struct {
	Availability    string
	Integrity       string
	Confidentiality string
	Proof           string
}

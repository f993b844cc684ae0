package usecase_test

import (
	"github.com/secmon-lab/pspsync/pkg/domain/model/config"
	"github.com/secmon-lab/pspsync/pkg/domain/types"
	"github.com/secmon-lab/pspsync/pkg/repository/memory"
)

var labelsEN = config.DefaultLabels()[types.LanguageEN]

type recFixture struct {
	description string
	priority    string
}

type riskFixture struct {
	id                string
	theme             string
	description       string
	initial, residual [3]string // impact, potentiality, gravity cell
	recommendations   []recFixture
	measures          []string
}

const (
	recHeaderRow     = 10
	measureHeaderRow = 30
)

func addRiskSheet(wb *memory.Workbook, r riskFixture) *memory.Worksheet {
	ws := wb.AddSheet(r.id)
	ws.SetRow(4, 2,
		r.theme, r.description,
		r.initial[0], r.initial[1], r.initial[2],
		r.residual[0], r.residual[1], r.residual[2],
	)

	ws.Set(recHeaderRow, 3, labelsEN.RecommendationHeader)
	ws.Set(recHeaderRow, 4, "Priority")
	for i, rec := range r.recommendations {
		ws.SetRow(recHeaderRow+1+i, 3, rec.description, rec.priority)
	}

	ws.Set(measureHeaderRow, 3, labelsEN.MeasureHeader)
	for i, sm := range r.measures {
		ws.Set(measureHeaderRow+1+i, 3, sm)
	}
	return ws
}

func addProjectSheets(wb *memory.Workbook) {
	wb.AddSheet(labelsEN.Worksheets.Presentation).
		Set(4, 4, "Payment Gateway").
		Set(7, 4, "Alice Martin").
		Set(8, 4, "Retail Banking")
	wb.AddSheet(labelsEN.Worksheets.ExecutiveSummary).
		Set(4, 2, "Overall risk is contained").
		Set(7, 2, "Go live with conditions")
	wb.AddSheet(labelsEN.Worksheets.Context).
		Set(2, 2, "Public API exposed to merchants").
		Set(8, 2, "Hosted in the shared cluster").
		SetRow(4, 4, "3", "3", "4", "2").
		SetRow(4, 9, "4h", "1h")
}

func addSynthesisSheets(wb *memory.Workbook) {
	wb.AddSheet(labelsEN.Worksheets.ImplementedMeasure)
	wb.AddSheet(labelsEN.Worksheets.RiskAnalysis)
	wb.AddSheet(labelsEN.Worksheets.ActionPlan)
}

// newWorkbook builds a complete English workbook with the given risk sheets
func newWorkbook(risks ...riskFixture) *memory.Workbook {
	wb := memory.NewWorkbook()
	addProjectSheets(wb)
	for _, r := range risks {
		addRiskSheet(wb, r)
	}
	addSynthesisSheets(wb)
	return wb
}

func sampleRisks() []riskFixture {
	return []riskFixture{
		{
			id:          "R01",
			theme:       "Authentication",
			description: "Credential stuffing on the merchant portal",
			initial:     [3]string{"3", "4", "4 - Urgent"},
			residual:    [3]string{"3", "2", "2 - Acceptable"},
			recommendations: []recFixture{
				{"Enforce MFA", "Urgent"},
				{"Rate limit login", "High"},
			},
			measures: []string{"WAF in front of the portal"},
		},
		{
			id:          "R02",
			theme:       "Data",
			description: "Card data leak through logs",
			initial:     [3]string{"4", "3", "3 - High"},
			residual:    [3]string{"2", "1", "1 - Negligible"},
			recommendations: []recFixture{
				{"Enforce MFA", "Urgent"},
				{"Mask PAN in logs", "Optional"},
			},
			measures: []string{"WAF in front of the portal", "Log retention of 30 days"},
		},
	}
}

func emptyRow(cols int) []string {
	return make([]string, cols)
}

func header(cols ...string) []string {
	return cols
}

// newDeck builds a deck holding every slide role. Template tables carry stale content
// rows that a sync must clear.
func newDeck() *memory.Deck {
	deck := memory.NewDeck()

	deck.AddSlide().
		WithText("NOMPROJET", "Security review of [Project name]").
		WithText("CPI", "Project head: <CPI> (<Division>)")

	deck.AddSlide().
		WithText("Title ExecSum", "Executive summary").
		WithText("Summary", "old summary").
		WithText("Decision", "old decision")

	deck.AddSlide().
		WithText("Title Context", "Context").
		WithText("PRJ NAME", "old name").
		WithTable("CONTEXT", header("Context"), emptyRow(1))

	deck.AddSlide().
		WithText("Title Classification", "Classification").
		WithText("Assumptions", "").
		WithTable("DICP", header("A", "I", "C", "P"), emptyRow(4)).
		WithTable("RTO RPO", header("RTO", "RPO"), emptyRow(2))

	deck.AddSlide().
		WithText("Title Risks", "Risks").
		WithTable("Risks",
			header("ID", "Theme", "Description", "Initial", "Residual"),
			[]string{"R09", "stale", "stale", "High", "High"},
			[]string{"R10", "stale", "stale", "High", "High"},
			[]string{"R11", "stale", "stale", "High", "High"},
		)

	deck.AddSlide().
		WithText("Title Risk", "Risk").
		WithTable("Risk", header("ID", "Theme", "Description"), []string{"R09", "stale", "stale"}).
		WithTable("Recommendations",
			header("ID", "Description", "Impact", "Potentiality", "Gravity"),
			[]string{"REC09", "stale", "1", "1", "High"},
			[]string{"REC10", "stale", "", "", ""},
		).
		WithTable("SecurityMeasures",
			header("ID", "Description", "Impact", "Potentiality", "Gravity"),
			[]string{"SM09", "stale", "1", "1", "High"},
			[]string{"SM10", "stale", "", "", ""},
		)

	deck.AddSlide().
		WithText("Title Recommendations", "Recommendations").
		WithTable("Recommendations",
			header("ID", "Risks", "Description", "", "", "", "Priority"),
			emptyRow(7),
			emptyRow(7),
		)

	deck.AddSlide().
		WithText("Title SecurityMeasures", "Security measures").
		WithTable("SecurityMeasures", header("ID", "Description"), emptyRow(2))

	return deck
}

// Slide positions in newDeck before any duplication
const (
	riskSynthesisSlide = 4
	riskTemplateSlide  = 5
)

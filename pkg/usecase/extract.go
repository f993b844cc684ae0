package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/pspsync/pkg/domain/interfaces"
	"github.com/secmon-lab/pspsync/pkg/domain/model"
	"github.com/secmon-lab/pspsync/pkg/domain/model/config"
	"github.com/secmon-lab/pspsync/pkg/domain/types"
	"github.com/secmon-lab/pspsync/pkg/utils/logging"
)

// Risk sheet layout
const (
	riskRow = 4

	themeCol                = 2
	riskDescriptionCol      = 3
	initialImpactCol        = 4
	initialPotentialityCol  = 5
	initialGravityCol       = 6
	residualImpactCol       = 7
	residualPotentialityCol = 8
	residualGravityCol      = 9

	// sub-tables are located by their header in this column
	elementDescriptionCol = 3
	elementPriorityCol    = 4

	// last row examined when looking for a sub-table
	scanLimit = 100
)

// ExtractUseCase builds a Register from the per-risk sheets of a workbook
type ExtractUseCase struct {
	labels config.LabelTable
}

func NewExtractUseCase(labels config.LabelTable) *ExtractUseCase {
	return &ExtractUseCase{labels: labels}
}

// Extract reads every risk sheet in workbook order, then the project sheets.
// Nothing is returned unless the whole workbook was read.
func (uc *ExtractUseCase) Extract(ctx context.Context, wb interfaces.Workbook, lang types.Language) (*model.Register, error) {
	labels, err := uc.labels.For(lang)
	if err != nil {
		return nil, err
	}

	recommendations, err := model.NewCatalog(types.ElementKindRecommendation)
	if err != nil {
		return nil, err
	}
	measures, err := model.NewCatalog(types.ElementKindSecurityMeasure)
	if err != nil {
		return nil, err
	}

	var risks []*model.Risk
	for _, name := range wb.SheetNames() {
		if !types.IsRiskSheetName(name) {
			continue
		}

		ws, err := wb.Sheet(name)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to open risk sheet", goerr.V(SheetKey, name))
		}

		risk, err := readRisk(ws)
		if err != nil {
			return nil, err
		}
		risks = append(risks, risk)

		if err := collectElements(ws, risk.ID, labels.RecommendationHeader, recommendations); err != nil {
			return nil, err
		}
		if err := collectElements(ws, risk.ID, labels.MeasureHeader, measures); err != nil {
			return nil, err
		}
	}

	project, err := readProject(wb, labels)
	if err != nil {
		return nil, err
	}

	reg := &model.Register{
		Risks:           risks,
		Recommendations: recommendations.Elements(),
		Measures:        measures.Elements(),
		Project:         project,
	}

	logging.From(ctx).Info("register extracted",
		"risks", len(reg.Risks),
		"recommendations", len(reg.Recommendations),
		"measures", len(reg.Measures),
	)
	return reg, nil
}

// cellReader reads a sequence of cells from one sheet and keeps the first error
type cellReader struct {
	ws  interfaces.Worksheet
	err error
}

func (r *cellReader) read(row, col int) string {
	if r.err != nil {
		return ""
	}
	v, err := r.ws.Cell(row, col)
	if err != nil {
		r.err = goerr.Wrap(err, "failed to read cell",
			goerr.V(SheetKey, r.ws.Name()), goerr.V(RowKey, row), goerr.V(ColumnKey, col))
	}
	return v
}

func readRisk(ws interfaces.Worksheet) (*model.Risk, error) {
	r := &cellReader{ws: ws}
	risk := &model.Risk{
		ID:          types.RiskID(ws.Name()),
		Theme:       r.read(riskRow, themeCol),
		Description: r.read(riskRow, riskDescriptionCol),
		Initial: model.Assessment{
			Impact:       r.read(riskRow, initialImpactCol),
			Potentiality: r.read(riskRow, initialPotentialityCol),
			Gravity:      model.GravityFromCell(r.read(riskRow, initialGravityCol)),
		},
		Residual: model.Assessment{
			Impact:       r.read(riskRow, residualImpactCol),
			Potentiality: r.read(riskRow, residualPotentialityCol),
			Gravity:      model.GravityFromCell(r.read(riskRow, residualGravityCol)),
		},
	}
	if r.err != nil {
		return nil, r.err
	}
	return risk, nil
}

// rowRange is a half-open range of sheet rows
type rowRange struct {
	start, stop int
}

func (r rowRange) Len() int { return r.stop - r.start }

// locateTable finds the data rows under header in the description column: they start
// right after the header and end at the first empty cell or at the scan limit.
func locateTable(ws interfaces.Worksheet, header string) (rowRange, error) {
	r := &cellReader{ws: ws}

	headerRow := 0
	for row := 1; row <= scanLimit; row++ {
		v := r.read(row, elementDescriptionCol)
		if r.err != nil {
			return rowRange{}, r.err
		}
		if v == header {
			headerRow = row
			break
		}
	}
	if headerRow == 0 {
		return rowRange{}, goerr.Wrap(ErrHeaderNotFound, "sub-table header is missing",
			goerr.V(SheetKey, ws.Name()), goerr.V(HeaderKey, header), goerr.V("scan_limit", scanLimit))
	}

	stop := headerRow + 1
	for stop <= scanLimit {
		v := r.read(stop, elementDescriptionCol)
		if r.err != nil {
			return rowRange{}, r.err
		}
		if v == "" {
			break
		}
		stop++
	}

	return rowRange{start: headerRow + 1, stop: stop}, nil
}

func collectElements(ws interfaces.Worksheet, risk types.RiskID, header string, catalog *model.Catalog) error {
	rows, err := locateTable(ws, header)
	if err != nil {
		return err
	}

	r := &cellReader{ws: ws}
	for row := rows.start; row < rows.stop; row++ {
		description := r.read(row, elementDescriptionCol)

		var priority string
		switch catalog.Kind() {
		case types.ElementKindRecommendation:
			priority = r.read(row, elementPriorityCol)
		case types.ElementKindSecurityMeasure:
		}
		if r.err != nil {
			return r.err
		}

		catalog.Record(description, risk, priority)
	}
	return nil
}

// Project sheet cells, as (row, column)
var (
	projectNameCell     = [2]int{4, 4}
	projectHeadCell     = [2]int{7, 4}
	projectDivisionCell = [2]int{8, 4}

	summaryCell  = [2]int{4, 2}
	decisionCell = [2]int{7, 2}

	contextCell         = [2]int{2, 2}
	hypothesesCell      = [2]int{8, 2}
	availabilityCell    = [2]int{4, 4}
	integrityCell       = [2]int{4, 5}
	confidentialityCell = [2]int{4, 6}
	proofCell           = [2]int{4, 7}
	rtoCell             = [2]int{4, 9}
	rpoCell             = [2]int{4, 10}
)

func readProject(wb interfaces.Workbook, labels config.Labels) (*model.ProjectInfo, error) {
	sheets := make(map[string]*cellReader)
	for _, name := range []string{
		labels.Worksheets.Presentation,
		labels.Worksheets.ExecutiveSummary,
		labels.Worksheets.Context,
	} {
		ws, err := wb.Sheet(name)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to open project sheet", goerr.V(SheetKey, name))
		}
		sheets[name] = &cellReader{ws: ws}
	}

	presentation := sheets[labels.Worksheets.Presentation]
	summary := sheets[labels.Worksheets.ExecutiveSummary]
	contextSheet := sheets[labels.Worksheets.Context]
	at := func(r *cellReader, cell [2]int) string {
		return r.read(cell[0], cell[1])
	}

	info := &model.ProjectInfo{
		Name:       at(presentation, projectNameCell),
		Head:       at(presentation, projectHeadCell),
		Division:   at(presentation, projectDivisionCell),
		Summary:    at(summary, summaryCell),
		Decision:   at(summary, decisionCell),
		Context:    at(contextSheet, contextCell),
		Hypotheses: at(contextSheet, hypothesesCell),
		Criticality: model.Criticality{
			Availability:    at(contextSheet, availabilityCell),
			Integrity:       at(contextSheet, integrityCell),
			Confidentiality: at(contextSheet, confidentialityCell),
			Proof:           at(contextSheet, proofCell),
		},
		RTO: at(contextSheet, rtoCell),
		RPO: at(contextSheet, rpoCell),
	}

	for _, r := range []*cellReader{presentation, summary, contextSheet} {
		if r.err != nil {
			return nil, r.err
		}
	}
	return info, nil
}

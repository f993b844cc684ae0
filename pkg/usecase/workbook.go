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

const (
	actionPlanStartRow   = 5
	measuresStartRow     = 5
	riskAnalysisStartRow = 7

	// rows below the first blank cell that must stay empty for a column to count as the end of a table
	contiguityLookahead = 5

	synthesisIDCol          = 2
	synthesisThemeCol       = 3
	synthesisDescriptionCol = 4
)

// WorkbookUseCase rewrites the synthesis sheets of the workbook from a Register
type WorkbookUseCase struct {
	labels config.LabelTable
}

func NewWorkbookUseCase(labels config.LabelTable) *WorkbookUseCase {
	return &WorkbookUseCase{labels: labels}
}

// synthesisTable is a block of rows written at a fixed origin. Values of each row are
// given in the order of columns.
type synthesisTable struct {
	name     string
	ws       interfaces.Worksheet
	startRow int
	columns  []int
	rows     [][]string
}

// Write validates, clears and repopulates the action plan, the implemented measures
// and the risk analysis tables, then saves the workbook. Nothing is written if any
// table fails validation.
func (uc *WorkbookUseCase) Write(ctx context.Context, wb interfaces.Workbook, reg *model.Register, lang types.Language) error {
	labels, err := uc.labels.For(lang)
	if err != nil {
		return err
	}

	tables, err := buildSynthesisTables(wb, reg, labels)
	if err != nil {
		return err
	}

	for _, t := range tables {
		if err := t.validate(); err != nil {
			return err
		}
	}

	for _, t := range tables {
		if err := t.clear(); err != nil {
			return err
		}
		if err := t.write(); err != nil {
			return err
		}
		logging.From(ctx).Debug("synthesis table written", "table", t.name, "sheet", t.ws.Name(), "rows", len(t.rows))
	}

	if err := wb.Save(ctx); err != nil {
		return goerr.Wrap(err, "failed to save workbook")
	}

	logging.From(ctx).Info("workbook updated",
		"recommendations", len(reg.Recommendations),
		"measures", len(reg.Measures),
		"risks", len(reg.Risks),
	)
	return nil
}

func buildSynthesisTables(wb interfaces.Workbook, reg *model.Register, labels config.Labels) ([]*synthesisTable, error) {
	sheet := func(name string) (interfaces.Worksheet, error) {
		ws, err := wb.Sheet(name)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to open synthesis sheet", goerr.V(SheetKey, name))
		}
		return ws, nil
	}

	actionPlan, err := sheet(labels.Worksheets.ActionPlan)
	if err != nil {
		return nil, err
	}
	implemented, err := sheet(labels.Worksheets.ImplementedMeasure)
	if err != nil {
		return nil, err
	}
	riskAnalysis, err := sheet(labels.Worksheets.RiskAnalysis)
	if err != nil {
		return nil, err
	}

	recommendations := &synthesisTable{
		name:     "recommendations",
		ws:       actionPlan,
		startRow: actionPlanStartRow,
		columns:  []int{2, 3, 4, 5},
	}
	for _, rec := range reg.Recommendations {
		recommendations.rows = append(recommendations.rows, []string{
			rec.ID.String(), rec.RiskList(), rec.Description, rec.Priority(),
		})
	}

	measures := &synthesisTable{
		name:     "measures",
		ws:       implemented,
		startRow: measuresStartRow,
		columns:  []int{2, 3, 4},
	}
	for _, sm := range reg.Measures {
		measures.rows = append(measures.rows, []string{
			sm.ID.String(), sm.RiskList(), sm.Description,
		})
	}

	risks := &synthesisTable{
		name:     "risks",
		ws:       riskAnalysis,
		startRow: riskAnalysisStartRow,
		columns:  []int{2, 3, 4, 5, 6, 7, 9, 10, 11},
	}
	for _, risk := range reg.Risks {
		risks.rows = append(risks.rows, []string{
			risk.ID.String(),
			risk.Theme,
			risk.Description,
			model.Summarize(reg.MeasuresFor(risk.ID)),
			risk.Initial.Impact,
			risk.Initial.Potentiality,
			model.Summarize(reg.RecommendationsFor(risk.ID)),
			risk.Residual.Impact,
			risk.Residual.Potentiality,
		})
	}

	return []*synthesisTable{recommendations, measures, risks}, nil
}

func (t *synthesisTable) cell(row, col int) (string, error) {
	v, err := t.ws.Cell(row, col)
	if err != nil {
		return "", goerr.Wrap(err, "failed to read synthesis cell",
			goerr.V(TableKey, t.name), goerr.V(RowKey, row), goerr.V(ColumnKey, col))
	}
	return v, nil
}

// validate rejects tables whose columns have a non-empty cell shortly after the first
// blank one, since clearing stops at the first blank
func (t *synthesisTable) validate() error {
	for _, col := range t.columns {
		row := t.startRow
		for {
			v, err := t.cell(row, col)
			if err != nil {
				return err
			}
			if v == "" {
				break
			}
			row++
		}

		for next := row + 1; next <= row+contiguityLookahead; next++ {
			v, err := t.cell(next, col)
			if err != nil {
				return err
			}
			if v != "" {
				return goerr.Wrap(ErrNonContiguousTable, "stray value below synthesis table",
					goerr.V(TableKey, t.name), goerr.V(SheetKey, t.ws.Name()),
					goerr.V("blank_row", row), goerr.V(RowKey, next), goerr.V(ColumnKey, col))
			}
		}
	}
	return nil
}

// clear blanks each column from the start row down to the first empty cell
func (t *synthesisTable) clear() error {
	for _, col := range t.columns {
		for row := t.startRow; ; row++ {
			v, err := t.cell(row, col)
			if err != nil {
				return err
			}
			if v == "" {
				break
			}
			if err := t.ws.SetCell(row, col, ""); err != nil {
				return goerr.Wrap(err, "failed to clear synthesis cell",
					goerr.V(TableKey, t.name), goerr.V(RowKey, row), goerr.V(ColumnKey, col))
			}
		}
	}
	return nil
}

func (t *synthesisTable) write() error {
	for i, values := range t.rows {
		row := t.startRow + i
		for j, col := range t.columns {
			if err := t.ws.SetCell(row, col, values[j]); err != nil {
				return goerr.Wrap(err, "failed to write synthesis cell",
					goerr.V(TableKey, t.name), goerr.V(RowKey, row), goerr.V(ColumnKey, col))
			}
		}
	}
	return nil
}

// RiskSynthesisRow is one row of the risk analysis table as found in the workbook
type RiskSynthesisRow struct {
	ID          types.RiskID
	Theme       string
	Description string
}

// ReadRiskSynthesis reads the risk analysis table back, from its first row down to the
// first empty identifier
func (uc *WorkbookUseCase) ReadRiskSynthesis(ctx context.Context, wb interfaces.Workbook, lang types.Language) ([]RiskSynthesisRow, error) {
	labels, err := uc.labels.For(lang)
	if err != nil {
		return nil, err
	}

	ws, err := wb.Sheet(labels.Worksheets.RiskAnalysis)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open synthesis sheet", goerr.V(SheetKey, labels.Worksheets.RiskAnalysis))
	}

	var rows []RiskSynthesisRow
	r := &cellReader{ws: ws}
	for row := riskAnalysisStartRow; ; row++ {
		id := r.read(row, synthesisIDCol)
		if r.err != nil {
			return nil, r.err
		}
		if id == "" {
			break
		}
		rows = append(rows, RiskSynthesisRow{
			ID:          types.RiskID(id),
			Theme:       r.read(row, synthesisThemeCol),
			Description: r.read(row, synthesisDescriptionCol),
		})
		if r.err != nil {
			return nil, r.err
		}
	}
	return rows, nil
}

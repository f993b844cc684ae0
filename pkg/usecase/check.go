package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/pspsync/pkg/domain/interfaces"
	"github.com/secmon-lab/pspsync/pkg/domain/model"
	"github.com/secmon-lab/pspsync/pkg/domain/types"
	"github.com/secmon-lab/pspsync/pkg/utils/logging"
	"github.com/secmon-lab/pspsync/pkg/utils/safe"
)

// DriftKind classifies a difference between the risk sheets and the risk analysis table
type DriftKind string

const (
	// DriftMissing is a risk sheet with no row in the synthesis
	DriftMissing DriftKind = "missing"
	// DriftStale is a synthesis row with no risk sheet
	DriftStale DriftKind = "stale"
	// DriftMismatch is a row whose field differs from the risk sheet
	DriftMismatch DriftKind = "mismatch"
)

// Drift is one difference found by CheckUseCase
type Drift struct {
	Kind     DriftKind
	RiskID   types.RiskID
	Field    string
	Expected string
	Actual   string
}

// CheckReport is the outcome of a drift check
type CheckReport struct {
	Register *model.Register
	Drifts   []Drift
}

// HasDrift reports whether the synthesis is out of date
func (r *CheckReport) HasDrift() bool {
	return len(r.Drifts) > 0
}

// CheckUseCase compares the risk analysis table with the risk sheets without writing anything
type CheckUseCase struct {
	opener   interfaces.DocumentOpener
	extract  *ExtractUseCase
	workbook *WorkbookUseCase
}

func NewCheckUseCase(opener interfaces.DocumentOpener, extract *ExtractUseCase, workbook *WorkbookUseCase) *CheckUseCase {
	return &CheckUseCase{
		opener:   opener,
		extract:  extract,
		workbook: workbook,
	}
}

// Run opens the workbook read-only and reports every drift
func (uc *CheckUseCase) Run(ctx context.Context, workbookID string, lang types.Language) (*CheckReport, error) {
	wb, err := uc.opener.OpenWorkbook(ctx, workbookID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open workbook", goerr.V("workbook", workbookID))
	}
	defer safe.Close(ctx, wb)

	reg, err := uc.extract.Extract(ctx, wb, lang)
	if err != nil {
		return nil, err
	}

	rows, err := uc.workbook.ReadRiskSynthesis(ctx, wb, lang)
	if err != nil {
		return nil, err
	}

	report := &CheckReport{
		Register: reg,
		Drifts:   compareRiskSynthesis(reg.Risks, rows),
	}
	logging.From(ctx).Info("drift check completed", "workbook", workbookID, "drifts", len(report.Drifts))
	return report, nil
}

// compareRiskSynthesis lists missing and mismatched risks in register order, then stale
// rows in table order
func compareRiskSynthesis(risks []*model.Risk, rows []RiskSynthesisRow) []Drift {
	byID := make(map[types.RiskID]RiskSynthesisRow, len(rows))
	for _, row := range rows {
		if _, ok := byID[row.ID]; !ok {
			byID[row.ID] = row
		}
	}

	var drifts []Drift
	known := make(map[types.RiskID]bool, len(risks))
	for _, risk := range risks {
		known[risk.ID] = true

		row, ok := byID[risk.ID]
		if !ok {
			drifts = append(drifts, Drift{Kind: DriftMissing, RiskID: risk.ID})
			continue
		}
		if row.Theme != risk.Theme {
			drifts = append(drifts, Drift{Kind: DriftMismatch, RiskID: risk.ID, Field: "theme", Expected: risk.Theme, Actual: row.Theme})
		}
		if row.Description != risk.Description {
			drifts = append(drifts, Drift{Kind: DriftMismatch, RiskID: risk.ID, Field: "description", Expected: risk.Description, Actual: row.Description})
		}
	}

	for _, row := range rows {
		if !known[row.ID] {
			drifts = append(drifts, Drift{Kind: DriftStale, RiskID: row.ID})
		}
	}
	return drifts
}

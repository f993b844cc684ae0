package usecase_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/pspsync/pkg/domain/model"
	"github.com/secmon-lab/pspsync/pkg/domain/types"
	"github.com/secmon-lab/pspsync/pkg/repository/memory"
	"github.com/secmon-lab/pspsync/pkg/usecase"
)

func TestCheckUseCase_Run(t *testing.T) {
	ctx := context.Background()

	t.Run("synced workbook has no drift", func(t *testing.T) {
		store, wb, _ := newStore()
		uc := usecase.New(store)

		in := fullSync()
		in.UpdateDeck = false
		_, err := uc.Sync.Run(ctx, in)
		gt.NoError(t, err).Required()

		report, err := uc.Check.Run(ctx, testWorkbookID, types.LanguageEN)
		gt.NoError(t, err).Required()
		gt.Bool(t, report.HasDrift()).False()
		gt.V(t, wb.SaveCount()).Equal(1)
		gt.Bool(t, wb.Closed()).True()
	})

	t.Run("reports every kind of drift", func(t *testing.T) {
		store := memory.New()
		wb := newWorkbook(sampleRisks()...)
		sheet(t, wb, labelsEN.Worksheets.RiskAnalysis).
			SetRow(7, 2, "R01", "Authentication", "outdated description").
			SetRow(8, 2, "R07", "Removed", "Risk sheet was deleted")
		store.PutWorkbook(testWorkbookID, wb)

		report, err := usecase.New(store).Check.Run(ctx, testWorkbookID, types.LanguageEN)
		gt.NoError(t, err).Required()
		gt.V(t, report.Drifts).Equal([]usecase.Drift{
			{
				Kind:     usecase.DriftMismatch,
				RiskID:   "R01",
				Field:    "description",
				Expected: "Credential stuffing on the merchant portal",
				Actual:   "outdated description",
			},
			{Kind: usecase.DriftMissing, RiskID: "R02"},
			{Kind: usecase.DriftStale, RiskID: "R07"},
		})
		gt.V(t, wb.SaveCount()).Equal(0)
	})
}

func TestCompareRiskSynthesis(t *testing.T) {
	risks := []*model.Risk{
		{ID: "R01", Theme: "Auth", Description: "a"},
	}

	t.Run("theme mismatch", func(t *testing.T) {
		drifts := usecase.CompareRiskSynthesis(risks, []usecase.RiskSynthesisRow{
			{ID: "R01", Theme: "Identity", Description: "a"},
		})
		gt.A(t, drifts).Length(1).Required()
		gt.V(t, drifts[0].Field).Equal("theme")
		gt.V(t, drifts[0].Actual).Equal("Identity")
	})

	t.Run("empty synthesis", func(t *testing.T) {
		drifts := usecase.CompareRiskSynthesis(risks, nil)
		gt.A(t, drifts).Length(1).Required()
		gt.V(t, drifts[0].Kind).Equal(usecase.DriftMissing)
	})
}

func TestUseCases_Register(t *testing.T) {
	store, wb, _ := newStore()

	reg, err := usecase.New(store).Register(context.Background(), testWorkbookID, types.LanguageEN)
	gt.NoError(t, err).Required()
	gt.A(t, reg.Risks).Length(2)
	gt.A(t, reg.Measures).Length(2)
	gt.V(t, wb.SaveCount()).Equal(0)
	gt.Bool(t, wb.Closed()).True()
}

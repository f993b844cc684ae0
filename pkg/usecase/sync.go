package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/pspsync/pkg/domain/interfaces"
	"github.com/secmon-lab/pspsync/pkg/domain/model"
	"github.com/secmon-lab/pspsync/pkg/domain/types"
	"github.com/secmon-lab/pspsync/pkg/service/slack"
	"github.com/secmon-lab/pspsync/pkg/utils/errutil"
	"github.com/secmon-lab/pspsync/pkg/utils/logging"
	"github.com/secmon-lab/pspsync/pkg/utils/safe"
	goslack "github.com/slack-go/slack"
)

// SyncInput selects the documents and the targets of one run
type SyncInput struct {
	WorkbookID     string
	DeckID         string
	Language       types.Language
	UpdateWorkbook bool
	UpdateDeck     bool
}

// SyncResult reports the outcome of each target. A nil error with the target enabled
// means the document was saved.
type SyncResult struct {
	RunID       string
	Register    *model.Register
	WorkbookErr error
	DeckErr     error
}

// SyncUseCase runs extraction and the enabled writers for one workbook and deck pair
type SyncUseCase struct {
	opener       interfaces.DocumentOpener
	extract      *ExtractUseCase
	workbook     *WorkbookUseCase
	deck         *DeckUseCase
	slackService slack.Service
	slackChannel string
}

func NewSyncUseCase(
	opener interfaces.DocumentOpener,
	extract *ExtractUseCase,
	workbook *WorkbookUseCase,
	deck *DeckUseCase,
	slackService slack.Service,
	slackChannel string,
) *SyncUseCase {
	return &SyncUseCase{
		opener:       opener,
		extract:      extract,
		workbook:     workbook,
		deck:         deck,
		slackService: slackService,
		slackChannel: slackChannel,
	}
}

// Run extracts the register from the workbook and applies it to the enabled targets.
// Extraction failures abort the run. Workbook and deck failures are independent: both
// are recorded in the result and joined into the returned error.
func (uc *SyncUseCase) Run(ctx context.Context, in SyncInput) (*SyncResult, error) {
	if !in.Language.IsValid() {
		return nil, goerr.New("unsupported language", goerr.V(LanguageKey, in.Language))
	}
	if in.UpdateDeck && in.DeckID == "" {
		return nil, goerr.New("deck update requested without a deck")
	}

	runID, err := uuid.NewV7()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to generate run id")
	}
	result := &SyncResult{RunID: runID.String()}

	logger := logging.From(ctx).With("run_id", result.RunID)
	ctx = logging.With(ctx, logger)
	logger.Info("sync started",
		"workbook", in.WorkbookID,
		"deck", in.DeckID,
		"language", in.Language,
		"update_workbook", in.UpdateWorkbook,
		"update_deck", in.UpdateDeck,
	)

	wb, err := uc.opener.OpenWorkbook(ctx, in.WorkbookID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open workbook", goerr.V("workbook", in.WorkbookID))
	}
	defer safe.Close(ctx, wb)

	reg, err := uc.extract.Extract(ctx, wb, in.Language)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to extract register", goerr.V("workbook", in.WorkbookID))
	}
	result.Register = reg

	if in.UpdateWorkbook {
		if err := uc.workbook.Write(ctx, wb, reg, in.Language); err != nil {
			result.WorkbookErr = goerr.Wrap(err, "failed to update workbook", goerr.V("workbook", in.WorkbookID))
			_ = errutil.Handle(ctx, result.WorkbookErr, "workbook update failed")
		}
	}

	if in.UpdateDeck {
		if err := uc.syncDeck(ctx, in, reg); err != nil {
			result.DeckErr = goerr.Wrap(err, "failed to update deck", goerr.V("deck", in.DeckID))
			_ = errutil.Handle(ctx, result.DeckErr, "deck update failed")
		}
	}

	uc.notify(ctx, in, result)

	if err := errors.Join(result.WorkbookErr, result.DeckErr); err != nil {
		return result, err
	}
	logger.Info("sync completed")
	return result, nil
}

func (uc *SyncUseCase) syncDeck(ctx context.Context, in SyncInput, reg *model.Register) error {
	deck, err := uc.opener.OpenDeck(ctx, in.DeckID)
	if err != nil {
		return goerr.Wrap(err, "failed to open deck")
	}
	defer safe.Close(ctx, deck)

	return uc.deck.Sync(ctx, deck, reg, in.Language)
}

// notify posts the run summary when Slack is configured. Failures are logged only.
func (uc *SyncUseCase) notify(ctx context.Context, in SyncInput, result *SyncResult) {
	if uc.slackService == nil || uc.slackChannel == "" {
		return
	}

	channelID, err := uc.slackService.ResolveChannel(ctx, uc.slackChannel)
	if err != nil {
		_ = errutil.Handle(ctx, goerr.Wrap(err, "failed to resolve slack channel", goerr.V("channel", uc.slackChannel)), "slack notification skipped")
		return
	}

	blocks, text := buildSyncReport(in, result)
	if _, err := uc.slackService.PostMessage(ctx, channelID, blocks, text); err != nil {
		_ = errutil.Handle(ctx, goerr.Wrap(err, "failed to post sync report", goerr.V("channel", channelID)), "slack notification failed")
	}
}

func targetStatus(enabled bool, err error) string {
	switch {
	case !enabled:
		return ":heavy_minus_sign: skipped"
	case err != nil:
		return ":x: failed"
	default:
		return ":white_check_mark: updated"
	}
}

// buildSyncReport renders the run as Block Kit blocks plus a fallback text
func buildSyncReport(in SyncInput, result *SyncResult) ([]goslack.Block, string) {
	title := "PSP sync completed"
	if result.WorkbookErr != nil || result.DeckErr != nil {
		title = "PSP sync failed"
	}

	reg := result.Register
	project := ""
	if reg.Project != nil {
		project = reg.Project.Name
	}

	var fields []*goslack.TextBlockObject
	field := func(name, value string) {
		fields = append(fields, goslack.NewTextBlockObject(goslack.MarkdownType, fmt.Sprintf("*%s*\n%s", name, value), false, false))
	}
	field("Project", project)
	field("Language", in.Language.String())
	field("Risks", fmt.Sprintf("%d", len(reg.Risks)))
	field("Recommendations", fmt.Sprintf("%d", len(reg.Recommendations)))
	field("Security measures", fmt.Sprintf("%d", len(reg.Measures)))
	field("Workbook", targetStatus(in.UpdateWorkbook, result.WorkbookErr))
	if in.DeckID != "" {
		field("Deck", targetStatus(in.UpdateDeck, result.DeckErr))
	}

	blocks := []goslack.Block{
		goslack.NewHeaderBlock(goslack.NewTextBlockObject(goslack.PlainTextType, title, false, false)),
		goslack.NewSectionBlock(nil, fields, nil),
	}

	var errs []string
	for _, err := range []error{result.WorkbookErr, result.DeckErr} {
		if err != nil {
			errs = append(errs, "• "+err.Error())
		}
	}
	if len(errs) > 0 {
		blocks = append(blocks, goslack.NewSectionBlock(
			goslack.NewTextBlockObject(goslack.MarkdownType, strings.Join(errs, "\n"), false, false),
			nil, nil,
		))
	}

	blocks = append(blocks, goslack.NewContextBlock("",
		goslack.NewTextBlockObject(goslack.MarkdownType, fmt.Sprintf("run `%s` • %s", result.RunID, in.WorkbookID), false, false),
	))

	text := fmt.Sprintf("%s: %s (%d risks)", title, project, len(reg.Risks))
	return blocks, text
}

package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/pspsync/pkg/domain/interfaces"
	"github.com/secmon-lab/pspsync/pkg/domain/model"
	"github.com/secmon-lab/pspsync/pkg/domain/model/config"
	"github.com/secmon-lab/pspsync/pkg/domain/types"
	"github.com/secmon-lab/pspsync/pkg/service/slack"
	"github.com/secmon-lab/pspsync/pkg/utils/safe"
)

type UseCases struct {
	opener       interfaces.DocumentOpener
	labels       config.LabelTable
	slackService slack.Service
	slackChannel string

	Extract  *ExtractUseCase
	Workbook *WorkbookUseCase
	Deck     *DeckUseCase
	Sync     *SyncUseCase
	Check    *CheckUseCase
}

type Option func(*UseCases)

// WithLabels replaces the built-in label table
func WithLabels(labels config.LabelTable) Option {
	return func(uc *UseCases) {
		uc.labels = labels
	}
}

// WithSlack posts a summary of every sync run to channelID
func WithSlack(svc slack.Service, channelID string) Option {
	return func(uc *UseCases) {
		uc.slackService = svc
		uc.slackChannel = channelID
	}
}

func New(opener interfaces.DocumentOpener, opts ...Option) *UseCases {
	uc := &UseCases{
		opener: opener,
		labels: config.DefaultLabels(),
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Extract = NewExtractUseCase(uc.labels)
	uc.Workbook = NewWorkbookUseCase(uc.labels)
	uc.Deck = NewDeckUseCase(uc.labels)
	uc.Sync = NewSyncUseCase(opener, uc.Extract, uc.Workbook, uc.Deck, uc.slackService, uc.slackChannel)
	uc.Check = NewCheckUseCase(opener, uc.Extract, uc.Workbook)

	return uc
}

// Register opens the workbook and extracts its register without writing anything
func (uc *UseCases) Register(ctx context.Context, workbookID string, lang types.Language) (*model.Register, error) {
	wb, err := uc.opener.OpenWorkbook(ctx, workbookID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open workbook", goerr.V("workbook", workbookID))
	}
	defer safe.Close(ctx, wb)

	return uc.Extract.Extract(ctx, wb, lang)
}

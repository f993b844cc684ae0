package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/pspsync/pkg/cli/config"
	"github.com/secmon-lab/pspsync/pkg/domain/types"
	"github.com/secmon-lab/pspsync/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// workbookFlags selects the workbook and the template language
type workbookFlags struct {
	workbook string
	lang     string
}

func (x *workbookFlags) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "workbook",
			Aliases:     []string{"w"},
			Usage:       "Workbook path or gs://bucket/object (.xlsx, .xlsm)",
			Required:    true,
			Destination: &x.workbook,
			Sources:     cli.EnvVars("PSPSYNC_WORKBOOK"),
			TakesFile:   true,
		},
		&cli.StringFlag{
			Name:        "lang",
			Usage:       "Template language (EN, FR)",
			Value:       types.LanguageEN.String(),
			Destination: &x.lang,
			Sources:     cli.EnvVars("PSPSYNC_LANG"),
		},
	}
}

func (x *workbookFlags) language() (types.Language, error) {
	lang, err := types.ParseLanguage(x.lang)
	if err != nil {
		return "", goerr.Wrap(err, "invalid --lang")
	}
	return lang, nil
}

// runtime wires the use cases shared by every document command
type runtime struct {
	labels  config.Labels
	storage config.Storage
}

func (x *runtime) Flags() []cli.Flag {
	var flags []cli.Flag
	flags = append(flags, x.labels.Flags()...)
	flags = append(flags, x.storage.Flags()...)
	return flags
}

// useCases builds the use cases. The returned function releases storage clients.
func (x *runtime) useCases(ctx context.Context, opts ...usecase.Option) (*usecase.UseCases, func(), error) {
	labels, err := x.labels.Configure()
	if err != nil {
		return nil, nil, err
	}

	repo, closer, err := x.storage.Configure(ctx)
	if err != nil {
		return nil, nil, err
	}

	opts = append([]usecase.Option{usecase.WithLabels(labels)}, opts...)
	return usecase.New(repo, opts...), closer, nil
}

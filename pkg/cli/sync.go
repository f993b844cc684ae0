package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/pspsync/pkg/cli/config"
	"github.com/secmon-lab/pspsync/pkg/usecase"
	"github.com/secmon-lab/pspsync/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdSync() *cli.Command {
	var wb workbookFlags
	var rt runtime
	var slackCfg config.Slack
	var deck string
	var updateWorkbook, updateDeck bool

	var flags []cli.Flag
	flags = append(flags, wb.Flags()...)
	flags = append(flags,
		&cli.StringFlag{
			Name:        "deck",
			Aliases:     []string{"d"},
			Usage:       "Slide deck path or gs://bucket/object (.pptx, .pptm)",
			Destination: &deck,
			Sources:     cli.EnvVars("PSPSYNC_DECK"),
			TakesFile:   true,
		},
		&cli.BoolFlag{
			Name:        "update-workbook",
			Usage:       "Rewrite the synthesis sheets of the workbook",
			Destination: &updateWorkbook,
			Sources:     cli.EnvVars("PSPSYNC_UPDATE_WORKBOOK"),
		},
		&cli.BoolFlag{
			Name:        "update-deck",
			Usage:       "Rewrite the slide deck (requires --deck)",
			Destination: &updateDeck,
			Sources:     cli.EnvVars("PSPSYNC_UPDATE_DECK"),
		},
	)
	flags = append(flags, rt.Flags()...)
	flags = append(flags, slackCfg.Flags()...)

	return &cli.Command{
		Name:  "sync",
		Usage: "Extract the register from the workbook and update the workbook and/or the deck",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			lang, err := wb.language()
			if err != nil {
				return err
			}
			if updateDeck && deck == "" {
				return goerr.New("--update-deck requires --deck")
			}

			var opts []usecase.Option
			slackOpt, err := slackCfg.Configure()
			if err != nil {
				return err
			}
			if slackOpt != nil {
				opts = append(opts, slackOpt)
			}

			uc, closer, err := rt.useCases(ctx, opts...)
			if err != nil {
				return err
			}
			defer closer()

			result, err := uc.Sync.Run(ctx, usecase.SyncInput{
				WorkbookID:     wb.workbook,
				DeckID:         deck,
				Language:       lang,
				UpdateWorkbook: updateWorkbook,
				UpdateDeck:     updateDeck,
			})
			if err != nil {
				return goerr.Wrap(err, "sync failed")
			}

			logging.Default().Info("Sync finished",
				"run_id", result.RunID,
				"risks", len(result.Register.Risks),
				"recommendations", len(result.Register.Recommendations),
				"measures", len(result.Register.Measures),
			)
			return nil
		},
	}
}

package cli

import (
	"context"

	"github.com/secmon-lab/pspsync/pkg/cli/config"
	"github.com/secmon-lab/pspsync/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdLabels() *cli.Command {
	return &cli.Command{
		Name:  "labels",
		Usage: "Inspect the worksheet names and headers used for each template language",
		Commands: []*cli.Command{
			cmdLabelsShow(),
			cmdLabelsValidate(),
		},
	}
}

func cmdLabelsShow() *cli.Command {
	var labelsCfg config.Labels
	var output string

	var flags []cli.Flag
	flags = append(flags, labelsCfg.Flags()...)
	flags = append(flags, outputFlag(&output))

	return &cli.Command{
		Name:  "show",
		Usage: "Print the effective label table as TOML",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			table, err := labelsCfg.Configure()
			if err != nil {
				return err
			}
			data, err := config.EncodeLabels(table)
			if err != nil {
				return err
			}

			w, done, err := openOutput(output)
			if err != nil {
				return err
			}
			defer done()
			_, err = w.Write(data)
			return err
		},
	}
}

func cmdLabelsValidate() *cli.Command {
	var path string

	return &cli.Command{
		Name:  "validate",
		Usage: "Validate a TOML label table",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "labels",
				Usage:       "TOML label table to validate",
				Required:    true,
				Destination: &path,
				TakesFile:   true,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			table, err := config.LoadLabels(path)
			if err != nil {
				return err
			}
			logging.Default().Info("Label table is valid", "path", path, "languages", len(table))
			return nil
		},
	}
}

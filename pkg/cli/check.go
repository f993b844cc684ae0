package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/pspsync/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// ErrDrift is returned by the check command when the synthesis is out of date
var ErrDrift = goerr.New("risk synthesis is out of date")

func cmdCheck() *cli.Command {
	var wb workbookFlags
	var rt runtime
	var output string

	var flags []cli.Flag
	flags = append(flags, wb.Flags()...)
	flags = append(flags, outputFlag(&output))
	flags = append(flags, rt.Flags()...)

	return &cli.Command{
		Name:  "check",
		Usage: "Report differences between the risk sheets and the risk analysis table",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			lang, err := wb.language()
			if err != nil {
				return err
			}

			uc, closer, err := rt.useCases(ctx)
			if err != nil {
				return err
			}
			defer closer()

			report, err := uc.Check.Run(ctx, wb.workbook, lang)
			if err != nil {
				return goerr.Wrap(err, "check failed")
			}

			w, done, err := openOutput(output)
			if err != nil {
				return err
			}
			defer done()
			writeCheckReport(w, newPalette(output), report)

			if report.HasDrift() {
				return goerr.Wrap(ErrDrift, "check found drift", goerr.V("drifts", len(report.Drifts)))
			}
			return nil
		},
	}
}

func writeCheckReport(w io.Writer, p *palette, report *usecase.CheckReport) {
	if !report.HasDrift() {
		_, _ = p.good.Fprintf(w, "risk synthesis is up to date (%d risks)\n", len(report.Register.Risks))
		return
	}

	_, _ = p.bad.Fprintf(w, "%d difference(s) found\n", len(report.Drifts))
	for _, d := range report.Drifts {
		_, _ = p.id.Fprintf(w, "  %s", d.RiskID)
		switch d.Kind {
		case usecase.DriftMissing:
			_, _ = p.warn.Fprintf(w, "  missing")
			_, _ = fmt.Fprintf(w, ": not in the risk analysis table\n")
		case usecase.DriftStale:
			_, _ = p.warn.Fprintf(w, "  stale")
			_, _ = fmt.Fprintf(w, ": no risk sheet\n")
		case usecase.DriftMismatch:
			_, _ = p.warn.Fprintf(w, "  %s", d.Field)
			_, _ = fmt.Fprintf(w, ": sheet %q, table %q\n", d.Expected, d.Actual)
		}
	}
}

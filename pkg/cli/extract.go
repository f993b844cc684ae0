package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/pspsync/pkg/domain/model"
	"github.com/secmon-lab/pspsync/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

func cmdExtract() *cli.Command {
	var wb workbookFlags
	var rt runtime
	var format, output string

	var flags []cli.Flag
	flags = append(flags, wb.Flags()...)
	flags = append(flags,
		&cli.StringFlag{
			Name:        "format",
			Aliases:     []string{"f"},
			Usage:       "Report format (text, json)",
			Value:       "text",
			Destination: &format,
		},
		outputFlag(&output),
	)
	flags = append(flags, rt.Flags()...)

	return &cli.Command{
		Name:  "extract",
		Usage: "Print the register extracted from the workbook without writing anything",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			lang, err := wb.language()
			if err != nil {
				return err
			}
			if format != "text" && format != "json" {
				return goerr.New("invalid --format", goerr.V("format", format))
			}

			uc, closer, err := rt.useCases(ctx)
			if err != nil {
				return err
			}
			defer closer()

			reg, err := uc.Register(ctx, wb.workbook, lang)
			if err != nil {
				return goerr.Wrap(err, "extraction failed")
			}

			w, done, err := openOutput(output)
			if err != nil {
				return err
			}
			defer done()

			if format == "json" {
				return writeRegisterJSON(w, reg)
			}
			writeRegisterText(w, newPalette(output), reg)
			return nil
		},
	}
}

type registerView struct {
	Project         *model.ProjectInfo `json:"project"`
	Risks           []riskView         `json:"risks"`
	Recommendations []elementView      `json:"recommendations"`
	Measures        []elementView      `json:"security_measures"`
}

type riskView struct {
	ID          types.RiskID     `json:"id"`
	Theme       string           `json:"theme"`
	Description string           `json:"description"`
	Initial     model.Assessment `json:"initial"`
	Residual    model.Assessment `json:"residual"`
}

type elementView struct {
	ID          string         `json:"id"`
	Description string         `json:"description"`
	Priority    string         `json:"priority,omitempty"`
	Risks       []types.RiskID `json:"risks"`
}

func newElementViews(elements []*model.Element) []elementView {
	views := make([]elementView, len(elements))
	for i, e := range elements {
		views[i] = elementView{
			ID:          e.ID.String(),
			Description: e.Description,
			Priority:    e.Priority(),
			Risks:       e.RiskIDs(),
		}
	}
	return views
}

func writeRegisterJSON(w io.Writer, reg *model.Register) error {
	view := registerView{
		Project:         reg.Project,
		Risks:           make([]riskView, len(reg.Risks)),
		Recommendations: newElementViews(reg.Recommendations),
		Measures:        newElementViews(reg.Measures),
	}
	for i, r := range reg.Risks {
		view.Risks[i] = riskView{
			ID:          r.ID,
			Theme:       r.Theme,
			Description: r.Description,
			Initial:     r.Initial,
			Residual:    r.Residual,
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(view); err != nil {
		return goerr.Wrap(err, "failed to encode register")
	}
	return nil
}

func writeRegisterText(w io.Writer, p *palette, reg *model.Register) {
	if reg.Project != nil {
		_, _ = p.title.Fprintf(w, "%s\n", reg.Project.Name)
	}

	_, _ = p.title.Fprintf(w, "\nRisks (%d)\n", len(reg.Risks))
	for _, r := range reg.Risks {
		_, _ = p.id.Fprintf(w, "  %s", r.ID)
		_, _ = fmt.Fprintf(w, "  %s: %s [%s -> %s]\n", r.Theme, r.Description, r.Initial.Gravity, r.Residual.Gravity)
	}

	_, _ = p.title.Fprintf(w, "\nRecommendations (%d)\n", len(reg.Recommendations))
	for _, e := range reg.Recommendations {
		_, _ = p.id.Fprintf(w, "  %s", e.ID)
		_, _ = fmt.Fprintf(w, "  %s (%s) [%s]\n", e.Description, e.Priority(), e.RiskList())
	}

	_, _ = p.title.Fprintf(w, "\nSecurity measures (%d)\n", len(reg.Measures))
	for _, e := range reg.Measures {
		_, _ = p.id.Fprintf(w, "  %s", e.ID)
		_, _ = fmt.Fprintf(w, "  %s [%s]\n", e.Description, e.RiskList())
	}
}

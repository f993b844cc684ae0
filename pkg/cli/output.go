package cli

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func outputFlag(dst *string) cli.Flag {
	return &cli.StringFlag{
		Name:        "output",
		Aliases:     []string{"o"},
		Usage:       "Report destination (- for stdout)",
		Value:       "-",
		Destination: dst,
		TakesFile:   true,
	}
}

// openOutput returns the report writer and a function closing it
func openOutput(path string) (io.Writer, func(), error) {
	if path == "" || path == "-" {
		return os.Stdout, func() {}, nil
	}

	// #nosec G304 - path is provided by CLI argument
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to create output file", goerr.V("path", path))
	}
	return f, func() { _ = f.Close() }, nil
}

// palette renders report text. Colours are disabled for files and non-terminals.
type palette struct {
	title, id, warn, bad, good *color.Color
}

func newPalette(path string) *palette {
	p := &palette{
		title: color.New(color.Bold),
		id:    color.New(color.FgCyan),
		warn:  color.New(color.FgYellow),
		bad:   color.New(color.FgRed, color.Bold),
		good:  color.New(color.FgGreen),
	}
	if path != "" && path != "-" {
		for _, c := range []*color.Color{p.title, p.id, p.warn, p.bad, p.good} {
			c.DisableColor()
		}
	}
	return p
}

package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	domainConfig "github.com/secmon-lab/pspsync/pkg/domain/model/config"
	"github.com/secmon-lab/pspsync/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

// Labels holds the path of a TOML label table overriding the built-in one
type Labels struct {
	path string
}

func (x *Labels) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "labels",
			Usage:       "TOML file with worksheet names and headers per language",
			Category:    "Template",
			Destination: &x.path,
			Sources:     cli.EnvVars("PSPSYNC_LABELS"),
			TakesFile:   true,
		},
	}
}

// Path returns the configured label file, or "" for the built-in table
func (x *Labels) Path() string {
	return x.path
}

// Configure returns the label table. Languages missing from the file keep their
// built-in labels.
func (x *Labels) Configure() (domainConfig.LabelTable, error) {
	table := domainConfig.DefaultLabels()
	if x.path == "" {
		return table, nil
	}

	loaded, err := LoadLabels(x.path)
	if err != nil {
		return nil, err
	}
	for lang, labels := range loaded {
		table[lang] = labels
	}
	return table, nil
}

// LoadLabels reads and validates a label table file. Top-level keys are language codes.
func LoadLabels(path string) (domainConfig.LabelTable, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read label file", goerr.V(LabelsKey, path))
	}

	var raw map[string]domainConfig.Labels
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, goerr.Wrap(ErrInvalidLabels, "failed to parse TOML labels", goerr.V(LabelsKey, path), goerr.V("error", err.Error()))
	}

	table := make(domainConfig.LabelTable, len(raw))
	for code, labels := range raw {
		lang, err := types.ParseLanguage(code)
		if err != nil {
			return nil, goerr.Wrap(ErrInvalidLabels, "unsupported language", goerr.V(LabelsKey, path), goerr.V("language", code))
		}
		table[lang] = labels
	}

	if err := table.Validate(); err != nil {
		return nil, goerr.Wrap(ErrInvalidLabels, "label validation failed", goerr.V(LabelsKey, path), goerr.V("error", err.Error()))
	}
	return table, nil
}

// EncodeLabels renders a label table as TOML with language codes as top-level keys
func EncodeLabels(table domainConfig.LabelTable) ([]byte, error) {
	raw := make(map[string]domainConfig.Labels, len(table))
	for lang, labels := range table {
		raw[lang.String()] = labels
	}
	data, err := toml.Marshal(raw)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to encode labels")
	}
	return data, nil
}

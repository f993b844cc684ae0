package config

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/pspsync/pkg/domain/types"
)

// Worksheets holds the canonical worksheet names of the workbook template
type Worksheets struct {
	Presentation       string `toml:"presentation"`
	ExecutiveSummary   string `toml:"executive_summary"`
	Context            string `toml:"context"`
	Architecture       string `toml:"architecture"`
	ImplementedMeasure string `toml:"implemented_measure"`
	RiskAnalysis       string `toml:"risk_analysis"`
	ActionPlan         string `toml:"action_plan"`
}

// Labels holds the language-specific strings the engine looks for in the documents
type Labels struct {
	Worksheets           Worksheets `toml:"worksheets"`
	RecommendationHeader string     `toml:"recommendation_header"`
	MeasureHeader        string     `toml:"measure_header"`
	ProjectNameLabel     string     `toml:"project_name_label"`
}

// ProjectNamePlaceholder returns the bracketed token replaced by the project name on
// the intro slide, e.g. "[Project name]"
func (l Labels) ProjectNamePlaceholder() string {
	return "[" + l.ProjectNameLabel + "]"
}

// Validate checks that every label is set
func (l Labels) Validate() error {
	required := map[string]string{
		"worksheets.presentation":        l.Worksheets.Presentation,
		"worksheets.executive_summary":   l.Worksheets.ExecutiveSummary,
		"worksheets.context":             l.Worksheets.Context,
		"worksheets.implemented_measure": l.Worksheets.ImplementedMeasure,
		"worksheets.risk_analysis":       l.Worksheets.RiskAnalysis,
		"worksheets.action_plan":         l.Worksheets.ActionPlan,
		"recommendation_header":          l.RecommendationHeader,
		"measure_header":                 l.MeasureHeader,
		"project_name_label":             l.ProjectNameLabel,
	}
	for key, value := range required {
		if value == "" {
			return goerr.New("label is required", goerr.V("label", key))
		}
	}
	if l.RecommendationHeader == l.MeasureHeader {
		return goerr.New("recommendation and measure headers must differ", goerr.V("header", l.MeasureHeader))
	}
	return nil
}

// LabelTable holds one label set per template language
type LabelTable map[types.Language]Labels

// For returns the labels of the given language
func (t LabelTable) For(lang types.Language) (Labels, error) {
	labels, ok := t[lang]
	if !ok {
		return Labels{}, goerr.New("no labels for language", goerr.V("language", lang))
	}
	return labels, nil
}

// Validate checks every language entry
func (t LabelTable) Validate() error {
	if len(t) == 0 {
		return goerr.New("label table is empty")
	}
	for lang, labels := range t {
		if !lang.IsValid() {
			return goerr.New("unsupported language in label table", goerr.V("language", lang))
		}
		if err := labels.Validate(); err != nil {
			return goerr.Wrap(err, "invalid labels", goerr.V("language", lang))
		}
	}
	return nil
}

// DefaultLabels returns the labels of the stock English and French templates
func DefaultLabels() LabelTable {
	return LabelTable{
		types.LanguageEN: {
			Worksheets: Worksheets{
				Presentation:       "1-Presentation",
				ExecutiveSummary:   "2-Exec summary",
				Context:            "3-Context",
				Architecture:       "4-Architecture",
				ImplementedMeasure: "5-Implemented Measures",
				RiskAnalysis:       "6-Risk Analysis",
				ActionPlan:         "7-Action Plan",
			},
			RecommendationHeader: "Recommendation description",
			MeasureHeader:        "Security measure description",
			ProjectNameLabel:     "Project name",
		},
		types.LanguageFR: {
			Worksheets: Worksheets{
				Presentation:       "1-Présentation",
				ExecutiveSummary:   "2-Exec summary",
				Context:            "3-Contexte",
				Architecture:       "4-Architecture",
				ImplementedMeasure: "5-Mesures appliquées",
				RiskAnalysis:       "6-Analyse de Risques",
				ActionPlan:         "7-Plan d'Action",
			},
			RecommendationHeader: "Description des recommandations",
			MeasureHeader:        "Description des mesures de sécurité appliquées",
			ProjectNameLabel:     "Nom du projet",
		},
	}
}

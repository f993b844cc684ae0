package usecase

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/pspsync/pkg/domain/interfaces"
	"github.com/secmon-lab/pspsync/pkg/domain/model"
	"github.com/secmon-lab/pspsync/pkg/domain/model/config"
	"github.com/secmon-lab/pspsync/pkg/domain/types"
	"github.com/secmon-lab/pspsync/pkg/utils/logging"
)

// Anchor shapes identifying each slide role
const (
	AnchorRiskSynthesis           = "Title Risks"
	AnchorRiskTemplate            = "Title Risk"
	AnchorRecommendationSynthesis = "Title Recommendations"
	AnchorMeasureSynthesis        = "Title SecurityMeasures"
	AnchorIntro                   = "NOMPROJET"
	AnchorContext                 = "Title Context"
	AnchorClassification          = "Title Classification"
	AnchorExecutiveSummary        = "Title ExecSum"
)

// Named shapes inside the slides
const (
	shapeRisks           = "Risks"
	shapeRisk            = "Risk"
	shapeRecommendations = "Recommendations"
	shapeMeasures        = "SecurityMeasures"

	shapeProjectName     = "NOMPROJET"
	shapeHead            = "CPI"
	shapeContextName     = "PRJ NAME"
	shapeContextTable    = "CONTEXT"
	shapeAssumptions     = "Assumptions"
	shapeCriticality     = "DICP"
	shapeRecoveryTargets = "RTO RPO"
	shapeSummary         = "Summary"
	shapeDecision        = "Decision"

	headToken     = "<CPI>"
	divisionToken = "<Division>"
)

const (
	// rows appended per provisioning iteration
	rowGrowthStep = 2

	// first content row of every table
	firstRow = headerRows + 1

	// column of the priority cell in the recommendations synthesis table
	recommendationPriorityCol = 7
)

// DeckUseCase renders a Register into the slide deck
type DeckUseCase struct {
	labels config.LabelTable
}

func NewDeckUseCase(labels config.LabelTable) *DeckUseCase {
	return &DeckUseCase{labels: labels}
}

// deckSlides holds the slide of each role. Optional roles may be nil.
type deckSlides struct {
	riskSynthesis           interfaces.Slide
	riskTemplate            interfaces.Slide
	recommendationSynthesis interfaces.Slide
	measureSynthesis        interfaces.Slide

	intro          interfaces.Slide
	context        interfaces.Slide
	classification interfaces.Slide
	execSummary    interfaces.Slide
}

// findSlide returns the first slide exposing a shape named anchor
func findSlide(deck interfaces.Deck, anchor string) (interfaces.Slide, error) {
	for _, s := range deck.Slides() {
		if s.HasShape(anchor) {
			return s, nil
		}
	}
	return nil, goerr.Wrap(ErrAnchorNotFound, "no slide has the anchor shape", goerr.V(AnchorKey, anchor))
}

func locateSlides(ctx context.Context, deck interfaces.Deck) (*deckSlides, error) {
	var slides deckSlides

	required := []struct {
		anchor string
		dst    *interfaces.Slide
	}{
		{AnchorRiskSynthesis, &slides.riskSynthesis},
		{AnchorRiskTemplate, &slides.riskTemplate},
		{AnchorRecommendationSynthesis, &slides.recommendationSynthesis},
		{AnchorMeasureSynthesis, &slides.measureSynthesis},
	}
	for _, r := range required {
		s, err := findSlide(deck, r.anchor)
		if err != nil {
			return nil, err
		}
		*r.dst = s
	}

	optional := []struct {
		anchor string
		dst    *interfaces.Slide
	}{
		{AnchorIntro, &slides.intro},
		{AnchorContext, &slides.context},
		{AnchorClassification, &slides.classification},
		{AnchorExecutiveSummary, &slides.execSummary},
	}
	for _, o := range optional {
		s, err := findSlide(deck, o.anchor)
		if err != nil {
			logging.From(ctx).Warn("optional slide not found, skipping", "anchor", o.anchor)
			continue
		}
		*o.dst = s
	}

	return &slides, nil
}

func slideTable(s interfaces.Slide, name string) (interfaces.Table, error) {
	t, err := s.Table(name)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get table", goerr.V(TableKey, name))
	}
	return t, nil
}

// tableWriter sets cells of one table and keeps the first error
type tableWriter struct {
	name  string
	table interfaces.Table
	err   error
}

func newTableWriter(s interfaces.Slide, name string) (*tableWriter, error) {
	t, err := slideTable(s, name)
	if err != nil {
		return nil, err
	}
	return &tableWriter{name: name, table: t}, nil
}

func (w *tableWriter) wrap(err error, msg string, row, col int) {
	w.err = goerr.Wrap(err, msg, goerr.V(TableKey, w.name), goerr.V(RowKey, row), goerr.V(ColumnKey, col))
}

func (w *tableWriter) text(row, col int, text string) {
	if w.err != nil {
		return
	}
	if err := w.table.SetText(row, col, text); err != nil {
		w.wrap(err, "failed to set cell text", row, col)
	}
}

// fill colours the cell when literal is a known severity or priority
func (w *tableWriter) fill(row, col int, literal string) {
	if w.err != nil {
		return
	}
	sev, ok := types.ClassifyFill(literal)
	if !ok {
		return
	}
	if err := w.table.SetFill(row, col, sev.Color()); err != nil {
		w.wrap(err, "failed to set cell fill", row, col)
	}
}

// emphasize makes the cell bold, coloured when literal is in the font table
func (w *tableWriter) emphasize(row, col int, literal string) {
	if w.err != nil {
		return
	}
	font := interfaces.Font{Bold: true}
	if sev, ok := types.ClassifyFont(literal); ok {
		c := sev.Color()
		font.Color = &c
	}
	if err := w.table.SetFont(row, col, font); err != nil {
		w.wrap(err, "failed to set cell font", row, col)
	}
}

func (w *tableWriter) grow(n int) {
	if w.err != nil {
		return
	}
	if _, err := growRowsInStepsOf(w.table, rowGrowthStep, n); err != nil {
		w.err = goerr.Wrap(err, "failed to provision table rows", goerr.V(TableKey, w.name))
	}
}

// Sync renders reg into the deck and saves it. Required anchors are checked before
// any change is made.
func (uc *DeckUseCase) Sync(ctx context.Context, deck interfaces.Deck, reg *model.Register, lang types.Language) error {
	labels, err := uc.labels.For(lang)
	if err != nil {
		return err
	}

	slides, err := locateSlides(ctx, deck)
	if err != nil {
		return err
	}

	// (1) reset template tables
	templates := []struct {
		slide interfaces.Slide
		name  string
	}{
		{slides.riskTemplate, shapeRecommendations},
		{slides.riskTemplate, shapeMeasures},
		{slides.riskSynthesis, shapeRisks},
		{slides.recommendationSynthesis, shapeRecommendations},
		{slides.measureSynthesis, shapeMeasures},
	}
	for _, tpl := range templates {
		t, err := slideTable(tpl.slide, tpl.name)
		if err != nil {
			return err
		}
		if err := truncateTemplateTo(t, 1); err != nil {
			return goerr.Wrap(err, "failed to reset template table", goerr.V(TableKey, tpl.name))
		}
	}

	// (2) one risk slide per risk, in register order
	riskSlides := []interfaces.Slide{slides.riskTemplate}
	for i := 0; i < len(reg.Risks)-1; i++ {
		dup, err := deck.DuplicateSlide(riskSlides[i])
		if err != nil {
			return goerr.Wrap(err, "failed to duplicate risk slide", goerr.V("copy", i+1))
		}
		riskSlides = append(riskSlides, dup)
	}
	if len(reg.Risks) == 0 {
		logging.From(ctx).Warn("register has no risk, risk slide template left empty")
	}

	// (3) risk slides
	for i, risk := range reg.Risks {
		if err := writeRiskSlide(riskSlides[i], risk, reg); err != nil {
			return goerr.Wrap(err, "failed to write risk slide", goerr.V(RiskIDKey, risk.ID))
		}
	}

	// (4)-(6) synthesis slides
	if err := writeRiskSynthesis(slides.riskSynthesis, reg.Risks); err != nil {
		return err
	}
	if err := writeRecommendationSynthesis(slides.recommendationSynthesis, reg.Recommendations); err != nil {
		return err
	}
	if err := writeMeasureSynthesis(slides.measureSynthesis, reg.Measures); err != nil {
		return err
	}

	// (7) project information
	if reg.Project != nil {
		if err := writeProjectSlides(slides, reg.Project, labels); err != nil {
			return err
		}
	}

	if err := deck.Save(ctx); err != nil {
		return goerr.Wrap(err, "failed to save deck")
	}

	logging.From(ctx).Info("deck updated",
		"risk_slides", len(riskSlides),
		"recommendations", len(reg.Recommendations),
		"measures", len(reg.Measures),
	)
	return nil
}

func writeRiskSlide(s interfaces.Slide, risk *model.Risk, reg *model.Register) error {
	recs, err := newTableWriter(s, shapeRecommendations)
	if err != nil {
		return err
	}
	linked := reg.RecommendationsFor(risk.ID)
	recs.grow(len(linked))
	for i, rec := range linked {
		row := firstRow + i
		recs.text(row, 1, rec.ID.String())
		recs.text(row, 2, rec.Description)
		recs.emphasize(row, 1, rec.Priority())
	}
	if recs.err != nil {
		return recs.err
	}

	measures, err := newTableWriter(s, shapeMeasures)
	if err != nil {
		return err
	}
	linked = reg.MeasuresFor(risk.ID)
	measures.grow(len(linked))
	for i, sm := range linked {
		row := firstRow + i
		measures.text(row, 1, sm.ID.String())
		measures.text(row, 2, sm.Description)
	}
	if measures.err != nil {
		return measures.err
	}

	summary, err := newTableWriter(s, shapeRisk)
	if err != nil {
		return err
	}
	summary.text(firstRow, 1, risk.ID.String())
	summary.text(firstRow, 2, risk.Theme)
	summary.text(firstRow, 3, risk.Description)
	if summary.err != nil {
		return summary.err
	}

	// the assessments share the first row of the element tables
	measures.text(firstRow, 3, risk.Initial.Impact)
	measures.text(firstRow, 4, risk.Initial.Potentiality)
	measures.text(firstRow, 5, risk.Initial.Gravity)
	measures.fill(firstRow, 5, risk.Initial.Gravity)
	if measures.err != nil {
		return measures.err
	}

	recs.text(firstRow, 3, risk.Residual.Impact)
	recs.text(firstRow, 4, risk.Residual.Potentiality)
	recs.text(firstRow, 5, risk.Residual.Gravity)
	recs.fill(firstRow, 5, risk.Residual.Gravity)
	return recs.err
}

func writeRiskSynthesis(s interfaces.Slide, risks []*model.Risk) error {
	w, err := newTableWriter(s, shapeRisks)
	if err != nil {
		return err
	}
	w.grow(len(risks))
	for i, risk := range risks {
		row := firstRow + i
		w.text(row, 1, risk.ID.String())
		w.text(row, 2, risk.Theme)
		w.text(row, 3, risk.Description)
		w.text(row, 4, risk.Initial.Gravity)
		w.text(row, 5, risk.Residual.Gravity)
		w.fill(row, 4, risk.Initial.Gravity)
		w.fill(row, 5, risk.Residual.Gravity)
	}
	return w.err
}

func writeRecommendationSynthesis(s interfaces.Slide, recs []*model.Element) error {
	w, err := newTableWriter(s, shapeRecommendations)
	if err != nil {
		return err
	}
	w.grow(len(recs))
	for i, rec := range recs {
		row := firstRow + i
		w.text(row, 1, rec.ID.String())
		w.text(row, 2, rec.RiskList())
		w.text(row, 3, rec.Description)
		w.text(row, recommendationPriorityCol, rec.Priority())
		w.fill(row, recommendationPriorityCol, rec.Priority())
		w.emphasize(row, 1, rec.Priority())
	}
	return w.err
}

func writeMeasureSynthesis(s interfaces.Slide, measures []*model.Element) error {
	w, err := newTableWriter(s, shapeMeasures)
	if err != nil {
		return err
	}
	w.grow(len(measures))
	for i, sm := range measures {
		row := firstRow + i
		w.text(row, 1, sm.ID.String())
		w.text(row, 2, sm.Description)
	}
	return w.err
}

// textShape updates the text of a named shape through fn
func textShape(s interfaces.Slide, name string, fn func(current string) string) error {
	tf, err := s.TextFrame(name)
	if err != nil {
		return goerr.Wrap(err, "failed to get text shape", goerr.V("shape", name))
	}
	current, err := tf.Text()
	if err != nil {
		return goerr.Wrap(err, "failed to read text shape", goerr.V("shape", name))
	}
	if err := tf.SetText(fn(current)); err != nil {
		return goerr.Wrap(err, "failed to write text shape", goerr.V("shape", name))
	}
	return nil
}

func replaceWith(text string) func(string) string {
	return func(string) string { return text }
}

func writeProjectSlides(slides *deckSlides, p *model.ProjectInfo, labels config.Labels) error {
	if s := slides.intro; s != nil {
		placeholder := labels.ProjectNamePlaceholder()
		if err := textShape(s, shapeProjectName, func(cur string) string {
			return strings.ReplaceAll(cur, placeholder, p.Name)
		}); err != nil {
			return err
		}
		if err := textShape(s, shapeHead, func(cur string) string {
			cur = strings.ReplaceAll(cur, headToken, p.Head)
			return strings.ReplaceAll(cur, divisionToken, p.Division)
		}); err != nil {
			return err
		}
	}

	if s := slides.context; s != nil {
		if err := textShape(s, shapeContextName, replaceWith(p.Name)); err != nil {
			return err
		}
		w, err := newTableWriter(s, shapeContextTable)
		if err != nil {
			return err
		}
		w.text(firstRow, 1, p.Context)
		if w.err != nil {
			return w.err
		}
	}

	if s := slides.classification; s != nil {
		if err := textShape(s, shapeAssumptions, replaceWith(p.Hypotheses)); err != nil {
			return err
		}

		dicp, err := newTableWriter(s, shapeCriticality)
		if err != nil {
			return err
		}
		dicp.text(firstRow, 1, p.Criticality.Availability)
		dicp.text(firstRow, 2, p.Criticality.Integrity)
		dicp.text(firstRow, 3, p.Criticality.Confidentiality)
		dicp.text(firstRow, 4, p.Criticality.Proof)
		if dicp.err != nil {
			return dicp.err
		}

		recovery, err := newTableWriter(s, shapeRecoveryTargets)
		if err != nil {
			return err
		}
		recovery.text(firstRow, 1, p.RTO)
		recovery.text(firstRow, 2, p.RPO)
		if recovery.err != nil {
			return recovery.err
		}
	}

	if s := slides.execSummary; s != nil {
		if err := textShape(s, shapeSummary, replaceWith(p.Summary)); err != nil {
			return err
		}
		if err := textShape(s, shapeDecision, replaceWith(p.Decision)); err != nil {
			return err
		}
	}

	return nil
}

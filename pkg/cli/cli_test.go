package cli_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/pspsync/pkg/cli"
	"github.com/secmon-lab/pspsync/pkg/repository/ooxml"
	"github.com/secmon-lab/pspsync/pkg/repository/ooxml/ooxmltest"
)

func writeFixtures(t *testing.T) (workbook, deck string) {
	t.Helper()
	dir := t.TempDir()
	workbook = filepath.Join(dir, "psp.xlsx")
	deck = filepath.Join(dir, "psp.pptx")

	riskSheet := func(id, theme, desc, rec, prio, sm string) ooxmltest.Sheet {
		return ooxmltest.Sheet{Name: id, Cells: map[[2]int]string{
			{4, 2}: theme, {4, 3}: desc,
			{4, 4}: "3", {4, 5}: "4", {4, 6}: "4 - Urgent",
			{4, 7}: "2", {4, 8}: "2", {4, 9}: "2 - Acceptable",
			{10, 3}: "Recommendation description", {11, 3}: rec, {11, 4}: prio,
			{20, 3}: "Security measure description", {21, 3}: sm,
		}}
	}

	err := ooxmltest.WriteWorkbook(workbook,
		ooxmltest.Sheet{Name: "1-Presentation", Cells: map[[2]int]string{{4, 4}: "Payment Gateway", {7, 4}: "Alice Martin", {8, 4}: "Retail"}},
		ooxmltest.Sheet{Name: "2-Exec summary", Cells: map[[2]int]string{{4, 2}: "Contained", {7, 2}: "Go"}},
		ooxmltest.Sheet{Name: "3-Context", Cells: map[[2]int]string{{2, 2}: "Public API"}},
		riskSheet("R01", "Authentication", "Credential stuffing", "Enforce MFA", "Urgent", "WAF"),
		riskSheet("R02", "Data", "Card data leak", "Enforce MFA", "Urgent", "WAF"),
		ooxmltest.Sheet{Name: "5-Implemented Measures"},
		ooxmltest.Sheet{Name: "6-Risk Analysis"},
		ooxmltest.Sheet{Name: "7-Action Plan"},
	)
	gt.NoError(t, err).Required()

	d := ooxmltest.NewDeck()
	d.AddSlide().
		WithText("NOMPROJET", "Review of [Project name]").
		WithText("CPI", "<CPI>, <Division>")
	d.AddSlide().
		WithText("Title Risks", "Risks").
		WithTable("Risks", []string{"ID", "Theme", "Description", "Initial", "Residual"}, make([]string, 5))
	d.AddSlide().
		WithText("Title Risk", "Risk").
		WithTable("Risk", []string{"ID", "Theme", "Description"}, make([]string, 3)).
		WithTable("Recommendations", []string{"ID", "Description", "I", "P", "G"}, make([]string, 5)).
		WithTable("SecurityMeasures", []string{"ID", "Description", "I", "P", "G"}, make([]string, 5)).
		WithNotes()
	d.AddSlide().
		WithText("Title Recommendations", "Recommendations").
		WithTable("Recommendations", []string{"ID", "Risks", "Description", "", "", "", "Priority"}, make([]string, 7))
	d.AddSlide().
		WithText("Title SecurityMeasures", "Security measures").
		WithTable("SecurityMeasures", []string{"ID", "Description"}, make([]string, 2))
	gt.NoError(t, d.Write(deck)).Required()

	return workbook, deck
}

func run(args ...string) error {
	return cli.Run(context.Background(), append([]string{"pspsync"}, args...), "test")
}

func TestRun_Sync(t *testing.T) {
	workbook, deck := writeFixtures(t)

	err := run("sync", "--workbook", workbook, "--deck", deck, "--update-workbook", "--update-deck")
	gt.NoError(t, err).Required()

	wb, err := ooxml.OpenWorkbook(workbook)
	gt.NoError(t, err).Required()
	defer wb.Close()
	plan, err := wb.Sheet("7-Action Plan")
	gt.NoError(t, err).Required()
	v, err := plan.Cell(5, 2)
	gt.NoError(t, err).Required()
	gt.V(t, v).Equal("REC01")
	v, err = plan.Cell(5, 3)
	gt.NoError(t, err).Required()
	gt.V(t, v).Equal("R01, R02")

	d, err := ooxml.OpenDeck(deck)
	gt.NoError(t, err).Required()
	defer d.Close()
	slides := d.Slides()
	gt.A(t, slides).Length(6).Required()

	for i, id := range []string{"R01", "R02"} {
		table, err := slides[2+i].Table("Risk")
		gt.NoError(t, err).Required()
		text, err := table.Text(2, 1)
		gt.NoError(t, err).Required()
		gt.V(t, text).Equal(id)
	}

	intro, err := slides[0].TextFrame("NOMPROJET")
	gt.NoError(t, err).Required()
	text, err := intro.Text()
	gt.NoError(t, err).Required()
	gt.V(t, text).Equal("Review of Payment Gateway")
}

func TestRun_SyncRequiresDeck(t *testing.T) {
	workbook, _ := writeFixtures(t)
	gt.Value(t, run("sync", "--workbook", workbook, "--update-deck")).NotNil()
}

func TestRun_Extract(t *testing.T) {
	workbook, _ := writeFixtures(t)
	out := filepath.Join(t.TempDir(), "register.json")

	gt.NoError(t, run("extract", "--workbook", workbook, "--format", "json", "--output", out)).Required()

	data, err := os.ReadFile(out)
	gt.NoError(t, err).Required()

	var reg struct {
		Risks []struct {
			ID string `json:"id"`
		} `json:"risks"`
		Recommendations []struct {
			ID    string   `json:"id"`
			Risks []string `json:"risks"`
		} `json:"recommendations"`
	}
	gt.NoError(t, json.Unmarshal(data, &reg)).Required()
	gt.A(t, reg.Risks).Length(2)
	gt.A(t, reg.Recommendations).Length(1).Required()
	gt.V(t, reg.Recommendations[0].Risks).Equal([]string{"R01", "R02"})

	text := filepath.Join(t.TempDir(), "register.txt")
	gt.NoError(t, run("extract", "--workbook", workbook, "--output", text)).Required()
	data, err = os.ReadFile(text)
	gt.NoError(t, err).Required()
	gt.String(t, string(data)).Contains("REC01  Enforce MFA (Urgent) [R01, R02]")
}

func TestRun_Check(t *testing.T) {
	workbook, _ := writeFixtures(t)
	out := filepath.Join(t.TempDir(), "check.txt")

	err := run("check", "--workbook", workbook, "--output", out)
	gt.Error(t, err).Is(cli.ErrDrift)

	gt.NoError(t, run("sync", "--workbook", workbook, "--update-workbook")).Required()
	gt.NoError(t, run("check", "--workbook", workbook, "--output", out))

	data, err := os.ReadFile(out)
	gt.NoError(t, err).Required()
	gt.String(t, string(data)).Contains("up to date")
}

func TestRun_Labels(t *testing.T) {
	dir := t.TempDir()
	shown := filepath.Join(dir, "labels.toml")

	gt.NoError(t, run("labels", "show", "--output", shown)).Required()
	gt.NoError(t, run("labels", "validate", "--labels", shown))

	broken := filepath.Join(dir, "broken.toml")
	gt.NoError(t, os.WriteFile(broken, []byte("[EN]\nrecommendation_header = \"x\"\n"), 0o600)).Required()
	gt.Value(t, run("labels", "validate", "--labels", broken)).NotNil()
}

func TestRun_InvalidLogLevel(t *testing.T) {
	gt.Value(t, run("--log-level", "verbose", "labels", "show", "--output", filepath.Join(t.TempDir(), "x.toml"))).NotNil()
}

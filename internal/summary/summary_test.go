package summary

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/aatrey56/wc2022-eda/internal/dataset"
	"github.com/aatrey56/wc2022-eda/internal/engine"
	"github.com/aatrey56/wc2022-eda/internal/store"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

const fixtures = "../dataset/testdata"

func fixtureCatalogue(t *testing.T) *Catalogue {
	t.Helper()
	cache := dataset.NewCache(dataset.NewLoader(store.NewCSVStore(fixtures), nil))
	return NewCatalogue(cache, nil)
}

func run(t *testing.T, c *Catalogue, name string) Result {
	t.Helper()
	res, err := c.Run(context.Background(), name)
	if err != nil {
		t.Fatalf("run %s: %v", name, err)
	}
	return res
}

func markedTeams(ms []engine.Marked) []string {
	out := make([]string, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.Team)
	}
	return out
}

// copyFixture copies a fixture CSV into dir, dropping the named columns.
func copyFixture(t *testing.T, dir, table string, drop ...string) {
	t.Helper()
	raw, err := store.NewCSVStore(fixtures).ReadTable(context.Background(), table)
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	skip := make(map[int]bool)
	for i, h := range raw.Header {
		for _, d := range drop {
			if h == d {
				skip[i] = true
			}
		}
	}
	out := store.RawTable{Name: table}
	for i, h := range raw.Header {
		if !skip[i] {
			out.Header = append(out.Header, h)
		}
	}
	for _, rec := range raw.Records {
		var kept []string
		for i, cell := range rec {
			if !skip[i] {
				kept = append(kept, cell)
			}
		}
		out.Records = append(out.Records, kept)
	}
	if err := store.NewCSVStore(dir).WriteTable(context.Background(), out); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
}

// ---------------------------------------------------------------------------
// Catalogue.Run
// ---------------------------------------------------------------------------

func TestRun_GroupStageQueries(t *testing.T) {
	c := fixtureCatalogue(t)

	wins := run(t, c, "most_wins")
	want := []string{"Netherlands", "Senegal", "England", "Argentina", "France", "Australia",
		"Japan", "Morocco", "Brazil", "Switzerland", "Portugal"}
	if diff := cmp.Diff(want, wins.Teams); diff != "" {
		t.Errorf("most_wins mismatch (-want +got):\n%s", diff)
	}
	if wins.Kind != KindTeams || wins.Table != GroupStage {
		t.Errorf("most_wins kind/table = %s/%s", wins.Kind, wins.Table)
	}

	goals := run(t, c, "most_goals_scored")
	if goals.Extremum == nil || goals.Extremum.Value != 9 {
		t.Fatalf("most_goals_scored extremum = %+v, want value 9", goals.Extremum)
	}
	if diff := cmp.Diff([]string{"England", "Spain"}, goals.Teams); diff != "" {
		t.Errorf("most_goals_scored teams mismatch (-want +got):\n%s", diff)
	}

	conceded := run(t, c, "most_goals_conceded")
	if diff := cmp.Diff([]string{"Costa Rica"}, conceded.Teams); diff != "" {
		t.Errorf("most_goals_conceded mismatch (-want +got):\n%s", diff)
	}

	points := run(t, c, "highest_points")
	if diff := cmp.Diff([]string{"Netherlands", "England", "Morocco"}, points.Teams); diff != "" {
		t.Errorf("highest_points mismatch (-want +got):\n%s", diff)
	}

	none := run(t, c, "no_wins")
	for _, team := range none.Teams {
		if team == "Germany" {
			t.Error("Germany won a group game")
		}
	}

	q := run(t, c, "qualifiers")
	if len(q.Qualifiers) != 16 {
		t.Errorf("qualifiers = %d, want 16", len(q.Qualifiers))
	}
	s := run(t, c, "group_standings")
	if len(s.Standings) != 8 || len(s.Standings[0].Rows) != 4 {
		t.Errorf("standings shape = %d groups", len(s.Standings))
	}
}

func TestRun_TeamStatsQueries(t *testing.T) {
	c := fixtureCatalogue(t)

	passes := run(t, c, "top_passes")
	if diff := cmp.Diff([]string{"Argentina", "Spain", "France", "Brazil", "Morocco"}, markedTeams(passes.Entries)); diff != "" {
		t.Errorf("top_passes mismatch (-want +got):\n%s", diff)
	}

	pens := run(t, c, "penalties_won")
	want := []engine.RankedEntry{
		{Rank: 1, Team: "Argentina", Value: 5},
		{Rank: 2, Team: "France", Value: 1},
		{Rank: 3, Team: "Brazil", Value: 1},
	}
	if diff := cmp.Diff(want, pens.Ranked); diff != "" {
		t.Errorf("penalties_won mismatch (-want +got):\n%s", diff)
	}

	own := run(t, c, "own_goals")
	if len(own.Ranked) != 2 || own.Ranked[0].Team != "Argentina" || own.Ranked[1].Team != "Morocco" {
		t.Errorf("own_goals = %+v, want Argentina then Morocco", own.Ranked)
	}

	fewest := run(t, c, "fewest_yellow_cards")
	if diff := cmp.Diff([]string{"Spain"}, fewest.Teams); diff != "" {
		t.Errorf("fewest_yellow_cards mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_HighlightsFollowTeams(t *testing.T) {
	c := fixtureCatalogue(t)
	res := run(t, c, "possession")

	if got := markedTeams(res.Entries); got[0] != "Morocco" || got[len(got)-1] != "Spain" {
		t.Fatalf("possession should be ascending, got %v", got)
	}
	for _, m := range res.Entries {
		var want string
		switch m.Team {
		case "Spain":
			want = "blue"
		case "Morocco":
			want = "red"
		default:
			want = "green"
		}
		if m.Color != want {
			t.Errorf("%s colored %s, want %s", m.Team, m.Color, want)
		}
	}
}

func TestRun_Series(t *testing.T) {
	c := fixtureCatalogue(t)
	res := run(t, c, "gk_results")
	if len(res.Series) != 3 {
		t.Fatalf("series = %d, want 3", len(res.Series))
	}
	order := []string{"France", "Argentina", "Morocco", "Brazil", "Spain", "Qatar"}
	for _, s := range res.Series {
		got := make([]string, 0, len(s.Entries))
		for _, e := range s.Entries {
			got = append(got, e.Team)
		}
		if diff := cmp.Diff(order, got); diff != "" {
			t.Errorf("%s order mismatch (-want +got):\n%s", s.Column, diff)
		}
	}
	if res.Series[2].Column != "gk_losses" || res.Series[2].Entries[0].Value != 1 {
		t.Errorf("France gk_losses = %+v", res.Series[2].Entries[0])
	}

	games := run(t, c, "games_vs_goals")
	if games.Series[0].Entries[0].Team != "Argentina" {
		t.Error("games_vs_goals should keep table order")
	}
}

func TestRun_UnknownQuery(t *testing.T) {
	c := NewCatalogue(dataset.NewCache(dataset.NewLoader(store.NewCSVStore(t.TempDir()), nil)), nil)
	_, err := c.Run(context.Background(), "most_red_cards")
	if !errors.Is(err, ErrUnknownQuery) {
		t.Fatalf("want ErrUnknownQuery, got %v", err)
	}
}

func TestRun_LoadFailure(t *testing.T) {
	c := NewCatalogue(dataset.NewCache(dataset.NewLoader(store.NewCSVStore(t.TempDir()), nil)), nil)
	_, err := c.Run(context.Background(), "most_wins")
	var le *dataset.LoadError
	if !errors.As(err, &le) {
		t.Fatalf("want *dataset.LoadError, got %v", err)
	}
}

func TestQueries_NamesAreUnique(t *testing.T) {
	c := fixtureCatalogue(t)
	seen := make(map[string]bool)
	for _, q := range c.Queries() {
		if seen[q.Name] {
			t.Errorf("duplicate query %s", q.Name)
		}
		seen[q.Name] = true
		if q.Table != GroupStage && q.Table != TeamStats {
			t.Errorf("%s: table %q", q.Name, q.Table)
		}
	}
}

// ---------------------------------------------------------------------------
// RunAdhoc
// ---------------------------------------------------------------------------

func TestRunAdhoc(t *testing.T) {
	c := fixtureCatalogue(t)
	ctx := context.Background()

	res, err := c.RunAdhoc(ctx, AdhocQuery{Table: "team_data", Op: OpTopN, Column: "corner_kicks", N: 2, Descending: false})
	if err != nil {
		t.Fatalf("top_n: %v", err)
	}
	if diff := cmp.Diff([]string{"Qatar", "Spain"}, markedTeams(res.Entries)); diff != "" {
		t.Errorf("top_n asc mismatch (-want +got):\n%s", diff)
	}
	if res.Table != TeamStats {
		t.Errorf("table alias should resolve to %s, got %s", TeamStats, res.Table)
	}

	res, err = c.RunAdhoc(ctx, AdhocQuery{Table: GroupStage, Op: OpTop, Column: "points", N: 1})
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if len(res.Entries) != 3 {
		t.Errorf("top 1 by points should include every team on 7, got %v", markedTeams(res.Entries))
	}

	res, err = c.RunAdhoc(ctx, AdhocQuery{Table: GroupStage, Op: OpWins, N: 3})
	if err != nil {
		t.Fatalf("wins: %v", err)
	}
	if len(res.Teams) != 0 || res.Teams == nil {
		t.Errorf("no team won all three group games, got %v", res.Teams)
	}
}

func TestRunAdhoc_Errors(t *testing.T) {
	c := fixtureCatalogue(t)
	ctx := context.Background()

	cases := []struct {
		name string
		q    AdhocQuery
		want error
	}{
		{"unknown table", AdhocQuery{Table: "players", Op: OpMax, Column: "goals"}, ErrUnknownTable},
		{"unknown op", AdhocQuery{Table: TeamStats, Op: "median", Column: "goals"}, ErrUnknownOp},
		{"missing column", AdhocQuery{Table: TeamStats, Op: OpMax, Column: "tackles"}, engine.ErrColumnNotFound},
		{"wins on team stats", AdhocQuery{Table: TeamStats, Op: OpWins}, engine.ErrColumnNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := c.RunAdhoc(ctx, tc.q)
			if !errors.Is(err, tc.want) {
				t.Errorf("want %v, got %v", tc.want, err)
			}
		})
	}
}

func TestParseOrder(t *testing.T) {
	for in, want := range map[string]bool{"": true, "desc": true, "ASC": false, "ascending": false} {
		got, err := ParseOrder(in)
		if err != nil || got != want {
			t.Errorf("ParseOrder(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseOrder("sideways"); err == nil {
		t.Error("want error for invalid order")
	}
}

// ---------------------------------------------------------------------------
// BuildReport / WriteReport
// ---------------------------------------------------------------------------

func TestBuildReport(t *testing.T) {
	c := fixtureCatalogue(t)
	report, err := c.BuildReport(context.Background())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(report.Failures) != 0 {
		t.Errorf("unexpected failures: %+v", report.Failures)
	}
	if len(report.Results) != len(c.Queries()) {
		t.Errorf("results = %d, want %d", len(report.Results), len(c.Queries()))
	}
	if report.GroupRows != 32 || report.TeamRows != 6 {
		t.Errorf("rows = %d/%d, want 32/6", report.GroupRows, report.TeamRows)
	}
}

func TestBuildReport_MissingColumnIsAFailureNotAnAbort(t *testing.T) {
	dir := t.TempDir()
	copyFixture(t, dir, dataset.GroupStageTableName)
	copyFixture(t, dir, dataset.TeamStatsTableName, "xg")

	c := NewCatalogue(dataset.NewCache(dataset.NewLoader(store.NewCSVStore(dir), nil)), nil)
	report, err := c.BuildReport(context.Background())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(report.Failures) != 1 || report.Failures[0].Name != "goals_vs_xg" {
		t.Fatalf("failures = %+v, want only goals_vs_xg", report.Failures)
	}
	if !strings.Contains(report.Failures[0].Error, "goals_minus_xg") {
		t.Errorf("failure should name the missing column: %s", report.Failures[0].Error)
	}
}

func TestWriteReport(t *testing.T) {
	c := fixtureCatalogue(t)
	report, err := c.BuildReport(context.Background())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	st := store.NewReportStore(t.TempDir())
	rel, err := WriteReport(st, report, "json")
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if rel != ReportPath {
		t.Errorf("path: want %s, got %s", ReportPath, rel)
	}
	b, err := os.ReadFile(filepath.Join(st.Root, ReportPath))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	var got Report
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got.Results) != len(report.Results) || got.GeneratedAtUTC == "" {
		t.Errorf("round trip lost results: %d vs %d", len(got.Results), len(report.Results))
	}

	rel, err = WriteReport(st, report, "yaml")
	if err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	var fromYAML Report
	if err := st.Read(rel, &fromYAML); err != nil {
		t.Fatalf("read yaml: %v", err)
	}
	if fromYAML.GroupRows != 32 || len(fromYAML.Results) != len(report.Results) {
		t.Errorf("yaml round trip: %d rows, %d results", fromYAML.GroupRows, len(fromYAML.Results))
	}
}

package reconcile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/aatrey56/wc2022-eda/internal/dataset"
	"github.com/aatrey56/wc2022-eda/internal/engine"
)

const (
	groupMatches = 3
	groupSize    = 4
)

// Check names reported in Issue.Check.
const (
	CheckMatchesPlayed = "matches_played"
	CheckPoints        = "points"
	CheckNegative      = "negative_value"
	CheckDuplicateTeam = "duplicate_team"
	CheckGroupSize     = "group_size"
	CheckGKResults     = "gk_results"
	CheckPossession    = "possession_range"
	CheckMissingTeam   = "missing_team"
)

type Issue struct {
	Table  string `json:"table" yaml:"table"`
	Team   string `json:"team,omitempty" yaml:"team,omitempty"`
	Check  string `json:"check" yaml:"check"`
	Detail string `json:"detail" yaml:"detail"`
}

type Report struct {
	GeneratedAtUTC string  `json:"generated_at_utc" yaml:"generated_at_utc"`
	GroupRows      int     `json:"group_rows" yaml:"group_rows"`
	TeamRows       int     `json:"team_rows" yaml:"team_rows"`
	Issues         []Issue `json:"issues" yaml:"issues"`
}

// OK reports whether every check passed.
func (r *Report) OK() bool { return len(r.Issues) == 0 }

// Count returns the number of issues raised by check.
func (r *Report) Count(check string) int {
	n := 0
	for _, is := range r.Issues {
		if is.Check == check {
			n++
		}
	}
	return n
}

// signed columns may legitimately go below zero.
var signedColumns = map[string]bool{
	"goal_difference": true,
	"goals_minus_xg":  true,
	"aerials_net":     true,
}

// BuildReport checks the loaded tables against the data contract: group-stage
// arithmetic, group sizes, non-negative counters, unique team keys and the
// team-name join between the two tables. Either table may be nil.
func BuildReport(groups *dataset.GroupStageTable, teams *dataset.TeamStatsTable) *Report {
	issues := make([]Issue, 0)
	report := &Report{GeneratedAtUTC: time.Now().UTC().Format(time.RFC3339)}

	if groups != nil {
		report.GroupRows = groups.Len()
		issues = append(issues, checkGroupStage(groups)...)
	}
	if teams != nil {
		report.TeamRows = teams.Len()
		issues = append(issues, checkTeamStats(teams)...)
	}
	if groups != nil && teams != nil && groups.Len() > 0 && teams.Len() > 0 {
		issues = append(issues, checkJoin(groups, teams)...)
	}

	report.Issues = issues
	return report
}

func checkGroupStage(t *dataset.GroupStageTable) []Issue {
	table := dataset.GroupStageTableName
	out := make([]Issue, 0)
	has := columnSet(t)

	for _, row := range t.Rows() {
		if has["wins"] && has["draws"] && has["losses"] && row.Played() != groupMatches {
			out = append(out, Issue{
				Table:  table,
				Team:   row.Team,
				Check:  CheckMatchesPlayed,
				Detail: fmt.Sprintf("wins+draws+losses = %d, want %d", row.Played(), groupMatches),
			})
		}
		if has["wins"] && has["draws"] && has[engine.PointsColumn] {
			if want := 3*row.Wins + row.Draws; row.Points != want {
				out = append(out, Issue{
					Table:  table,
					Team:   row.Team,
					Check:  CheckPoints,
					Detail: fmt.Sprintf("points = %d, want 3*wins+draws = %d", row.Points, want),
				})
			}
		}
	}
	out = append(out, checkNegative(table, t)...)
	out = append(out, checkDuplicates(table, t)...)

	size := make(map[string]int)
	for i := 0; i < t.Len(); i++ {
		size[t.Group(i)]++
	}
	letters := make([]string, 0, len(size))
	for g := range size {
		letters = append(letters, g)
	}
	sort.Strings(letters)
	for _, g := range letters {
		if size[g] != groupSize {
			out = append(out, Issue{
				Table:  table,
				Check:  CheckGroupSize,
				Detail: fmt.Sprintf("group %s has %d teams, want %d", g, size[g], groupSize),
			})
		}
	}
	return out
}

func checkTeamStats(t *dataset.TeamStatsTable) []Issue {
	table := dataset.TeamStatsTableName
	out := make([]Issue, 0)
	has := columnSet(t)

	for _, row := range t.Rows() {
		if has["games"] && has["gk_wins"] && has["gk_ties"] && has["gk_losses"] {
			if sum := row.GKWins + row.GKTies + row.GKLosses; sum != row.Games {
				out = append(out, Issue{
					Table:  table,
					Team:   row.Team,
					Check:  CheckGKResults,
					Detail: fmt.Sprintf("gk_wins+gk_ties+gk_losses = %d, games = %d", sum, row.Games),
				})
			}
		}
		if has["possession"] && row.Possession > 100 {
			out = append(out, Issue{
				Table:  table,
				Team:   row.Team,
				Check:  CheckPossession,
				Detail: fmt.Sprintf("possession %.1f exceeds 100", row.Possession),
			})
		}
	}
	out = append(out, checkNegative(table, t)...)
	out = append(out, checkDuplicates(table, t)...)
	return out
}

func checkNegative(table string, t engine.Table) []Issue {
	out := make([]Issue, 0)
	for _, col := range t.Columns() {
		if signedColumns[col] {
			continue
		}
		get, _ := t.Column(col)
		for i := 0; i < t.Len(); i++ {
			if v := get(i); v < 0 {
				out = append(out, Issue{
					Table:  table,
					Team:   t.Team(i),
					Check:  CheckNegative,
					Detail: fmt.Sprintf("%s = %v", col, v),
				})
			}
		}
	}
	return out
}

func checkDuplicates(table string, t engine.Table) []Issue {
	out := make([]Issue, 0)
	seen := make(map[string]int)
	for i := 0; i < t.Len(); i++ {
		seen[t.Team(i)]++
		if seen[t.Team(i)] == 2 {
			out = append(out, Issue{
				Table:  table,
				Team:   t.Team(i),
				Check:  CheckDuplicateTeam,
				Detail: "team appears more than once",
			})
		}
	}
	return out
}

func checkJoin(groups *dataset.GroupStageTable, teams *dataset.TeamStatsTable) []Issue {
	out := make([]Issue, 0)
	for _, team := range groups.Teams() {
		if _, ok := teams.Lookup(team); !ok {
			out = append(out, Issue{
				Table:  dataset.TeamStatsTableName,
				Team:   team,
				Check:  CheckMissingTeam,
				Detail: "present in group stage, missing from team statistics",
			})
		}
	}
	for _, team := range teams.Teams() {
		if _, ok := groups.Lookup(team); !ok {
			out = append(out, Issue{
				Table:  dataset.GroupStageTableName,
				Team:   team,
				Check:  CheckMissingTeam,
				Detail: "present in team statistics, missing from group stage",
			})
		}
	}
	return out
}

func columnSet(t engine.Table) map[string]bool {
	out := make(map[string]bool)
	for _, c := range t.Columns() {
		out[c] = true
	}
	return out
}

func WriteReport(path string, report *Report) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	b, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}

	b = append(b, '\n')
	return os.WriteFile(path, b, 0o644)
}

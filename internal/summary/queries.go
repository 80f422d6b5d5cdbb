package summary

import (
	"github.com/aatrey56/wc2022-eda/internal/dataset"
	"github.com/aatrey56/wc2022-eda/internal/engine"
)

// Chart colors.
const (
	colorBase   = "green"
	colorFocus  = "blue"
	colorAlert  = "red"
	topListSize = 5
	ppgListSize = 10
)

func defaultQueries() []Query {
	return []Query{
		// Group stage.
		winsQuery("most_wins", "Teams with most wins (2 wins)", 2),
		extremumQuery("most_goals_scored", "Team(s) with most goals scored", GroupStage, "goals_scored", true),
		winsQuery("no_wins", "Teams with no wins", 0),
		extremumQuery("most_goals_conceded", "Most goals conceded", GroupStage, "goals_against", true),
		extremumQuery("highest_goal_difference", "Best goal difference", GroupStage, "goal_difference", true),
		extremumQuery("highest_points", "Highest points in group stage", GroupStage, engine.PointsColumn, true),
		{
			Name:   "qualifiers",
			Title:  "Teams qualified for the round of 16",
			Table:  GroupStage,
			Column: engine.PointsColumn,
			run: func(g *dataset.GroupStageTable, _ *dataset.TeamStatsTable) (Result, error) {
				q, err := engine.QualifiersPerGroup(g)
				return Result{Kind: KindQualifiers, Qualifiers: q}, err
			},
		},
		{
			Name:   "group_standings",
			Title:  "Group standings",
			Table:  GroupStage,
			Column: engine.PointsColumn,
			run: func(g *dataset.GroupStageTable, _ *dataset.TeamStatsTable) (Result, error) {
				s, err := engine.GroupStandings(g)
				return Result{Kind: KindStandings, Standings: s}, err
			},
		},

		// Team statistics.
		sortedQuery("players_used", "Number of players used by the teams", "players_used", false,
			engine.IsMax(colorFocus), engine.Otherwise(colorBase)),
		sortedQuery("average_age", "Average age of team", "avg_age", false,
			engine.IsMax(colorFocus), engine.Otherwise(colorBase)),
		sortedQuery("possession", "Possession of teams", "possession", false,
			engine.IsMax(colorFocus), engine.IsMin(colorAlert), engine.Otherwise(colorBase)),
		seriesQuery("games_vs_goals", "Games played vs goals scored", "", false, "games", "goals"),
		sortedQuery("yellow_cards", "Yellow cards by teams", "cards_yellow", false),
		extremumQuery("fewest_yellow_cards", "Fewest yellow cards", TeamStats, "cards_yellow", false),
		seriesQuery("goals_vs_conceded", "Goals scored vs conceded", "", false, "goals", "gk_goals_against"),
		topQuery("top_scorers", "Top 5 teams by goals", "goals", topListSize),
		sortedQuery("clean_sheets", "Clean sheets", "gk_clean_sheets", true),
		topQuery("top_passes", "Top 5 teams with most passes completed", "passes_completed", topListSize),
		topQuery("top_corners", "Top 5 teams with most corner kicks", "corner_kicks", topListSize),
		topQuery("points_per_game", "Top 10 teams by points per game", "points_per_game", ppgListSize),
		seriesQuery("gk_results", "Goalkeeper wins, ties and losses", "gk_wins", true, "gk_wins", "gk_ties", "gk_losses"),
		sortedQuery("offsides", "Offsides by team", "offsides", true),
		rankedQuery("penalties_won", "Penalties won by teams", "pens_won"),
		rankedQuery("penalties_conceded", "Penalties conceded by teams", "pens_conceded"),
		rankedQuery("own_goals", "Own goals by teams", "own_goals"),
		sortedQuery("aerials_won", "Aerials won by the teams", "aerials_won", false,
			engine.IsMax(colorFocus), engine.Otherwise(colorBase)),
		sortedQuery("aerials_lost", "Aerials lost by teams", "aerials_lost", false,
			engine.IsMax(colorFocus), engine.Otherwise(colorBase)),
		sortedQuery("goals_vs_xg", "Goals minus expected goals", "goals_minus_xg", true,
			engine.IsMax(colorFocus), engine.IsMin(colorAlert), engine.Otherwise(colorBase)),
	}
}

func winsQuery(name, title string, wins int) Query {
	return Query{
		Name:   name,
		Title:  title,
		Table:  GroupStage,
		Column: engine.WinsColumn,
		run: func(g *dataset.GroupStageTable, _ *dataset.TeamStatsTable) (Result, error) {
			teams, err := engine.TeamsWithWinCount(g, wins)
			return Result{Kind: KindTeams, Teams: teams}, err
		},
	}
}

func extremumQuery(name, title, table, col string, largest bool) Query {
	return Query{
		Name:   name,
		Title:  title,
		Table:  table,
		Column: col,
		run: func(g *dataset.GroupStageTable, t *dataset.TeamStatsTable) (Result, error) {
			src := pick(table, g, t)
			find := engine.MinByColumnRows
			if largest {
				find = engine.MaxByColumnRows
			}
			x, err := find(src, col)
			if err != nil {
				return Result{}, err
			}
			return Result{Kind: KindExtremum, Extremum: &x, Teams: x.Teams()}, nil
		},
	}
}

func sortedQuery(name, title, col string, descending bool, rules ...engine.Rule) Query {
	return Query{
		Name:   name,
		Title:  title,
		Table:  TeamStats,
		Column: col,
		run: func(_ *dataset.GroupStageTable, t *dataset.TeamStatsTable) (Result, error) {
			es, err := engine.SortedByColumn(t, col, descending)
			if err != nil {
				return Result{}, err
			}
			return Result{Kind: KindEntries, Entries: engine.Mark(es, rules...)}, nil
		},
	}
}

func topQuery(name, title, col string, n int) Query {
	return Query{
		Name:   name,
		Title:  title,
		Table:  TeamStats,
		Column: col,
		run: func(_ *dataset.GroupStageTable, t *dataset.TeamStatsTable) (Result, error) {
			es, err := engine.TopNByColumn(t, col, n, true)
			if err != nil {
				return Result{}, err
			}
			return Result{Kind: KindEntries, Entries: engine.Mark(es)}, nil
		},
	}
}

func rankedQuery(name, title, col string) Query {
	return Query{
		Name:   name,
		Title:  title,
		Table:  TeamStats,
		Column: col,
		run: func(_ *dataset.GroupStageTable, t *dataset.TeamStatsTable) (Result, error) {
			r, err := engine.RankedList(t, col, true)
			return Result{Kind: KindRanked, Ranked: r}, err
		},
	}
}

// seriesQuery lines several columns up in one team order. With an empty
// orderBy the table order is kept.
func seriesQuery(name, title, orderBy string, descending bool, cols ...string) Query {
	return Query{
		Name:   name,
		Title:  title,
		Table:  TeamStats,
		Column: orderBy,
		run: func(_ *dataset.GroupStageTable, t *dataset.TeamStatsTable) (Result, error) {
			s, err := buildSeries(t, orderBy, descending, cols...)
			return Result{Kind: KindSeries, Series: s}, err
		},
	}
}

func buildSeries(t engine.Table, orderBy string, descending bool, cols ...string) ([]Series, error) {
	accessors := make([]engine.Accessor, len(cols))
	for i, col := range cols {
		get, ok := t.Column(col)
		if !ok {
			return nil, &engine.ColumnNotFoundError{Column: col, Available: t.Columns()}
		}
		accessors[i] = get
	}

	order := make([]int, t.Len())
	for i := range order {
		order[i] = i
	}
	if orderBy != "" {
		sorted, err := engine.SortedByColumn(t, orderBy, descending)
		if err != nil {
			return nil, err
		}
		// Sorted entries carry team names; map them back to rows in order.
		rows := make(map[string][]int)
		for i := 0; i < t.Len(); i++ {
			rows[t.Team(i)] = append(rows[t.Team(i)], i)
		}
		for k, e := range sorted {
			order[k] = rows[e.Team][0]
			rows[e.Team] = rows[e.Team][1:]
		}
	}

	out := make([]Series, 0, len(cols))
	for i, col := range cols {
		es := make([]engine.Entry, 0, len(order))
		for _, row := range order {
			es = append(es, engine.Entry{Team: t.Team(row), Value: accessors[i](row)})
		}
		out = append(out, Series{Column: col, Entries: es})
	}
	return out, nil
}

func pick(table string, g *dataset.GroupStageTable, t *dataset.TeamStatsTable) engine.Table {
	if table == GroupStage {
		return g
	}
	return t
}

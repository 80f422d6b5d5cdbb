// Package dataset loads the group-stage and team-statistics tables, applies
// the fixed cleanup (drop the exported index column, map group codes to
// letters) and serves them as immutable, queryable tables.
package dataset

// GroupStageRow is one team's group-stage record.
type GroupStageRow struct {
	Team         string `json:"team" yaml:"team"`
	Group        string `json:"group" yaml:"group"`
	Wins         int    `json:"wins" yaml:"wins"`
	Draws        int    `json:"draws" yaml:"draws"`
	Losses       int    `json:"losses" yaml:"losses"`
	GoalsScored  int    `json:"goals_scored" yaml:"goals_scored"`
	GoalsAgainst int    `json:"goals_against" yaml:"goals_against"`
	Points       int    `json:"points" yaml:"points"`
}

// Played is the number of group matches the row accounts for.
func (r GroupStageRow) Played() int {
	return r.Wins + r.Draws + r.Losses
}

// TeamStatsRow is one team's tournament-wide statistics.
type TeamStatsRow struct {
	Team            string  `json:"team" yaml:"team"`
	PlayersUsed     int     `json:"players_used" yaml:"players_used"`
	AvgAge          float64 `json:"avg_age" yaml:"avg_age"`
	Possession      float64 `json:"possession" yaml:"possession"`
	Games           int     `json:"games" yaml:"games"`
	Goals           int     `json:"goals" yaml:"goals"`
	ShotsOnTarget   int     `json:"shots_on_target" yaml:"shots_on_target"`
	CardsYellow     int     `json:"cards_yellow" yaml:"cards_yellow"`
	CardsRed        int     `json:"cards_red" yaml:"cards_red"`
	GKGoalsAgainst  int     `json:"gk_goals_against" yaml:"gk_goals_against"`
	GKCleanSheets   int     `json:"gk_clean_sheets" yaml:"gk_clean_sheets"`
	GKWins          int     `json:"gk_wins" yaml:"gk_wins"`
	GKTies          int     `json:"gk_ties" yaml:"gk_ties"`
	GKLosses        int     `json:"gk_losses" yaml:"gk_losses"`
	PassesCompleted int     `json:"passes_completed" yaml:"passes_completed"`
	CornerKicks     int     `json:"corner_kicks" yaml:"corner_kicks"`
	PointsPerGame   float64 `json:"points_per_game" yaml:"points_per_game"`
	Offsides        int     `json:"offsides" yaml:"offsides"`
	PensWon         int     `json:"pens_won" yaml:"pens_won"`
	PensConceded    int     `json:"pens_conceded" yaml:"pens_conceded"`
	OwnGoals        int     `json:"own_goals" yaml:"own_goals"`
	AerialsWon      int     `json:"aerials_won" yaml:"aerials_won"`
	AerialsLost     int     `json:"aerials_lost" yaml:"aerials_lost"`
	XG              float64 `json:"xg" yaml:"xg"`
}

// field binds a source column to a numeric row field. Integer fields reject
// fractional cells.
type field[R any] struct {
	name    string
	integer bool
	get     func(*R) float64
	set     func(*R, float64)
}

// derived is a column computed on read from other columns.
type derived[R any] struct {
	name  string
	needs []string
	get   func(*R) float64
}

func intField[R any](name string, p func(*R) *int) field[R] {
	return field[R]{
		name:    name,
		integer: true,
		get:     func(r *R) float64 { return float64(*p(r)) },
		set:     func(r *R, v float64) { *p(r) = int(v) },
	}
}

func realField[R any](name string, p func(*R) *float64) field[R] {
	return field[R]{
		name: name,
		get:  func(r *R) float64 { return *p(r) },
		set:  func(r *R, v float64) { *p(r) = v },
	}
}

var groupStageFields = []field[GroupStageRow]{
	intField("wins", func(r *GroupStageRow) *int { return &r.Wins }),
	intField("draws", func(r *GroupStageRow) *int { return &r.Draws }),
	intField("losses", func(r *GroupStageRow) *int { return &r.Losses }),
	intField("goals_scored", func(r *GroupStageRow) *int { return &r.GoalsScored }),
	intField("goals_against", func(r *GroupStageRow) *int { return &r.GoalsAgainst }),
	intField("points", func(r *GroupStageRow) *int { return &r.Points }),
}

var groupStageDerived = []derived[GroupStageRow]{
	{
		name:  "goal_difference",
		needs: []string{"goals_scored", "goals_against"},
		get:   func(r *GroupStageRow) float64 { return float64(r.GoalsScored - r.GoalsAgainst) },
	},
}

var teamStatsFields = []field[TeamStatsRow]{
	intField("players_used", func(r *TeamStatsRow) *int { return &r.PlayersUsed }),
	realField("avg_age", func(r *TeamStatsRow) *float64 { return &r.AvgAge }),
	realField("possession", func(r *TeamStatsRow) *float64 { return &r.Possession }),
	intField("games", func(r *TeamStatsRow) *int { return &r.Games }),
	intField("goals", func(r *TeamStatsRow) *int { return &r.Goals }),
	intField("shots_on_target", func(r *TeamStatsRow) *int { return &r.ShotsOnTarget }),
	intField("cards_yellow", func(r *TeamStatsRow) *int { return &r.CardsYellow }),
	intField("cards_red", func(r *TeamStatsRow) *int { return &r.CardsRed }),
	intField("gk_goals_against", func(r *TeamStatsRow) *int { return &r.GKGoalsAgainst }),
	intField("gk_clean_sheets", func(r *TeamStatsRow) *int { return &r.GKCleanSheets }),
	intField("gk_wins", func(r *TeamStatsRow) *int { return &r.GKWins }),
	intField("gk_ties", func(r *TeamStatsRow) *int { return &r.GKTies }),
	intField("gk_losses", func(r *TeamStatsRow) *int { return &r.GKLosses }),
	intField("passes_completed", func(r *TeamStatsRow) *int { return &r.PassesCompleted }),
	intField("corner_kicks", func(r *TeamStatsRow) *int { return &r.CornerKicks }),
	realField("points_per_game", func(r *TeamStatsRow) *float64 { return &r.PointsPerGame }),
	intField("offsides", func(r *TeamStatsRow) *int { return &r.Offsides }),
	intField("pens_won", func(r *TeamStatsRow) *int { return &r.PensWon }),
	intField("pens_conceded", func(r *TeamStatsRow) *int { return &r.PensConceded }),
	intField("own_goals", func(r *TeamStatsRow) *int { return &r.OwnGoals }),
	intField("aerials_won", func(r *TeamStatsRow) *int { return &r.AerialsWon }),
	intField("aerials_lost", func(r *TeamStatsRow) *int { return &r.AerialsLost }),
	realField("xg", func(r *TeamStatsRow) *float64 { return &r.XG }),
}

var teamStatsDerived = []derived[TeamStatsRow]{
	{
		name:  "goal_difference",
		needs: []string{"goals", "gk_goals_against"},
		get:   func(r *TeamStatsRow) float64 { return float64(r.Goals - r.GKGoalsAgainst) },
	},
	{
		name:  "goals_minus_xg",
		needs: []string{"goals", "xg"},
		get:   func(r *TeamStatsRow) float64 { return float64(r.Goals) - r.XG },
	},
	{
		name:  "aerials_net",
		needs: []string{"aerials_won", "aerials_lost"},
		get:   func(r *TeamStatsRow) float64 { return float64(r.AerialsWon - r.AerialsLost) },
	},
}

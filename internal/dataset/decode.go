package dataset

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/aatrey56/wc2022-eda/internal/store"
)

const (
	GroupStageTableName = "group_stats"
	TeamStatsTableName  = "team_data"
)

const (
	teamColumn  = "team"
	groupColumn = "group"
)

// normalizeHeader converts "Goals Scored" -> "goals_scored".
func normalizeHeader(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	return s
}

// isArtifactColumn reports index columns left behind by a dataframe export.
func isArtifactColumn(name string) bool {
	return name == "" || name == "index" || strings.HasPrefix(name, "unnamed")
}

// textColumn decodes a non-numeric cell into a row.
type textColumn[R any] func(r *R, cell string) error

type binding[R any] struct {
	name string
	num  *field[R]
	text textColumn[R]
}

// decodeTable maps header cells to fields and decodes every record. It
// returns the rows in source order and the numeric columns the source
// carried.
func decodeTable[R any](raw store.RawTable, fields []field[R], text map[string]textColumn[R], required []string) ([]R, []string, error) {
	byName := make(map[string]*field[R], len(fields))
	for i := range fields {
		byName[fields[i].name] = &fields[i]
	}

	bindings := make([]binding[R], len(raw.Header))
	seen := make(map[string]bool)
	var present []string
	for i, h := range raw.Header {
		name := normalizeHeader(h)
		if isArtifactColumn(name) || seen[name] {
			continue
		}
		seen[name] = true
		switch {
		case text[name] != nil:
			bindings[i] = binding[R]{name: name, text: text[name]}
		case byName[name] != nil:
			bindings[i] = binding[R]{name: name, num: byName[name]}
			present = append(present, name)
		}
	}
	for _, name := range required {
		if !seen[name] {
			return nil, nil, &LoadError{Table: raw.Name, Column: name, Err: errors.New("required column missing")}
		}
	}

	var textOrder []int
	for i, b := range bindings {
		if b.text != nil && b.name == teamColumn {
			textOrder = append([]int{i}, textOrder...)
		} else if b.text != nil {
			textOrder = append(textOrder, i)
		}
	}

	rows := make([]R, 0, len(raw.Records))
	for n, rec := range raw.Records {
		var row R
		// Team first, then the other text columns, so errors can name the team.
		for _, i := range textOrder {
			b := bindings[i]
			if i >= len(rec) {
				continue
			}
			if err := b.text(&row, rec[i]); err != nil {
				var mapping *MappingError
				if errors.As(err, &mapping) {
					return nil, nil, err
				}
				return nil, nil, &LoadError{Table: raw.Name, Row: n + 1, Column: b.name, Err: err}
			}
		}
		for i, b := range bindings {
			if b.num == nil {
				continue
			}
			if i >= len(rec) {
				return nil, nil, &LoadError{Table: raw.Name, Row: n + 1, Column: b.name, Err: errors.New("missing cell")}
			}
			v, err := parseNumber(rec[i], b.num.integer)
			if err != nil {
				return nil, nil, &LoadError{Table: raw.Name, Row: n + 1, Column: b.name, Err: err}
			}
			b.num.set(&row, v)
		}
		rows = append(rows, row)
	}
	return rows, present, nil
}

func parseNumber(cell string, integer bool) (float64, error) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return 0, errors.New("empty cell")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", cell)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("not a finite number: %q", cell)
	}
	if integer && v != math.Trunc(v) {
		return 0, fmt.Errorf("not an integer: %q", cell)
	}
	return v, nil
}

func setTeam[R any](team func(*R) *string) textColumn[R] {
	return func(r *R, cell string) error {
		name := strings.TrimSpace(cell)
		if name == "" {
			return errors.New("empty team name")
		}
		*team(r) = name
		return nil
	}
}

// DecodeGroupStage cleans and decodes the raw group-stage table.
func DecodeGroupStage(raw store.RawTable) (*GroupStageTable, error) {
	if raw.Name == "" {
		raw.Name = GroupStageTableName
	}
	text := map[string]textColumn[GroupStageRow]{
		teamColumn: setTeam(func(r *GroupStageRow) *string { return &r.Team }),
		groupColumn: func(r *GroupStageRow, cell string) error {
			letter, err := parseGroup(r.Team, cell)
			if err != nil {
				return err
			}
			r.Group = letter
			return nil
		},
	}
	rows, present, err := decodeTable(raw, groupStageFields, text, []string{teamColumn, groupColumn})
	if err != nil {
		return nil, err
	}
	return NewGroupStageTable(rows, nonNil(present)), nil
}

// DecodeTeamStats decodes the raw team-statistics table.
func DecodeTeamStats(raw store.RawTable) (*TeamStatsTable, error) {
	if raw.Name == "" {
		raw.Name = TeamStatsTableName
	}
	text := map[string]textColumn[TeamStatsRow]{
		teamColumn: setTeam(func(r *TeamStatsRow) *string { return &r.Team }),
	}
	rows, present, err := decodeTable(raw, teamStatsFields, text, []string{teamColumn})
	if err != nil {
		return nil, err
	}
	return NewTeamStatsTable(rows, nonNil(present)), nil
}

// nonNil keeps "no numeric columns" distinct from "all columns".
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

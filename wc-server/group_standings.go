package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/aatrey56/wc2022-eda/internal/dataset"
	"github.com/aatrey56/wc2022-eda/internal/engine"
	"github.com/aatrey56/wc2022-eda/internal/summary"
)

type errGroupNotFound struct {
	group string
	have  []string
}

func (e *errGroupNotFound) Error() string {
	return fmt.Sprintf("group not found: %q (have %s)", e.group, strings.Join(e.have, ", "))
}

// GroupStandingsRow is one team's line in a group table.
type GroupStandingsRow struct {
	Pos       int    `json:"pos"`
	Team      string `json:"team"`
	Played    int    `json:"played"`
	Won       int    `json:"won"`
	Drawn     int    `json:"drawn"`
	Lost      int    `json:"lost"`
	GF        int    `json:"gf"`
	GA        int    `json:"ga"`
	GD        int    `json:"gd"`
	Points    int    `json:"points"`
	Qualified bool   `json:"qualified"`
}

type GroupTable struct {
	Group string              `json:"group"`
	Rows  []GroupStandingsRow `json:"rows"`
}

// GroupStandingsResult is the output of the group_standings tool.
type GroupStandingsResult struct {
	Groups []GroupTable `json:"groups"`
}

// buildGroupStandings expands the engine's per-group ranking with each
// team's full record. Level teams keep table order.
func buildGroupStandings(ctx context.Context, cat *summary.Catalogue, group string) (*GroupStandingsResult, error) {
	groups, _, err := cat.Tables(ctx)
	if err != nil {
		return nil, err
	}

	var rankings []engine.GroupRanking
	if g := strings.ToUpper(strings.TrimSpace(group)); g != "" {
		r, ok, err := engine.GroupStanding(groups, g)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, &errGroupNotFound{group: group, have: groups.Groups()}
		}
		rankings = []engine.GroupRanking{r}
	} else {
		rankings, err = engine.GroupStandings(groups)
		if err != nil {
			return nil, err
		}
	}

	out := &GroupStandingsResult{Groups: make([]GroupTable, 0, len(rankings))}
	for _, g := range rankings {
		table := GroupTable{Group: g.Group, Rows: make([]GroupStandingsRow, 0, len(g.Rows))}
		for _, r := range g.Rows {
			table.Rows = append(table.Rows, standingsRow(groups, r))
		}
		out.Groups = append(out.Groups, table)
	}
	return out, nil
}

func standingsRow(groups *dataset.GroupStageTable, r engine.RankedEntry) GroupStandingsRow {
	row, _ := groups.Lookup(r.Team)
	return GroupStandingsRow{
		Pos:       r.Rank,
		Team:      r.Team,
		Played:    row.Played(),
		Won:       row.Wins,
		Drawn:     row.Draws,
		Lost:      row.Losses,
		GF:        row.GoalsScored,
		GA:        row.GoalsAgainst,
		GD:        row.GoalsScored - row.GoalsAgainst,
		Points:    int(r.Value),
		Qualified: r.Rank <= 2,
	}
}

// groupStandingsHandler is the MCP tool handler for group_standings.
func groupStandingsHandler(cat *summary.Catalogue) func(context.Context, *mcp.CallToolRequest, GroupStandingsArgs) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, args GroupStandingsArgs) (*mcp.CallToolResult, any, error) {
		out, err := buildGroupStandings(ctx, cat, args.Group)
		if err != nil {
			return toolError(err), nil, nil
		}
		return toolMarshal(out)
	}
}

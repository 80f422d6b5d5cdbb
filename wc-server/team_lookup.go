package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/aatrey56/wc2022-eda/internal/dataset"
	"github.com/aatrey56/wc2022-eda/internal/summary"
)

// errTeamNotFound marks lookups that matched nothing so the HTTP layer can
// answer 404.
type errTeamNotFound struct{ team string }

func (e *errTeamNotFound) Error() string { return fmt.Sprintf("team not found: %q", e.team) }

// TeamLookupResult joins both tables on the team name. Either side is nil
// when the team is missing from that table.
type TeamLookupResult struct {
	Team       string                 `json:"team"`
	GroupStage *dataset.GroupStageRow `json:"group_stage,omitempty"`
	Stats      *dataset.TeamStatsRow  `json:"stats,omitempty"`
}

func buildTeamLookup(ctx context.Context, cat *summary.Catalogue, team string) (*TeamLookupResult, error) {
	team = strings.TrimSpace(team)
	if team == "" {
		return nil, fmt.Errorf("team is required")
	}
	groups, teams, err := cat.Tables(ctx)
	if err != nil {
		return nil, err
	}

	name := resolveTeamName(team, groups.Teams(), teams.Teams())
	out := &TeamLookupResult{Team: name}
	if row, ok := groups.Lookup(name); ok {
		out.GroupStage = &row
	}
	if row, ok := teams.Lookup(name); ok {
		out.Stats = &row
	}
	if out.GroupStage == nil && out.Stats == nil {
		return nil, &errTeamNotFound{team: team}
	}
	return out, nil
}

// resolveTeamName returns the stored spelling of team, matching
// case-insensitively when there is no exact match.
func resolveTeamName(team string, lists ...[]string) string {
	for _, list := range lists {
		for _, name := range list {
			if name == team {
				return name
			}
		}
	}
	for _, list := range lists {
		for _, name := range list {
			if strings.EqualFold(name, team) {
				return name
			}
		}
	}
	return team
}

// teamLookupHandler is the MCP tool handler for team_lookup.
func teamLookupHandler(cat *summary.Catalogue) func(context.Context, *mcp.CallToolRequest, TeamLookupArgs) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, args TeamLookupArgs) (*mcp.CallToolResult, any, error) {
		out, err := buildTeamLookup(ctx, cat, args.Team)
		if err != nil {
			return toolError(err), nil, nil
		}
		return toolMarshal(out)
	}
}

package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/aatrey56/wc2022-eda/internal/engine"
	"github.com/aatrey56/wc2022-eda/internal/reconcile"
	"github.com/aatrey56/wc2022-eda/internal/summary"
)

type ListQueriesArgs struct{}

type RunQueryArgs struct {
	Name string `json:"name" jsonschema:"Catalogue query name (see list_queries)"`
}

type TopNArgs struct {
	Table  string `json:"table" jsonschema:"group_stage or team_stats"`
	Column string `json:"column" jsonschema:"Numeric column to rank by (required)"`
	N      int    `json:"n,omitempty" jsonschema:"Rows to return (default 5)"`
	Order  string `json:"order,omitempty" jsonschema:"asc|desc (default desc)"`
}

type RankedListArgs struct {
	Table  string `json:"table" jsonschema:"group_stage or team_stats"`
	Column string `json:"column" jsonschema:"Numeric column; rows with a value <= 0 are dropped"`
	Order  string `json:"order,omitempty" jsonschema:"asc|desc (default desc)"`
}

type ColumnExtremesArgs struct {
	Table  string `json:"table" jsonschema:"group_stage or team_stats"`
	Column string `json:"column" jsonschema:"Numeric column (required)"`
}

type TeamsWithWinsArgs struct {
	Wins int `json:"wins" jsonschema:"Exact group-stage win count (0-3)"`
}

type QualifiersArgs struct{}

type GroupStandingsArgs struct {
	Group string `json:"group,omitempty" jsonschema:"Group letter A-H (empty = all groups)"`
}

type TeamLookupArgs struct {
	Team string `json:"team" jsonschema:"Team name, case-insensitive (required)"`
}

type ValidateArgs struct{}

// ColumnExtremes is the output of the column_extremes tool.
type ColumnExtremes struct {
	Table  string          `json:"table"`
	Column string          `json:"column"`
	Max    engine.Extremum `json:"max"`
	Min    engine.Extremum `json:"min"`
}

const defaultTopN = 5

func registerTools(server *mcp.Server, registry *[]toolInfo, cat *summary.Catalogue) {
	addTool(server, registry, &mcp.Tool{
		Name:        "list_queries",
		Description: "List the named statistics the catalogue can answer",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args ListQueriesArgs) (*mcp.CallToolResult, any, error) {
		return toolMarshal(map[string]any{"queries": cat.Queries()})
	})

	addTool(server, registry, &mcp.Tool{
		Name:        "run_query",
		Description: "Run one named statistic (most_wins, qualifiers, top_passes, ...)",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args RunQueryArgs) (*mcp.CallToolResult, any, error) {
		if args.Name == "" {
			return toolError(fmt.Errorf("name is required")), nil, nil
		}
		res, err := cat.Run(ctx, args.Name)
		if err != nil {
			return toolError(err), nil, nil
		}
		return toolMarshal(res)
	})

	addTool(server, registry, &mcp.Tool{
		Name:        "top_n",
		Description: "Top N teams of a table by any numeric column, in either direction",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args TopNArgs) (*mcp.CallToolResult, any, error) {
		desc, err := summary.ParseOrder(args.Order)
		if err != nil {
			return toolError(err), nil, nil
		}
		n := args.N
		if n == 0 {
			n = defaultTopN
		}
		return toolResult(cat.RunAdhoc(ctx, summary.AdhocQuery{
			Table: args.Table, Op: summary.OpTopN, Column: args.Column, N: n, Descending: desc,
		}))
	})

	addTool(server, registry, &mcp.Tool{
		Name:        "ranked_list",
		Description: "Numbered list of teams with a positive value in a column",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args RankedListArgs) (*mcp.CallToolResult, any, error) {
		desc, err := summary.ParseOrder(args.Order)
		if err != nil {
			return toolError(err), nil, nil
		}
		return toolResult(cat.RunAdhoc(ctx, summary.AdhocQuery{
			Table: args.Table, Op: summary.OpRanked, Column: args.Column, Descending: desc,
		}))
	})

	addTool(server, registry, &mcp.Tool{
		Name:        "column_extremes",
		Description: "Every team holding the maximum and the minimum of a column",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args ColumnExtremesArgs) (*mcp.CallToolResult, any, error) {
		out, err := buildColumnExtremes(ctx, cat, args.Table, args.Column)
		if err != nil {
			return toolError(err), nil, nil
		}
		return toolMarshal(out)
	})

	addTool(server, registry, &mcp.Tool{
		Name:        "teams_with_wins",
		Description: "Teams with an exact number of group-stage wins",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args TeamsWithWinsArgs) (*mcp.CallToolResult, any, error) {
		return toolResult(cat.RunAdhoc(ctx, summary.AdhocQuery{
			Table: summary.GroupStage, Op: summary.OpWins, N: args.Wins,
		}))
	})

	addTool(server, registry, &mcp.Tool{
		Name:        "qualifiers",
		Description: "Top two teams of every group by points",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args QualifiersArgs) (*mcp.CallToolResult, any, error) {
		return toolResult(cat.Run(ctx, "qualifiers"))
	})

	addTool(server, registry, &mcp.Tool{
		Name:        "group_standings",
		Description: "Full group tables ordered by points, or one group",
	}, groupStandingsHandler(cat))

	addTool(server, registry, &mcp.Tool{
		Name:        "team_lookup",
		Description: "Group-stage record and tournament statistics for one team",
	}, teamLookupHandler(cat))

	addTool(server, registry, &mcp.Tool{
		Name:        "validate",
		Description: "Check the loaded tables against the data contract",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args ValidateArgs) (*mcp.CallToolResult, any, error) {
		report, err := buildValidation(ctx, cat)
		if err != nil {
			return toolError(err), nil, nil
		}
		return toolMarshal(report)
	})
}

func buildColumnExtremes(ctx context.Context, cat *summary.Catalogue, table, column string) (*ColumnExtremes, error) {
	if column == "" {
		return nil, fmt.Errorf("column is required")
	}
	hi, err := cat.RunAdhoc(ctx, summary.AdhocQuery{Table: table, Op: summary.OpMax, Column: column})
	if err != nil {
		return nil, err
	}
	lo, err := cat.RunAdhoc(ctx, summary.AdhocQuery{Table: table, Op: summary.OpMin, Column: column})
	if err != nil {
		return nil, err
	}
	return &ColumnExtremes{Table: hi.Table, Column: column, Max: *hi.Extremum, Min: *lo.Extremum}, nil
}

func buildValidation(ctx context.Context, cat *summary.Catalogue) (*reconcile.Report, error) {
	groups, teams, err := cat.Tables(ctx)
	if err != nil {
		return nil, err
	}
	return reconcile.BuildReport(groups, teams), nil
}

func toolResult(res summary.Result, err error) (*mcp.CallToolResult, any, error) {
	if err != nil {
		return toolError(err), nil, nil
	}
	return toolMarshal(res)
}

func toolMarshal(v any) (*mcp.CallToolResult, any, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	return toolJSON(b, err)
}

func toolJSON(res []byte, err error) (*mcp.CallToolResult, any, error) {
	if err != nil {
		return toolError(err), nil, nil
	}
	return toolJSONBytes(res), nil, nil
}

func toolJSONBytes(res []byte) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(res)},
		},
	}
}

func toolError(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("error: %v", err)},
		},
	}
}

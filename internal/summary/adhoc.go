package summary

import (
	"context"
	"fmt"
	"strings"

	"github.com/aatrey56/wc2022-eda/internal/engine"
)

// Ad-hoc operations.
const (
	OpTopN     = "top_n"
	OpTop      = "top"
	OpMax      = "max"
	OpMin      = "min"
	OpPositive = "positive"
	OpRanked   = "ranked"
	OpSorted   = "sorted"
	OpWins     = "wins"
)

// AdhocQuery runs one engine operation with caller-chosen parameters. N is
// the row count for top_n and top, and the win count for wins.
type AdhocQuery struct {
	Table      string `json:"table" yaml:"table"`
	Op         string `json:"op" yaml:"op"`
	Column     string `json:"column,omitempty" yaml:"column,omitempty"`
	N          int    `json:"n,omitempty" yaml:"n,omitempty"`
	Descending bool   `json:"descending" yaml:"descending"`
}

// ParseOrder maps "asc"/"desc" (any case, empty = desc) to a direction.
func ParseOrder(s string) (descending bool, err error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "desc", "descending":
		return true, nil
	case "asc", "ascending":
		return false, nil
	}
	return false, fmt.Errorf("invalid order %q (want asc or desc)", s)
}

func (c *Catalogue) RunAdhoc(ctx context.Context, q AdhocQuery) (Result, error) {
	groups, teams, err := c.cache.Get(ctx)
	if err != nil {
		return Result{}, err
	}
	t, table, err := ResolveTable(groups, teams, q.Table)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Name:   q.Op,
		Title:  adhocTitle(q),
		Table:  table,
		Column: q.Column,
	}
	switch q.Op {
	case OpTopN:
		es, err := engine.TopNByColumn(t, q.Column, q.N, q.Descending)
		if err != nil {
			return Result{}, err
		}
		res.Kind, res.Entries = KindEntries, engine.Mark(es)
	case OpTop:
		es, err := engine.TopByColumn(t, q.Column, q.N)
		if err != nil {
			return Result{}, err
		}
		res.Kind, res.Entries = KindEntries, engine.Mark(es)
	case OpMax, OpMin:
		find := engine.MaxByColumnRows
		if q.Op == OpMin {
			find = engine.MinByColumnRows
		}
		x, err := find(t, q.Column)
		if err != nil {
			return Result{}, err
		}
		res.Kind, res.Extremum, res.Teams = KindExtremum, &x, x.Teams()
	case OpPositive:
		es, err := engine.FilterPositive(t, q.Column)
		if err != nil {
			return Result{}, err
		}
		res.Kind, res.Entries = KindEntries, engine.Mark(es)
	case OpRanked:
		r, err := engine.RankedList(t, q.Column, q.Descending)
		if err != nil {
			return Result{}, err
		}
		res.Kind, res.Ranked = KindRanked, r
	case OpSorted:
		es, err := engine.SortedByColumn(t, q.Column, q.Descending)
		if err != nil {
			return Result{}, err
		}
		res.Kind, res.Entries = KindEntries, engine.Mark(es, engine.IsMax(colorFocus), engine.IsMin(colorAlert))
	case OpWins:
		teams, err := engine.TeamsWithWinCount(t, q.N)
		if err != nil {
			return Result{}, err
		}
		res.Kind, res.Teams, res.Column = KindTeams, teams, engine.WinsColumn
	default:
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownOp, q.Op)
	}
	return res, nil
}

func adhocTitle(q AdhocQuery) string {
	switch q.Op {
	case OpTopN, OpTop:
		return fmt.Sprintf("%s %d by %s", q.Op, q.N, q.Column)
	case OpWins:
		return fmt.Sprintf("teams with %d wins", q.N)
	}
	return fmt.Sprintf("%s %s", q.Op, q.Column)
}

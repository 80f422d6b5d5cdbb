// Package summary names every statistic the dashboard shows and runs it
// against the cached tables. Each query picks one engine operation and its
// parameters; results come back as JSON/YAML ready values.
package summary

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/aatrey56/wc2022-eda/internal/dataset"
	"github.com/aatrey56/wc2022-eda/internal/engine"
)

var (
	ErrUnknownQuery = errors.New("unknown query")
	ErrUnknownTable = errors.New("unknown table")
	ErrUnknownOp    = errors.New("unknown operation")
)

// Table names accepted by queries and ad-hoc requests.
const (
	GroupStage = "group_stage"
	TeamStats  = "team_stats"
)

// Result kinds.
const (
	KindTeams      = "teams"
	KindExtremum   = "extremum"
	KindEntries    = "entries"
	KindRanked     = "ranked"
	KindQualifiers = "qualifiers"
	KindStandings  = "standings"
	KindSeries     = "series"
)

// Series is one column of a multi-column chart, rows in a shared team order.
type Series struct {
	Column  string         `json:"column" yaml:"column"`
	Entries []engine.Entry `json:"entries" yaml:"entries"`
}

type Result struct {
	Name       string                `json:"name" yaml:"name"`
	Title      string                `json:"title" yaml:"title"`
	Table      string                `json:"table" yaml:"table"`
	Column     string                `json:"column,omitempty" yaml:"column,omitempty"`
	Kind       string                `json:"kind" yaml:"kind"`
	Teams      []string              `json:"teams,omitempty" yaml:"teams,omitempty"`
	Extremum   *engine.Extremum      `json:"extremum,omitempty" yaml:"extremum,omitempty"`
	Entries    []engine.Marked       `json:"entries,omitempty" yaml:"entries,omitempty"`
	Ranked     []engine.RankedEntry  `json:"ranked,omitempty" yaml:"ranked,omitempty"`
	Qualifiers []engine.Qualifier    `json:"qualifiers,omitempty" yaml:"qualifiers,omitempty"`
	Standings  []engine.GroupRanking `json:"standings,omitempty" yaml:"standings,omitempty"`
	Series     []Series              `json:"series,omitempty" yaml:"series,omitempty"`
}

// Query is one named statistic.
type Query struct {
	Name   string `json:"name" yaml:"name"`
	Title  string `json:"title" yaml:"title"`
	Table  string `json:"table" yaml:"table"`
	Column string `json:"column,omitempty" yaml:"column,omitempty"`

	run func(groups *dataset.GroupStageTable, teams *dataset.TeamStatsTable) (Result, error)
}

// Catalogue runs named and ad-hoc queries over a dataset cache.
type Catalogue struct {
	cache   *dataset.Cache
	logger  *zap.Logger
	queries []Query
	index   map[string]int
}

func NewCatalogue(cache *dataset.Cache, logger *zap.Logger) *Catalogue {
	if logger == nil {
		logger = zap.NewNop()
	}
	qs := defaultQueries()
	index := make(map[string]int, len(qs))
	for i, q := range qs {
		index[q.Name] = i
	}
	return &Catalogue{cache: cache, logger: logger, queries: qs, index: index}
}

// Queries lists the catalogue in display order.
func (c *Catalogue) Queries() []Query {
	return append([]Query(nil), c.queries...)
}

func (c *Catalogue) Lookup(name string) (Query, bool) {
	i, ok := c.index[name]
	if !ok {
		return Query{}, false
	}
	return c.queries[i], true
}

// Tables returns the cached tables, loading them on first use.
func (c *Catalogue) Tables(ctx context.Context) (*dataset.GroupStageTable, *dataset.TeamStatsTable, error) {
	return c.cache.Get(ctx)
}

// Run executes the named query. An unknown name fails with ErrUnknownQuery
// before any data is loaded.
func (c *Catalogue) Run(ctx context.Context, name string) (Result, error) {
	q, ok := c.Lookup(name)
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownQuery, name)
	}
	groups, teams, err := c.cache.Get(ctx)
	if err != nil {
		return Result{}, err
	}
	return c.run(q, groups, teams)
}

func (c *Catalogue) run(q Query, groups *dataset.GroupStageTable, teams *dataset.TeamStatsTable) (Result, error) {
	start := time.Now()
	res, err := q.run(groups, teams)
	if err != nil {
		c.logger.Debug("query failed", zap.String("query", q.Name), zap.Error(err))
		return Result{}, fmt.Errorf("%s: %w", q.Name, err)
	}
	res.Name, res.Title, res.Table, res.Column = q.Name, q.Title, q.Table, q.Column
	c.logger.Debug("query ran",
		zap.String("query", q.Name),
		zap.String("kind", res.Kind),
		zap.Duration("elapsed", time.Since(start)))
	return res, nil
}

// ResolveTable maps a table name, or one of its source file names, to the
// loaded table.
func ResolveTable(groups *dataset.GroupStageTable, teams *dataset.TeamStatsTable, name string) (engine.Table, string, error) {
	switch name {
	case GroupStage, dataset.GroupStageTableName, "groups":
		return groups, GroupStage, nil
	case TeamStats, dataset.TeamStatsTableName, "teams":
		return teams, TeamStats, nil
	}
	return nil, "", fmt.Errorf("%w: %q (want %s or %s)", ErrUnknownTable, name, GroupStage, TeamStats)
}

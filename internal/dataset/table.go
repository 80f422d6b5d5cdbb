package dataset

import (
	"github.com/aatrey56/wc2022-eda/internal/engine"
)

// core is the shared, immutable storage behind both tables.
type core[R any] struct {
	rows    []R
	team    func(*R) string
	columns []string
	access  map[string]func(*R) float64
	byTeam  map[string]int
}

func newCore[R any](rows []R, team func(*R) string, fields []field[R], virt []derived[R], present []string) core[R] {
	have := make(map[string]bool, len(fields))
	if present == nil {
		for _, f := range fields {
			have[f.name] = true
		}
	} else {
		for _, name := range present {
			have[name] = true
		}
	}

	c := core[R]{
		rows:   append([]R(nil), rows...),
		team:   team,
		access: make(map[string]func(*R) float64),
		byTeam: make(map[string]int, len(rows)),
	}
	for _, f := range fields {
		if have[f.name] {
			c.columns = append(c.columns, f.name)
			c.access[f.name] = f.get
		}
	}
	for _, v := range virt {
		ok := true
		for _, n := range v.needs {
			ok = ok && have[n]
		}
		if ok {
			c.columns = append(c.columns, v.name)
			c.access[v.name] = v.get
		}
	}
	for i := range c.rows {
		c.byTeam[team(&c.rows[i])] = i
	}
	return c
}

func (c *core[R]) Len() int { return len(c.rows) }

func (c *core[R]) Team(i int) string { return c.team(&c.rows[i]) }

// Columns returns the numeric columns this table serves, derived ones last.
func (c *core[R]) Columns() []string {
	return append([]string(nil), c.columns...)
}

func (c *core[R]) Column(name string) (engine.Accessor, bool) {
	get, ok := c.access[name]
	if !ok {
		return nil, false
	}
	return func(i int) float64 { return get(&c.rows[i]) }, true
}

// Rows returns a copy of the rows in table order.
func (c *core[R]) Rows() []R {
	return append([]R(nil), c.rows...)
}

func (c *core[R]) Row(i int) R { return c.rows[i] }

// Lookup finds a row by team name.
func (c *core[R]) Lookup(team string) (R, bool) {
	i, ok := c.byTeam[team]
	if !ok {
		var zero R
		return zero, false
	}
	return c.rows[i], true
}

// Teams lists team names in table order.
func (c *core[R]) Teams() []string {
	out := make([]string, 0, len(c.rows))
	for i := range c.rows {
		out = append(out, c.team(&c.rows[i]))
	}
	return out
}

// GroupStageTable is the loaded group-stage table. It never changes after
// construction.
type GroupStageTable struct {
	core[GroupStageRow]
}

// NewGroupStageTable builds a table over rows. present names the numeric
// columns the source carried; nil means all of them.
func NewGroupStageTable(rows []GroupStageRow, present []string) *GroupStageTable {
	return &GroupStageTable{
		core: newCore(rows, func(r *GroupStageRow) string { return r.Team }, groupStageFields, groupStageDerived, present),
	}
}

func (t *GroupStageTable) Group(i int) string { return t.rows[i].Group }

// Groups lists the distinct group letters in first-seen order.
func (t *GroupStageTable) Groups() []string {
	seen := make(map[string]bool)
	out := make([]string, 0, 8)
	for _, r := range t.rows {
		if !seen[r.Group] {
			seen[r.Group] = true
			out = append(out, r.Group)
		}
	}
	return out
}

// TeamStatsTable is the loaded tournament-statistics table. It never changes
// after construction.
type TeamStatsTable struct {
	core[TeamStatsRow]
}

// NewTeamStatsTable builds a table over rows. present names the numeric
// columns the source carried; nil means all of them.
func NewTeamStatsTable(rows []TeamStatsRow, present []string) *TeamStatsTable {
	return &TeamStatsTable{
		core: newCore(rows, func(r *TeamStatsRow) string { return r.Team }, teamStatsFields, teamStatsDerived, present),
	}
}

var (
	_ engine.Grouped = (*GroupStageTable)(nil)
	_ engine.Table   = (*TeamStatsTable)(nil)
)

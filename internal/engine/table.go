// Package engine computes the aggregate queries behind every statistic the
// dashboard shows: extremum lookups, filtered subsets, top-N rankings and the
// per-group top-2 selection.
//
// Every function is a pure read over an immutable Table. Nothing is cached
// between calls, so the functions are safe to call from many goroutines at
// once.
package engine

import "sort"

// Accessor returns the numeric value of one column for row i.
type Accessor func(i int) float64

// Table is a read-only, row-ordered view over one dataset.
type Table interface {
	Len() int
	Team(i int) string
	// Columns lists the numeric columns the table can serve, in source order.
	Columns() []string
	Column(name string) (Accessor, bool)
}

// Grouped is a Table whose rows belong to lettered groups.
type Grouped interface {
	Table
	Group(i int) string
}

// Entry is one (team, value) pair of a result set.
type Entry struct {
	Team  string  `json:"team" yaml:"team"`
	Value float64 `json:"value" yaml:"value"`
}

// RankedEntry is an Entry with its 1-based position in a ranked list.
type RankedEntry struct {
	Rank  int     `json:"rank" yaml:"rank"`
	Team  string  `json:"team" yaml:"team"`
	Value float64 `json:"value" yaml:"value"`
}

// Extremum holds every row that shares the extreme value of a column.
type Extremum struct {
	Column string  `json:"column" yaml:"column"`
	Value  float64 `json:"value" yaml:"value"`
	Rows   []Entry `json:"rows" yaml:"rows"`
}

// Teams returns the team names of the extremum rows.
func (x Extremum) Teams() []string {
	return teamsOf(x.Rows)
}

// Columns the group-stage queries rely on.
const (
	WinsColumn   = "wins"
	PointsColumn = "points"
)

func column(t Table, name string) (Accessor, error) {
	get, ok := t.Column(name)
	if !ok {
		return nil, &ColumnNotFoundError{Column: name, Available: t.Columns()}
	}
	return get, nil
}

// entries materialises a column in table order.
func entries(t Table, get Accessor) []Entry {
	out := make([]Entry, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		out = append(out, Entry{Team: t.Team(i), Value: get(i)})
	}
	return out
}

// sortEntries orders entries by value; equal values keep their input order.
func sortEntries(es []Entry, descending bool) {
	sort.SliceStable(es, func(i, j int) bool {
		if descending {
			return es[i].Value > es[j].Value
		}
		return es[i].Value < es[j].Value
	})
}

func teamsOf(es []Entry) []string {
	out := make([]string, 0, len(es))
	for _, e := range es {
		out = append(out, e.Team)
	}
	return out
}

package engine

import "sort"

// Qualifier is a team that finished in the top two of its group.
type Qualifier struct {
	Group  string `json:"group" yaml:"group"`
	Pos    int    `json:"pos" yaml:"pos"`
	Team   string `json:"team" yaml:"team"`
	Points int    `json:"points" yaml:"points"`
}

// GroupRanking is one group's table ordered by points.
type GroupRanking struct {
	Group string        `json:"group" yaml:"group"`
	Rows  []RankedEntry `json:"rows" yaml:"rows"`
}

// QualifiersPerGroup returns the top two teams of every group by points,
// groups in ascending order. Teams level on points keep the order they have in
// the table: no goal-difference or head-to-head rules are applied.
func QualifiersPerGroup(t Grouped) ([]Qualifier, error) {
	rankings, err := GroupStandings(t)
	if err != nil {
		return nil, err
	}
	out := make([]Qualifier, 0, 2*len(rankings))
	for _, g := range rankings {
		for _, r := range g.Rows {
			if r.Rank > 2 {
				break
			}
			out = append(out, Qualifier{
				Group:  g.Group,
				Pos:    r.Rank,
				Team:   r.Team,
				Points: int(r.Value),
			})
		}
	}
	return out, nil
}

// GroupStandings returns every group's full table, points descending. Rank is
// the position inside the group; level teams keep table order.
func GroupStandings(t Grouped) ([]GroupRanking, error) {
	points, err := column(t, PointsColumn)
	if err != nil {
		return nil, err
	}

	idx := make([]int, t.Len())
	for i := range idx {
		idx[i] = i
	}
	// Group ASC -> Points DESC, stable on table order.
	sort.SliceStable(idx, func(a, b int) bool {
		ga, gb := t.Group(idx[a]), t.Group(idx[b])
		if ga != gb {
			return ga < gb
		}
		return points(idx[a]) > points(idx[b])
	})

	out := make([]GroupRanking, 0, 8)
	for _, i := range idx {
		g := t.Group(i)
		if len(out) == 0 || out[len(out)-1].Group != g {
			out = append(out, GroupRanking{Group: g})
		}
		cur := &out[len(out)-1]
		cur.Rows = append(cur.Rows, RankedEntry{
			Rank:  len(cur.Rows) + 1,
			Team:  t.Team(i),
			Value: points(i),
		})
	}
	return out, nil
}

// GroupStanding returns the table of a single group.
func GroupStanding(t Grouped, group string) (GroupRanking, bool, error) {
	all, err := GroupStandings(t)
	if err != nil {
		return GroupRanking{}, false, err
	}
	for _, g := range all {
		if g.Group == group {
			return g, true, nil
		}
	}
	return GroupRanking{}, false, nil
}

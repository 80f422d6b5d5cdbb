package engine

// DefaultColor is assigned to entries that no highlight rule matches.
const DefaultColor = "default"

// Rule picks entries to highlight by what they are, never by where they sit
// in a sorted list.
type Rule struct {
	Name  string `json:"name" yaml:"name"`
	Color string `json:"color" yaml:"color"`
	match func(e Entry, all []Entry) bool
}

// Marked is an entry with the color its highlight rule assigned.
type Marked struct {
	Entry `yaml:",inline"`
	Color string `json:"color" yaml:"color"`
}

// TeamIs highlights the entry for one team.
func TeamIs(team, color string) Rule {
	return Rule{
		Name:  "team == " + team,
		Color: color,
		match: func(e Entry, _ []Entry) bool { return e.Team == team },
	}
}

// IsMax highlights every entry holding the largest value.
func IsMax(color string) Rule {
	return Rule{
		Name:  "max",
		Color: color,
		match: func(e Entry, all []Entry) bool { return e.Value == maxValue(all) },
	}
}

// IsMin highlights every entry holding the smallest value.
func IsMin(color string) Rule {
	return Rule{
		Name:  "min",
		Color: color,
		match: func(e Entry, all []Entry) bool { return e.Value == minValue(all) },
	}
}

// Otherwise matches every entry. Put it last to replace DefaultColor.
func Otherwise(color string) Rule {
	return Rule{
		Name:  "otherwise",
		Color: color,
		match: func(Entry, []Entry) bool { return true },
	}
}

// Mark colors entries with the first rule that matches each one.
func Mark(es []Entry, rules ...Rule) []Marked {
	out := make([]Marked, 0, len(es))
	for _, e := range es {
		color := DefaultColor
		for _, r := range rules {
			if r.match != nil && r.match(e, es) {
				color = r.Color
				break
			}
		}
		out = append(out, Marked{Entry: e, Color: color})
	}
	return out
}

func maxValue(es []Entry) float64 {
	m := es[0].Value
	for _, e := range es[1:] {
		if e.Value > m {
			m = e.Value
		}
	}
	return m
}

func minValue(es []Entry) float64 {
	m := es[0].Value
	for _, e := range es[1:] {
		if e.Value < m {
			m = e.Value
		}
	}
	return m
}

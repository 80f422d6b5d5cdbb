package engine

import "math"

// TeamsWithWinCount returns, in table order, the teams whose wins equal n.
func TeamsWithWinCount(t Table, n int) ([]string, error) {
	wins, err := column(t, WinsColumn)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0)
	for i := 0; i < t.Len(); i++ {
		if wins(i) == float64(n) {
			out = append(out, t.Team(i))
		}
	}
	return out, nil
}

// TeamsWithZeroWins returns the teams that did not win a match.
func TeamsWithZeroWins(t Table) ([]string, error) {
	return TeamsWithWinCount(t, 0)
}

// MaxByColumnRows returns every row sharing the largest value of column,
// in table order.
func MaxByColumnRows(t Table, col string) (Extremum, error) {
	return extremum(t, col, "max", func(v, best float64) bool { return v > best })
}

// MinByColumnRows returns every row sharing the smallest value of column,
// in table order.
func MinByColumnRows(t Table, col string) (Extremum, error) {
	return extremum(t, col, "min", func(v, best float64) bool { return v < best })
}

func extremum(t Table, col string, op string, better func(v, best float64) bool) (Extremum, error) {
	get, err := column(t, col)
	if err != nil {
		return Extremum{}, err
	}
	if t.Len() == 0 {
		return Extremum{}, &EmptyTableError{Op: op + "(" + col + ")"}
	}

	best := get(0)
	for i := 1; i < t.Len(); i++ {
		if v := get(i); better(v, best) {
			best = v
		}
	}

	rows := make([]Entry, 0, 1)
	for i := 0; i < t.Len(); i++ {
		if get(i) == best {
			rows = append(rows, Entry{Team: t.Team(i), Value: best})
		}
	}
	return Extremum{Column: col, Value: best, Rows: rows}, nil
}

// TopByColumn returns the k rows with the largest values of column. Rows tied
// with the k-th value are all included, so the result may be longer than k.
func TopByColumn(t Table, col string, k int) ([]Entry, error) {
	get, err := column(t, col)
	if err != nil {
		return nil, err
	}
	if t.Len() == 0 {
		return nil, &EmptyTableError{Op: "top(" + col + ")"}
	}
	if k <= 0 {
		return []Entry{}, nil
	}

	es := entries(t, get)
	sortEntries(es, true)
	if k >= len(es) {
		return es, nil
	}
	cut := k
	for cut < len(es) && es[cut].Value == es[k-1].Value {
		cut++
	}
	return es[:cut], nil
}

// TopNByColumn returns the first n rows of the table sorted by column in the
// requested direction. Ties keep table order.
func TopNByColumn(t Table, col string, n int, descending bool) ([]Entry, error) {
	get, err := column(t, col)
	if err != nil {
		return nil, err
	}
	if t.Len() == 0 {
		return nil, &EmptyTableError{Op: "top_n(" + col + ")"}
	}
	if n <= 0 {
		return []Entry{}, nil
	}

	es := entries(t, get)
	sortEntries(es, descending)
	if n < len(es) {
		es = es[:n]
	}
	return es, nil
}

// SortedByColumn returns the whole table ordered by column.
func SortedByColumn(t Table, col string, descending bool) ([]Entry, error) {
	get, err := column(t, col)
	if err != nil {
		return nil, err
	}
	es := entries(t, get)
	sortEntries(es, descending)
	return es, nil
}

// FilterPositive returns the rows whose column value is above zero, largest
// first. Zero and negative rows are dropped.
func FilterPositive(t Table, col string) ([]Entry, error) {
	get, err := column(t, col)
	if err != nil {
		return nil, err
	}
	out := make([]Entry, 0)
	for i := 0; i < t.Len(); i++ {
		if v := get(i); v > 0 && !math.IsNaN(v) {
			out = append(out, Entry{Team: t.Team(i), Value: v})
		}
	}
	sortEntries(out, true)
	return out, nil
}

// RankedList ranks the rows with a positive column value. Rank is the 1-based
// position after sorting; tied values still get consecutive ranks.
func RankedList(t Table, col string, descending bool) ([]RankedEntry, error) {
	es, err := FilterPositive(t, col)
	if err != nil {
		return nil, err
	}
	if !descending {
		sortEntries(es, false)
	}
	out := make([]RankedEntry, 0, len(es))
	for i, e := range es {
		out = append(out, RankedEntry{Rank: i + 1, Team: e.Team, Value: e.Value})
	}
	return out, nil
}

package engine

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestQualifiersPerGroup_SingleGroup(t *testing.T) {
	tbl := newMemTable([]string{"Qatar", "Netherlands", "Ecuador", "Senegal"}).
		with("points", 0, 9, 3, 6).
		inGroups("A", "A", "A", "A")

	got, err := QualifiersPerGroup(tbl)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Qualifier{
		{Group: "A", Pos: 1, Team: "Netherlands", Points: 9},
		{Group: "A", Pos: 2, Team: "Senegal", Points: 6},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("qualifiers mismatch (-want +got):\n%s", diff)
	}
}

func TestQualifiersPerGroup_FullTournament(t *testing.T) {
	letters := "ABCDEFGH"
	var teams, groups []string
	var points []float64
	// Interleave groups so the engine has to partition, not slice.
	for slot := 0; slot < 4; slot++ {
		for g := len(letters) - 1; g >= 0; g-- {
			teams = append(teams, fmt.Sprintf("%c%d", letters[g], slot))
			groups = append(groups, string(letters[g]))
			points = append(points, float64(9-3*slot))
		}
	}
	tbl := newMemTable(teams).with("points", points...).inGroups(groups...)

	got, err := QualifiersPerGroup(tbl)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 16 {
		t.Fatalf("want 16 qualifiers, got %d", len(got))
	}
	perGroup := make(map[string]int)
	for i, q := range got {
		perGroup[q.Group]++
		if want := string(letters[i/2]); q.Group != want {
			t.Errorf("row %d: want group %s, got %s", i, want, q.Group)
		}
	}
	for _, g := range letters {
		if perGroup[string(g)] != 2 {
			t.Errorf("group %c: want 2 qualifiers, got %d", g, perGroup[string(g)])
		}
	}
	if got[0].Team != "A0" || got[1].Team != "A1" {
		t.Errorf("group A: want A0, A1; got %s, %s", got[0].Team, got[1].Team)
	}
}

func TestQualifiersPerGroup_TieKeepsTableOrder(t *testing.T) {
	// Goal difference would favour Mexico; ties keep table order instead.
	tbl := newMemTable([]string{"Argentina", "Poland", "Mexico", "Saudi Arabia"}).
		with("points", 6, 4, 4, 3).
		inGroups("C", "C", "C", "C")

	got, err := QualifiersPerGroup(tbl)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[1].Team != "Poland" {
		t.Errorf("tie-break: want Poland second (table order), got %s", got[1].Team)
	}
}

func TestQualifiersPerGroup_SmallGroup(t *testing.T) {
	tbl := newMemTable([]string{"Solo"}).with("points", 3).inGroups("B")
	got, err := QualifiersPerGroup(tbl)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Team != "Solo" {
		t.Errorf("want only Solo, got %v", got)
	}
}

func TestQualifiersPerGroup_MissingPoints(t *testing.T) {
	tbl := newMemTable([]string{"X"}).with("wins", 1).inGroups("A")
	if _, err := QualifiersPerGroup(tbl); !errors.Is(err, ErrColumnNotFound) {
		t.Errorf("want ErrColumnNotFound, got %v", err)
	}
}

func TestGroupStanding(t *testing.T) {
	tbl := newMemTable([]string{"England", "Iran", "USA", "Wales", "France"}).
		with("points", 7, 3, 5, 1, 6).
		inGroups("B", "B", "B", "B", "D")

	g, ok, err := GroupStanding(tbl, "B")
	if err != nil || !ok {
		t.Fatalf("group B: ok=%v err=%v", ok, err)
	}
	want := []RankedEntry{
		{Rank: 1, Team: "England", Value: 7},
		{Rank: 2, Team: "USA", Value: 5},
		{Rank: 3, Team: "Iran", Value: 3},
		{Rank: 4, Team: "Wales", Value: 1},
	}
	if diff := cmp.Diff(want, g.Rows); diff != "" {
		t.Errorf("group B mismatch (-want +got):\n%s", diff)
	}

	if _, ok, _ := GroupStanding(tbl, "H"); ok {
		t.Error("group H should not exist")
	}
}

func TestMark(t *testing.T) {
	es := []Entry{{"Wales", 18}, {"Spain", 24}, {"Brazil", 26}}
	got := Mark(es, TeamIs("Spain", "blue"), IsMax("red"))
	want := []string{DefaultColor, "blue", "red"}
	for i, m := range got {
		if m.Color != want[i] {
			t.Errorf("%s: want %s, got %s", m.Team, want[i], m.Color)
		}
	}

	// Highlight follows the team, not the slot.
	rev := []Entry{es[2], es[1], es[0]}
	for _, m := range Mark(rev, TeamIs("Spain", "blue")) {
		if (m.Team == "Spain") != (m.Color == "blue") {
			t.Errorf("%s colored %s after reorder", m.Team, m.Color)
		}
	}

	low := Mark(es, IsMin("green"))
	if low[0].Color != "green" || low[1].Color != DefaultColor {
		t.Errorf("IsMin: got %v", low)
	}

	base := Mark(es, IsMax("blue"), Otherwise("green"))
	if base[0].Color != "green" || base[2].Color != "blue" {
		t.Errorf("Otherwise: got %v", base)
	}
	if len(Mark(nil, IsMax("blue"))) != 0 {
		t.Error("marking nothing should return nothing")
	}
}
